package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"projectarchitect/internal/models"
)

type GenerationRunRepository interface {
	Create(ctx context.Context, run *models.GenerationRun) error
	List(ctx context.Context, flow string, limit int) ([]models.GenerationRun, error)
	GetByRunID(ctx context.Context, runID string) (*models.GenerationRun, error)
}

type generationRunRepository struct {
	db *gorm.DB
}

func NewGenerationRunRepository(db *gorm.DB) GenerationRunRepository {
	return &generationRunRepository{db: db}
}

func (r *generationRunRepository) Create(ctx context.Context, run *models.GenerationRun) error {
	if run == nil {
		return fmt.Errorf("run is required")
	}
	if run.Flow == "" {
		return fmt.Errorf("flow is required")
	}
	return r.db.WithContext(ctx).Create(run).Error
}

// List returns the most recent runs first. An empty flow lists every flow.
func (r *generationRunRepository) List(ctx context.Context, flow string, limit int) ([]models.GenerationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	q := r.db.WithContext(ctx).Order("created_at desc, id desc").Limit(limit)
	if flow != "" {
		q = q.Where("flow = ?", flow)
	}
	var runs []models.GenerationRun
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// GetByRunID returns nil without error when no run matches.
func (r *generationRunRepository) GetByRunID(ctx context.Context, runID string) (*models.GenerationRun, error) {
	var runs []models.GenerationRun
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).Limit(1).Find(&runs).Error; err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
