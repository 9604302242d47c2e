package mocks

import (
	"context"
	"sync"

	"projectarchitect/internal/models"
)

// GenerationRunRepositoryMock keeps created runs in memory unless a Func
// override is set.
type GenerationRunRepositoryMock struct {
	CreateFunc     func(ctx context.Context, run *models.GenerationRun) error
	ListFunc       func(ctx context.Context, flow string, limit int) ([]models.GenerationRun, error)
	GetByRunIDFunc func(ctx context.Context, runID string) (*models.GenerationRun, error)

	mu   sync.Mutex
	Runs []models.GenerationRun
}

func (m *GenerationRunRepositoryMock) Create(ctx context.Context, run *models.GenerationRun) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, run)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Runs = append(m.Runs, *run)
	return nil
}

func (m *GenerationRunRepositoryMock) List(ctx context.Context, flow string, limit int) ([]models.GenerationRun, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, flow, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.GenerationRun
	for i := len(m.Runs) - 1; i >= 0; i-- {
		if flow == "" || m.Runs[i].Flow == flow {
			out = append(out, m.Runs[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *GenerationRunRepositoryMock) GetByRunID(ctx context.Context, runID string) (*models.GenerationRun, error) {
	if m.GetByRunIDFunc != nil {
		return m.GetByRunIDFunc(ctx, runID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Runs {
		if m.Runs[i].RunID == runID {
			run := m.Runs[i]
			return &run, nil
		}
	}
	return nil, nil
}
