package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"projectarchitect/internal/models"
)

// settingsRow is the primary key of the only app_settings row.
const settingsRow = 1

type AppSettingsRepository interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	Update(ctx context.Context, settings *models.AppSettings) error
}

type appSettingsRepository struct {
	db *gorm.DB
}

func NewAppSettingsRepository(db *gorm.DB) AppSettingsRepository {
	return &appSettingsRepository{db: db}
}

func defaultAppSettings() models.AppSettings {
	return models.AppSettings{
		ID:       settingsRow,
		Version:  1,
		Provider: models.DefaultProvider,
		Locale:   models.DefaultLocale,
	}
}

// Get returns the settings row, seeding it with defaults on first use.
func (r *appSettingsRepository) Get(ctx context.Context) (*models.AppSettings, error) {
	settings := defaultAppSettings()
	err := r.db.WithContext(ctx).
		Where(models.AppSettings{ID: settingsRow}).
		Attrs(defaultAppSettings()).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &settings, nil
}

// Update writes settings over the single row, whatever ID the caller set.
func (r *appSettingsRepository) Update(ctx context.Context, settings *models.AppSettings) error {
	if settings == nil {
		return errors.New("settings are required")
	}
	settings.ID = settingsRow
	if settings.Version == 0 {
		settings.Version = 1
	}
	if settings.UpdatedAt.IsZero() {
		settings.UpdatedAt = time.Now().UTC()
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "provider", "model", "base_url", "locale", "updated_at"}),
	}).Create(settings).Error
}
