package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"projectarchitect/internal/models"
	"projectarchitect/internal/repositories"

	"github.com/rs/zerolog"
)

// Environment variables consulted after command-line flags.
const (
	EnvAPIKey       = "ARCHITECT_API_KEY"
	EnvProvider     = "ARCHITECT_PROVIDER"
	EnvModel        = "ARCHITECT_MODEL"
	EnvBaseURL      = "ARCHITECT_BASE_URL"
	EnvLocale       = "ARCHITECT_LOCALE"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// Setting keys accepted by Update.
const (
	SettingProvider = "provider"
	SettingModel    = "model"
	SettingBaseURL  = "base-url"
	SettingLocale   = "locale"
)

// SettingsService resolves the Settings passed into each flow. Sources are
// consulted in order: explicit overrides, environment, persisted
// AppSettings, then built-in defaults. The API key falls back to the OS
// keyring instead of AppSettings.
type SettingsService struct {
	appSettings repositories.AppSettingsRepository
	keys        *KeyringService
	catalog     *ModelCatalog
	getenv      func(string) string
	logger      zerolog.Logger
}

func NewSettingsService(appSettings repositories.AppSettingsRepository, keys *KeyringService, logger zerolog.Logger) *SettingsService {
	return &SettingsService{
		appSettings: appSettings,
		keys:        keys,
		getenv:      os.Getenv,
		logger:      logger,
	}
}

// UseCatalog enables unknown-model warnings in Update.
func (s *SettingsService) UseCatalog(catalog *ModelCatalog) {
	s.catalog = catalog
}

// Resolve fills every empty field of overrides from the remaining sources.
func (s *SettingsService) Resolve(ctx context.Context, overrides models.Settings) (models.Settings, error) {
	out := overrides
	fill := func(dst *string, values ...string) {
		for _, v := range values {
			if *dst != "" {
				return
			}
			*dst = strings.TrimSpace(v)
		}
	}

	fill(&out.Provider, s.getenv(EnvProvider))
	fill(&out.Model, s.getenv(EnvModel))
	fill(&out.BaseURL, s.getenv(EnvBaseURL))
	fill(&out.Locale, s.getenv(EnvLocale))

	if s.appSettings != nil {
		stored, err := s.appSettings.Get(ctx)
		if err != nil {
			return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
		}
		fill(&out.Provider, stored.Provider)
		fill(&out.Model, stored.Model)
		fill(&out.BaseURL, stored.BaseURL)
		fill(&out.Locale, stored.Locale)
	}

	fill(&out.Provider, models.DefaultProvider)
	fill(&out.Model, models.DefaultModel)
	fill(&out.Locale, models.DefaultLocale)
	out.Provider = strings.ToLower(out.Provider)

	fill(&out.APIKey, s.getenv(EnvAPIKey))
	if out.Provider == models.DefaultProvider {
		fill(&out.APIKey, s.getenv(EnvOpenAIAPIKey))
	}
	if out.APIKey == "" && s.keys != nil {
		key, err := s.keys.Lookup(out.Provider)
		switch {
		case err == nil:
			out.APIKey = key
		case errors.Is(err, ErrNoStoredKey):
		default:
			s.logger.Debug().Err(err).Str("provider", out.Provider).Msg("keyring lookup failed")
		}
	}

	s.logger.Debug().Interface("settings", out.Redacted()).Msg("settings resolved")
	return out, nil
}

// Get returns the persisted settings.
func (s *SettingsService) Get(ctx context.Context) (*models.AppSettings, error) {
	if s.appSettings == nil {
		return nil, errors.New("settings store is not configured")
	}
	return s.appSettings.Get(ctx)
}

// Update persists one setting.
func (s *SettingsService) Update(ctx context.Context, key, value string) (*models.AppSettings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	value = strings.TrimSpace(value)

	switch strings.ToLower(key) {
	case SettingProvider:
		if value == "" {
			return nil, errors.New("provider is required")
		}
		current.Provider = strings.ToLower(value)
	case SettingModel:
		current.Model = value
		if s.catalog != nil && value != "" {
			if _, ok := s.catalog.Lookup(current.Provider, value); !ok {
				s.logger.Warn().Str("provider", current.Provider).Str("model", value).Msg("model is not in the catalog")
			}
		}
	case SettingBaseURL:
		current.BaseURL = value
	case SettingLocale:
		if value != "pt" && value != "en" {
			return nil, errors.New("locale must be 'pt' or 'en'")
		}
		current.Locale = value
	default:
		return nil, fmt.Errorf("unknown setting %q", key)
	}
	current.UpdatedAt = time.Now()

	if err := s.appSettings.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// StoreAPIKey saves key for provider in the OS keyring.
func (s *SettingsService) StoreAPIKey(provider, key string) error {
	if s.keys == nil {
		return errors.New("keyring is not configured")
	}
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = models.DefaultProvider
	}
	return s.keys.Store(provider, strings.TrimSpace(key))
}
