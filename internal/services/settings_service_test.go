package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"projectarchitect/internal/models"
	"projectarchitect/internal/tests/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func newSettingsFixture(t *testing.T, stored *models.AppSettings, env map[string]string) *SettingsService {
	t.Helper()
	keyring.MockInit()
	repo := &mocks.AppSettingsRepositoryMock{}
	if stored != nil {
		repo.GetFunc = func(context.Context) (*models.AppSettings, error) {
			copied := *stored
			return &copied, nil
		}
	}
	svc := NewSettingsService(repo, NewKeyringService(t.TempDir()), zerolog.Nop())
	svc.getenv = func(k string) string { return env[k] }
	return svc
}

func TestResolve_Defaults(t *testing.T) {
	svc := newSettingsFixture(t, nil, nil)

	got, err := svc.Resolve(context.Background(), models.Settings{})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProvider, got.Provider)
	assert.Equal(t, models.DefaultModel, got.Model)
	assert.Equal(t, models.DefaultLocale, got.Locale)
	assert.Empty(t, got.APIKey)
}

func TestResolve_Precedence(t *testing.T) {
	stored := &models.AppSettings{Provider: "openai", Model: "stored-model", BaseURL: "http://stored", Locale: "en"}
	env := map[string]string{
		EnvModel:        "env-model",
		EnvAPIKey:       "env-key",
		EnvOpenAIAPIKey: "openai-key",
	}
	svc := newSettingsFixture(t, stored, env)

	got, err := svc.Resolve(context.Background(), models.Settings{BaseURL: "http://flag"})
	require.NoError(t, err)
	assert.Equal(t, "http://flag", got.BaseURL)
	assert.Equal(t, "env-model", got.Model)
	assert.Equal(t, "en", got.Locale)
	assert.Equal(t, "env-key", got.APIKey)

	got, err = svc.Resolve(context.Background(), models.Settings{APIKey: "flag-key"})
	require.NoError(t, err)
	assert.Equal(t, "flag-key", got.APIKey)
}

func TestResolve_OpenAIKeyOnlyForOpenAI(t *testing.T) {
	env := map[string]string{EnvOpenAIAPIKey: "openai-key"}
	svc := newSettingsFixture(t, nil, env)

	got, err := svc.Resolve(context.Background(), models.Settings{})
	require.NoError(t, err)
	assert.Equal(t, "openai-key", got.APIKey)

	got, err = svc.Resolve(context.Background(), models.Settings{Provider: "Anthropic"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", got.Provider)
	assert.Empty(t, got.APIKey)
}

func TestResolve_FallsBackToKeyring(t *testing.T) {
	svc := newSettingsFixture(t, nil, nil)
	require.NoError(t, svc.StoreAPIKey("", " sk-from-keyring "))

	got, err := svc.Resolve(context.Background(), models.Settings{})
	require.NoError(t, err)
	assert.Equal(t, "sk-from-keyring", got.APIKey)
}

func TestResolve_StoreError(t *testing.T) {
	keyring.MockInit()
	repo := &mocks.AppSettingsRepositoryMock{GetFunc: func(context.Context) (*models.AppSettings, error) {
		return nil, errors.New("database error")
	}}
	svc := NewSettingsService(repo, nil, zerolog.Nop())
	svc.getenv = func(string) string { return "" }

	_, err := svc.Resolve(context.Background(), models.Settings{})
	assert.ErrorContains(t, err, "database error")
}

func TestUpdate(t *testing.T) {
	var saved *models.AppSettings
	repo := &mocks.AppSettingsRepositoryMock{UpdateFunc: func(_ context.Context, s *models.AppSettings) error {
		saved = s
		return nil
	}}
	svc := NewSettingsService(repo, nil, zerolog.Nop())

	got, err := svc.Update(context.Background(), "model", " gpt-4o-mini ")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	require.NotNil(t, saved)
	assert.Equal(t, "gpt-4o-mini", saved.Model)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err = svc.Update(context.Background(), SettingProvider, "OpenAI")
	require.NoError(t, err)
	assert.Equal(t, "openai", got.Provider)

	_, err = svc.Update(context.Background(), SettingLocale, "fr")
	assert.Error(t, err)
	_, err = svc.Update(context.Background(), SettingProvider, "")
	assert.Error(t, err)
	_, err = svc.Update(context.Background(), "theme", "dark")
	assert.Error(t, err)
}

func TestUpdate_WarnsOnUnknownModel(t *testing.T) {
	var buf bytes.Buffer
	svc := NewSettingsService(&mocks.AppSettingsRepositoryMock{}, nil, zerolog.New(&buf))
	catalog, err := NewModelCatalog()
	require.NoError(t, err)
	svc.UseCatalog(catalog)

	_, err = svc.Update(context.Background(), SettingModel, "gpt-4o-mini")
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	_, err = svc.Update(context.Background(), SettingModel, "llama3")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "model is not in the catalog")
}
