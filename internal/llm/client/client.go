package client

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"projectarchitect/internal/models"
)

const ProviderOpenAI = "openai"

// Provider is the gateway capability every LLM vendor implements.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, systemRole, userPrompt string) (string, error)
}

// Factory builds a provider from the invocation settings.
type Factory func(settings models.Settings) (Provider, error)

var factories = map[string]Factory{
	ProviderOpenAI: func(settings models.Settings) (Provider, error) {
		return NewOpenAIClient(OpenAIOptions{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
			Timeout: settings.Timeout,
		})
	},
}

// NewProvider resolves settings.Provider to an implementation. Unknown
// identifiers fail with UnsupportedProviderError and no I/O.
func NewProvider(settings models.Settings) (Provider, error) {
	id := strings.ToLower(strings.TrimSpace(settings.Provider))
	if id == "" {
		id = models.DefaultProvider
	}
	factory, ok := factories[id]
	if !ok {
		return nil, &UnsupportedProviderError{Provider: settings.Provider}
	}
	p, err := factory(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", id, err)
	}
	return p, nil
}

// SupportedProviders returns the registered provider identifiers.
func SupportedProviders() []string {
	out := make([]string, 0, len(factories))
	for id := range factories {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
