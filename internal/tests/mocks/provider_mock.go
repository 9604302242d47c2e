package mocks

import (
	"context"
	"sync"
)

// ProviderCall records one Generate invocation.
type ProviderCall struct {
	SystemRole string
	UserPrompt string
}

// ProviderMock is an LLM provider that answers with Reply, or with
// GenerateFunc when set.
type ProviderMock struct {
	NameValue    string
	ModelValue   string
	Reply        string
	GenerateFunc func(ctx context.Context, systemRole, userPrompt string) (string, error)

	mu    sync.Mutex
	Calls []ProviderCall
}

func (m *ProviderMock) Name() string {
	if m.NameValue == "" {
		return "openai"
	}
	return m.NameValue
}

func (m *ProviderMock) Model() string {
	if m.ModelValue == "" {
		return "gpt-4o"
	}
	return m.ModelValue
}

func (m *ProviderMock) Generate(ctx context.Context, systemRole, userPrompt string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, ProviderCall{SystemRole: systemRole, UserPrompt: userPrompt})
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, systemRole, userPrompt)
	}
	return m.Reply, nil
}

// CallCount is safe to use while calls are in flight.
func (m *ProviderMock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
