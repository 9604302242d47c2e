package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"
	goopenai "github.com/meguminnnnnnnnn/go-openai"

	"projectarchitect/internal/models"
)

const defaultTimeout = 5 * time.Minute

type OpenAIOptions struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration

	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
}

// OpenAIClient talks to an OpenAI-compatible chat-completions endpoint.
// Each Generate call is a single round trip: no retries, streaming or caching.
type OpenAIClient struct {
	chat        *openai.ChatModel
	model       string
	temperature float64
	maxTokens   int
}

func NewOpenAIClient(opts OpenAIOptions) (*OpenAIClient, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, errors.New("api key is required")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = models.DefaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	o := &OpenAIClient{
		model:       model,
		temperature: models.DefaultTemperature,
		maxTokens:   models.DefaultMaxTokens,
	}
	temperature := float32(o.temperature)
	maxTokens := o.maxTokens
	chat, err := openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
		APIKey:      key,
		BaseURL:     strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		Model:       model,
		Timeout:     timeout,
		HTTPClient:  opts.HTTPClient,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	o.chat = chat
	return o, nil
}

func (o *OpenAIClient) Name() string {
	return ProviderOpenAI
}

// Model returns the model identifier sent with every request.
func (o *OpenAIClient) Model() string {
	return o.model
}

// Request describes the call Generate will make, without sending it.
func (o *OpenAIClient) Request(systemRole, userPrompt string) models.LLMRequest {
	return models.LLMRequest{
		Provider:    ProviderOpenAI,
		Model:       o.model,
		SystemRole:  systemRole,
		UserPrompt:  userPrompt,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
	}
}

func (o *OpenAIClient) Generate(ctx context.Context, systemRole, userPrompt string) (string, error) {
	reply, err := o.chat.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemRole),
		schema.UserMessage(userPrompt),
	})
	if err != nil {
		return "", toNetworkError(err)
	}
	return reply.Content, nil
}

// toNetworkError keeps the provider's error.message when the failure body
// carried one and "Unknown error" when it did not.
func toNetworkError(err error) error {
	out := &NetworkError{Provider: ProviderOpenAI, Message: err.Error(), Err: err}

	var apiErr *goopenai.APIError
	hasMessage := errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != ""

	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &reqErr):
		out.StatusCode = reqErr.HTTPStatusCode
		out.Message = "Unknown error"
		if hasMessage {
			out.Message = apiErr.Message
		}
	case apiErr != nil:
		out.StatusCode = apiErr.HTTPStatusCode
		out.Message = "Unknown error"
		if hasMessage {
			out.Message = apiErr.Message
		}
	}
	return out
}
