package models

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 8000
)

// LLMRequest is a single provider call.
type LLMRequest struct {
	Provider    string
	Model       string
	SystemRole  string
	UserPrompt  string
	Temperature float64
	MaxTokens   int
}
