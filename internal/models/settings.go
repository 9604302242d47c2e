package models

import "time"

const (
	DefaultProvider = "openai"
	DefaultModel    = "gpt-4o"
	DefaultLocale   = "pt"
)

// Settings is the configuration resolved once per invocation and passed into
// each flow. Flows never read configuration from ambient state.
type Settings struct {
	APIKey   string
	Provider string
	Model    string
	BaseURL  string
	Locale   string
	Timeout  time.Duration
}

// Redacted returns a copy safe for logging.
func (s Settings) Redacted() Settings {
	if s.APIKey != "" {
		s.APIKey = "***"
	}
	return s
}
