package client

import (
	"errors"
	"fmt"
)

// ErrUnsupportedProvider matches any UnsupportedProviderError via errors.Is.
var ErrUnsupportedProvider = errors.New("unsupported provider")

// UnsupportedProviderError is returned before any network call when the
// configured provider has no implementation.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("provider %q is not supported yet, use %q", e.Provider, ProviderOpenAI)
}

func (e *UnsupportedProviderError) Is(target error) bool {
	return target == ErrUnsupportedProvider
}

// NetworkError carries the provider's own error text. StatusCode is zero when
// the request never produced an HTTP response.
type NetworkError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
