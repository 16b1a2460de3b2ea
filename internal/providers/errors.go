package providers

import (
	"errors"
	"fmt"

	"github.com/gradekit/gradekit/internal/models"
)

// ErrNotConfigured indicates a hosted provider was called without a
// credential for it.
var ErrNotConfigured = errors.New("provider not configured")

// ErrKeyUnsupported indicates an API key was supplied for a provider
// that does not authenticate.
var ErrKeyUnsupported = errors.New("provider does not accept an API key")

// ProviderError wraps a transport or auth failure from an LLM backend.
// The gateway never retries; callers decide how to degrade.
type ProviderError struct {
	Provider models.Provider
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func newProviderError(p models.Provider, op string, err error) *ProviderError {
	return &ProviderError{Provider: p, Op: op, Err: err}
}
