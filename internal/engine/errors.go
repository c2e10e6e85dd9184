package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clipbrief/clipbrief/internal/provider"
)

// Precondition failures, checked before any provider is contacted.
var (
	ErrNoTranscript      = errors.New("no transcript provided")
	ErrEmptyQuestion     = errors.New("no question provided")
	ErrMissingParameters = errors.New("transcript and platforms are required")
)

// ProviderError is one failed attempt against a single backend.
type ProviderError struct {
	Provider provider.ID
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// AllProvidersFailedError aggregates the per-provider failures after the
// whole fallback chain has been exhausted.
type AllProvidersFailedError struct {
	Attempts []*ProviderError
}

func (e *AllProvidersFailedError) Error() string {
	if len(e.Attempts) == 0 {
		return "all AI providers failed"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Error())
	}
	return "all AI providers failed: " + strings.Join(parts, "; ")
}
