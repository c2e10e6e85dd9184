// Package engine orchestrates AI provider calls for the three transcript
// tasks: summarize, answer, and platform rewrite. Provider selection and
// fallback are plain loops over an ordered provider list so the policy is
// testable without I/O.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/clipbrief/clipbrief/internal/provider"
)

// Engine runs the transcript tasks against the configured providers.
type Engine struct {
	cfg     Config
	reg     *provider.Registry
	rewrite provider.Provider // fixed backend for platform rewrites, no fallback
	cache   *Cache
}

// New builds an Engine. rewrite is the single provider used for platform
// content; cache may be nil to disable result caching.
func New(cfg Config, reg *provider.Registry, rewrite provider.Provider, cache *Cache) *Engine {
	return &Engine{cfg: cfg, reg: reg, rewrite: rewrite, cache: cache}
}

// chainFor resolves the providers to try for a task. A recognized preferred
// provider yields a single-element chain (no fallback); anything else yields
// the default order.
func (e *Engine) chainFor(preferred string) []provider.Provider {
	if id, ok := provider.ParseID(preferred); ok {
		if p, found := e.reg.Get(id); found {
			return []provider.Provider{p}
		}
	}
	return e.reg.Chain()
}

// attempt tries each provider in order and returns the first success.
// Attempts are never retried against the same provider; one miss moves
// straight to the next. When every provider fails the per-attempt errors are
// aggregated into AllProvidersFailedError.
func (e *Engine) attempt(ctx context.Context, chain []provider.Provider, req provider.Request) (provider.ID, string, error) {
	var attempts []*ProviderError
	for _, p := range chain {
		metrics.ProviderCalls.Add(1)
		raw, err := p.Generate(ctx, req)
		if err == nil && strings.TrimSpace(raw) == "" {
			err = errors.New("empty response")
		}
		if err != nil {
			metrics.ProviderErrors.Add(1)
			slog.Warn("provider attempt failed",
				slog.String("provider", string(p.ID())),
				slog.Any("error", err),
			)
			attempts = append(attempts, &ProviderError{Provider: p.ID(), Err: err})
			continue
		}
		slog.Info("provider attempt succeeded", slog.String("provider", string(p.ID())))
		return p.ID(), raw, nil
	}
	return "", "", &AllProvidersFailedError{Attempts: attempts}
}
