// Package provider implements the AI text-generation backends used by the
// engine. Each backend satisfies the same Provider interface; selection and
// fallback policy live in internal/engine.
package provider

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// ID identifies a configured AI backend.
type ID string

const (
	Gemini    ID = "gemini"
	Groq      ID = "groq"
	Anthropic ID = "anthropic"
)

// ParseID validates a caller-supplied provider name.
func ParseID(s string) (ID, bool) {
	switch ID(s) {
	case Gemini, Groq, Anthropic:
		return ID(s), true
	}
	return "", false
}

// Request is a single generation request. Token and temperature budgets are
// set per task by the engine.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Provider is an opaque text-in/text-out AI backend.
type Provider interface {
	ID() ID
	Generate(ctx context.Context, req Request) (string, error)
}

// guarded wraps a Provider with a per-call timeout and an outbound rate
// limiter shared across all requests to that backend.
type guarded struct {
	inner   Provider
	limiter *rate.Limiter
	timeout time.Duration
}

// Guard applies the given timeout and requests-per-second limit to p.
// rps <= 0 disables rate limiting.
func Guard(p Provider, timeout time.Duration, rps float64) Provider {
	var lim *rate.Limiter
	if rps > 0 {
		lim = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &guarded{inner: p, limiter: lim, timeout: timeout}
}

func (g *guarded) ID() ID { return g.inner.ID() }

func (g *guarded) Generate(ctx context.Context, req Request) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%s: rate limit wait: %w", g.inner.ID(), err)
		}
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return g.inner.Generate(ctx, req)
}

// Registry holds the configured providers and the default fallback order.
type Registry struct {
	byID  map[ID]Provider
	chain []Provider
}

// NewRegistry builds a registry from providers in default fallback order.
func NewRegistry(chain ...Provider) *Registry {
	r := &Registry{byID: make(map[ID]Provider, len(chain))}
	for _, p := range chain {
		r.byID[p.ID()] = p
		r.chain = append(r.chain, p)
	}
	return r
}

// Get returns the provider registered under id.
func (r *Registry) Get(id ID) (Provider, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Chain returns the default fallback order.
func (r *Registry) Chain() []Provider {
	return r.chain
}
