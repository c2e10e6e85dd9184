package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/clipbrief/clipbrief/internal/provider"
)

// Summarize produces a summary and key points for a transcript, falling back
// across providers unless one is explicitly preferred. Results are cached by
// transcript content.
func (e *Engine) Summarize(ctx context.Context, in SummarizeInput) (SummarizeOutput, error) {
	metrics.SummarizeRequests.Add(1)

	if strings.TrimSpace(in.Transcript) == "" {
		return SummarizeOutput{}, ErrNoTranscript
	}

	key := CacheKey("summarize", in.Transcript, in.Title, in.PreferredProvider)
	if out, ok := cacheLoad[SummarizeOutput](ctx, e.cache, key); ok {
		return out, nil
	}

	title := in.Title
	if title == "" {
		title = "Unknown"
	}
	duration := in.Duration
	if duration == "" {
		duration = "Unknown duration"
	}
	prompt := fmt.Sprintf(summarizePrompt, title, duration, in.Transcript)

	id, raw, err := e.attempt(ctx, e.chainFor(in.PreferredProvider), provider.Request{
		Prompt:      prompt,
		MaxTokens:   e.cfg.SummaryMaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return SummarizeOutput{}, err
	}

	parsed := ParseSummary(raw)
	out := SummarizeOutput{
		Summary:   parsed.Summary,
		KeyPoints: parsed.KeyPoints,
		Provider:  string(id),
	}
	cacheStore(ctx, e.cache, key, out)
	return out, nil
}
