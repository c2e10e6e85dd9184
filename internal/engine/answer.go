package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/clipbrief/clipbrief/internal/provider"
)

// Answer responds to a free-form question about a transcript. The provider's
// raw text is the answer verbatim; no structural parsing applies.
func (e *Engine) Answer(ctx context.Context, in AnswerInput) (AnswerOutput, error) {
	metrics.AnswerRequests.Add(1)

	if strings.TrimSpace(in.Transcript) == "" {
		return AnswerOutput{}, ErrNoTranscript
	}
	if strings.TrimSpace(in.Question) == "" {
		return AnswerOutput{}, ErrEmptyQuestion
	}

	prompt := fmt.Sprintf(answerPrompt, in.Transcript, in.Question)

	id, raw, err := e.attempt(ctx, e.chainFor(in.PreferredProvider), provider.Request{
		Prompt:      prompt,
		MaxTokens:   e.cfg.AnswerMaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return AnswerOutput{}, err
	}

	return AnswerOutput{Answer: strings.TrimSpace(raw), Provider: string(id)}, nil
}
