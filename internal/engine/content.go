package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/clipbrief/clipbrief/internal/provider"
)

// defaultStyle applies when the caller leaves the style field empty.
const defaultStyle = "engaging"

// PlatformContent rewrites a transcript into platform-specific posts. Each
// platform gets one attempt against the fixed rewrite provider; a failed
// platform carries an error description in its slot instead of aborting the
// request, so the result always has exactly the requested keys.
func (e *Engine) PlatformContent(ctx context.Context, in ContentInput) (ContentOutput, error) {
	metrics.ContentRequests.Add(1)

	if strings.TrimSpace(in.Transcript) == "" || len(in.Platforms) == 0 {
		return ContentOutput{}, ErrMissingParameters
	}

	style := in.Style
	if style == "" {
		style = defaultStyle
	}

	content := make(map[string]string, len(in.Platforms))
	for _, platform := range in.Platforms {
		platform = strings.ToLower(strings.TrimSpace(platform))
		if _, done := content[platform]; done {
			continue
		}

		tmpl, ok := platformPrompts[platform]
		if !ok {
			content[platform] = fmt.Sprintf("Content generation failed: unsupported platform %q", platform)
			continue
		}

		prompt := fmt.Sprintf(tmpl, style) + "\n\nTranscript:\n" + in.Transcript

		metrics.ProviderCalls.Add(1)
		raw, err := e.rewrite.Generate(ctx, provider.Request{
			Prompt:    prompt,
			MaxTokens: e.cfg.ContentMaxTokens,
		})
		if err != nil {
			metrics.ProviderErrors.Add(1)
			slog.Warn("platform content generation failed",
				slog.String("platform", platform),
				slog.Any("error", err),
			)
			content[platform] = fmt.Sprintf("Content generation failed for %s: %v", platform, err)
			continue
		}
		content[platform] = strings.TrimSpace(raw)
	}

	return ContentOutput{Content: content}, nil
}
