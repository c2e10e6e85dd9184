package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/clipbrief/clipbrief/internal/provider"
)

type fakeProvider struct {
	id    provider.ID
	reply string
	err   error
	calls int
}

func (f *fakeProvider) ID() provider.ID { return f.id }

func (f *fakeProvider) Generate(_ context.Context, _ provider.Request) (string, error) {
	f.calls++
	return f.reply, f.err
}

const structuredReply = "SUMMARY:\nA test summary.\nKEY POINTS:\n• One\n• Two"

func newTestEngine(chain ...provider.Provider) *Engine {
	return New(Config{}, provider.NewRegistry(chain...), nil, nil)
}

func TestSummarize_FallbackOrder(t *testing.T) {
	gemini := &fakeProvider{id: provider.Gemini, err: errors.New("quota exceeded")}
	groq := &fakeProvider{id: provider.Groq, reply: structuredReply}
	e := newTestEngine(gemini, groq)

	out, err := e.Summarize(context.Background(), SummarizeInput{Transcript: "some transcript"})
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if out.Provider != "groq" {
		t.Errorf("provider = %q, want %q", out.Provider, "groq")
	}
	if gemini.calls != 1 || groq.calls != 1 {
		t.Errorf("calls = gemini:%d groq:%d, want 1 each", gemini.calls, groq.calls)
	}
	if out.Summary != "A test summary." || len(out.KeyPoints) != 2 {
		t.Errorf("unexpected parse: %+v", out)
	}
}

func TestSummarize_EmptyReplyCountsAsFailure(t *testing.T) {
	gemini := &fakeProvider{id: provider.Gemini, reply: "   \n  "}
	groq := &fakeProvider{id: provider.Groq, reply: structuredReply}
	e := newTestEngine(gemini, groq)

	out, err := e.Summarize(context.Background(), SummarizeInput{Transcript: "t"})
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if out.Provider != "groq" {
		t.Errorf("provider = %q, want fallback to groq", out.Provider)
	}
}

func TestSummarize_PreferredDisablesFallback(t *testing.T) {
	gemini := &fakeProvider{id: provider.Gemini, reply: structuredReply}
	groq := &fakeProvider{id: provider.Groq, err: errors.New("down")}
	e := newTestEngine(gemini, groq)

	_, err := e.Summarize(context.Background(), SummarizeInput{
		Transcript:        "t",
		PreferredProvider: "groq",
	})
	var all *AllProvidersFailedError
	if !errors.As(err, &all) {
		t.Fatalf("error = %v, want AllProvidersFailedError", err)
	}
	if len(all.Attempts) != 1 || all.Attempts[0].Provider != provider.Groq {
		t.Errorf("attempts = %+v, want single groq attempt", all.Attempts)
	}
	if gemini.calls != 0 {
		t.Errorf("gemini called %d times despite preferred groq", gemini.calls)
	}
}

func TestSummarize_UnknownPreferredUsesDefaultChain(t *testing.T) {
	gemini := &fakeProvider{id: provider.Gemini, reply: structuredReply}
	e := newTestEngine(gemini, &fakeProvider{id: provider.Groq})

	out, err := e.Summarize(context.Background(), SummarizeInput{
		Transcript:        "t",
		PreferredProvider: "not-a-provider",
	})
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if out.Provider != "gemini" {
		t.Errorf("provider = %q, want default chain head", out.Provider)
	}
}

func TestSummarize_AllFailedAggregates(t *testing.T) {
	gemini := &fakeProvider{id: provider.Gemini, err: errors.New("boom one")}
	groq := &fakeProvider{id: provider.Groq, err: errors.New("boom two")}
	e := newTestEngine(gemini, groq)

	_, err := e.Summarize(context.Background(), SummarizeInput{Transcript: "t"})
	var all *AllProvidersFailedError
	if !errors.As(err, &all) {
		t.Fatalf("error = %v, want AllProvidersFailedError", err)
	}
	if len(all.Attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(all.Attempts))
	}
	msg := all.Error()
	if !strings.Contains(msg, "boom one") || !strings.Contains(msg, "boom two") {
		t.Errorf("aggregated message missing attempt errors: %q", msg)
	}
}

func TestSummarize_NoTranscript(t *testing.T) {
	e := newTestEngine(&fakeProvider{id: provider.Gemini, reply: structuredReply})
	if _, err := e.Summarize(context.Background(), SummarizeInput{Transcript: "  "}); !errors.Is(err, ErrNoTranscript) {
		t.Errorf("error = %v, want ErrNoTranscript", err)
	}
}

func TestAnswer_Boundaries(t *testing.T) {
	e := newTestEngine(&fakeProvider{id: provider.Gemini, reply: "  an answer  "})

	if _, err := e.Answer(context.Background(), AnswerInput{Question: "q"}); !errors.Is(err, ErrNoTranscript) {
		t.Errorf("missing transcript: error = %v, want ErrNoTranscript", err)
	}
	if _, err := e.Answer(context.Background(), AnswerInput{Transcript: "t"}); !errors.Is(err, ErrEmptyQuestion) {
		t.Errorf("missing question: error = %v, want ErrEmptyQuestion", err)
	}

	out, err := e.Answer(context.Background(), AnswerInput{Transcript: "t", Question: "q"})
	if err != nil {
		t.Fatalf("Answer error: %v", err)
	}
	if out.Answer != "an answer" {
		t.Errorf("answer = %q, want trimmed reply", out.Answer)
	}
	if out.Provider != "gemini" {
		t.Errorf("provider = %q", out.Provider)
	}
}
