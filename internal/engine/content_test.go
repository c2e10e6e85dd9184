package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/clipbrief/clipbrief/internal/provider"
)

// promptFake records prompts and fails for platforms listed in failFor.
type promptFake struct {
	failFor []string
	prompts []string
}

func (f *promptFake) ID() provider.ID { return provider.Anthropic }

func (f *promptFake) Generate(_ context.Context, req provider.Request) (string, error) {
	f.prompts = append(f.prompts, req.Prompt)
	for _, name := range f.failFor {
		if strings.Contains(strings.ToLower(req.Prompt), name) {
			return "", errors.New("rewrite backend down")
		}
	}
	return "generated post", nil
}

func newContentEngine(rewrite provider.Provider) *Engine {
	return New(Config{}, provider.NewRegistry(), rewrite, nil)
}

func TestPlatformContent_ExactKeys(t *testing.T) {
	e := newContentEngine(&promptFake{})

	out, err := e.PlatformContent(context.Background(), ContentInput{
		Transcript: "a transcript",
		Platforms:  []string{"Blog", "twitter", "blog"},
	})
	if err != nil {
		t.Fatalf("PlatformContent error: %v", err)
	}
	if len(out.Content) != 2 {
		t.Fatalf("content keys = %v, want blog and twitter", out.Content)
	}
	for _, platform := range []string{"blog", "twitter"} {
		if out.Content[platform] != "generated post" {
			t.Errorf("content[%q] = %q", platform, out.Content[platform])
		}
	}
}

func TestPlatformContent_FailureInlinedPerPlatform(t *testing.T) {
	e := newContentEngine(&promptFake{failFor: []string{"twitter"}})

	out, err := e.PlatformContent(context.Background(), ContentInput{
		Transcript: "a transcript",
		Platforms:  []string{"blog", "twitter"},
	})
	if err != nil {
		t.Fatalf("PlatformContent error: %v", err)
	}
	if out.Content["blog"] != "generated post" {
		t.Errorf("blog = %q, want success", out.Content["blog"])
	}
	if got := out.Content["twitter"]; !strings.HasPrefix(got, "Content generation failed for twitter:") {
		t.Errorf("twitter = %q, want inlined failure", got)
	}
}

func TestPlatformContent_UnsupportedPlatform(t *testing.T) {
	e := newContentEngine(&promptFake{})

	out, err := e.PlatformContent(context.Background(), ContentInput{
		Transcript: "a transcript",
		Platforms:  []string{"blog", "myspace"},
	})
	if err != nil {
		t.Fatalf("PlatformContent error: %v", err)
	}
	if got := out.Content["myspace"]; !strings.Contains(got, "unsupported platform") {
		t.Errorf("myspace = %q, want unsupported marker", got)
	}
}

func TestPlatformContent_MissingParameters(t *testing.T) {
	e := newContentEngine(&promptFake{})

	if _, err := e.PlatformContent(context.Background(), ContentInput{Platforms: []string{"blog"}}); !errors.Is(err, ErrMissingParameters) {
		t.Errorf("no transcript: error = %v, want ErrMissingParameters", err)
	}
	if _, err := e.PlatformContent(context.Background(), ContentInput{Transcript: "t"}); !errors.Is(err, ErrMissingParameters) {
		t.Errorf("no platforms: error = %v, want ErrMissingParameters", err)
	}
}

func TestPlatformContent_StyleInPrompt(t *testing.T) {
	fake := &promptFake{}
	e := newContentEngine(fake)

	_, err := e.PlatformContent(context.Background(), ContentInput{
		Transcript: "a transcript",
		Platforms:  []string{"linkedin"},
		Style:      "professional",
	})
	if err != nil {
		t.Fatalf("PlatformContent error: %v", err)
	}
	if len(fake.prompts) != 1 || !strings.Contains(fake.prompts[0], "professional") {
		t.Errorf("prompt missing style: %q", fake.prompts)
	}
}
