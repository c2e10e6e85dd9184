package transcript

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/clipbrief/clipbrief/internal/engine"
)

func TestProduce_FileUpload(t *testing.T) {
	p := NewProducer(engine.Config{}, nil)
	payload := base64.StdEncoding.EncodeToString([]byte("fake media bytes"))

	res, err := p.Produce(context.Background(), Source{Kind: KindFile, FileB64: payload})
	if err != nil {
		t.Fatalf("Produce error: %v", err)
	}
	if res.Transcript == "" {
		t.Error("expected non-empty transcript for uploaded file")
	}
	if res.Metadata != nil {
		t.Errorf("file upload should carry no metadata, got %+v", res.Metadata)
	}
}

func TestProduce_FileUploadBadBase64(t *testing.T) {
	p := NewProducer(engine.Config{}, nil)

	_, err := p.Produce(context.Background(), Source{Kind: KindFile, FileB64: "!!!not-base64!!!"})
	var te *TranscriptionError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want TranscriptionError", err)
	}
}

func TestTemplatedTranscript(t *testing.T) {
	got := templatedTranscript(&Metadata{Title: "Intro to Go Channels", Author: "gopher"})
	if !strings.Contains(got, `"Intro to Go Channels"`) {
		t.Errorf("transcript missing title: %q", got)
	}
	if !strings.Contains(got, "by gopher") {
		t.Errorf("transcript missing author: %q", got)
	}
	for _, marker := range []string{"failed", "error", "unavailable"} {
		if strings.Contains(strings.ToLower(got), marker) {
			t.Errorf("transcript contains failure marker %q: %q", marker, got)
		}
	}

	noAuthor := templatedTranscript(&Metadata{Title: "Solo"})
	if strings.Contains(noAuthor, " by ") {
		t.Errorf("expected no byline without author: %q", noAuthor)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```text\nhello\n```", "hello"},
		{"```\nhello\n```", "hello"},
		{"hello", "hello"},
		{"  hello  ", "hello"},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
