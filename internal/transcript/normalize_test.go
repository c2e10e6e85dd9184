package transcript

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		want    Kind
		wantErr bool
	}{
		{"file only", Input{FileB64: "aGVsbG8="}, KindFile, false},
		{"url only", Input{URL: "https://www.youtube.com/watch?v=abc123"}, KindURL, false},
		{"both inputs", Input{FileB64: "aGVsbG8=", URL: "https://youtu.be/abc123"}, 0, true},
		{"neither input", Input{}, 0, true},
		{"unsupported host", Input{URL: "https://example.com/video"}, 0, true},
		{"missing scheme", Input{URL: "youtube.com/watch?v=abc123"}, 0, true},
		{"ftp scheme", Input{URL: "ftp://youtube.com/watch?v=abc123"}, 0, true},
		{"subdomain accepted", Input{URL: "https://m.youtube.com/watch?v=abc123"}, KindURL, false},
		{"short host", Input{URL: "https://youtu.be/abc123"}, KindURL, false},
		{"vimeo", Input{URL: "https://vimeo.com/12345"}, KindURL, false},
		{"x.com", Input{URL: "https://x.com/user/status/1"}, KindURL, false},
		{"lookalike host rejected", Input{URL: "https://notyoutube.com/watch?v=abc123"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Normalize(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("error = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize error: %v", err)
			}
			if src.Kind != tt.want {
				t.Errorf("kind = %d, want %d", src.Kind, tt.want)
			}
		})
	}
}
