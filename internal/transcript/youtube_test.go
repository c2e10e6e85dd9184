package transcript

import (
	"net/url"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		rawURL string
		want   string
		ok     bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/abc123", "abc123", true},
		{"https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch", "", false},
		{"https://www.youtube.com/playlist?list=PL123", "", false},
		{"https://youtu.be/", "", false},
		{"https://www.youtube.com/watch?v=bad*chars!", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.rawURL, func(t *testing.T) {
			u, err := url.Parse(tt.rawURL)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.rawURL, err)
			}
			got, ok := extractVideoID(u)
			if ok != tt.ok || got != tt.want {
				t.Errorf("extractVideoID(%q) = %q, %v; want %q, %v", tt.rawURL, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestIsYouTube(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"youtube.com", true},
		{"www.youtube.com", true},
		{"youtu.be", true},
		{"vimeo.com", false},
		{"notyoutube.com", false},
	}
	for _, tt := range tests {
		if got := isYouTube(tt.host); got != tt.want {
			t.Errorf("isYouTube(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}
