package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/clipbrief/clipbrief/internal/engine"
)

// Metadata is the lightweight public metadata attached to a transcript.
type Metadata struct {
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Duration string `json:"duration,omitempty"`
}

var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{5,15}$`)

// isYouTube reports whether the host belongs to YouTube.
func isYouTube(host string) bool {
	host = strings.ToLower(host)
	return host == "youtu.be" || host == "youtube.com" || strings.HasSuffix(host, ".youtube.com")
}

// extractVideoID pulls the canonical video id out of the known YouTube URL
// shapes: youtu.be/{id}, watch?v={id}, and the shorts/embed/live/v paths.
func extractVideoID(u *url.URL) (string, bool) {
	var id string

	if strings.EqualFold(u.Hostname(), "youtu.be") {
		id = strings.Trim(u.Path, "/")
		if i := strings.IndexByte(id, '/'); i >= 0 {
			id = id[:i]
		}
	} else {
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		default:
			for _, prefix := range []string{"/shorts/", "/embed/", "/live/", "/v/"} {
				if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
					id = rest
					if i := strings.IndexByte(id, '/'); i >= 0 {
						id = id[:i]
					}
					break
				}
			}
		}
	}

	if !videoIDRe.MatchString(id) {
		return "", false
	}
	return id, true
}

// ytOEmbedURL is YouTube's public oEmbed endpoint; no API key required.
const ytOEmbedURL = "https://www.youtube.com/oembed"

type ytOEmbedResp struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// fetchOEmbed looks up title and author for a video id via oEmbed.
func fetchOEmbed(ctx context.Context, client *http.Client, videoID string) (Metadata, error) {
	engine.IncrMetadataRequests()

	q := url.Values{}
	q.Set("url", "https://www.youtube.com/watch?v="+videoID)
	q.Set("format", "json")
	endpoint := ytOEmbedURL + "?" + q.Encode()

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return client.Do(req)
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("oembed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Metadata{}, fmt.Errorf("oembed: HTTP %d", resp.StatusCode)
	}

	var out ytOEmbedResp
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&out); err != nil {
		return Metadata{}, fmt.Errorf("oembed: decode: %w", err)
	}
	if out.Title == "" {
		return Metadata{}, errors.New("oembed: empty title")
	}
	return Metadata{Title: out.Title, Author: out.AuthorName}, nil
}
