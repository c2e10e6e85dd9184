// Package transcript turns an uploaded file or a media URL into transcript
// text plus lightweight metadata. Real speech-to-text is out of scope: the
// file path produces stand-in text, the URL path prefers published captions
// and otherwise synthesizes a transcript from public metadata.
package transcript

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidInput covers malformed transcribe requests: zero or two inputs,
// or a URL outside the recognized media hosts.
var ErrInvalidInput = errors.New("invalid input")

// recognizedHosts are the media platforms accepted for URL input. Matching
// is by registrable-suffix so subdomains (www, m, mobile) pass.
var recognizedHosts = []string{
	"youtube.com",
	"youtu.be",
	"vimeo.com",
	"tiktok.com",
	"instagram.com",
	"twitter.com",
	"x.com",
	"facebook.com",
}

// Kind distinguishes the two source shapes.
type Kind int

const (
	KindFile Kind = iota
	KindURL
)

// Source is a normalized transcribe request: exactly one input, validated.
type Source struct {
	Kind    Kind
	FileB64 string   // base64 payload, KindFile only
	URL     *url.URL // parsed URL, KindURL only
}

// Input is the raw transcribe request shape.
type Input struct {
	FileB64 string `json:"fileData,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Normalize validates an Input into a Source. Pure transform: no network
// calls, no decoding.
func Normalize(in Input) (Source, error) {
	hasFile := in.FileB64 != ""
	hasURL := in.URL != ""

	switch {
	case hasFile && hasURL:
		return Source{}, fmt.Errorf("%w: provide either file data or a url, not both", ErrInvalidInput)
	case !hasFile && !hasURL:
		return Source{}, fmt.Errorf("%w: no file data or url provided", ErrInvalidInput)
	case hasFile:
		return Source{Kind: KindFile, FileB64: in.FileB64}, nil
	}

	u, err := url.Parse(in.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Source{}, fmt.Errorf("%w: malformed url %q", ErrInvalidInput, in.URL)
	}
	if !recognizedHost(u.Hostname()) {
		return Source{}, fmt.Errorf("%w: unsupported media host %q", ErrInvalidInput, u.Hostname())
	}
	return Source{Kind: KindURL, URL: u}, nil
}

func recognizedHost(host string) bool {
	host = strings.ToLower(host)
	for _, h := range recognizedHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
