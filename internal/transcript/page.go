package transcript

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/clipbrief/clipbrief/internal/engine"
)

// Generic page-content extraction for non-YouTube media URLs. The extracted
// title and text feed transcript synthesis; there is no media access here.

var whitespaceRe = regexp.MustCompile(`\s+`)

// fetchPageContent fetches a URL and extracts its title and main readable
// text, capped at maxChars.
func fetchPageContent(ctx context.Context, client *http.Client, rawURL string, maxChars int) (title, content string, err error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", ytWatchUA)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		return client.Do(req)
	})
	if err != nil {
		return "", "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return "", "", fmt.Errorf("read page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", "", fmt.Errorf("parse page: %w", err)
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && og != "" {
		title = strings.TrimSpace(og)
	}

	doc.Find("script, style, noscript, iframe, svg, header, footer, nav, aside").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	section := doc.Find("article, main, .content, .post-content, #content").First()
	if section.Length() == 0 {
		section = doc.Find("body")
	}

	// Prefer a markdown rendering to preserve list/heading structure the
	// synthesis prompt can use; fall back to plain text.
	if html, err := section.Html(); err == nil {
		if md, err := htmltomarkdown.ConvertString(html); err == nil {
			content = md
		}
	}
	if content == "" {
		content = section.Text()
	}

	content = strings.TrimSpace(whitespaceRe.ReplaceAllString(content, " "))
	if maxChars > 0 && len(content) > maxChars {
		content = content[:maxChars] + "..."
	}
	return title, content, nil
}
