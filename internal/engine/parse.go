package engine

import (
	"regexp"
	"strings"
)

// Summary is the structured form of a provider's summarize reply.
type Summary struct {
	Summary   string
	KeyPoints []string
}

// maxFallbackSummary caps the raw-text prefix used when no structure at all
// can be recovered from the reply.
const maxFallbackSummary = 500

var bulletGlyphRe = regexp.MustCompile(`^(?:[•\-*]|\d+[.)])\s*`)

// headingKeywords returns which section a heading-ish line opens, if any.
func headingSection(line string) (string, bool) {
	upper := strings.ToUpper(line)
	switch {
	case strings.Contains(upper, "KEY POINTS"), strings.Contains(upper, "TAKEAWAYS"):
		return "points", true
	case strings.Contains(upper, "SUMMARY"), strings.Contains(upper, "OVERVIEW"):
		return "summary", true
	}
	return "", false
}

// ParseSummary converts a provider's free-text summarize reply into a
// Summary. The upstream text is unstructured natural language, so parsing is
// deliberately heuristic and two-pass:
//
//  1. heading pass — split on case-insensitive "summary"/"overview" and
//     "key points"/"takeaways" headings, stripping bullet glyphs from point
//     lines;
//  2. bullet pass — when no headings matched, any bullet line is a key point
//     and the non-empty lines before the first bullet form the summary.
//
// If both passes come up empty the raw text's prefix becomes the summary.
// ParseSummary never fails and is idempotent for a given input.
func ParseSummary(raw string) Summary {
	var (
		summary   strings.Builder
		keyPoints []string
		section   string
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if s, ok := headingSection(line); ok {
			section = s
			continue
		}

		switch section {
		case "summary":
			if summary.Len() > 0 {
				summary.WriteByte(' ')
			}
			summary.WriteString(line)
		case "points":
			if point := bulletGlyphRe.ReplaceAllString(line, ""); point != "" {
				keyPoints = append(keyPoints, point)
			}
		}
	}

	if summary.Len() == 0 && len(keyPoints) == 0 {
		return parseSummaryBullets(raw)
	}
	return Summary{Summary: strings.TrimSpace(summary.String()), KeyPoints: keyPoints}
}

// parseSummaryBullets is the heading-less fallback: bullet lines become key
// points, preceding prose becomes the summary.
func parseSummaryBullets(raw string) Summary {
	var (
		summaryLines []string
		keyPoints    []string
		inPoints     bool
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if bulletGlyphRe.MatchString(line) {
			inPoints = true
			if point := bulletGlyphRe.ReplaceAllString(line, ""); point != "" {
				keyPoints = append(keyPoints, point)
			}
			continue
		}
		if !inPoints {
			summaryLines = append(summaryLines, line)
		}
	}

	if len(keyPoints) > 0 {
		return Summary{Summary: strings.Join(summaryLines, " "), KeyPoints: keyPoints}
	}

	// Last resort: no structure at all, surface a prefix rather than failing.
	prefix := strings.TrimSpace(raw)
	if len(prefix) > maxFallbackSummary {
		prefix = prefix[:maxFallbackSummary] + "..."
	}
	return Summary{Summary: prefix}
}
