package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	TranscribeRequests atomic.Int64
	MetadataRequests   atomic.Int64
	CaptionRequests    atomic.Int64
	SummarizeRequests  atomic.Int64
	AnswerRequests     atomic.Int64
	ContentRequests    atomic.Int64
	ProviderCalls      atomic.Int64
	ProviderErrors     atomic.Int64
	SynthCalls         atomic.Int64
	SynthErrors        atomic.Int64
	QuotaDenials       atomic.Int64
	CacheHits          atomic.Int64
	CacheMisses        atomic.Int64
}

// Incrementors for the transcript sub-package.
func IncrTranscribeRequests() { metrics.TranscribeRequests.Add(1) }
func IncrMetadataRequests()   { metrics.MetadataRequests.Add(1) }
func IncrCaptionRequests()    { metrics.CaptionRequests.Add(1) }
func IncrSynthCalls()         { metrics.SynthCalls.Add(1) }
func IncrSynthErrors()        { metrics.SynthErrors.Add(1) }

// IncrQuotaDenials counts requests rejected by the usage gate.
func IncrQuotaDenials() { metrics.QuotaDenials.Add(1) }

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"transcribe_requests": metrics.TranscribeRequests.Load(),
		"metadata_requests":   metrics.MetadataRequests.Load(),
		"caption_requests":    metrics.CaptionRequests.Load(),
		"summarize_requests":  metrics.SummarizeRequests.Load(),
		"answer_requests":     metrics.AnswerRequests.Load(),
		"content_requests":    metrics.ContentRequests.Load(),
		"provider_calls":      metrics.ProviderCalls.Load(),
		"provider_errors":     metrics.ProviderErrors.Load(),
		"synth_calls":         metrics.SynthCalls.Load(),
		"synth_errors":        metrics.SynthErrors.Load(),
		"quota_denials":       metrics.QuotaDenials.Load(),
		"cache_hits":          metrics.CacheHits.Load(),
		"cache_misses":        metrics.CacheMisses.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"transcribe_requests", "metadata_requests", "caption_requests",
		"summarize_requests", "answer_requests", "content_requests",
		"provider_calls", "provider_errors",
		"synth_calls", "synth_errors",
		"quota_denials",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}
