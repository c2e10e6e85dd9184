package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all application configuration, assembled once in main and
// passed into constructors. No package carries API keys in globals.
type Config struct {
	GeminiAPIKey    string
	GeminiModel     string
	GroqAPIKey      string
	GroqModel       string
	AnthropicAPIKey string
	AnthropicModel  string

	// ProviderTimeout bounds each external AI call. A timed-out attempt
	// counts as a failure and fallback proceeds.
	ProviderTimeout time.Duration
	// ProviderRPS caps outbound calls per backend. 0 disables limiting.
	ProviderRPS float64

	SummaryMaxTokens int
	AnswerMaxTokens  int
	ContentMaxTokens int
	Temperature      float64

	// MaxContentChars caps page text used as transcript-synthesis context.
	MaxContentChars int
	FetchTimeout    time.Duration

	// AnonymousDailyLimit is the per-day processing ceiling for anonymous
	// sessions. Authenticated users are unlimited.
	AnonymousDailyLimit int

	DatabaseURL string
	SQLitePath  string
	RedisURL    string

	CacheTTL             time.Duration
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	HTTPClient *http.Client

	// SynthLLM generates transcripts from URL metadata when no captions are
	// available. Independent of the task provider registry.
	SynthLLM *llm.Client
}
