// clipbrief — media transcript AI backend.
//
// Turns uploaded media or platform URLs into transcripts, then runs AI tasks
// over them: summarization with key points, transcript Q&A, and per-platform
// content rewrites. Anonymous usage is capped per day; authenticated users
// are unlimited. Serves a JSON HTTP API and an optional MCP tool surface.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clipbrief/clipbrief/internal/engine"
	"github.com/clipbrief/clipbrief/internal/mcptools"
	"github.com/clipbrief/clipbrief/internal/provider"
	"github.com/clipbrief/clipbrief/internal/quota"
	"github.com/clipbrief/clipbrief/internal/server"
	"github.com/clipbrief/clipbrief/internal/transcript"
)

var (
	version  = "dev"
	httpPort = env.Str("PORT", "8080")
	mcpPort  = env.Str("MCP_PORT", "")
)

func main() {
	cfg := loadConfig()

	slog.Info("starting clipbrief",
		slog.String("version", version),
		slog.String("port", httpPort),
	)

	reg, rewrite := buildProviders(cfg)
	cache := engine.NewCache(cfg.RedisURL, cfg.CacheTTL, cfg.CacheMaxEntries, cfg.CacheCleanupInterval)
	eng := engine.New(cfg, reg, rewrite, cache)
	producer := transcript.NewProducer(cfg, cache)

	store := openStore(cfg)
	defer store.Close()
	gate := quota.NewGate(store, cfg.AnonymousDailyLimit)

	srv := server.New(eng, producer, gate, env.Duration("TASK_TIMEOUT", 60*time.Second))

	if mcpPort != "" {
		go runMCP(eng, producer)
	}

	httpSrv := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      srv.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	if err := httpSrv.ListenAndServe(); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func loadConfig() engine.Config {
	httpClient := &http.Client{
		Timeout: 15 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     60 * time.Second,
		},
	}

	cfg := engine.Config{
		GeminiAPIKey:    env.Str("GEMINI_API_KEY", ""),
		GeminiModel:     env.Str("GEMINI_MODEL", provider.GeminiModel),
		GroqAPIKey:      env.Str("GROQ_API_KEY", ""),
		GroqModel:       env.Str("GROQ_MODEL", provider.GroqModel),
		AnthropicAPIKey: env.Str("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  env.Str("ANTHROPIC_MODEL", provider.AnthropicModel),

		ProviderTimeout: env.Duration("PROVIDER_TIMEOUT", 45*time.Second),
		ProviderRPS:     env.Float("PROVIDER_RPS", 0),

		SummaryMaxTokens: env.Int("SUMMARY_MAX_TOKENS", 1000),
		AnswerMaxTokens:  env.Int("ANSWER_MAX_TOKENS", 500),
		ContentMaxTokens: env.Int("CONTENT_MAX_TOKENS", 2000),
		Temperature:      env.Float("TEMPERATURE", 0.7),

		MaxContentChars: env.Int("MAX_CONTENT_CHARS", 6000),
		FetchTimeout:    env.Duration("FETCH_TIMEOUT", 10*time.Second),

		AnonymousDailyLimit: env.Int("ANONYMOUS_DAILY_LIMIT", 3),

		DatabaseURL: env.Str("DATABASE_URL", ""),
		SQLitePath:  env.Str("SQLITE_PATH", ""),
		RedisURL:    env.Str("REDIS_URL", ""),

		CacheTTL:             env.Duration("CACHE_TTL", 15*time.Minute),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),

		HTTPClient: httpClient,
	}

	// Synthesis LLM for caption-less URLs. Defaults to the Gemini
	// OpenAI-compatible endpoint, reusing the gemini provider key.
	cfg.SynthLLM = llm.NewClient(
		env.Str("SYNTH_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		env.Str("SYNTH_API_KEY", cfg.GeminiAPIKey),
		env.Str("SYNTH_MODEL", "gemini-2.5-flash"),
		llm.WithFallbackKeys(env.List("SYNTH_API_KEY_FALLBACKS", "")),
		llm.WithMaxTokens(env.Int("SYNTH_MAX_TOKENS", 2048)),
		llm.WithTemperature(env.Float("SYNTH_TEMPERATURE", 0.7)),
		llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	)

	return cfg
}

// buildProviders wires the task provider chain (gemini, then groq) and the
// rewrite backend (anthropic), each wrapped with a timeout and rate limit.
func buildProviders(cfg engine.Config) (*provider.Registry, provider.Provider) {
	gemini := provider.Guard(provider.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel), cfg.ProviderTimeout, cfg.ProviderRPS)
	groq := provider.Guard(provider.NewGroq(cfg.GroqAPIKey, cfg.GroqModel), cfg.ProviderTimeout, cfg.ProviderRPS)
	anthropic := provider.Guard(provider.NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.HTTPClient), cfg.ProviderTimeout, cfg.ProviderRPS)

	return provider.NewRegistry(gemini, groq), anthropic
}

func openStore(cfg engine.Config) quota.Store {
	if cfg.DatabaseURL != "" {
		store, err := quota.ConnectPostgres(context.Background(), cfg.DatabaseURL)
		if err != nil {
			slog.Error("usage postgres init failed", slog.Any("error", err))
			os.Exit(1)
		}
		return store
	}
	if cfg.SQLitePath != "" {
		store, err := quota.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			slog.Error("usage sqlite init failed", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("usage sqlite opened", slog.String("path", cfg.SQLitePath))
		return store
	}
	slog.Warn("no usage store configured, counters reset on restart")
	return quota.NewMemoryStore()
}

func runMCP(eng *engine.Engine, producer *transcript.Producer) {
	mcpSrv := mcp.NewServer(&mcp.Implementation{
		Name:    "clipbrief",
		Version: version,
	}, nil)
	mcptools.RegisterTools(mcpSrv, eng, producer)

	if err := mcpserver.Run(mcpSrv, mcpserver.Config{
		Name:         "clipbrief",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("mcp server failed", slog.Any("error", err))
	}
}
