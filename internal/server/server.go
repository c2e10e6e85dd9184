// Package server exposes the transcript tasks and the usage gate as a JSON
// HTTP API. Handlers validate, enforce quota, then call into the engine;
// no business logic lives here.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/clipbrief/clipbrief/internal/engine"
	"github.com/clipbrief/clipbrief/internal/quota"
	"github.com/clipbrief/clipbrief/internal/transcript"
)

// Tasks is the engine surface the handlers need. Satisfied by *engine.Engine.
type Tasks interface {
	Summarize(ctx context.Context, in engine.SummarizeInput) (engine.SummarizeOutput, error)
	Answer(ctx context.Context, in engine.AnswerInput) (engine.AnswerOutput, error)
	PlatformContent(ctx context.Context, in engine.ContentInput) (engine.ContentOutput, error)
}

// Transcriber is the transcript-producer surface. Satisfied by
// *transcript.Producer.
type Transcriber interface {
	Produce(ctx context.Context, src transcript.Source) (transcript.Result, error)
}

type Server struct {
	tasks       Tasks
	producer    Transcriber
	gate        *quota.Gate
	taskTimeout time.Duration
}

func New(tasks Tasks, producer Transcriber, gate *quota.Gate, taskTimeout time.Duration) *Server {
	if taskTimeout <= 0 {
		taskTimeout = 60 * time.Second
	}
	return &Server{tasks: tasks, producer: producer, gate: gate, taskTimeout: taskTimeout}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/transcribe", s.handleTranscribe)
	mux.HandleFunc("/api/summarize", s.handleSummarize)
	mux.HandleFunc("/api/qna", s.handleAnswer)
	mux.HandleFunc("/api/content", s.handleContent)
	mux.HandleFunc("/api/usage/check", s.handleUsageCheck)
	mux.HandleFunc("/api/usage/record", s.handleUsageRecord)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return logMiddleware(corsMiddleware(mux))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(engine.FormatMetrics()))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Middleware ---

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// --- JSON helpers ---

type errorResp struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResp{Error: messageFor(err), Details: err.Error()})
}

// statusFor maps the error taxonomy onto HTTP statuses. Caller mistakes are
// 400, upstream failures 502, storage failures 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, transcript.ErrInvalidInput),
		errors.Is(err, engine.ErrNoTranscript),
		errors.Is(err, engine.ErrEmptyQuestion),
		errors.Is(err, engine.ErrMissingParameters),
		errors.Is(err, quota.ErrNoIdentity):
		return http.StatusBadRequest
	}

	var (
		metaErr  *transcript.MetadataFetchError
		transErr *transcript.TranscriptionError
		provErr  *engine.AllProvidersFailedError
		dbErr    *quota.DatabaseError
	)
	switch {
	case errors.As(err, &metaErr), errors.As(err, &transErr), errors.As(err, &provErr):
		return http.StatusBadGateway
	case errors.As(err, &dbErr):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

func messageFor(err error) string {
	switch statusFor(err) {
	case http.StatusBadRequest:
		return "invalid request"
	case http.StatusBadGateway:
		return "upstream failure"
	default:
		return "internal error"
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResp{Error: "method not allowed"})
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid request", Details: err.Error()})
		return false
	}
	return true
}
