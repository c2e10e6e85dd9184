package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clipbrief/clipbrief/internal/engine"
	"github.com/clipbrief/clipbrief/internal/quota"
	"github.com/clipbrief/clipbrief/internal/transcript"
)

type stubTasks struct {
	summarizeErr error
	answerErr    error
	contentErr   error
}

func (s *stubTasks) Summarize(_ context.Context, in engine.SummarizeInput) (engine.SummarizeOutput, error) {
	if s.summarizeErr != nil {
		return engine.SummarizeOutput{}, s.summarizeErr
	}
	return engine.SummarizeOutput{Summary: "ok", KeyPoints: []string{"p"}, Provider: "gemini"}, nil
}

func (s *stubTasks) Answer(_ context.Context, in engine.AnswerInput) (engine.AnswerOutput, error) {
	if s.answerErr != nil {
		return engine.AnswerOutput{}, s.answerErr
	}
	return engine.AnswerOutput{Answer: "because", Provider: "gemini"}, nil
}

func (s *stubTasks) PlatformContent(_ context.Context, in engine.ContentInput) (engine.ContentOutput, error) {
	if s.contentErr != nil {
		return engine.ContentOutput{}, s.contentErr
	}
	return engine.ContentOutput{Content: map[string]string{"blog": "post"}}, nil
}

type stubTranscriber struct {
	err error
}

func (s *stubTranscriber) Produce(_ context.Context, _ transcript.Source) (transcript.Result, error) {
	if s.err != nil {
		return transcript.Result{}, s.err
	}
	return transcript.Result{Transcript: "text"}, nil
}

func newTestServer(tasks Tasks, producer Transcriber, limit int) *Server {
	return New(tasks, producer, quota.NewGate(quota.NewMemoryStore(), limit), time.Second)
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleSummarize_OK(t *testing.T) {
	h := newTestServer(&stubTasks{}, &stubTranscriber{}, 3).Routes()

	rec := post(t, h, "/api/summarize", map[string]any{"transcript": "some text"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var out engine.SummarizeOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Summary != "ok" || out.Provider != "gemini" {
		t.Errorf("output = %+v", out)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	providerErr := &engine.AllProvidersFailedError{
		Attempts: []*engine.ProviderError{{Provider: "gemini", Err: errors.New("down")}},
	}

	tests := []struct {
		name  string
		tasks *stubTasks
		path  string
		body  map[string]any
		want  int
	}{
		{"summarize no transcript", &stubTasks{summarizeErr: engine.ErrNoTranscript}, "/api/summarize", map[string]any{}, http.StatusBadRequest},
		{"qna empty question", &stubTasks{answerErr: engine.ErrEmptyQuestion}, "/api/qna", map[string]any{"transcript": "t"}, http.StatusBadRequest},
		{"content missing params", &stubTasks{contentErr: engine.ErrMissingParameters}, "/api/content", map[string]any{}, http.StatusBadRequest},
		{"all providers failed", &stubTasks{summarizeErr: providerErr}, "/api/summarize", map[string]any{"transcript": "t"}, http.StatusBadGateway},
		{"record without identity", &stubTasks{}, "/api/usage/record", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(tt.tasks, &stubTranscriber{}, 3).Routes()
			rec := post(t, h, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			var resp errorResp
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp.Error == "" {
				t.Error("empty error field")
			}
		})
	}
}

func TestHandleTranscribe_InvalidInput(t *testing.T) {
	h := newTestServer(&stubTasks{}, &stubTranscriber{}, 3).Routes()

	rec := post(t, h, "/api/transcribe", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = post(t, h, "/api/transcribe", map[string]any{"url": "https://example.com/x"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unsupported host status = %d, want 400", rec.Code)
	}
}

func TestHandleTranscribe_UpstreamFailure(t *testing.T) {
	producer := &stubTranscriber{err: &transcript.MetadataFetchError{URL: "u", Err: errors.New("404")}}
	h := newTestServer(&stubTasks{}, producer, 3).Routes()

	rec := post(t, h, "/api/transcribe", map[string]any{"url": "https://youtu.be/abc123"})
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestQuotaEnforcedBeforeWork(t *testing.T) {
	h := newTestServer(&stubTasks{}, &stubTranscriber{}, 1).Routes()
	body := map[string]any{"url": "https://youtu.be/abc123", "sessionId": "s1"}

	// Consume the single slot, then the next transcribe must be rejected.
	rec := post(t, h, "/api/usage/record", map[string]any{"sessionId": "s1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("record status = %d", rec.Code)
	}

	rec = post(t, h, "/api/transcribe", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 (body %s)", rec.Code, rec.Body.String())
	}
	var denied quotaDeniedResp
	if err := json.Unmarshal(rec.Body.Bytes(), &denied); err != nil {
		t.Fatalf("decode 429 body: %v", err)
	}
	if denied.CanProcess || denied.VideosRemaining != 0 {
		t.Errorf("denied body = %+v", denied)
	}
}

func TestUsageCheckAndRecord(t *testing.T) {
	h := newTestServer(&stubTasks{}, &stubTranscriber{}, 3).Routes()

	rec := post(t, h, "/api/usage/check", map[string]any{"sessionId": "s1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("check status = %d", rec.Code)
	}
	var check quota.CheckResult
	if err := json.Unmarshal(rec.Body.Bytes(), &check); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !check.CanProcess || check.VideosRemaining != 3 {
		t.Errorf("fresh check = %+v", check)
	}

	rec = post(t, h, "/api/usage/record", map[string]any{"sessionId": "s1", "processingType": "url"})
	var record quota.RecordResult
	if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !record.Success || record.VideosUsed != 1 || record.VideosRemaining != 2 {
		t.Errorf("record = %+v", record)
	}

	// Authenticated callers are never throttled.
	rec = post(t, h, "/api/usage/check", map[string]any{"userId": "u1"})
	if err := json.Unmarshal(rec.Body.Bytes(), &check); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !check.CanProcess || !check.Unlimited {
		t.Errorf("authenticated check = %+v", check)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(&stubTasks{}, &stubTranscriber{}, 3).Routes()

	req := httptest.NewRequest(http.MethodOptions, "/api/summarize", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(&stubTasks{}, &stubTranscriber{}, 3).Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/summarize", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := newTestServer(&stubTasks{}, &stubTranscriber{}, 3).Routes()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
