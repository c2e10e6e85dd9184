package server

import (
	"context"
	"net/http"

	"github.com/clipbrief/clipbrief/internal/engine"
	"github.com/clipbrief/clipbrief/internal/quota"
	"github.com/clipbrief/clipbrief/internal/transcript"
)

// identity fields accepted alongside every task request.
type identityReq struct {
	SessionID string `json:"sessionId,omitempty"`
	UserID    string `json:"userId,omitempty"`
}

func (r identityReq) quota() quota.Identity {
	return quota.Identity{SessionID: r.SessionID, UserID: r.UserID}
}

// quotaDeniedResp is the 429 body, carrying the usage snapshot so clients
// can render the remaining allowance.
type quotaDeniedResp struct {
	Error string `json:"error"`
	quota.CheckResult
}

// allow runs the gate check before any work. Returns false after writing a
// 429 when the identity is out of allowance.
func (s *Server) allow(w http.ResponseWriter, r *http.Request, id quota.Identity) bool {
	res := s.gate.Check(r.Context(), id)
	if res.CanProcess {
		return true
	}
	writeJSON(w, http.StatusTooManyRequests, quotaDeniedResp{
		Error:       "daily processing limit reached",
		CheckResult: res,
	})
	return false
}

func (s *Server) taskContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.taskTimeout)
}

// --- Transcribe ---

type transcribeReq struct {
	identityReq
	transcript.Input
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	var req transcribeReq
	if !decodeJSON(w, r, &req) {
		return
	}

	src, err := transcript.Normalize(req.Input)
	if err != nil {
		writeError(w, err)
		return
	}
	if !s.allow(w, r, req.quota()) {
		return
	}

	ctx, cancel := s.taskContext(r)
	defer cancel()
	result, err := s.producer.Produce(ctx, src)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- Summarize ---

type summarizeReq struct {
	identityReq
	engine.SummarizeInput
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if !s.allow(w, r, req.quota()) {
		return
	}

	ctx, cancel := s.taskContext(r)
	defer cancel()
	out, err := s.tasks.Summarize(ctx, req.SummarizeInput)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// --- Q&A ---

type answerReq struct {
	identityReq
	engine.AnswerInput
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if !s.allow(w, r, req.quota()) {
		return
	}

	ctx, cancel := s.taskContext(r)
	defer cancel()
	out, err := s.tasks.Answer(ctx, req.AnswerInput)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// --- Platform content ---

type contentReq struct {
	identityReq
	engine.ContentInput
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	var req contentReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if !s.allow(w, r, req.quota()) {
		return
	}

	ctx, cancel := s.taskContext(r)
	defer cancel()
	out, err := s.tasks.PlatformContent(ctx, req.ContentInput)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// --- Usage ---

func (s *Server) handleUsageCheck(w http.ResponseWriter, r *http.Request) {
	var req identityReq
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.gate.Check(r.Context(), req.quota()))
}

type usageRecordReq struct {
	identityReq
	ProcessingType string `json:"processingType,omitempty"`
	FileName       string `json:"fileName,omitempty"`
	FileSize       int64  `json:"fileSize,omitempty"`
}

func (s *Server) handleUsageRecord(w http.ResponseWriter, r *http.Request) {
	var req usageRecordReq
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := s.gate.Record(r.Context(), req.quota(), quota.LogEntry{
		ProcessingType: req.ProcessingType,
		FileName:       req.FileName,
		FileSize:       req.FileSize,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
