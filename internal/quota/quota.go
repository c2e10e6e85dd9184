// Package quota enforces the per-day processing ceiling for anonymous
// sessions and records consumption for all callers. Authenticated users are
// unlimited. The check-and-increment is a single atomic store operation so
// two concurrent requests from a near-exhausted session cannot both pass.
package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clipbrief/clipbrief/internal/engine"
)

// ErrNoIdentity is returned when a record request carries neither a session
// token nor a user id.
var ErrNoIdentity = errors.New("session id or user id required")

// DatabaseError wraps a usage-store failure. The request is aborted without
// side effects.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("usage store %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// Identity is a caller identity: an opaque anonymous session token, or a
// verified user id. UserID wins when both are present.
type Identity struct {
	SessionID string `json:"sessionId,omitempty"`
	UserID    string `json:"userId,omitempty"`
}

func (id Identity) authenticated() bool { return id.UserID != "" }

// key returns the namespaced counter key.
func (id Identity) key() string {
	if id.authenticated() {
		return "user:" + id.UserID
	}
	return "anon:" + id.SessionID
}

// LogEntry describes one processing event for the audit log.
type LogEntry struct {
	Identity       Identity
	ProcessingType string
	FileName       string
	FileSize       int64
}

// Store persists per-identity daily counters and processing logs.
type Store interface {
	// Count returns the current counter for key on day; 0 when absent.
	Count(ctx context.Context, key, day string) (int, error)
	// IncrementBelow atomically increments the counter for key on day when
	// the current value is below ceiling, as one conditional operation.
	// ceiling <= 0 means unconditional (unlimited identities).
	IncrementBelow(ctx context.Context, key, day string, ceiling int) (allowed bool, newCount int, err error)
	// LogProcessing appends a processing event. Best effort for callers.
	LogProcessing(ctx context.Context, day string, e LogEntry) error
	Close() error
}

// Gate is the usage quota gate in front of the orchestrator.
type Gate struct {
	store Store
	limit int // anonymous per-day ceiling
}

func NewGate(store Store, anonymousLimit int) *Gate {
	return &Gate{store: store, limit: anonymousLimit}
}

// day returns the UTC quota-window key.
func day() string {
	return time.Now().UTC().Format("2006-01-02")
}

// CheckResult is the read-only usage snapshot.
type CheckResult struct {
	CanProcess      bool `json:"canProcess"`
	VideosProcessed int  `json:"videosProcessed"`
	VideosRemaining int  `json:"videosRemaining"`
	Unlimited       bool `json:"unlimited,omitempty"`
}

// Check reports whether the identity may process another item. It always
// resolves: a store failure degrades to the default allowance with a warning
// rather than blocking the caller.
func (g *Gate) Check(ctx context.Context, id Identity) CheckResult {
	if id.authenticated() {
		return CheckResult{CanProcess: true, Unlimited: true}
	}
	if id.SessionID == "" {
		return CheckResult{CanProcess: true, VideosRemaining: g.limit}
	}

	count, err := g.store.Count(ctx, id.key(), day())
	if err != nil {
		slog.Warn("usage check failed, assuming default allowance", slog.Any("error", err))
		return CheckResult{CanProcess: true, VideosRemaining: g.limit}
	}

	remaining := g.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return CheckResult{
		CanProcess:      count < g.limit,
		VideosProcessed: count,
		VideosRemaining: remaining,
	}
}

// RecordResult is the outcome of a consumption attempt.
type RecordResult struct {
	Success         bool `json:"success"`
	CanProceed      bool `json:"canProceed"`
	Unlimited       bool `json:"unlimited,omitempty"`
	VideosUsed      int  `json:"videosUsed,omitempty"`
	VideosRemaining int  `json:"videosRemaining"`
}

// Record consumes one processing slot for the identity and logs the event.
// Anonymous identities are admitted only while below the daily ceiling;
// denial is a normal result, not an error.
func (g *Gate) Record(ctx context.Context, id Identity, e LogEntry) (RecordResult, error) {
	if !id.authenticated() && id.SessionID == "" {
		return RecordResult{}, ErrNoIdentity
	}

	ceiling := g.limit
	if id.authenticated() {
		ceiling = 0 // unconditional
	}

	allowed, newCount, err := g.store.IncrementBelow(ctx, id.key(), day(), ceiling)
	if err != nil {
		return RecordResult{}, &DatabaseError{Op: "increment", Err: err}
	}
	if !allowed {
		engine.IncrQuotaDenials()
		return RecordResult{Success: false, CanProceed: false, VideosRemaining: 0}, nil
	}

	e.Identity = id
	if err := g.store.LogProcessing(ctx, day(), e); err != nil {
		slog.Warn("processing log write failed", slog.Any("error", err))
	}

	if id.authenticated() {
		return RecordResult{Success: true, CanProceed: true, Unlimited: true}, nil
	}
	remaining := g.limit - newCount
	if remaining < 0 {
		remaining = 0
	}
	return RecordResult{
		Success:         true,
		CanProceed:      true,
		VideosUsed:      newCount,
		VideosRemaining: remaining,
	}, nil
}
