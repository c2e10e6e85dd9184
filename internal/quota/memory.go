package quota

import (
	"context"
	"sync"
)

// MemoryStore is a mutex-guarded in-process store. Default when neither
// DATABASE_URL nor SQLITE_PATH is configured; counters reset on restart.
type MemoryStore struct {
	mu     sync.Mutex
	counts map[string]int
	logs   []LogEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]int)}
}

func memKey(key, day string) string { return day + "|" + key }

func (s *MemoryStore) Count(_ context.Context, key, day string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[memKey(key, day)], nil
}

func (s *MemoryStore) IncrementBelow(_ context.Context, key, day string, ceiling int) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := memKey(key, day)
	c := s.counts[k]
	if ceiling > 0 && c >= ceiling {
		return false, c, nil
	}
	s.counts[k] = c + 1
	return true, c + 1, nil
}

func (s *MemoryStore) LogProcessing(_ context.Context, _ string, e LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, e)
	return nil
}

// Logs returns a copy of the recorded processing events.
func (s *MemoryStore) Logs() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}

func (s *MemoryStore) Close() error { return nil }
