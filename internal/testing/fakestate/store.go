// Package fakestate is an in-memory stand-in for state.Store used by unit tests
// that need real claim semantics under concurrency.
package fakestate

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/state"
)

type windowEntry struct {
	member string
	at     time.Time
}

// Store mirrors the redis semantics of state.Store with a single mutex
type Store struct {
	mu      sync.Mutex
	dedup   map[string]map[int64]struct{}
	windows map[string][]windowEntry
	claims  map[string]struct{}
	recent  map[int64][]domain.KillmailSummary

	// Err, when set, is returned by every call
	Err error
}

var _ state.Store = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{
		dedup:   make(map[string]map[int64]struct{}),
		windows: make(map[string][]windowEntry),
		claims:  make(map[string]struct{}),
		recent:  make(map[int64][]domain.KillmailSummary),
	}
}

func (s *Store) ClaimKillmail(_ context.Context, id int64, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}

	if _, ok := s.dedup[state.DedupKey(now.Add(-24*time.Hour))][id]; ok {
		return false, nil
	}
	today := state.DedupKey(now)
	if s.dedup[today] == nil {
		s.dedup[today] = make(map[int64]struct{})
	}
	if _, ok := s.dedup[today][id]; ok {
		return false, nil
	}
	s.dedup[today][id] = struct{}{}
	return true, nil
}

func (s *Store) ReleaseKillmail(_ context.Context, id int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.dedup[state.DedupKey(now)], id)
	return nil
}

func (s *Store) RecordWindow(_ context.Context, key, member string, at time.Time, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}

	entries := s.windows[key]
	replaced := false
	for i := range entries {
		if entries[i].member == member {
			entries[i].at = at
			replaced = true
		}
	}
	if !replaced {
		entries = append(entries, windowEntry{member: member, at: at})
	}

	cutoff := at.Add(-window)
	kept := entries[:0]
	var count int64
	for _, e := range entries {
		if e.at.Before(cutoff) {
			continue
		}
		kept = append(kept, e)
		if !e.at.After(at) {
			count++
		}
	}
	s.windows[key] = kept
	return count, nil
}

func (s *Store) Claim(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	if _, ok := s.claims[key]; ok {
		return false, nil
	}
	s.claims[key] = struct{}{}
	return true, nil
}

func (s *Store) PushRecent(_ context.Context, summary domain.KillmailSummary, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	list := append([]domain.KillmailSummary{summary}, s.recent[summary.SystemID]...)
	if len(list) > limit {
		list = list[:limit]
	}
	s.recent[summary.SystemID] = list
	return nil
}

func (s *Store) Recent(_ context.Context, systemID int64, n int) ([]domain.KillmailSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	list := s.recent[systemID]
	if len(list) > n {
		list = list[:n]
	}
	return append([]domain.KillmailSummary(nil), list...), nil
}

func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Err
}

// Claims returns the claim keys set so far, sorted
func (s *Store) Claims() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.claims))
	for k := range s.claims {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
