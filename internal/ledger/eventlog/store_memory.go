package eventlog

import (
	"context"
	"sort"
	"sync"
)

type dedupeKey struct {
	kind Kind
	ts   int64
}

// InMemoryStore keeps event history in process memory. Used in tests and as
// the fallback when no Postgres archive is configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[uint64][]Event
	seen   map[uint64]map[dedupeKey]struct{}
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		events: make(map[uint64][]Event),
		seen:   make(map[uint64]map[dedupeKey]struct{}),
	}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dedupeKey{kind: event.Kind, ts: event.Timestamp}
	if s.seen[event.StreamID] == nil {
		s.seen[event.StreamID] = make(map[dedupeKey]struct{})
	}
	if _, dup := s.seen[event.StreamID][key]; dup {
		return nil
	}
	s.seen[event.StreamID][key] = struct{}{}
	s.events[event.StreamID] = append(s.events[event.StreamID], event)
	return nil
}

func (s *InMemoryStore) ListByStream(_ context.Context, streamID uint64) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]Event, len(s.events[streamID]))
	copy(events, s.events[streamID])
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
	return events, nil
}
