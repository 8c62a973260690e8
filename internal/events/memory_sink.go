package events

import (
	"context"
	"sync"

	"github.com/danmuck/deadswitch/internal/custody"
)

// MemorySink keeps events in memory for inspection.
type MemorySink struct {
	mu     sync.Mutex
	events []custody.Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Record(_ context.Context, ev custody.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

// Events returns a copy of the stored events, oldest first.
func (s *MemorySink) Events() []custody.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]custody.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Recent returns up to limit of the newest events, oldest first.
func (s *MemorySink) Recent(limit int) []custody.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]custody.Event, limit)
	copy(out, s.events[len(s.events)-limit:])
	return out
}

// Kinds returns the event kinds in order.
func (s *MemorySink) Kinds() []custody.EventKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]custody.EventKind, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Kind)
	}
	return out
}

func (s *MemorySink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
