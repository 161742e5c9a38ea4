// Package session provides the optional conversation memory: a volatile,
// TTL'd store of per-conversation history keyed by the caller-supplied
// conversation id. The orchestrator only touches it when session memory is
// enabled; in the default configuration no request mutates it.
package session

import (
	"sync"
	"time"

	"github.com/hupe1980/agentgate/core"
)

// InMemoryStore keeps conversation histories in a process local map. It is
// safe for concurrent access and best suited for single-instance deployments;
// returned histories are copies to prevent external mutation of internal
// state. Entries expire TTL after their last write and are swept lazily on
// access.
type InMemoryStore struct {
	mu          sync.RWMutex
	ttl         time.Duration
	maxMessages int
	now         func() time.Time
	entries     map[string]*entry
}

type entry struct {
	history   []core.Content
	updatedAt time.Time
}

// Options configures the store.
type Options struct {
	// TTL is the retention window measured from the last write. Zero keeps
	// entries forever.
	TTL time.Duration
	// MaxMessages bounds the history kept per conversation; older turns are
	// dropped first. Zero means unbounded.
	MaxMessages int
	// Now is an injectable clock for tests.
	Now func() time.Time
}

// NewInMemoryStore constructs an empty store.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{
		TTL:         30 * time.Minute,
		MaxMessages: 40,
		Now:         time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{
		ttl:         opts.TTL,
		maxMessages: opts.MaxMessages,
		now:         opts.Now,
		entries:     make(map[string]*entry),
	}
}

// History returns a copy of the stored history for the conversation, or nil
// when none exists or the entry expired.
func (s *InMemoryStore) History(conversationID string) []core.Content {
	s.mu.RLock()
	e, ok := s.entries[conversationID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	if s.expired(e) {
		s.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed it.
		if e, ok = s.entries[conversationID]; ok && s.expired(e) {
			delete(s.entries, conversationID)
			ok = false
		}
		s.mu.Unlock()
		if !ok {
			return nil
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make([]core.Content, len(e.history))
	copy(history, e.history)
	return history
}

// Append adds turns to the conversation's history, refreshing its TTL and
// trimming to the message bound.
func (s *InMemoryStore) Append(conversationID string, turns ...core.Content) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[conversationID]
	if !ok || s.expired(e) {
		e = &entry{}
		s.entries[conversationID] = e
	}
	e.history = append(e.history, turns...)
	if s.maxMessages > 0 && len(e.history) > s.maxMessages {
		e.history = e.history[len(e.history)-s.maxMessages:]
	}
	e.updatedAt = s.now()
}

// Len reports the number of live (non-expired) conversations.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.entries {
		if !s.expired(e) {
			n++
		}
	}
	return n
}

func (s *InMemoryStore) expired(e *entry) bool {
	return s.ttl > 0 && s.now().Sub(e.updatedAt) > s.ttl
}
