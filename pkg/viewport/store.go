package viewport

import (
	"slices"
	"sync"
)

// Provider owns the current viewport metrics snapshot.
type Provider interface {
	// ViewportMetrics returns the current snapshot.
	ViewportMetrics() Metrics
	// ForceViewportMetrics replaces the snapshot. forceRedraw asks the
	// renderer to draw this frame now instead of coalescing it, and
	// notifyHost asks for the change to be forwarded to the embedding
	// layout engine.
	ForceViewportMetrics(m Metrics, forceRedraw, notifyHost bool)
}

// Commit describes one replacement of the snapshot.
type Commit struct {
	Metrics     Metrics
	ForceRedraw bool
	NotifyHost  bool
	// Version counts commits, starting at 1.
	Version uint64
}

// Store is an in-memory Provider. Listeners observe every commit in
// order and stand in for the rendering collaborator.
type Store struct {
	mu        sync.RWMutex
	metrics   Metrics
	version   uint64
	listeners map[int]func(Commit)
	nextID    int
}

// NewStore creates a store holding the initial snapshot.
func NewStore(initial Metrics) *Store {
	return &Store{
		metrics:   initial,
		listeners: make(map[int]func(Commit)),
	}
}

// ViewportMetrics returns the current snapshot.
func (s *Store) ViewportMetrics() Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

// Version returns the number of commits so far.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// ForceViewportMetrics replaces the snapshot and notifies listeners.
// Listeners run outside the store lock.
func (s *Store) ForceViewportMetrics(m Metrics, forceRedraw, notifyHost bool) {
	s.mu.Lock()
	s.metrics = m
	s.version++
	commit := Commit{
		Metrics:     m,
		ForceRedraw: forceRedraw,
		NotifyHost:  notifyHost,
		Version:     s.version,
	}
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	listeners := make([]func(Commit), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(commit)
	}
}

// AddListener registers a callback for every commit.
// Returns a function that removes it.
func (s *Store) AddListener(fn func(Commit)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
