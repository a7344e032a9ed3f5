package utils

import (
	"sync"
	"time"
)

// RateGate enforces a global minimum spacing between requests to the
// listing source. The gate is shared state guarded by a mutex, so the
// spacing guarantee holds even if multiple goroutines ever drive it —
// it is per source, not per caller.
type RateGate struct {
	mu          sync.Mutex
	minInterval time.Duration
	last        time.Time
}

// NewRateGate creates a RateGate with the given minimum spacing.
func NewRateGate(minInterval time.Duration) *RateGate {
	return &RateGate{minInterval: minInterval}
}

// MinInterval returns the configured spacing.
func (g *RateGate) MinInterval() time.Duration {
	return g.minInterval
}

// Wait blocks until at least the minimum interval has passed since the
// previous Wait returned. The first call passes immediately.
func (g *RateGate) Wait() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.last.IsZero() {
		if remaining := g.minInterval - time.Since(g.last); remaining > 0 {
			time.Sleep(remaining)
		}
	}
	g.last = time.Now()
}

// IDSet is a thread-safe set for tracking listing identifiers.
type IDSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewIDSet creates an empty IDSet.
func NewIDSet() *IDSet {
	return &IDSet{seen: make(map[string]struct{})}
}

// Add returns true if the id was newly added, false if already present.
func (s *IDSet) Add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[id]; exists {
		return false
	}
	s.seen[id] = struct{}{}
	return true
}

// Contains returns true if the id has already been seen.
func (s *IDSet) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[id]
	return exists
}

// Size returns the number of unique ids tracked.
func (s *IDSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
