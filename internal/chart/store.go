package chart

import (
	"sync/atomic"
	"time"

	"SplitChart/internal/model"
)

// Store publishes the current pass. Readers always see a complete pass; a
// new one replaces the old atomically.
type Store struct {
	current atomic.Pointer[Pass]
}

// Current returns the published pass, or nil before the first one.
func (s *Store) Current() *Pass {
	return s.current.Load()
}

// Swap publishes p and returns the pass it replaced.
func (s *Store) Swap(p *Pass) *Pass {
	return s.current.Swap(p)
}

// Locate answers a cursor query against the published pass.
func (s *Store) Locate(x time.Time) (model.CursorResult, bool) {
	p := s.Current()
	if p == nil {
		return model.CursorResult{}, false
	}
	return p.Locate(x)
}
