package session

import (
	"context"
	"sync"
)

// Sequencer is a turnstile: callers present a serial and are admitted to
// the critical section strictly in serial order, starting from 1.
//
// Every advance wakes all waiters, which re-check whether it is their
// turn. Waiters are never assumed to wake in any particular order.
type Sequencer struct {
	mu       sync.Mutex
	want     uint64
	advanced chan struct{}
}

// NewSequencer creates a Sequencer whose first admitted serial is 1.
func NewSequencer() *Sequencer {
	return &Sequencer{
		want:     1,
		advanced: make(chan struct{}),
	}
}

// Do blocks until it is serial's turn, runs fn with the sequencer lock
// held, then admits serial+1. If ctx ends first, fn is not run and the
// turn does not advance.
func (s *Sequencer) Do(ctx context.Context, serial uint64, fn func()) error {
	s.mu.Lock()
	for serial != s.want {
		if serial < s.want {
			s.mu.Unlock()
			return ErrSerialReplayed
		}
		advanced := s.advanced
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-advanced:
		}
		s.mu.Lock()
	}
	fn()
	s.want++
	close(s.advanced)
	s.advanced = make(chan struct{})
	s.mu.Unlock()
	return nil
}

// Locked runs fn with the sequencer lock held, outside of any turn.
func (s *Sequencer) Locked(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Want returns the next serial that will be admitted.
func (s *Sequencer) Want() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.want
}
