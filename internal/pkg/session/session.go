// Package session holds the server side state of a Try session: the
// sequencer that orders processing and the checksums over both streams.
package session

import (
	"context"
	"sync"

	"rpcg/internal/pkg/checksum"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Session is the process-wide server state for one client session.
// All mutation happens inside the sequencer lock.
type Session struct {
	seq       *Sequencer
	sums      [2]*checksum.Accumulator
	count     uint64
	finalized bool

	idMu sync.Mutex
	id   uuid.UUID
}

// New creates a fresh Session.
func New() *Session {
	return &Session{
		seq:  NewSequencer(),
		sums: [2]*checksum.Accumulator{checksum.New(), checksum.New()},
	}
}

// Bind associates the session with the client identified by id. The first
// id wins; any other id is rejected with ErrSessionMismatch.
func (s *Session) Bind(id uuid.UUID) error {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	if s.id == uuid.Nil {
		s.id = id
		return nil
	}
	if s.id != id {
		return ErrSessionMismatch
	}
	return nil
}

// ID returns the bound client id, or uuid.Nil.
func (s *Session) ID() uuid.UUID {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	return s.id
}

// Try processes one request once every lower serial has been processed,
// and returns its response value: hash(name) + count + the number of
// requests processed before it.
func (s *Session) Try(ctx context.Context, serial uint64, name string, count uint64) (uint64, error) {
	var value uint64
	var finalized bool
	err := s.seq.Do(ctx, serial, func() {
		if s.finalized {
			finalized = true
			return
		}
		s.sums[checksum.Requests].WriteTry(name, count)
		value = checksum.Hash(name) + count + s.count
		s.count++
		s.sums[checksum.Responses].WriteUint64(value)
	})
	if err != nil {
		return 0, errors.Wrapf(err, "wait for serial %d failed", serial)
	}
	if finalized {
		return 0, errors.Wrapf(ErrSessionFinalized, "try serial %d", serial)
	}
	return value, nil
}

// Checksum returns the hex digest for role and marks the session
// finalized: no Try is accepted afterwards.
func (s *Session) Checksum(role checksum.Role) string {
	var sum string
	s.seq.Locked(func() {
		s.finalized = true
		sum = s.sums[role].Hex()
	})
	return sum
}

// Done reads out both checksums, finalizing the session.
func (s *Session) Done() checksum.Pair {
	return checksum.Pair{
		Client: s.Checksum(checksum.Requests),
		Server: s.Checksum(checksum.Responses),
	}
}

// Processed returns how many requests have been processed.
func (s *Session) Processed() uint64 {
	var n uint64
	s.seq.Locked(func() {
		n = s.count
	})
	return n
}

// Finalized reports whether the checksums have been read out.
func (s *Session) Finalized() bool {
	var f bool
	s.seq.Locked(func() {
		f = s.finalized
	})
	return f
}
