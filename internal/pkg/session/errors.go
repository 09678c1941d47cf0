package session

import "errors"

// ErrSessionFinalized is returned when a Try arrives after the checksums
// have been read out.
var ErrSessionFinalized = errors.New("session finalized")

// ErrSerialReplayed is returned when a serial that has already been
// processed arrives again.
var ErrSerialReplayed = errors.New("serial already processed")

// ErrSessionMismatch is returned when a second client tries to join a
// session that is bound to another client.
var ErrSessionMismatch = errors.New("session bound to another client")
