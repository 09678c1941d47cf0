// Package checksum implements the order-sensitive digests both endpoints
// keep over the request and response streams of a session.
package checksum

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"
)

// Role identifies which logical stream an Accumulator digests.
type Role int

const (
	// Requests is the stream of (name, count) pairs sent by the client.
	Requests Role = iota
	// Responses is the stream of values computed by the server.
	Responses
)

func (r Role) String() string {
	switch r {
	case Requests:
		return "client"
	case Responses:
		return "server"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Accumulator is an incremental XXH3-64 digest of a logical byte stream.
// The zero value is not usable; create one with New.
type Accumulator struct {
	h   *xxh3.Hasher
	buf [8]byte
}

// New creates an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{h: xxh3.New()}
}

// Reset discards everything written so far.
func (a *Accumulator) Reset() {
	a.h.Reset()
}

// Write appends b to the stream.
func (a *Accumulator) Write(b []byte) {
	_, _ = a.h.Write(b)
}

// WriteString appends s to the stream.
func (a *Accumulator) WriteString(s string) {
	_, _ = a.h.WriteString(s)
}

// WriteUint64 appends v to the stream in little-endian byte order,
// independent of the host byte order.
func (a *Accumulator) WriteUint64(v uint64) {
	binary.LittleEndian.PutUint64(a.buf[:], v)
	_, _ = a.h.Write(a.buf[:])
}

// WriteTry appends one request: the name bytes followed by the count.
func (a *Accumulator) WriteTry(name string, count uint64) {
	a.WriteString(name)
	a.WriteUint64(count)
}

// Sum64 returns the digest of the stream so far. It does not change the
// stream, further writes continue from the same state.
func (a *Accumulator) Sum64() uint64 {
	return a.h.Sum64()
}

// Hex returns the digest as a 16 character lowercase hex string.
func (a *Accumulator) Hex() string {
	return Hex(a.Sum64())
}

// Hex formats a digest as a 16 character lowercase hex string.
func Hex(digest uint64) string {
	return fmt.Sprintf("%016x", digest)
}

// Hash returns the one-shot XXH3-64 digest of name.
func Hash(name string) uint64 {
	return xxh3.HashString(name)
}

// Pair holds one endpoint's digests for both roles.
type Pair struct {
	Client string
	Server string
}
