package client

import (
	"github.com/pkg/errors"
)

// reorderBuffer holds values that arrived before their turn. Every key
// in pending is greater than next.
type reorderBuffer struct {
	pending map[uint64]uint64
	next    uint64
}

func newReorderBuffer() *reorderBuffer {
	return &reorderBuffer{
		pending: make(map[uint64]uint64),
		next:    1,
	}
}

func (b *reorderBuffer) put(serial, value uint64) error {
	if _, ok := b.pending[serial]; ok || serial < b.next {
		return errors.Wrapf(ErrDuplicateResponse, "serial %d", serial)
	}
	b.pending[serial] = value
	return nil
}

// drain delivers the value for next and every contiguously following
// serial, in order, and returns how many were delivered.
func (b *reorderBuffer) drain(deliver func(uint64)) int {
	n := 0
	for {
		value, ok := b.pending[b.next]
		if !ok {
			return n
		}
		delete(b.pending, b.next)
		b.next++
		n++
		deliver(value)
	}
}

func (b *reorderBuffer) len() int {
	return len(b.pending)
}
