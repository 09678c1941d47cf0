package client

import (
	"rpcg/api/rpcgpb"
)

// Batch describes the requests carried by one transport call. Serials
// are ascending and contiguous.
type Batch struct {
	ID      uint64
	Serials []uint64
	Size    int
}

// First returns the lowest serial in the batch.
func (b Batch) First() uint64 {
	return b.Serials[0]
}

// Last returns the highest serial in the batch.
func (b Batch) Last() uint64 {
	return b.Serials[len(b.Serials)-1]
}

// Contains reports whether serial is carried by the batch.
func (b Batch) Contains(serial uint64) bool {
	return b.Size > 0 && serial >= b.First() && serial <= b.Last()
}

// batcher coalesces accepted requests until size of them are buffered.
type batcher struct {
	size   int
	buf    []*rpcgpb.TryRequest
	nextID uint64
}

func newBatcher(size int) *batcher {
	return &batcher{
		size: size,
		buf:  make([]*rpcgpb.TryRequest, 0, size),
	}
}

// add buffers req and reports whether the buffer is now full.
func (b *batcher) add(req *rpcgpb.TryRequest) bool {
	b.buf = append(b.buf, req)
	return len(b.buf) >= b.size
}

func (b *batcher) len() int {
	return len(b.buf)
}

// take empties the buffer and returns its contents with their metadata.
func (b *batcher) take() (Batch, []*rpcgpb.TryRequest) {
	reqs := b.buf
	b.buf = make([]*rpcgpb.TryRequest, 0, b.size)
	b.nextID++
	batch := Batch{
		ID:      b.nextID,
		Serials: make([]uint64, len(reqs)),
		Size:    len(reqs),
	}
	for i, req := range reqs {
		batch.Serials[i] = req.Serial
	}
	return batch, reqs
}
