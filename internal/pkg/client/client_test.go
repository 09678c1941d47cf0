package client

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"rpcg/api/rpcgpb"
	"rpcg/internal/pkg/checksum"
	"rpcg/internal/pkg/handler"
	"rpcg/internal/pkg/session"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fakeTransport runs calls against an in-process handler and completes
// them after random delays, so completions arrive out of order.
type fakeTransport struct {
	h *handler.Handler

	mu             sync.Mutex
	rng            *rand.Rand
	sizes          []int
	unary          int
	outstanding    int
	maxOutstanding int
	failOn         int
	closed         bool
}

func newFakeTransport(seed int64) *fakeTransport {
	h, err := handler.NewHandler()
	if err != nil {
		panic(err)
	}
	return &fakeTransport{
		h:   h,
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (f *fakeTransport) Try(ctx context.Context, req *rpcgpb.TryRequest) *Call {
	f.mu.Lock()
	f.unary++
	f.mu.Unlock()
	return f.start(ctx, []*rpcgpb.TryRequest{req})
}

func (f *fakeTransport) TryBatch(ctx context.Context, reqs []*rpcgpb.TryRequest) *Call {
	return f.start(ctx, reqs)
}

func (f *fakeTransport) start(ctx context.Context, reqs []*rpcgpb.TryRequest) *Call {
	f.mu.Lock()
	f.sizes = append(f.sizes, len(reqs))
	n := len(f.sizes)
	f.outstanding += len(reqs)
	if f.outstanding > f.maxOutstanding {
		f.maxOutstanding = f.outstanding
	}
	arrive := time.Duration(f.rng.Intn(500)) * time.Microsecond
	reply := time.Duration(f.rng.Intn(500)) * time.Microsecond
	f.mu.Unlock()

	call := NewCall()
	go func() {
		var values []uint64
		var err error
		time.Sleep(arrive)
		if n == f.failOn {
			err = status.Error(codes.Unavailable, "injected fault")
		} else {
			var resp *rpcgpb.TryBatchResponse
			resp, err = f.h.TryBatch(ctx, &rpcgpb.TryBatchRequest{Items: reqs})
			if resp != nil {
				values = resp.Values
			}
		}
		time.Sleep(reply)
		f.mu.Lock()
		f.outstanding -= len(reqs)
		f.mu.Unlock()
		call.Complete(values, err)
	}()
	return call
}

func (f *fakeTransport) Done(ctx context.Context) (*rpcgpb.DoneResponse, error) {
	return f.h.Done(ctx, &rpcgpb.DoneRequest{})
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

type try struct {
	name  string
	count uint64
}

// expected computes the values a fresh server returns for tries.
func expected(t *testing.T, tries []try) []uint64 {
	s := session.New()
	out := make([]uint64, len(tries))
	for i, tr := range tries {
		v, err := s.Try(context.Background(), uint64(i+1), tr.name, tr.count)
		require.NoError(t, err)
		out[i] = v
	}
	return out
}

func randomTries(rng *rand.Rand, n int) []try {
	tries := make([]try, n)
	for i := range tries {
		tries[i] = try{
			name:  fmt.Sprintf("name-%d", rng.Intn(1000)),
			count: rng.Uint64(),
		}
	}
	return tries
}

func TestRunScenarioWindowOne(t *testing.T) {
	tries := []try{{"alice", 1}, {"bob", 2}, {"carol", 3}}
	ft := newFakeTransport(1)
	var got []uint64
	c, err := NewClient(
		WithTransport(ft),
		WithWindowSize(1),
		WithResponseHandler(func(v uint64) { got = append(got, v) }),
	)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, c.Connect(ctx))
	for _, tr := range tries {
		require.NoError(t, c.Submit(ctx, tr.name, tr.count))
	}
	res, err := c.Finish(ctx)
	require.NoError(t, err)
	require.True(t, res.Match)

	require.Equal(t, []uint64{
		checksum.Hash("alice") + 1 + 0,
		checksum.Hash("bob") + 2 + 1,
		checksum.Hash("carol") + 3 + 2,
	}, got)
	require.Equal(t, 1, ft.maxOutstanding)
	require.Equal(t, 3, ft.unary)
	require.NoError(t, c.Close())
	require.True(t, ft.closed)
}

func TestBatchOfTwo(t *testing.T) {
	tries := []try{{"alice", 1}, {"bob", 2}, {"carol", 3}}
	ft := newFakeTransport(2)
	var got []uint64
	c, err := NewClient(
		WithTransport(ft),
		WithBatchSize(2),
		WithResponseHandler(func(v uint64) { got = append(got, v) }),
	)
	require.NoError(t, err)
	ctx := context.Background()
	for _, tr := range tries {
		require.NoError(t, c.Submit(ctx, tr.name, tr.count))
	}
	// the partial batch is only sent by Finish
	require.Equal(t, []int{2}, ft.sizes)
	res, err := c.Finish(ctx)
	require.NoError(t, err)
	require.True(t, res.Match)
	require.Equal(t, []int{2, 1}, ft.sizes)
	require.Zero(t, ft.unary)
	require.Equal(t, uint64(2), c.Stats().Calls)
	require.Equal(t, expected(t, tries), got)
}

func TestInOrderDeliveryUnderRandomCompletion(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, window := range []int{1, 2, 3, 7, 16} {
		for _, batch := range []int{1, 2, 5} {
			window, batch := window, batch
			t.Run(fmt.Sprintf("window=%d/batch=%d", window, batch), func(t *testing.T) {
				tries := randomTries(rng, 60)
				ft := newFakeTransport(int64(window*100 + batch))
				var got []uint64
				c, err := NewClient(
					WithTransport(ft),
					WithWindowSize(window),
					WithBatchSize(batch),
					WithResponseHandler(func(v uint64) { got = append(got, v) }),
				)
				require.NoError(t, err)
				ctx := context.Background()
				for _, tr := range tries {
					require.NoError(t, c.Submit(ctx, tr.name, tr.count))
					require.LessOrEqual(t, c.inFlight, window)
				}
				res, err := c.Finish(ctx)
				require.NoError(t, err)
				require.True(t, res.Match, "%+v", res)

				require.Equal(t, expected(t, tries), got)
				require.LessOrEqual(t, ft.maxOutstanding, window)
				require.LessOrEqual(t, c.Stats().MaxInFlight, window)
				for _, size := range ft.sizes {
					require.LessOrEqual(t, size, batch)
				}
				require.Equal(t, uint64(len(tries)), c.Stats().Delivered)
			})
		}
	}
}

func TestDeterministicAcrossFreshServers(t *testing.T) {
	tries := randomTries(rand.New(rand.NewSource(7)), 40)
	run := func(seed int64) ([]uint64, *Result) {
		var got []uint64
		c, err := NewClient(
			WithTransport(newFakeTransport(seed)),
			WithWindowSize(8),
			WithBatchSize(3),
			WithResponseHandler(func(v uint64) { got = append(got, v) }),
		)
		require.NoError(t, err)
		for _, tr := range tries {
			require.NoError(t, c.Submit(context.Background(), tr.name, tr.count))
		}
		res, err := c.Finish(context.Background())
		require.NoError(t, err)
		return got, res
	}
	v1, r1 := run(1)
	v2, r2 := run(2)
	require.Equal(t, v1, v2)
	require.Equal(t, r1, r2)
}

func TestTransportFaultIsFatal(t *testing.T) {
	ft := newFakeTransport(3)
	ft.failOn = 2
	var got []uint64
	c, err := NewClient(
		WithTransport(ft),
		WithWindowSize(1),
		WithResponseHandler(func(v uint64) { got = append(got, v) }),
	)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, c.Submit(ctx, "alice", 1))
	require.NoError(t, c.Submit(ctx, "bob", 2))

	err = c.Submit(ctx, "carol", 3)
	require.True(t, errors.Is(err, ErrTransport))
	var te *TransportError
	require.True(t, errors.As(err, &te))
	require.Equal(t, codes.Unavailable, te.Code())
	require.Equal(t, []uint64{2}, te.Batch.Serials)

	require.Len(t, ft.sizes, 2, "carol must never be sent")
	require.Len(t, got, 1)

	require.Equal(t, err, c.Submit(ctx, "dave", 4))
	_, ferr := c.Finish(ctx)
	require.Equal(t, err, ferr)
}

func TestFaultWithDeepWindowDeliversNothingPastGap(t *testing.T) {
	ft := newFakeTransport(4)
	ft.failOn = 2
	var got []uint64
	c, err := NewClient(
		WithTransport(ft),
		WithWindowSize(8),
		WithResponseHandler(func(v uint64) { got = append(got, v) }),
	)
	require.NoError(t, err)
	ctx := context.Background()
	for _, tr := range []try{{"alice", 1}, {"bob", 2}, {"carol", 3}} {
		require.NoError(t, c.Submit(ctx, tr.name, tr.count))
	}
	_, err = c.Finish(ctx)
	require.True(t, errors.Is(err, ErrTransport))
	require.LessOrEqual(t, len(got), 1)
}

func TestSubmitWithoutTransport(t *testing.T) {
	c, err := NewClient()
	require.NoError(t, err)
	require.ErrorIs(t, c.Submit(context.Background(), "a", 1), ErrNotConnected)
}

func TestFinishTwice(t *testing.T) {
	c, err := NewClient(WithTransport(newFakeTransport(5)))
	require.NoError(t, err)
	_, err = c.Finish(context.Background())
	require.NoError(t, err)
	_, err = c.Finish(context.Background())
	require.ErrorIs(t, err, ErrFinished)
	require.ErrorIs(t, c.Submit(context.Background(), "a", 1), ErrFinished)
}

func TestInvalidConfig(t *testing.T) {
	_, err := NewClient(WithWindowSize(0))
	require.Error(t, err)
	_, err = NewClient(WithBatchSize(0))
	require.Error(t, err)
	_, err = NewClient(WithCallTimeout(0))
	require.Error(t, err)
}

func TestWindowSmallerThanBatch(t *testing.T) {
	tries := randomTries(rand.New(rand.NewSource(9)), 10)
	ft := newFakeTransport(9)
	var got []uint64
	c, err := NewClient(
		WithTransport(ft),
		WithWindowSize(2),
		WithBatchSize(4),
		WithResponseHandler(func(v uint64) { got = append(got, v) }),
	)
	require.NoError(t, err)
	for _, tr := range tries {
		require.NoError(t, c.Submit(context.Background(), tr.name, tr.count))
	}
	res, err := c.Finish(context.Background())
	require.NoError(t, err)
	require.True(t, res.Match)
	require.Equal(t, expected(t, tries), got)
	require.LessOrEqual(t, ft.maxOutstanding, 2)
}

type tamperTransport struct {
	*fakeTransport
}

func (t tamperTransport) Done(ctx context.Context) (*rpcgpb.DoneResponse, error) {
	resp, err := t.fakeTransport.Done(ctx)
	if err != nil {
		return nil, err
	}
	resp.ServerChecksum = checksum.Hex(0)
	return resp, nil
}

func TestChecksumMismatchReported(t *testing.T) {
	c, err := NewClient(WithTransport(tamperTransport{newFakeTransport(6)}))
	require.NoError(t, err)
	require.NoError(t, c.Submit(context.Background(), "alice", 1))
	res, err := c.Finish(context.Background())
	require.NoError(t, err)
	require.False(t, res.Match)
	require.True(t, res.Client.Match())
	require.False(t, res.Server.Match())
}
