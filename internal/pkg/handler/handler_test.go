package handler

import (
	"context"
	"testing"

	"rpcg/api/rpcgpb"
	"rpcg/internal/pkg/checksum"
	"rpcg/internal/pkg/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func withSession(id uuid.UUID) context.Context {
	return metadata.NewIncomingContext(context.Background(),
		metadata.Pairs(rpcgpb.SessionMetadataKey, id.String()))
}

func TestTryBatchKeepsItemOrder(t *testing.T) {
	h, err := NewHandler()
	require.NoError(t, err)
	ctx := context.Background()
	resp, err := h.TryBatch(ctx, &rpcgpb.TryBatchRequest{Items: []*rpcgpb.TryRequest{
		{Serial: 1, Name: "alice", Count: 1},
		{Serial: 2, Name: "bob", Count: 2},
	}})
	require.NoError(t, err)
	require.Equal(t, []uint64{
		checksum.Hash("alice") + 1 + 0,
		checksum.Hash("bob") + 2 + 1,
	}, resp.Values)

	single, err := h.Try(ctx, &rpcgpb.TryRequest{Serial: 3, Name: "carol", Count: 3})
	require.NoError(t, err)
	require.Equal(t, checksum.Hash("carol")+3+2, single.Value)
}

func TestDoneCallsHook(t *testing.T) {
	called := false
	sess := session.New()
	h, err := NewHandler(WithSession(sess), WithOnDone(func() { called = true }))
	require.NoError(t, err)
	_, err = h.Try(context.Background(), &rpcgpb.TryRequest{Serial: 1, Name: "alice", Count: 1})
	require.NoError(t, err)

	resp, err := h.Done(context.Background(), &rpcgpb.DoneRequest{})
	require.NoError(t, err)
	require.True(t, called)
	require.True(t, sess.Finalized())
	require.Len(t, resp.ClientChecksum, 16)
	require.Len(t, resp.ServerChecksum, 16)
}

func TestTryAfterDoneIsFailedPrecondition(t *testing.T) {
	h, err := NewHandler()
	require.NoError(t, err)
	_, err = h.Done(context.Background(), &rpcgpb.DoneRequest{})
	require.NoError(t, err)
	_, err = h.Try(context.Background(), &rpcgpb.TryRequest{Serial: 1, Name: "late", Count: 1})
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestTryAfterDonePanicsWhenStrict(t *testing.T) {
	h, err := NewHandler(WithStrictFinalize(true))
	require.NoError(t, err)
	_, err = h.Try(context.Background(), &rpcgpb.TryRequest{Serial: 1, Name: "early", Count: 1})
	require.NoError(t, err)
	_, err = h.Done(context.Background(), &rpcgpb.DoneRequest{})
	require.NoError(t, err)
	require.Panics(t, func() {
		_, _ = h.Try(context.Background(), &rpcgpb.TryRequest{Serial: 2, Name: "late", Count: 1})
	})
}

func TestTryRejectsBadSerials(t *testing.T) {
	h, err := NewHandler()
	require.NoError(t, err)
	_, err = h.Try(context.Background(), &rpcgpb.TryRequest{Serial: 0})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.Try(context.Background(), &rpcgpb.TryRequest{Serial: 1, Name: "a"})
	require.NoError(t, err)
	_, err = h.Try(context.Background(), &rpcgpb.TryRequest{Serial: 1, Name: "a"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSessionBinding(t *testing.T) {
	h, err := NewHandler()
	require.NoError(t, err)
	first, second := uuid.New(), uuid.New()
	_, err = h.Try(withSession(first), &rpcgpb.TryRequest{Serial: 1, Name: "a", Count: 1})
	require.NoError(t, err)
	require.Equal(t, first, h.Session().ID())

	_, err = h.Try(withSession(second), &rpcgpb.TryRequest{Serial: 2, Name: "b", Count: 1})
	require.Equal(t, codes.FailedPrecondition, status.Code(err))

	bad := metadata.NewIncomingContext(context.Background(),
		metadata.Pairs(rpcgpb.SessionMetadataKey, "not-a-uuid"))
	_, err = h.Done(bad, &rpcgpb.DoneRequest{})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}
