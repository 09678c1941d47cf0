package client

import (
	"context"
	"time"

	"rpcg/api/rpcgpb"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Transport carries Try calls to the server. Try and TryBatch return at
// once; the returned Call completes when the reply (or a failure) arrives.
// Calls may complete in any order.
type Transport interface {
	Try(ctx context.Context, req *rpcgpb.TryRequest) *Call
	TryBatch(ctx context.Context, reqs []*rpcgpb.TryRequest) *Call
	Done(ctx context.Context) (*rpcgpb.DoneResponse, error)
	Close() error
}

// Call is a handle on one outstanding transport call.
type Call struct {
	done   chan struct{}
	values []uint64
	err    error
}

// NewCall creates an outstanding Call.
func NewCall() *Call {
	return &Call{done: make(chan struct{})}
}

// Complete records the outcome of the call. It must be called exactly once.
func (c *Call) Complete(values []uint64, err error) {
	c.values = values
	c.err = err
	close(c.done)
}

// Done is closed once the call has completed.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Ready reports, without blocking, whether the call has completed.
func (c *Call) Ready() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the call completes or ctx ends.
func (c *Call) Wait(ctx context.Context) ([]uint64, error) {
	select {
	case <-c.done:
		return c.values, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// DefaultCallTimeout bounds every call made by a GRPCTransport.
const DefaultCallTimeout = 30 * time.Second

// GRPCTransport is a Transport over an RPCGame gRPC client.
type GRPCTransport struct {
	conn    *grpc.ClientConn
	stub    rpcgpb.RPCGameClient
	timeout time.Duration
	session uuid.UUID
}

// NewGRPCTransport wraps stub. Every call carries session in its metadata
// and is bounded by timeout; a timeout of 0 disables the bound.
func NewGRPCTransport(stub rpcgpb.RPCGameClient, session uuid.UUID, timeout time.Duration) *GRPCTransport {
	return &GRPCTransport{
		stub:    stub,
		timeout: timeout,
		session: session,
	}
}

// Dial connects to the server at addr.
func Dial(ctx context.Context, addr string, session uuid.UUID, timeout time.Duration) (*GRPCTransport, error) {
	conn, err := grpc.DialContext(ctx,
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s failed", addr)
	}
	t := NewGRPCTransport(rpcgpb.NewRPCGameClient(conn), session, timeout)
	t.conn = conn
	return t, nil
}

func (t *GRPCTransport) outgoing(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = metadata.AppendToOutgoingContext(ctx, rpcgpb.SessionMetadataKey, t.session.String())
	if t.timeout > 0 {
		return context.WithTimeout(ctx, t.timeout)
	}
	return context.WithCancel(ctx)
}

// Try sends a single request.
func (t *GRPCTransport) Try(ctx context.Context, req *rpcgpb.TryRequest) *Call {
	call := NewCall()
	go func() {
		ctx, cancel := t.outgoing(ctx)
		defer cancel()
		resp, err := t.stub.Try(ctx, req)
		if err != nil {
			call.Complete(nil, err)
			return
		}
		call.Complete([]uint64{resp.Value}, nil)
	}()
	return call
}

// TryBatch sends reqs in one call.
func (t *GRPCTransport) TryBatch(ctx context.Context, reqs []*rpcgpb.TryRequest) *Call {
	call := NewCall()
	go func() {
		ctx, cancel := t.outgoing(ctx)
		defer cancel()
		resp, err := t.stub.TryBatch(ctx, &rpcgpb.TryBatchRequest{Items: reqs})
		if err != nil {
			call.Complete(nil, err)
			return
		}
		call.Complete(resp.Values, nil)
	}()
	return call
}

// Done ends the session synchronously.
func (t *GRPCTransport) Done(ctx context.Context) (*rpcgpb.DoneResponse, error) {
	ctx, cancel := t.outgoing(ctx)
	defer cancel()
	return t.stub.Done(ctx, &rpcgpb.DoneRequest{})
}

// Close closes the underlying connection, if the transport owns one.
func (t *GRPCTransport) Close() error {
	if t.conn == nil {
		return nil
	}
	return errors.Wrap(t.conn.Close(), "close client connection failed")
}
