// Package handler implements the RPCGame service on top of a session.
package handler

import (
	"context"

	"rpcg/api/rpcgpb"
	"rpcg/internal/pkg/log"
	"rpcg/internal/pkg/session"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Handler serves Try, TryBatch and Done for a single session.
type Handler struct {
	session *session.Session
	onDone  func()
	strict  bool
}

// Cfg configures a Handler.
type Cfg func(*Handler) error

// WithSession sets the session the handler applies requests to.
func WithSession(sess *session.Session) Cfg {
	return func(h *Handler) error {
		h.session = sess
		return nil
	}
}

// WithOnDone sets a function called after Done has read out the checksums.
// The server uses it to schedule its own shutdown.
func WithOnDone(fn func()) Cfg {
	return func(h *Handler) error {
		h.onDone = fn
		return nil
	}
}

// WithStrictFinalize makes a Try after Done panic instead of failing the
// call, taking the server down with it.
func WithStrictFinalize(strict bool) Cfg {
	return func(h *Handler) error {
		h.strict = strict
		return nil
	}
}

// NewHandler creates a new Handler.
func NewHandler(cfgs ...Cfg) (*Handler, error) {
	h := &Handler{}
	for _, cfg := range cfgs {
		if err := cfg(h); err != nil {
			return nil, errors.Wrap(err, "apply handler cfg failed")
		}
	}
	if h.session == nil {
		h.session = session.New()
	}
	return h, nil
}

// Session returns the session the handler serves.
func (h *Handler) Session() *session.Session {
	return h.session
}

// bind checks the caller's session id against the session.
// Callers that send no id are accepted.
func (h *Handler) bind(ctx context.Context) error {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil
	}
	vals := md.Get(rpcgpb.SessionMetadataKey)
	if len(vals) == 0 {
		return nil
	}
	id, err := uuid.Parse(vals[0])
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "parse session id failed: %v", err)
	}
	if err := h.session.Bind(id); err != nil {
		return status.Errorf(codes.FailedPrecondition, "bind session %s failed: %v", id, err)
	}
	return nil
}

func (h *Handler) try(ctx context.Context, req *rpcgpb.TryRequest) (uint64, error) {
	if req.Serial == 0 {
		return 0, status.Error(codes.InvalidArgument, "serial must be positive")
	}
	value, err := h.session.Try(ctx, req.Serial, req.Name, req.Count)
	switch {
	case err == nil:
		logger.WithFields(log.TryRequestToFields(req)).WithField("value", value).Trace("processed try")
		return value, nil
	case errors.Is(err, session.ErrSessionFinalized):
		entry := logger.WithFields(log.TryRequestToFields(req))
		if h.strict {
			entry.Panic("try after done")
		}
		entry.Error("try after done")
		return 0, status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, session.ErrSerialReplayed):
		return 0, status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return 0, status.FromContextError(errors.Cause(err)).Err()
	default:
		return 0, status.Error(codes.Internal, err.Error())
	}
}

// Try processes a single request.
func (h *Handler) Try(ctx context.Context, req *rpcgpb.TryRequest) (*rpcgpb.TryResponse, error) {
	if err := h.bind(ctx); err != nil {
		return nil, err
	}
	value, err := h.try(ctx, req)
	if err != nil {
		return nil, err
	}
	return &rpcgpb.TryResponse{Value: value}, nil
}

// TryBatch processes the items of a batch one after another, each
// taking its turn in the sequencer, and returns their values in item order.
func (h *Handler) TryBatch(ctx context.Context, req *rpcgpb.TryBatchRequest) (*rpcgpb.TryBatchResponse, error) {
	if err := h.bind(ctx); err != nil {
		return nil, err
	}
	out := &rpcgpb.TryBatchResponse{
		Values: make([]uint64, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		value, err := h.try(ctx, item)
		if err != nil {
			return nil, err
		}
		out.Values = append(out.Values, value)
	}
	return out, nil
}

// Done reads out both checksums, which finalizes the session, and then
// notifies the onDone hook.
func (h *Handler) Done(ctx context.Context, _ *rpcgpb.DoneRequest) (*rpcgpb.DoneResponse, error) {
	if err := h.bind(ctx); err != nil {
		return nil, err
	}
	pair := h.session.Done()
	resp := &rpcgpb.DoneResponse{
		ClientChecksum: pair.Client,
		ServerChecksum: pair.Server,
	}
	logger.WithFields(log.DoneResponseToFields(resp)).
		WithField("processed", h.session.Processed()).
		Info("session done")
	if h.onDone != nil {
		h.onDone()
	}
	return resp, nil
}
