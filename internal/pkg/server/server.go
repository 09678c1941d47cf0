package server

import (
	"context"
	"net"
	"sync"
	"time"

	"rpcg/api/rpcgpb"
	"rpcg/internal/pkg/handler"
	"rpcg/internal/pkg/session"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// DefaultShutdownGrace is how long the server keeps running after Done,
// so that the Done reply can finish transmitting.
const DefaultShutdownGrace = 100 * time.Millisecond

// Server implements a gRPC server that serves one Try session.
type Server struct {
	addr    string
	grace   time.Duration
	session *session.Session
	strict  bool

	grpc     *grpc.Server
	stopOnce sync.Once
	stopped  chan struct{}
}

// Cfg configures a Server.
type Cfg func(*Server) error

// WithAddr sets the host:port the server listens on.
func WithAddr(addr string) Cfg {
	return func(s *Server) error {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return errors.Wrapf(err, "split address %q failed", addr)
		}
		s.addr = addr
		return nil
	}
}

// WithSession sets the session state the server applies requests to.
func WithSession(sess *session.Session) Cfg {
	return func(s *Server) error {
		s.session = sess
		return nil
	}
}

// WithShutdownGrace sets the delay between answering Done and stopping.
func WithShutdownGrace(d time.Duration) Cfg {
	return func(s *Server) error {
		if d < 0 {
			return errors.New("shutdown grace must not be negative")
		}
		s.grace = d
		return nil
	}
}

// WithStrictFinalize makes a Try after Done crash the server.
func WithStrictFinalize(strict bool) Cfg {
	return func(s *Server) error {
		s.strict = strict
		return nil
	}
}

// NewServer creates a new Server with the given configuration.
func NewServer(cfgs ...Cfg) (*Server, error) {
	s := &Server{
		grace:   DefaultShutdownGrace,
		stopped: make(chan struct{}),
	}
	for _, cfg := range cfgs {
		if err := cfg(s); err != nil {
			return nil, errors.Wrap(err, "apply Server cfg failed")
		}
	}
	if s.session == nil {
		s.session = session.New()
	}
	h, err := handler.NewHandler(
		handler.WithSession(s.session),
		handler.WithOnDone(s.stopAfterGrace),
		handler.WithStrictFinalize(s.strict),
	)
	if err != nil {
		return nil, errors.Wrap(err, "new handler failed")
	}
	s.grpc = grpc.NewServer(grpc.UnaryInterceptor(logUnary))
	rpcgpb.RegisterRPCGameServer(s.grpc, h)
	return s, nil
}

// Session returns the session served by s.
func (s *Server) Session() *session.Session {
	return s.session
}

// Stopped is closed once the server has been stopped.
func (s *Server) Stopped() <-chan struct{} {
	return s.stopped
}

// Stop stops the server immediately. It is safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopped)
		s.grpc.Stop()
	})
}

func (s *Server) stopAfterGrace() {
	logger.WithField("grace", s.grace).Info("scheduling shutdown")
	time.AfterFunc(s.grace, s.Stop)
}

// Serve serves on lis until the server is stopped or ctx ends.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", lis.Addr().String()).Info("server listening")
		if err := s.grpc.Serve(lis); err != nil {
			select {
			case <-s.stopped:
				// stopped before Serve got going
				return nil
			default:
			}
			return errors.Wrap(err, "serve failed")
		}
		return nil
	})
	g.Go(func() error {
		// gctx also ends when the serve goroutine fails
		select {
		case <-gctx.Done():
			s.Stop()
		case <-s.stopped:
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server exiting")
	return nil
}

// ListenAndServe listens on the configured address and serves on it.
func (s *Server) ListenAndServe(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s failed", s.addr)
	}
	return s.Serve(ctx, lis)
}

func logUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	entry := logger.WithFields(logrus.Fields{
		"method":  info.FullMethod,
		"latency": time.Since(start),
		"code":    status.Code(err).String(),
	})
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(rpcgpb.SessionMetadataKey); len(ids) > 0 {
			entry = entry.WithField("session", ids[0])
		}
	}
	if err != nil {
		entry.WithError(err).Warn("call failed")
	} else {
		entry.Debug("call completed")
	}
	return resp, err
}
