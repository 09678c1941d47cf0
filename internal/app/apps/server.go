package apps

import (
	"context"
	"net"
	"time"

	"rpcg/internal/pkg/server"
	"rpcg/internal/pkg/validate"

	"github.com/pkg/errors"
)

// ServerAppCfg configures a ServerApp.
type ServerAppCfg interface {
	ApplyServerApp(*ServerApp) error
}

// ServerApp is the rpcg server application.
type ServerApp struct {
	Addr           string        `validate:"omitempty,host_port"`
	ShutdownGrace  time.Duration `validate:"min=0"`
	Listener       net.Listener  `validate:"-"`
	StrictFinalize bool
}

// NewServerApp creates a new ServerApp.
func NewServerApp(cfgs ...ServerAppCfg) (*ServerApp, error) {
	app := &ServerApp{
		ShutdownGrace: server.DefaultShutdownGrace,
	}
	for _, cfg := range cfgs {
		if err := cfg.ApplyServerApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ServerApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ServerApp failed")
	}
	if app.Addr == "" && app.Listener == nil {
		return nil, errors.New("ServerApp needs an address or a listener")
	}
	return app, nil
}

// Run serves one session and returns once the server has stopped.
func (app *ServerApp) Run(ctx context.Context, _ []string) error {
	cfgs := []server.Cfg{
		server.WithShutdownGrace(app.ShutdownGrace),
		server.WithStrictFinalize(app.StrictFinalize),
	}
	if app.Listener == nil {
		cfgs = append(cfgs, server.WithAddr(app.Addr))
	}
	s, err := server.NewServer(cfgs...)
	if err != nil {
		return errors.Wrap(err, "create server failed")
	}
	if app.Listener != nil {
		return errors.Wrap(s.Serve(ctx, app.Listener), "serve failed")
	}
	return errors.Wrap(s.ListenAndServe(ctx), "listen and serve failed")
}
