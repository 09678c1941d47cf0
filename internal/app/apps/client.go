package apps

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"rpcg/internal/pkg/client"
	"rpcg/internal/pkg/validate"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// ClientAppCfg configures a ClientApp.
type ClientAppCfg interface {
	ApplyClientApp(*ClientApp) error
}

// ClientApp is the rpcg client application. It submits a workload of
// tries, finishes the session and reports whether the checksums match.
type ClientApp struct {
	Addr        string        `validate:"required,host_port"`
	WindowSize  int           `validate:"min=1"`
	BatchSize   int           `validate:"min=1"`
	CallTimeout time.Duration `validate:"min=1ms"`
	Input       string
	Generate    int `validate:"min=0"`
	Seed        int64
	Out         io.Writer `validate:"-"`
	In          io.Reader `validate:"-"`
}

// NewClientApp creates a new ClientApp.
func NewClientApp(cfgs ...ClientAppCfg) (*ClientApp, error) {
	app := &ClientApp{
		WindowSize:  client.DefaultWindowSize,
		BatchSize:   client.DefaultBatchSize,
		CallTimeout: client.DefaultCallTimeout,
		Out:         os.Stdout,
		In:          os.Stdin,
	}
	for _, cfg := range cfgs {
		if err := cfg.ApplyClientApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ClientApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ClientApp failed")
	}
	return app, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func (app *ClientApp) workload() (workload, io.Closer, error) {
	switch app.Input {
	case "":
		return generate(app.Generate, app.Seed), nopCloser{}, nil
	case "-":
		return readTries(app.In), nopCloser{}, nil
	default:
		f, err := os.Open(app.Input)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "open input %s failed", app.Input)
		}
		return readTries(f), f, nil
	}
}

// Run runs one session against the server.
func (app *ClientApp) Run(ctx context.Context, _ []string) error {
	next, closer, err := app.workload()
	if err != nil {
		return err
	}
	defer closer.Close()

	var delivered uint64
	c, err := client.NewClient(
		client.WithServerAddr(app.Addr),
		client.WithCallTimeout(app.CallTimeout),
		client.WithWindowSize(app.WindowSize),
		client.WithBatchSize(app.BatchSize),
		client.WithResponseHandler(func(value uint64) {
			delivered++
			logger.WithFields(logrus.Fields{
				"n":     delivered,
				"value": value,
			}).Trace("received response")
		}),
	)
	if err != nil {
		return errors.Wrap(err, "create client failed")
	}
	if err := c.Connect(ctx); err != nil {
		return errors.Wrap(err, "connect client failed")
	}
	defer c.Close()

	for {
		t, ok, err := next()
		if err != nil {
			return errors.Wrap(err, "read workload failed")
		}
		if !ok {
			break
		}
		if err := c.Submit(ctx, t.name, t.count); err != nil {
			return errors.Wrap(err, "submit try failed")
		}
	}
	res, err := c.Finish(ctx)
	if err != nil {
		return errors.Wrap(err, "finish failed")
	}
	fmt.Fprintf(app.Out, "client checksums: %s/%s\nserver checksums: %s/%s\nmatch: %t\n",
		res.Client.Local, res.Client.Remote, res.Server.Local, res.Server.Remote, res.Match)
	if !res.Match {
		return client.ErrChecksumMismatch
	}
	return nil
}
