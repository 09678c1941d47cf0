package cfg

import (
	"io"
	"time"

	"rpcg/internal"
	"rpcg/internal/app/apps"
)

// FlowCfg is configuration for the client's window and batching.
type FlowCfg struct {
	window int
	batch  int
}

// NewFlowCfg creates a new FlowCfg.
func NewFlowCfg(window, batch int) *FlowCfg {
	return &FlowCfg{window: window, batch: batch}
}

// FlowFromEnv creates a new FlowCfg from the current environment.
func FlowFromEnv() *FlowCfg {
	return NewFlowCfg(internal.WindowSize, internal.BatchSize)
}

// ApplyClientApp applies the FlowCfg to a ClientApp.
func (cfg FlowCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.WindowSize = cfg.window
	app.BatchSize = cfg.batch
	return nil
}

// TimingCfg is configuration for call timeouts and the shutdown grace period.
type TimingCfg struct {
	callTimeout   time.Duration
	shutdownGrace time.Duration
}

// NewTimingCfg creates a new TimingCfg.
func NewTimingCfg(callTimeout, shutdownGrace time.Duration) *TimingCfg {
	return &TimingCfg{callTimeout: callTimeout, shutdownGrace: shutdownGrace}
}

// TimingFromEnv creates a new TimingCfg from the current environment.
func TimingFromEnv() *TimingCfg {
	return NewTimingCfg(internal.CallTimeout, internal.ShutdownGrace)
}

// ApplyClientApp applies the TimingCfg to a ClientApp.
func (cfg TimingCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.CallTimeout = cfg.callTimeout
	return nil
}

// ApplyServerApp applies the TimingCfg to a ServerApp.
func (cfg TimingCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.ShutdownGrace = cfg.shutdownGrace
	return nil
}

// WorkloadCfg is configuration for what the client submits.
type WorkloadCfg struct {
	input    string
	generate int
	seed     int64
}

// NewWorkloadCfg creates a new WorkloadCfg.
func NewWorkloadCfg(input string, generate int, seed int64) *WorkloadCfg {
	return &WorkloadCfg{input: input, generate: generate, seed: seed}
}

// WorkloadFromEnv creates a new WorkloadCfg from the current environment.
func WorkloadFromEnv() *WorkloadCfg {
	return NewWorkloadCfg(internal.Input, internal.Generate, internal.Seed)
}

// ApplyClientApp applies the WorkloadCfg to a ClientApp.
func (cfg WorkloadCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.Input = cfg.input
	app.Generate = cfg.generate
	app.Seed = cfg.seed
	return nil
}

// IOCfg redirects the client's input and report.
type IOCfg struct {
	in  io.Reader
	out io.Writer
}

// NewIOCfg creates a new IOCfg. A nil reader or writer leaves the default.
func NewIOCfg(in io.Reader, out io.Writer) *IOCfg {
	return &IOCfg{in: in, out: out}
}

// ApplyClientApp applies the IOCfg to a ClientApp.
func (cfg IOCfg) ApplyClientApp(app *apps.ClientApp) error {
	if cfg.in != nil {
		app.In = cfg.in
	}
	if cfg.out != nil {
		app.Out = cfg.out
	}
	return nil
}

// StrictCfg is configuration for how the server treats a Try after Done.
type StrictCfg struct {
	strict bool
}

// NewStrictCfg creates a new StrictCfg.
func NewStrictCfg(strict bool) *StrictCfg {
	return &StrictCfg{strict: strict}
}

// StrictFromEnv creates a new StrictCfg from the current environment.
func StrictFromEnv() *StrictCfg {
	return NewStrictCfg(internal.StrictFinalize)
}

// ApplyServerApp applies the StrictCfg to a ServerApp.
func (cfg StrictCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.StrictFinalize = cfg.strict
	return nil
}
