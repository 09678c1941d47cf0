// Package internal holds the command line flags shared by the rpcg
// commands and the values loaded from them.
package internal

import (
	"strings"
	"time"

	"rpcg/internal/pkg/validate"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag describes a command line flag. Every flag can also be set from the
// environment as RPCG_<NAME>, with dashes replaced by underscores.
type Flag struct {
	Name      string
	Shorthand string
	Usage     string
	Default   interface{}
}

// Flag definitions.
var (
	EnvFlag = Flag{
		Name:    "env",
		Usage:   "deployment environment: dev, test or prod",
		Default: "dev",
	}
	LogLevelFlag = Flag{
		Name:    "log-level",
		Usage:   "log level: trace, debug, info, warn or error",
		Default: "info",
	}

	PortFlag = Flag{
		Name:      "port",
		Shorthand: "p",
		Usage:     "port the server listens on",
		Default:   29381,
	}
	AllFlag = Flag{
		Name:      "all",
		Shorthand: "a",
		Usage:     "listen on all interfaces instead of localhost",
		Default:   false,
	}
	ShutdownGraceMSFlag = Flag{
		Name:    "shutdown-grace-ms",
		Usage:   "milliseconds the server keeps running after Done",
		Default: 100,
	}
	StrictFinalizeFlag = Flag{
		Name:    "strict-finalize",
		Usage:   "crash the server on a try received after done",
		Default: false,
	}

	AddrFlag = Flag{
		Name:    "addr",
		Usage:   "server address as host:port",
		Default: "localhost:29381",
	}
	WindowSizeFlag = Flag{
		Name:      "window-size",
		Shorthand: "w",
		Usage:     "maximum number of requests in flight",
		Default:   20,
	}
	BatchSizeFlag = Flag{
		Name:      "batch-size",
		Shorthand: "b",
		Usage:     "requests per call; 1 disables batching",
		Default:   1,
	}
	CallTimeoutMSFlag = Flag{
		Name:    "call-timeout-ms",
		Usage:   "milliseconds before a call is considered failed; must be at least 1",
		Default: 30000,
	}
	InputFlag = Flag{
		Name:      "input",
		Shorthand: "i",
		Usage:     "file of \"name count\" lines to submit, - for stdin",
		Default:   "",
	}
	GenerateFlag = Flag{
		Name:      "generate",
		Shorthand: "n",
		Usage:     "number of random tries to submit when no input is given",
		Default:   1000,
	}
	SeedFlag = Flag{
		Name:    "seed",
		Usage:   "seed for generated tries",
		Default: int64(1),
	}
)

// Values loaded by ValidateEnv.
var (
	Env            string
	LogLevel       string
	Port           int
	All            bool
	ShutdownGrace  time.Duration
	StrictFinalize bool
	Addr           string
	WindowSize     int
	BatchSize      int
	CallTimeout    time.Duration
	Input          string
	Generate       int
	Seed           int64
)

func init() {
	viper.SetEnvPrefix("rpcg")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// RegisterCommandFlags defines flags as persistent flags of cmd and binds
// them to the environment.
func RegisterCommandFlags(cmd *cobra.Command, flags []*Flag) error {
	fs := cmd.PersistentFlags()
	for _, f := range flags {
		switch d := f.Default.(type) {
		case string:
			fs.StringP(f.Name, f.Shorthand, d, f.Usage)
		case int:
			fs.IntP(f.Name, f.Shorthand, d, f.Usage)
		case int64:
			fs.Int64P(f.Name, f.Shorthand, d, f.Usage)
		case bool:
			fs.BoolP(f.Name, f.Shorthand, d, f.Usage)
		default:
			return errors.Errorf("flag %s has unsupported default type %T", f.Name, f.Default)
		}
		if err := viper.BindPFlag(f.Name, fs.Lookup(f.Name)); err != nil {
			return errors.Wrapf(err, "bind flag %s failed", f.Name)
		}
	}
	return nil
}

type env struct {
	Env             string `validate:"oneof=dev test prod"`
	LogLevel        string `validate:"oneof=trace debug info warn error"`
	Port            int    `validate:"min=1,max=65535"`
	ShutdownGraceMS int    `validate:"min=0"`
	Addr            string `validate:"host_port"`
	WindowSize      int    `validate:"min=1"`
	BatchSize       int    `validate:"min=1"`
	CallTimeoutMS   int    `validate:"min=1"`
	Generate        int    `validate:"min=0"`
}

// ValidateEnv loads the flag values and checks them.
func ValidateEnv() error {
	e := env{
		Env:             viper.GetString(EnvFlag.Name),
		LogLevel:        strings.ToLower(viper.GetString(LogLevelFlag.Name)),
		Port:            viper.GetInt(PortFlag.Name),
		ShutdownGraceMS: viper.GetInt(ShutdownGraceMSFlag.Name),
		Addr:            viper.GetString(AddrFlag.Name),
		WindowSize:      viper.GetInt(WindowSizeFlag.Name),
		BatchSize:       viper.GetInt(BatchSizeFlag.Name),
		CallTimeoutMS:   viper.GetInt(CallTimeoutMSFlag.Name),
		Generate:        viper.GetInt(GenerateFlag.Name),
	}
	if err := validate.Validate().Struct(e); err != nil {
		return errors.Wrap(err, "validate env failed")
	}
	Env = e.Env
	LogLevel = e.LogLevel
	Port = e.Port
	All = viper.GetBool(AllFlag.Name)
	StrictFinalize = viper.GetBool(StrictFinalizeFlag.Name)
	ShutdownGrace = time.Duration(e.ShutdownGraceMS) * time.Millisecond
	Addr = e.Addr
	WindowSize = e.WindowSize
	BatchSize = e.BatchSize
	CallTimeout = time.Duration(e.CallTimeoutMS) * time.Millisecond
	Input = viper.GetString(InputFlag.Name)
	Generate = e.Generate
	Seed = viper.GetInt64(SeedFlag.Name)
	return nil
}
