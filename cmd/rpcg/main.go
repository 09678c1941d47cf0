// Package main is the rpcg application entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"rpcg/internal"
	"rpcg/internal/app/apps"
	"rpcg/internal/app/cfg"
	"rpcg/internal/pkg/log"
	"rpcg/internal/pkg/parse"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLI command definitions.
var (
	logger logrus.FieldLogger = logrus.StandardLogger()

	rootCmd = &cobra.Command{
		Use:           "rpcg",
		Short:         "Pipelined Try protocol with end-to-end checksums.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	clientCmd = &cobra.Command{
		Use:   "client [generate_count]",
		Short: "Runs an rpcg client session against a server.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("at most one argument allowed")
			}
			if len(args) == 0 {
				return nil
			}
			n, err := parse.Uint(args[0], 31)
			if err != nil {
				return errors.Wrap(err, "parse generate count argument failed")
			}
			viper.Set(internal.GenerateFlag.Name, int(n))
			return nil
		},
		RunE: runCmd,
	}

	serverCmd = &cobra.Command{
		Use:   "server",
		Short: "Starts an rpcg server for one session.",
		Args:  cobra.NoArgs,
		RunE:  runCmd,
	}
)

func newApp(_ context.Context, cmd *cobra.Command, args []string) (apps.App, []string, error) {
	switch cmd.Name() {
	case "client":
		addr, err := cfg.ClientAddrFromEnv()
		if err != nil {
			return nil, nil, errors.Wrap(err, "client address failed")
		}
		app, err := apps.NewClientApp(
			addr,
			cfg.FlowFromEnv(),
			cfg.TimingFromEnv(),
			cfg.WorkloadFromEnv(),
		)
		if err != nil {
			return nil, nil, errors.Wrap(err, "new client app failed")
		}
		return app, args, nil
	case "server":
		addr, err := cfg.ServerAddrFromEnv()
		if err != nil {
			return nil, nil, errors.Wrap(err, "server address failed")
		}
		app, err := apps.NewServerApp(
			addr,
			cfg.TimingFromEnv(),
			cfg.StrictFromEnv(),
		)
		if err != nil {
			return nil, nil, errors.Wrap(err, "new server app failed")
		}
		return app, args, nil
	default:
		return nil, nil, fmt.Errorf("unknown command: %s", cmd.Name())
	}
}

func runCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	if err := chainedCheck(
		ctx,
		envCheck,
	); err != nil {
		return errors.Wrap(err, "chained check failed")
	}
	app, args, err := newApp(ctx, cmd, args)
	if err != nil {
		return errors.Wrapf(err, "new %s app failed", cmd.Name())
	}
	return errors.Wrap(app.Run(ctx, args), "run app failed")
}

func envCheck(ctx context.Context) error {
	err := internal.ValidateEnv()
	if err != nil {
		return errors.Wrap(err, "validate env failed")
	}
	log.SetLogger(internal.LogLevel)
	return nil
}

func chainedCheck(ctx context.Context, checks ...func(context.Context) error) error {
	for _, check := range checks {
		err := check(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

func init() {
	err := internal.RegisterCommandFlags(rootCmd, []*internal.Flag{
		&internal.EnvFlag,
		&internal.LogLevelFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	err = internal.RegisterCommandFlags(clientCmd, []*internal.Flag{
		&internal.AddrFlag,
		&internal.WindowSizeFlag,
		&internal.BatchSizeFlag,
		&internal.CallTimeoutMSFlag,
		&internal.InputFlag,
		&internal.GenerateFlag,
		&internal.SeedFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	err = internal.RegisterCommandFlags(serverCmd, []*internal.Flag{
		&internal.PortFlag,
		&internal.AllFlag,
		&internal.ShutdownGraceMSFlag,
		&internal.StrictFinalizeFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	rootCmd.AddCommand(
		clientCmd,
		serverCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(errors.Wrap(err, "execute root command failed"))
	}
}
