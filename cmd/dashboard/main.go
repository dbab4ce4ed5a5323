// Package main
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/M-QiiQ/TMU-AI-DAO/cfg"
)

type rootOptions struct {
	envFile string

	cfg    cfg.DashboardConfig
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "TMU-AI-DAO governance dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			opts.flush()
		},
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(
		newServeCmd(opts),
		newProposalsCmd(opts),
		newBalanceCmd(opts),
		newSubmitCmd(opts),
	)
	return root
}

func (o *rootOptions) load() error {
	if err := godotenv.Load(o.envFile); err != nil && !os.IsNotExist(err) {
		return err
	}

	serviceCfg, err := cfg.New()
	if err != nil {
		return err
	}
	o.cfg = serviceCfg

	if err := setupSentry(serviceCfg); err != nil {
		return err
	}
	logger, err := newLogger(serviceCfg)
	if err != nil {
		return errors.Wrap(err, "cannot init logger")
	}
	o.logger = logger
	return nil
}

func (o *rootOptions) flush() {
	sentry.Flush(2 * time.Second)
	if o.logger != nil {
		_ = o.logger.Sync()
	}
}

// withApp builds the app, runs Init and hands the ready app to fn.
func (o *rootOptions) withApp(ctx context.Context, fn func(a *app) error) error {
	a, err := newApp(o.cfg, o.logger)
	if err != nil {
		return err
	}
	defer a.Close()

	a.controller.Init(ctx)
	return fn(a)
}
