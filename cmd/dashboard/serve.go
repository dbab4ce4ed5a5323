// Package main
package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/M-QiiQ/TMU-AI-DAO/api"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard page and its JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts.logger.Info("Start dashboard server...", zap.String("network", opts.cfg.Network))
			return opts.withApp(ctx, func(a *app) error {
				srv := api.NewServer(a.controller).
					SetLogger(opts.logger).
					SetJournal(a.journal).
					SetMetrics(a.metrics).
					SetSubmitLimit(opts.cfg.SubmitRateLimit, opts.cfg.SubmitRateBurst)
				return api.Start(ctx, srv, opts.cfg.Port)
			})
		},
	}
}
