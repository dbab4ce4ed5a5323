// Package main
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/M-QiiQ/TMU-AI-DAO/types"
	"github.com/M-QiiQ/TMU-AI-DAO/view"
)

func newProposalsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "proposals",
		Short: "Print the balance and every proposal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				return view.RenderText(cmd.OutOrStdout(), view.NewPage(a.controller.Snapshot()))
			})
		},
	}
}

func newBalanceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Print the token balance of the configured identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), view.BalanceString(a.controller.Snapshot().Balance))
				return err
			})
		},
	}
}

func newSubmitCmd(opts *rootOptions) *cobra.Command {
	draft := types.NewDraft()
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a proposal and print the refreshed list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := draft.Validate(); err != nil {
				return err
			}
			return opts.withApp(cmd.Context(), func(a *app) error {
				id, err := a.controller.Submit(cmd.Context(), draft)
				if err != nil {
					page := view.NewPage(a.controller.Snapshot()).WithAlert(view.AlertSubmitFailed)
					_ = view.RenderText(cmd.ErrOrStderr(), page)
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Submitted proposal %s\n\n", id)
				return view.RenderText(cmd.OutOrStdout(), view.NewPage(a.controller.Snapshot()))
			})
		},
	}
	cmd.Flags().StringVar(&draft.Title, "title", "", "proposal title")
	cmd.Flags().StringVar(&draft.Description, "description", "", "proposal description")
	cmd.Flags().Int64Var(&draft.DurationSeconds, "duration", types.DefaultDurationSeconds, "voting duration in seconds")
	cmd.Flags().StringVar(&draft.Key, "key", draft.Key, "submission key; reuse it to make a retry idempotent")
	return cmd
}
