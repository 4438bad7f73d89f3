package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"talentflow/internal/reconciler"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the remote backend and report the data source mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			if sess.cfg.RemoteConfigured() {
				fmt.Fprintln(out, renderStatusLine("Remote", statusInfo, sess.cfg.Remote.BaseURL, colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Remote", statusWarn, "not configured", colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Probe timeout", statusInfo, sess.cfg.ProbeTimeout().String(), colorize))

			if sess.mode == reconciler.ModeRemote {
				fmt.Fprintln(out, renderStatusLine("Mode", statusOK, string(sess.mode), colorize))
				return nil
			}
			detail := string(sess.mode)
			if probeErr := sess.reconciler.ProbeError(); probeErr != nil && sess.cfg.RemoteConfigured() {
				detail = fmt.Sprintf("%s (%v)", detail, probeErr)
			}
			fmt.Fprintln(out, renderStatusLine("Mode", statusWarn, detail, colorize))
			return nil
		},
	}
}
