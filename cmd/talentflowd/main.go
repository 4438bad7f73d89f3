// Command talentflowd runs the reference recruiting backend: the board REST
// contract over a local SQLite database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"talentflow/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFlag string

	root := &cobra.Command{
		Use:           "talentflowd",
		Short:         "Reference board server for talentflow",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	root.AddCommand(newServeCommand(&configFlag, nil))
	return root
}

func newServeCommand(configFlag *string, ready chan<- string) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = cfg.Server.SeedFixtures
			}
			return run(cmd.Context(), cfg, opts, ready)
		},
	}
	cmd.Flags().BoolVar(&opts.seed, "seed", false, "Load the built-in fixture jobs into the database before serving")
	cmd.Flags().StringVar(&opts.bind, "bind", "", "Listen address (overrides server.bind)")
	return cmd
}
