package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/evidly-backend/internal/app"
	"github.com/yungbote/evidly-backend/internal/platform/shutdown"
	"github.com/yungbote/evidly-backend/internal/services"
)

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "evidly",
		Short:         "Compliance scoring engine for commercial kitchens",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		serveCommand(),
		workerCommand(),
		seedCatalogCommand(),
		scoreCommand(),
		sweepCommand(),
		watchCommand(),
	)
	return root
}

// withApp builds the app for one command run and tears it down afterwards.
func withApp(run func(ctx context.Context, a *app.App) error) error {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.Close()
	return run(ctx, a)
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scoring HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				return a.Serve(ctx)
			})
		},
	}
}

func workerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the Temporal worker that takes daily score snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				return a.RunWorker(ctx)
			})
		},
	}
}

func seedCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-catalog",
		Short: "Insert the built-in violation catalog items that are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				n, err := a.SeedCatalog(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "inserted %d catalog items\n", n)
				return nil
			})
		},
	}
}

func scoreCommand() *cobra.Command {
	var saveAudit bool
	cmd := &cobra.Command{
		Use:   "score <location-id>",
		Short: "Calculate one location's compliance score and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				result, err := a.Score(ctx, args[0], saveAudit)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			})
		},
	}
	cmd.Flags().BoolVar(&saveAudit, "save-audit", false, "persist the snapshot and audit rows")
	return cmd
}

func sweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Rescore every active location once and refresh today's snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				res, err := a.Sweep(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, res)
			})
		},
	}
}

func watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print score.updated events as they are published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				enc := json.NewEncoder(cmd.OutOrStdout())
				return a.WatchScores(ctx, func(ev services.ScoreUpdatedEvent) {
					if err := enc.Encode(ev); err != nil {
						fmt.Fprintf(os.Stderr, "encode event: %v\n", err)
					}
				})
			})
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
