package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"scalectl/internal/cli"
	"scalectl/internal/reconciler"
	"scalectl/pkg/logging"
)

func newWatchCmd() *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reconcile whenever the desired-state file changes",
		Long: `Reconcile once, then again every time the desired-state file is written.
Runs never overlap. A failed run is reported and watching continues, so that
the file can be fixed in place. Stop with Ctrl-C.`,
		Example: `  scalectl watch -f bbb1.yaml --converge`,
		Args:    cobra.NoArgs,
		// Errors are printed once by Execute, without the usage text.
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			opts.Setup(cmd)
			return runWatch(cmd.Context(), cmd, opts)
		},
	}

	opts.register(cmd)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, opts *applyOptions) error {
	watcher, err := reconciler.NewFileWatcher(opts.file, 0)
	if err != nil {
		return err
	}

	// Capacity 1: one change is kept while a run is in progress.
	changes := make(chan reconciler.ChangeEvent, 1)
	if err := watcher.Start(ctx, changes); err != nil {
		return err
	}
	defer watcher.Stop()

	stats := reconciler.NewStats()
	run := func() {
		result, err := opts.reconcileOnce(ctx, cmd)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			stats.Record(result, err)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", text.FgRed.Sprint("Error:"), cli.Describe(err))
			return
		}
		stats.Record(result, nil)
		if err := opts.Printer(cmd).PrintResult(result); err != nil {
			logging.Error("Watch", err, "Failed to print result")
		}
	}

	run()
	for {
		select {
		case <-ctx.Done():
			summary := stats.Summary()
			logging.Info("Watch", "Stopped watching %s: %s", watcher.Path(), summary)
			if !opts.Quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "Stopped watching: %s\n", summary)
			}
			return nil
		case ev := <-changes:
			if ev.Operation == reconciler.OperationDelete {
				logging.Warn("Watch", "%s was removed, waiting for it to come back", ev.FilePath)
				continue
			}
			logging.Info("Watch", "%s changed, reconciling", ev.FilePath)
			run()
		}
	}
}
