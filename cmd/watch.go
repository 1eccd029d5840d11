package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"beakermatrix/internal/check"
	"beakermatrix/internal/config"
	"beakermatrix/internal/formatting"
	"beakermatrix/internal/reconcile"
	"beakermatrix/internal/watcher"
	"beakermatrix/pkg/logging"

	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [DIR]",
		Short: "Re-run compare whenever suites, nodesets or the pipeline change",
		Long: `Compare the component in DIR once, then again after every change to its
acceptance suites, nodesets, pipeline file or component configuration.
Stop with Ctrl-C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounceInterval, "Quiet period before re-running after a change")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir, err := componentDirArg(args)
	if err != nil {
		return err
	}
	base, err := loadBaseConfig()
	if err != nil {
		return err
	}
	cfg, err := config.ForComponent(base, dir)
	if err != nil {
		return err
	}
	f, err := newFormatter(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchComponent(ctx, dir, base, cfg, f)
}

// watchComponent compares dir, then re-compares on every batch of changes
// until ctx is done.
func watchComponent(ctx context.Context, dir string, base, cfg config.Config, f formatting.Formatter) error {
	compare := func() {
		outcome, err := check.Component(dir, base)
		if err != nil {
			logging.Error("Watcher", err, "Compare of %s failed", dir)
			return
		}
		if err := f.FormatReports(formatting.NewRun([]reconcile.Report{outcome.Report})); err != nil {
			logging.Error("Watcher", err, "Failed to print report")
		}
	}

	changes := make(chan watcher.Batch, 1)
	w := watcher.New(dir, cfg, watchDebounce)
	if err := w.Start(ctx, changes); err != nil {
		return err
	}
	defer w.Stop()

	compare()
	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-changes:
			logging.Info("Watcher", "%d changes to %v, comparing again", len(batch), batch.Kinds())
			compare()
		}
	}
}
