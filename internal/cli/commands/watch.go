package commands

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/colony-core/foxtail/internal/cli/ui"
	"github.com/colony-core/foxtail/internal/convert"
	"github.com/colony-core/foxtail/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "watch <infile> [<outfile>]",
		Short: "Re-run the conversion whenever the Node file changes",
		Long: `Convert <infile> once, then keep converting it every time it (or the
configured type dictionary) is saved. Failed conversions are reported and
watching continues. Press Ctrl+C to stop.

Accepts the same flags as 'foxtail convert'.`,
		Example: `  # Keep node.id.json and points.h up to date while editing node.json
  foxtail watch node.json -c points.h --pretty`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runWatch(cmd *cobra.Command, args []string, flags *convertFlags) error {
	opts, err := flags.options(cmd, args)
	if err != nil {
		return err
	}

	logger := newLogger(cmd)
	defer logger.Sync()

	var mu sync.Mutex
	rebuild := func() {
		mu.Lock()
		defer mu.Unlock()
		result, err := convert.Run(opts, logger)
		if err != nil {
			_ = reportFailure(cmd, err, opts.Input, flags.json)
			return
		}
		reportConversion(cmd.OutOrStdout(), opts, result)
	}

	files := []string{opts.Input}
	if opts.DictionaryFile != "" {
		files = append(files, opts.DictionaryFile)
	}

	watcher, err := watch.NewFileWatcher(files, watch.DefaultDebounce, func(changed []string) error {
		logger.Info("Change detected", zap.Strings("files", changed))
		rebuild()
		return nil
	}, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rebuild()

	out := cmd.OutOrStdout()
	fmt.Fprint(out, ui.Info(fmt.Sprintf("Watching %s", opts.Input), color.NoColor))
	color.New(color.FgYellow).Fprintln(out, "Press Ctrl+C to stop")

	if err := watcher.Start(); err != nil {
		watcher.Stop()
		return err
	}

	<-ctx.Done()

	err = watcher.Stop()
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, "\nShutting down...")
	if err != nil {
		return fmt.Errorf("error stopping watcher: %w", err)
	}
	return nil
}
