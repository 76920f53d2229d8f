package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/genprobe/genprobe/internal/render"
	"github.com/genprobe/genprobe/internal/runner"
	"github.com/genprobe/genprobe/internal/scrape"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	filterFlags
	Diff     bool
	Condense int
	Dirs     []string
	Debounce time.Duration
}

// NewWatchCommand creates the watch command: run under file watching.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch [filter flags] [keyword ...] -- <build command ...>",
		Short: "Re-run the build on every source change",
		Long: `Watch runs the build like run does, then re-runs it after each
debounced batch of changes under the watched directories, until
interrupted. Records are rendered inline; no capture database is kept
across iterations.

Example:
  genprobe watch -a --diff -- go generate ./...`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchBuild(cmd, opts, args)
		},
	}

	addFilterFlags(cmd, &opts.filterFlags)
	cmd.Flags().BoolVar(&opts.Diff, "diff", false, "show a word diff of input vs output per call")
	cmd.Flags().IntVar(&opts.Condense, "condense", 0, "collapse payload blocks nested deeper than N (0 = off)")
	cmd.Flags().StringSliceVar(&opts.Dirs, "dir", nil, "directory to watch (repeatable; default .)")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", runner.DefaultDebounce, "quiet period before a re-run")

	return cmd
}

func watchBuild(cmd *cobra.Command, opts *WatchOptions, args []string) error {
	keywords, command, err := splitAtDash(cmd, args)
	if err != nil {
		return err
	}
	spec, err := opts.filterFlags.spec(cmd, keywords, opts.Verbose)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	renderer := render.New(out, render.Options{
		Color:    opts.Format == "text" && !opts.NoColor,
		Diff:     opts.Diff,
		Condense: opts.Condense,
	})

	err = runner.Watch(ctx, runner.WatchOptions{
		Options: runner.Options{
			Command: command,
			Spec:    spec,
			Stdout:  out,
			Handle: func(ev scrape.Event) error {
				if ev.Type == scrape.EventPassthrough {
					return renderer.Passthrough(ev.Line)
				}
				return renderer.Record(ev.Record)
			},
		},
		Dirs:     opts.Dirs,
		Debounce: opts.Debounce,
	})
	// Interruption is how a watch session normally ends.
	if err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "watch failed", err)
	}
	return nil
}
