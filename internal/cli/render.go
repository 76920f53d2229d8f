package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/genprobe/genprobe/internal/render"
	"github.com/genprobe/genprobe/internal/scrape"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Diff     bool
	Condense int
}

// NewRenderCommand creates the render command: re-render a captured log.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <logfile|->",
		Short: "Re-render a raw build log through the record pipeline",
		Long: `Render reads a previously captured raw build log (or stdin with "-"),
scrapes the record wire text out of it, and renders it exactly like run
does. Useful for logs captured on CI without the wrapper.

Example:
  go build ./... 2>build.log; genprobe render build.log --diff`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderLog(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Diff, "diff", false, "show a word diff of input vs output per call")
	cmd.Flags().IntVar(&opts.Condense, "condense", 0, "collapse payload blocks nested deeper than N (0 = off)")

	return cmd
}

func renderLog(cmd *cobra.Command, opts *RenderOptions, path string) error {
	var in io.Reader
	if path == "-" {
		in = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return WrapExitError(ExitCommandError, "open log", err)
		}
		defer f.Close()
		in = f
	}

	renderer := render.New(cmd.OutOrStdout(), render.Options{
		Color:    opts.Format == "text" && !opts.NoColor,
		Diff:     opts.Diff,
		Condense: opts.Condense,
	})

	records := 0
	err := scrape.Scan(in, func(ev scrape.Event) error {
		if ev.Type == scrape.EventPassthrough {
			return renderer.Passthrough(ev.Line)
		}
		records++
		return renderer.Record(ev.Record)
	})
	if err != nil {
		return WrapExitError(ExitFailure, "scan log", err)
	}
	if records == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "no records found in log")
	}
	return nil
}
