package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/genprobe/genprobe/internal/record"
	"github.com/genprobe/genprobe/internal/render"
	"github.com/genprobe/genprobe/internal/runner"
	"github.com/genprobe/genprobe/internal/scrape"
	"github.com/genprobe/genprobe/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	filterFlags
	Diff     bool
	Condense int
	KeepDB   string

	// TokenGenerator overrides session id generation (for testing).
	// Nil means UUIDv7.
	TokenGenerator store.TokenGenerator
}

// NewRunCommand creates the run command: the build wrapper.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [filter flags] [keyword ...] -- <build command ...>",
		Short: "Run a build and pretty-print its transformation records",
		Long: `Run spawns the build command with the filter configuration in its
environment, scrapes the records the instrumented transformations emit on
stderr, stores them in a per-run capture database, and re-renders them
inline with the build's own output. The exit code mirrors the child's.

Examples:
  genprobe run -a -- go build ./...
  genprobe run -n vendor text/template --diff -- go test ./...
  genprobe run --profile dbg.cue --condense 2 -- make generate`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts, args)
		},
	}

	addFilterFlags(cmd, &opts.filterFlags)
	cmd.Flags().BoolVar(&opts.Diff, "diff", false, "show a word diff of input vs output per call")
	cmd.Flags().IntVar(&opts.Condense, "condense", 0, "collapse payload blocks nested deeper than N (0 = off)")
	cmd.Flags().StringVar(&opts.KeepDB, "keep-db", "", "keep the capture database at this path instead of deleting it")

	return cmd
}

func runBuild(cmd *cobra.Command, opts *RunOptions, args []string) error {
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

	// The capture database is per-run state unless --keep-db pins it.
	dbPath := opts.KeepDB
	if dbPath == "" {
		dir, err := os.MkdirTemp("", "genprobe-*")
		if err != nil {
			return WrapExitError(ExitFailure, "create capture directory", err)
		}
		defer os.RemoveAll(dir)
		dbPath = filepath.Join(dir, "capture.db")
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitFailure, "open capture database", err)
	}
	defer st.Close()

	gen := opts.TokenGenerator
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}
	flags := runner.RenderTokens(spec)
	sess, err := st.BeginSession(ctx, gen, time.Now().Unix(), flags, strings.Join(command, " "))
	if err != nil {
		return WrapExitError(ExitFailure, "begin session", err)
	}
	slog.Debug("session started", "id", sess.ID, "flags", flags, "db", dbPath)

	out := cmd.OutOrStdout()
	renderer := render.New(out, render.Options{
		Color:    opts.Format == "text" && !opts.NoColor,
		Diff:     opts.Diff,
		Condense: opts.Condense,
	})

	ordinal := 0
	result, err := runner.Run(ctx, runner.Options{
		Command: command,
		Spec:    spec,
		Stdout:  out,
		Handle: func(ev scrape.Event) error {
			switch ev.Type {
			case scrape.EventPassthrough:
				return renderer.Passthrough(ev.Line)
			case scrape.EventRecord:
				if _, err := st.WriteRecord(ctx, sess.ID, ordinal, ev.Record); err != nil {
					return err
				}
				ordinal++
				return renderer.Record(ev.Record)
			}
			return nil
		},
	})
	if err != nil {
		return WrapExitError(ExitFailure, "build run failed", err)
	}

	if err := printReport(cmd, opts.RootOptions, st, sess); err != nil {
		return err
	}
	if opts.KeepDB != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "capture database kept at %s\n", opts.KeepDB)
	}

	if result.ExitCode != 0 {
		return &ExitError{
			Code:    result.ExitCode,
			Message: fmt.Sprintf("build exited with code %d", result.ExitCode),
		}
	}
	return nil
}

// splitAtDash separates filter keywords from the build command. Everything
// after "--" is the command; it is required for run and watch.
func splitAtDash(cmd *cobra.Command, args []string) (keywords, command []string, err error) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 || dash == len(args) {
		return nil, nil, NewExitError(ExitCommandError, "missing build command: use -- <build command ...>")
	}
	return args[:dash], args[dash:], nil
}

// printReport renders the session summary after a run or for the report
// command.
func printReport(cmd *cobra.Command, rootOpts *RootOptions, st *store.Store, sess record.Session) error {
	rows, err := st.Report(cmd.Context(), sess.ID)
	if err != nil {
		return WrapExitError(ExitFailure, "session report", err)
	}

	if rootOpts.Format == "json" {
		data, err := store.MarshalReport(sess, rows)
		if err != nil {
			return WrapExitError(ExitFailure, "marshal report", err)
		}
		formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
		return formatter.SuccessRaw(data)
	}

	w := cmd.OutOrStdout()
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "no records captured")
		return err
	}
	fmt.Fprintf(w, "session %s (%s)\n", sess.ID, sess.Command)
	fmt.Fprintf(w, "%-40s %8s %6s %10s\n", "IDENTITY", "CALLS", "DEPTH", "BYTES")
	for _, r := range rows {
		fmt.Fprintf(w, "%-40s %8d %6d %10d\n", r.Identity, r.Calls, r.MaxDepth, r.EmittedBytes)
	}
	return nil
}
