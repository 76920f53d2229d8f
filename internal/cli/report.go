package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/genprobe/genprobe/internal/record"
	"github.com/genprobe/genprobe/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database string
	Session  string
}

// NewReportCommand creates the report command: summarize a kept capture
// database.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report --db <file>",
		Short: "Summarize a capture database per identity",
		Long: `Report prints per-identity call totals, maximum nesting depth, and
emitted byte counts from a capture database kept with run --keep-db.

Example:
  genprobe report --db capture.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportSession(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to capture database (required)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session id (default: latest)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func reportSession(cmd *cobra.Command, opts *ReportOptions) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "open capture database", err)
	}
	defer st.Close()

	var sess record.Session
	if opts.Session != "" {
		sess, err = st.Session(cmd.Context(), opts.Session)
	} else {
		sess, err = st.LatestSession(cmd.Context())
	}
	if errors.Is(err, store.ErrNoSession) {
		return NewExitError(ExitFailure, "no matching session in capture database")
	}
	if err != nil {
		return WrapExitError(ExitFailure, "read session", err)
	}

	return printReport(cmd, opts.RootOptions, st, sess)
}
