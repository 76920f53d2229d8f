package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/genprobe/genprobe/internal/profile"
	"github.com/genprobe/genprobe/internal/runner"
)

// NewProfileCommand creates the profile command group.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Work with CUE filter profiles",
	}
	cmd.AddCommand(newProfileVetCommand(rootOpts))
	return cmd
}

func newProfileVetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vet <file.cue>",
		Short: "Validate a filter profile and show what it lowers to",
		Long: `Vet compiles a profile against the schema and prints the filter
configuration it produces, as the equivalent GENPROBE_FLAGS string.

Example:
  genprobe profile vet dbg.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return vetProfile(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func vetProfile(cmd *cobra.Command, rootOpts *RootOptions, path string) error {
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	spec, err := profile.Load(path)
	if err != nil {
		_ = formatter.Error("profile", err.Error(), nil)
		return WrapExitError(ExitFailure, "invalid filter profile", err)
	}

	flags := runner.RenderTokens(spec)
	if rootOpts.Format == "json" {
		return formatter.Success(map[string]any{
			"profile": path,
			"flags":   flags,
		})
	}
	if flags == "" {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s is valid; empty profile (suppresses everything)\n", path)
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\nGENPROBE_FLAGS=%q\n", path, flags)
	return err
}
