package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFormat string
}

// NewRootCmd creates the root cobra command for the jobgrid CLI.
func NewRootCmd(outW io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "jobgrid",
		Short: "jobgrid - run dependency graphs of jobs on a worker pool",
		Long: `jobgrid loads a graph of jobs from HCL (.hcl) or YAML (.yaml, .yml) files
and runs it on a pool of workers. A job starts only after every job it
depends on has finished; among ready jobs, higher priorities go first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags.logLevel = strings.ToLower(flags.logLevel)
			flags.logFormat = strings.ToLower(flags.logFormat)
			return nil
		},
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(outW, flags),
		newValidateCmd(outW, flags),
	)
	return root
}
