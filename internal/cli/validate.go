package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vk/jobgrid/internal/app"
)

func newValidateCmd(outW io.Writer, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate PATH",
		Short: "Check a job graph without running it",
		Long: `Validate loads every job-graph file under PATH and checks names, kinds,
arguments, dependencies and cycles exactly as run would.`,
		Args: exactPath,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(outW, app.Config{
				GraphPath: args[0],
				LogLevel:  flags.logLevel,
				LogFormat: flags.logFormat,
			})
			if err != nil {
				return err
			}
			n, err := a.Validate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(outW, "%s: %d jobs OK\n", args[0], n)
			return nil
		},
	}
}
