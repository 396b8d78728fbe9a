package cli

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/vk/jobgrid/internal/app"
)

func newRunCmd(outW io.Writer, flags *globalFlags) *cobra.Command {
	var (
		workers         int
		healthcheckPort int
		timeout         time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run [flags] PATH",
		Short: "Run a job graph",
		Long: `Run loads every job-graph file under PATH, schedules all jobs and waits
for them. The exit code is 1 when any job failed or did not finish.`,
		Args: exactPath,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(outW, app.Config{
				GraphPath:       args[0],
				LogLevel:        flags.logLevel,
				LogFormat:       flags.logFormat,
				WorkerCount:     workers,
				HealthcheckPort: healthcheckPort,
				Timeout:         timeout,
			})
			if err != nil {
				return err
			}
			_, err = a.Run(cmd.Context())
			return err
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of worker goroutines (0 = one per CPU)")
	cmd.Flags().IntVar(&healthcheckPort, "healthcheck-port", 0, "Port for the /health and /stats HTTP server (0 = disabled)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort the run after this long (0 = no limit)")
	return cmd
}
