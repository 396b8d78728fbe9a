package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/jobgrid/internal/app"
	"github.com/vk/jobgrid/internal/config"
	"github.com/vk/jobgrid/internal/fsutil"
	"github.com/vk/jobgrid/internal/hcl"
	"github.com/vk/jobgrid/internal/yaml"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Message: err.Error(), Err: err}
}

// Execute runs the command line given by args. All output, including logs
// and help text, goes to outW. Every non-nil error returned is an
// *ExitError.
func Execute(ctx context.Context, args []string, outW io.Writer) error {
	root := NewRootCmd(outW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// cobra reports unknown subcommands as plain errors.
	if strings.HasPrefix(err.Error(), "unknown command") {
		return usageError(err)
	}
	// A PATH argument that names no graph is a usage mistake.
	if errors.Is(err, fsutil.ErrPathNotFound) || errors.Is(err, app.ErrNoGraphFiles) {
		return usageError(err)
	}
	return &ExitError{Code: ExitFailure, Message: err.Error(), Err: err}
}

// defaultLoader understands every supported graph format.
func defaultLoader() config.Loader {
	return config.NewMultiLoader(hcl.NewLoader(), yaml.NewLoader())
}

// newApp validates the collected flags and builds the app around them.
func newApp(outW io.Writer, cfg app.Config) (*app.App, error) {
	appConfig, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return app.NewApp(outW, appConfig, defaultLoader()), nil
}

// exactPath is cobra.ExactArgs(1) reporting a usage error.
func exactPath(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return usageError(err)
	}
	return nil
}
