package print

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/kinds"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the kinds.Module interface for this package.
type Module struct{}

// Input defines the arguments of a 'print' job.
type Input struct {
	Message    string `cty:"message"`
	ShowInputs bool   `cty:"show_inputs"`
}

// OnRunPrint writes the message, and optionally the outputs of the job's
// prerequisites, to the application's output.
func OnRunPrint(ctx context.Context, rt *kinds.Runtime, input *Input) (cty.Value, error) {
	ctxlog.FromContext(ctx).Info("Printing message.")

	var b strings.Builder
	b.WriteString(input.Message)
	b.WriteByte('\n')
	if input.ShowInputs {
		for _, in := range rt.Inputs {
			fmt.Fprintf(&b, "      %s = %s\n", in.Name, kinds.Render(in.Value))
		}
	}

	// One write keeps the block together when jobs print concurrently.
	if _, err := io.WriteString(rt.Stdout, b.String()); err != nil {
		return cty.NilVal, err
	}

	return cty.StringVal(input.Message), nil
}

// Register registers the kind with the registry.
func (m *Module) Register(r *kinds.Registry) {
	kinds.Register(r, "print", map[string]cty.Value{
		"show_inputs": cty.False,
	}, OnRunPrint)
}
