package sum

import (
	"context"

	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/kinds"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the kinds.Module interface for this package.
type Module struct{}

// Input defines the arguments of a 'sum' job.
type Input struct {
	Values []float64 `cty:"values"`
}

// OnRunSum adds the job's own values to the numeric outputs of its
// prerequisites. Non-numeric or missing outputs are skipped.
func OnRunSum(ctx context.Context, rt *kinds.Runtime, input *Input) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx)

	var total float64
	for _, v := range input.Values {
		total += v
	}

	for _, in := range rt.Inputs {
		if in.Value.IsNull() || !in.Value.IsKnown() || !in.Value.Type().Equals(cty.Number) {
			logger.Debug("Skipping non-numeric input.", "input", in.Name)
			continue
		}
		f, _ := in.Value.AsBigFloat().Float64()
		total += f
	}

	logger.Debug("Sum computed.", "values", len(input.Values), "inputs", len(rt.Inputs), "total", total)
	return cty.NumberFloatVal(total), nil
}

// Register registers the kind with the registry.
func (m *Module) Register(r *kinds.Registry) {
	kinds.Register(r, "sum", map[string]cty.Value{
		"values": cty.ListValEmpty(cty.Number),
	}, OnRunSum)
}
