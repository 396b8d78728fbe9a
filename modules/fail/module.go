package fail

import (
	"context"
	"errors"

	"github.com/vk/jobgrid/internal/kinds"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the kinds.Module interface for this package.
type Module struct{}

// Input defines the arguments of a 'fail' job.
type Input struct {
	Message string `cty:"message"`
}

// OnRunFail always returns an error carrying the configured message.
func OnRunFail(_ context.Context, _ *kinds.Runtime, input *Input) (cty.Value, error) {
	return cty.NilVal, errors.New(input.Message)
}

// Register registers the kind with the registry.
func (m *Module) Register(r *kinds.Registry) {
	kinds.Register(r, "fail", map[string]cty.Value{
		"message": cty.StringVal("job failed"),
	}, OnRunFail)
}
