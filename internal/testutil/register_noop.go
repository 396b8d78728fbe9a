package testutil

import (
	"context"

	"github.com/vk/jobgrid/internal/kinds"
	"github.com/zclconf/go-cty/cty"
)

// NoOpModule registers a single "noop" kind that takes no arguments and
// does nothing. It is useful for tests about graph shape rather than work.
type NoOpModule struct{}

// Register implements kinds.Module.
func (m *NoOpModule) Register(r *kinds.Registry) {
	kinds.Register(r, "noop", nil, func(context.Context, *kinds.Runtime, *struct{}) (cty.Value, error) {
		return cty.NilVal, nil
	})
}
