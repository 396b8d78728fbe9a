package sleep

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/kinds"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the kinds.Module interface for this package.
type Module struct{}

// Input defines the arguments of a 'sleep' job.
type Input struct {
	Duration string `cty:"duration"`
}

// OnRunSleep blocks for the configured duration or until ctx is done.
func OnRunSleep(ctx context.Context, _ *kinds.Runtime, input *Input) (cty.Value, error) {
	d, err := time.ParseDuration(input.Duration)
	if err != nil {
		return cty.NilVal, fmt.Errorf("invalid duration: %w", err)
	}
	if d < 0 {
		return cty.NilVal, fmt.Errorf("duration must not be negative, got %s", d)
	}

	ctxlog.FromContext(ctx).Debug("Sleeping.", "duration", d)
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return cty.StringVal(d.String()), nil
	case <-ctx.Done():
		return cty.NilVal, ctx.Err()
	}
}

// Register registers the kind with the registry.
func (m *Module) Register(r *kinds.Registry) {
	kinds.Register(r, "sleep", nil, OnRunSleep)
}
