package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/vk/jobgrid/internal/kinds"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the kinds.Module interface for this package.
type Module struct{}

// Input defines the arguments of an 'env_vars' job.
type Input struct {
	Prefix string `cty:"prefix"`
}

// OnRunEnvVars returns the process environment, restricted to variables
// whose name starts with the configured prefix, as a map(string).
func OnRunEnvVars(_ context.Context, _ *kinds.Runtime, input *Input) (cty.Value, error) {
	envMap := make(map[string]cty.Value)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 && strings.HasPrefix(pair[0], input.Prefix) {
			envMap[pair[0]] = cty.StringVal(pair[1])
		}
	}

	if len(envMap) == 0 {
		return cty.MapValEmpty(cty.String), nil
	}
	return cty.MapVal(envMap), nil
}

// Register registers the kind with the registry.
func (m *Module) Register(r *kinds.Registry) {
	kinds.Register(r, "env_vars", map[string]cty.Value{
		"prefix": cty.StringVal(""),
	}, OnRunEnvVars)
}
