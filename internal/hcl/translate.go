package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/jobgrid/internal/config"
	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// translateJob converts the HCL-specific job schema into the agnostic model.
func translateJob(ctx context.Context, b *JobBlock) (*config.Job, error) {
	logger := ctxlog.FromContext(ctx).With("job_kind", b.Kind, "job_name", b.Name)
	logger.Debug("Translating HCL job to internal config model.")

	j := &config.Job{
		Kind:      b.Kind,
		Name:      b.Name,
		DependsOn: b.DependsOn,
		Source:    b.DeclRange.String(),
	}
	if b.Priority != nil {
		j.Priority = *b.Priority
	}
	if b.AutoDestroy != nil {
		j.AutoDestroy = *b.AutoDestroy
	}

	if b.Arguments != nil {
		args, err := evaluateArguments(b.Arguments.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: job '%s': %w", j.Source, j.Name, err)
		}
		j.Arguments = args
	}
	return j, nil
}

// evaluateArguments evaluates every attribute of an arguments body. There is
// no evaluation context, so only literal expressions are accepted; data flows
// between jobs through dependencies, not references.
func evaluateArguments(body hcl.Body) (map[string]cty.Value, error) {
	if body == nil {
		return nil, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	args := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("argument '%s': %w", name, diags)
		}
		args[name] = val
	}
	return args, nil
}
