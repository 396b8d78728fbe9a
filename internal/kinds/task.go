package kinds

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Task is the job.Work of a configured job.
//
// Output is written once by Execute and read by dependents only after the
// scheduler has observed this task's completion.
type Task struct {
	name   string
	kind   *Kind
	input  any
	stdout io.Writer
	inputs []*Task

	output    cty.Value
	onRelease func(*Task)
}

// Name returns the configured job name.
func (t *Task) Name() string { return t.name }

// Kind returns the kind label the task was built from.
func (t *Task) Kind() string { return t.kind.Name }

// AddInput makes the output of dep visible to this task at run time. It does
// not create the scheduling edge; callers add that on the job itself.
func (t *Task) AddInput(dep *Task) {
	t.inputs = append(t.inputs, dep)
}

// OnRelease sets a hook called when the owning job is released.
func (t *Task) OnRelease(fn func(*Task)) {
	t.onRelease = fn
}

// Output returns the value produced by Execute, or a null value if the task
// has not run or failed.
func (t *Task) Output() cty.Value {
	return t.output
}

// Execute implements job.Work.
func (t *Task) Execute(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("kind", t.kind.Name)
	ctx = ctxlog.WithLogger(ctx, logger)

	rt := &Runtime{Stdout: t.stdout}
	for _, dep := range t.inputs {
		rt.Inputs = append(rt.Inputs, Input{Name: dep.name, Value: dep.output})
	}

	logger.Debug("Executing job handler.", "inputs", len(rt.Inputs))
	out, err := t.kind.Fn(ctx, rt, t.input)
	if err != nil {
		return fmt.Errorf("%s '%s': %w", t.kind.Name, t.name, err)
	}
	if out.IsNull() {
		out = cty.NullVal(cty.DynamicPseudoType)
	}
	t.output = out
	return nil
}

// Release implements job.Releaser. The output is kept because dependents
// may still read it after an auto-destroy prerequisite is released.
func (t *Task) Release() {
	t.input = nil
	if t.onRelease != nil {
		t.onRelease(t)
	}
}
