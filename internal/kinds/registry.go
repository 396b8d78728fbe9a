package kinds

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/vk/jobgrid/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Module is the interface that every built-in kind package implements to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Input is the output of one prerequisite as seen by a dependent.
type Input struct {
	Name  string
	Value cty.Value
}

// Runtime is what a handler sees besides its decoded arguments.
type Runtime struct {
	// Stdout is shared by all jobs; writes are serialized.
	Stdout io.Writer
	// Inputs are the outputs of the job's prerequisites, in dependency order.
	Inputs []Input
}

// Handler is the untyped form of a kind's run function.
type Handler func(ctx context.Context, rt *Runtime, input any) (cty.Value, error)

// Kind holds the compiled Go parts of a job kind.
type Kind struct {
	Name string
	// NewInput returns a pointer to a fresh, cty-tagged argument struct.
	NewInput func() any
	// Defaults fill arguments the job leaves out.
	Defaults map[string]cty.Value
	Fn       Handler
}

// Registry holds the kinds available to a single application instance.
type Registry struct {
	kinds  map[string]*Kind
	stdout io.Writer
}

// NewRegistry creates an empty registry whose jobs write to stdout.
func NewRegistry(stdout io.Writer) *Registry {
	if stdout == nil {
		stdout = io.Discard
	}
	return &Registry{
		kinds:  make(map[string]*Kind),
		stdout: &syncWriter{w: stdout},
	}
}

// RegisterKind adds a kind. Registering the same name twice is a programmer
// error and panics.
func (r *Registry) RegisterKind(k *Kind) {
	if _, exists := r.kinds[k.Name]; exists {
		panic(fmt.Sprintf("job kind '%s' already registered", k.Name))
	}
	r.kinds[k.Name] = k
}

// Register is the typed helper kind packages use to register a handler
// whose arguments decode into In.
func Register[In any](r *Registry, name string, defaults map[string]cty.Value, fn func(ctx context.Context, rt *Runtime, in *In) (cty.Value, error)) {
	r.RegisterKind(&Kind{
		Name:     name,
		NewInput: func() any { return new(In) },
		Defaults: defaults,
		Fn: func(ctx context.Context, rt *Runtime, input any) (cty.Value, error) {
			return fn(ctx, rt, input.(*In))
		},
	})
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (*Kind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}

// Names returns the sorted names of all registered kinds.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build decodes the arguments of a configured job and returns the Task that
// will execute it. Prerequisite outputs are wired separately with
// Task.AddInput.
func (r *Registry) Build(cfg *config.Job) (*Task, error) {
	k, ok := r.kinds[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("%s: job '%s' has unknown kind '%s' (known: %v)", cfg.Source, cfg.Name, cfg.Kind, r.Names())
	}

	input := k.NewInput()
	if err := DecodeArguments(cfg.Arguments, k.Defaults, input); err != nil {
		return nil, fmt.Errorf("%s: job '%s': %w", cfg.Source, cfg.Name, err)
	}

	return &Task{
		name:   cfg.Name,
		kind:   k,
		input:  input,
		stdout: r.stdout,
		output: cty.NullVal(cty.DynamicPseudoType),
	}, nil
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
