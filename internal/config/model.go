package config

import (
	"fmt"
	"sort"

	"github.com/vk/jobgrid/internal/job"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of every job-graph
// file that was loaded.
type Model struct {
	Jobs []*Job
}

// Job is the format-agnostic representation of a `job` block or entry.
type Job struct {
	Kind        string
	Name        string
	Priority    string
	AutoDestroy bool
	DependsOn   []string
	// Arguments are fully evaluated; job kinds decode them into their own
	// input structs.
	Arguments map[string]cty.Value
	// Source names the file (and position, when known) the job came from.
	Source string
}

// Merge appends the jobs of other to m.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Jobs = append(m.Jobs, other.Jobs...)
}

// Lookup returns the job with the given name.
func (m *Model) Lookup(name string) (*Job, bool) {
	for _, j := range m.Jobs {
		if j.Name == name {
			return j, true
		}
	}
	return nil, false
}

// Validate checks the static integrity of the model: names are present and
// unique, priorities parse and every dependency names a known job. Cycles
// are detected later, once the jobs are wired.
func (m *Model) Validate() error {
	seen := make(map[string]*Job, len(m.Jobs))
	for _, j := range m.Jobs {
		if j.Name == "" {
			return fmt.Errorf("%s: job of kind '%s' has no name", j.Source, j.Kind)
		}
		if j.Kind == "" {
			return fmt.Errorf("%s: job '%s' has no kind", j.Source, j.Name)
		}
		if prev, dup := seen[j.Name]; dup {
			return fmt.Errorf("%s: duplicate job name '%s' (first defined in %s)", j.Source, j.Name, prev.Source)
		}
		if _, err := job.ParsePriority(j.Priority); err != nil {
			return fmt.Errorf("%s: job '%s': %w", j.Source, j.Name, err)
		}
		seen[j.Name] = j
	}

	for _, j := range m.Jobs {
		deps := make(map[string]struct{}, len(j.DependsOn))
		for _, dep := range j.DependsOn {
			if _, dup := deps[dep]; dup {
				return fmt.Errorf("%s: job '%s' lists dependency '%s' more than once", j.Source, j.Name, dep)
			}
			deps[dep] = struct{}{}
			if dep == j.Name {
				return fmt.Errorf("%s: job '%s' depends on itself", j.Source, j.Name)
			}
			if _, ok := seen[dep]; !ok {
				return fmt.Errorf("%s: job '%s' depends on unknown job '%s'", j.Source, j.Name, dep)
			}
		}
	}
	return nil
}

// Names returns the sorted job names, mostly for diagnostics.
func (m *Model) Names() []string {
	names := make([]string, 0, len(m.Jobs))
	for _, j := range m.Jobs {
		names = append(names, j.Name)
	}
	sort.Strings(names)
	return names
}
