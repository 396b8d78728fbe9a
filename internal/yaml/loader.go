package yaml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/jobgrid/internal/config"
	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/fsutil"
	goyaml "gopkg.in/yaml.v3"
)

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// document is the top-level shape of a YAML job-graph document.
type document struct {
	Jobs []*jobEntry `yaml:"jobs"`
}

// jobEntry is one element of the `jobs` sequence.
type jobEntry struct {
	Kind        string         `yaml:"kind"`
	Name        string         `yaml:"name"`
	Priority    string         `yaml:"priority"`
	AutoDestroy bool           `yaml:"auto_destroy"`
	DependsOn   []string       `yaml:"depends_on"`
	Arguments   map[string]any `yaml:"arguments"`

	line, column int
}

var knownJobKeys = map[string]struct{}{
	"kind": {}, "name": {}, "priority": {}, "auto_destroy": {}, "depends_on": {}, "arguments": {},
}

// UnmarshalYAML records the entry position and rejects unknown keys.
func (e *jobEntry) UnmarshalYAML(node *goyaml.Node) error {
	if node.Kind != goyaml.MappingNode {
		return fmt.Errorf("line %d: job entry must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if _, ok := knownJobKeys[key.Value]; !ok {
			return fmt.Errorf("line %d: unknown job field '%s'", key.Line, key.Value)
		}
	}

	type plain jobEntry
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = jobEntry(p)
	e.line, e.column = node.Line, node.Column
	return nil
}

// Load parses every YAML file under paths. A file may hold several
// documents separated by `---`.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, l.Extensions()...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	model := &config.Model{}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		jobs, err := loadFile(file)
		if err != nil {
			return nil, err
		}
		model.Jobs = append(model.Jobs, jobs...)
	}

	logger.Debug("YAML loading complete.", "jobs", len(model.Jobs))
	return model, nil
}

func loadFile(path string) ([]*config.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open YAML file %s: %w", path, err)
	}
	defer f.Close()

	var jobs []*config.Job
	dec := goyaml.NewDecoder(f)
	dec.KnownFields(true)
	for {
		var doc document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
		}

		for _, e := range doc.Jobs {
			if e == nil {
				continue
			}
			j, err := translateJob(path, e)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, j)
		}
	}
	return jobs, nil
}

func translateJob(path string, e *jobEntry) (*config.Job, error) {
	j := &config.Job{
		Kind:        e.Kind,
		Name:        e.Name,
		Priority:    e.Priority,
		AutoDestroy: e.AutoDestroy,
		DependsOn:   e.DependsOn,
		Source:      fmt.Sprintf("%s:%d,%d", path, e.line, e.column),
	}
	if e.Arguments != nil {
		args, err := ToCtyMap(e.Arguments)
		if err != nil {
			return nil, fmt.Errorf("%s: job '%s': %w", j.Source, j.Name, err)
		}
		j.Arguments = args
	}
	return j, nil
}
