package config

import (
	"context"

	"github.com/vk/jobgrid/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Extensions lists the file extensions (with the leading dot) the
	// loader understands.
	Extensions() []string

	// Load reads every matching file under the given paths and translates
	// them into the format-agnostic model. A path that does not exist is
	// an error.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// MultiLoader runs several format loaders over the same paths and merges
// their models in loader order.
type MultiLoader struct {
	loaders []Loader
}

// NewMultiLoader combines loaders into one.
func NewMultiLoader(loaders ...Loader) *MultiLoader {
	return &MultiLoader{loaders: loaders}
}

// Extensions returns the union of the wrapped loaders' extensions.
func (m *MultiLoader) Extensions() []string {
	var exts []string
	for _, l := range m.loaders {
		exts = append(exts, l.Extensions()...)
	}
	return exts
}

// Load runs the wrapped loaders concurrently, merges their models and
// validates the result.
func (m *MultiLoader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	models := make([]*Model, len(m.loaders))

	g, gctx := errgroup.WithContext(ctx)
	for i, l := range m.loaders {
		g.Go(func() error {
			model, err := l.Load(gctx, paths...)
			if err != nil {
				return err
			}
			models[i] = model
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &Model{}
	for _, model := range models {
		merged.Merge(model)
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Job graph loaded and validated.", "jobs", len(merged.Jobs))
	return merged, nil
}
