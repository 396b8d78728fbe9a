package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vk/jobgrid/internal/config"
	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/fsutil"
	"github.com/vk/jobgrid/internal/kinds"
	"github.com/vk/jobgrid/internal/metrics"
)

// ErrJobsFailed is returned by Run when at least one job finished with an
// error or did not finish at all.
var ErrJobsFailed = errors.New("one or more jobs failed")

// ErrNoGraphFiles is returned when the graph path holds no file the loader
// understands.
var ErrNoGraphFiles = errors.New("no job graph files found")

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   config.Loader
	registry *kinds.Registry
	metrics  *metrics.Registry

	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and kind registry.
// Job output (e.g. of 'print' jobs) and logs both go to outW. When no
// modules are given, the built-in kinds are registered.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...kinds.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := kinds.NewRegistry(outW)
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All job kinds registered.", "count", len(modules), "kinds", reg.Names())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   loader,
		registry: reg,
		metrics:  metrics.New(),
	}
}

// Registry returns the application's kind registry. This is primarily for testing.
func (a *App) Registry() *kinds.Registry {
	return a.registry
}

// Metrics returns the instruments of the app's scheduler.
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}

// Validate loads the job graph and checks it the same way Run does, without
// executing anything. It returns the number of jobs in the graph.
func (a *App) Validate(ctx context.Context) (int, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	g, err := a.load(ctx)
	if err != nil {
		return 0, err
	}
	a.logger.Info("Job graph is valid.", "jobs", len(g.jobs))
	return len(g.jobs), nil
}

// load reads the configured path and builds the job graph.
func (a *App) load(ctx context.Context) (*graph, error) {
	exts := a.loader.Extensions()
	files, err := fsutil.FindFiles([]string{a.config.GraphPath}, exts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load job graph: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("failed to load job graph: %w in %s (extensions: %s)",
			ErrNoGraphFiles, a.config.GraphPath, strings.Join(exts, ", "))
	}

	model, err := a.loader.Load(ctx, a.config.GraphPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load job graph: %w", err)
	}
	a.logger.Debug("Configuration loaded and translated into unified model.", "jobs", len(model.Jobs))

	g, err := buildGraph(ctx, model, a.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to build job graph: %w", err)
	}
	return g, nil
}
