package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/jobgrid/internal/app"
	"github.com/vk/jobgrid/internal/config"
	"github.com/vk/jobgrid/internal/hcl"
	"github.com/vk/jobgrid/internal/kinds"
	"github.com/vk/jobgrid/internal/yaml"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// DumpLogsOnCleanup prints buf at the end of the test when
// JOBGRID_TEST_LOGS=true.
func DumpLogsOnCleanup(t testing.TB, buf *SafeBuffer) {
	t.Helper()
	t.Cleanup(func() {
		if os.Getenv("JOBGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
}

// WriteFiles writes files (relative path -> content) under a fresh
// temporary directory and returns it.
func WriteFiles(t testing.TB, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	// LogOutput holds both the logs and anything jobs wrote to stdout.
	LogOutput string
	Report    *app.Report
	Err       error
	App       *app.App
}

// Option adjusts the app configuration used by the harness.
type Option func(*app.Config)

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option {
	return func(c *app.Config) { c.WorkerCount = n }
}

// WithConfig applies an arbitrary change to the configuration.
func WithConfig(fn func(*app.Config)) Option {
	return fn
}

// RunIntegrationTest writes files to a temporary directory, runs the app on
// it with the given modules (the built-in kinds when none) and returns the
// outcome. It uses a background context.
func RunIntegrationTest(t *testing.T, files map[string]string, modules []kinds.Module, opts ...Option) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, modules, opts...)
}

// RunIntegrationTestWithContext is RunIntegrationTest with a caller-provided
// context.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, modules []kinds.Module, opts ...Option) *HarnessResult {
	t.Helper()

	cfg := app.Config{
		GraphPath:   WriteFiles(t, files),
		LogLevel:    "debug",
		LogFormat:   "text",
		WorkerCount: 4,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	DumpLogsOnCleanup(t, logBuffer)

	loader := config.NewMultiLoader(hcl.NewLoader(), yaml.NewLoader())
	testApp := app.NewApp(logBuffer, appConfig, loader, modules...)
	report, runErr := testApp.Run(ctx)

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Report:    report,
		Err:       runErr,
		App:       testApp,
	}
}
