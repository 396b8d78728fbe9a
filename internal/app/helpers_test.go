package app

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/jobgrid/internal/config"
	"github.com/vk/jobgrid/internal/hcl"
	"github.com/vk/jobgrid/internal/yaml"
)

// safeBuffer is a thread-safe buffer for capturing log output in tests.
type safeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// newTestApp writes content to a graph file named name and builds an App
// with the built-in kinds around it.
func newTestApp(t *testing.T, name, content string) (*App, *safeBuffer) {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewConfig(Config{GraphPath: path, LogLevel: "debug", WorkerCount: 2})
	require.NoError(t, err)

	logs := &safeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("JOBGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	loader := config.NewMultiLoader(hcl.NewLoader(), yaml.NewLoader())
	return NewApp(logs, cfg, loader), logs
}
