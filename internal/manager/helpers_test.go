package manager

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/vk/jobgrid/internal/ctxlog"
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

// newTestManager starts a manager whose debug logs are captured and dumped
// when JOBGRID_TEST_LOGS=true. The manager is closed on cleanup.
func newTestManager(t testing.TB, workers int) (*Manager, *safeBuffer) {
	t.Helper()

	logs := &safeBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := New(ctxlog.WithLogger(context.Background(), logger), Config{Workers: workers})

	t.Cleanup(func() {
		m.Close()
		if os.Getenv("JOBGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return m, logs
}
