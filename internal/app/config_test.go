package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "minimal", cfg: Config{GraphPath: "graph.hcl"}},
		{name: "missing path", cfg: Config{}, wantErr: "GraphPath is a required"},
		{name: "bad level", cfg: Config{GraphPath: "g", LogLevel: "loud"}, wantErr: "invalid log level"},
		{name: "bad format", cfg: Config{GraphPath: "g", LogFormat: "xml"}, wantErr: "invalid log format"},
		{name: "negative workers", cfg: Config{GraphPath: "g", WorkerCount: -1}, wantErr: "worker count"},
		{name: "port out of range", cfg: Config{GraphPath: "g", HealthcheckPort: 70000}, wantErr: "out of range"},
		{name: "negative timeout", cfg: Config{GraphPath: "g", Timeout: -time.Second}, wantErr: "timeout"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				require.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "info", cfg.LogLevel)
			require.Equal(t, "text", cfg.LogFormat)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf safeBuffer
	logger := newLogger("warn", "json", &buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)
	require.Contains(t, buf.String(), `"k":"v"`)
}
