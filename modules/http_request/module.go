package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/kinds"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the kinds.Module interface for this package.
type Module struct{}

// httpClient is shared by all http_request jobs to reuse connections.
var httpClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Input defines the arguments of an 'http_request' job.
type Input struct {
	URL     string `cty:"url"`
	Method  string `cty:"method"`
	Timeout string `cty:"timeout"`
}

// OnRunHttpRequest performs the request and returns an object with the
// status code and body. Responses with a status of 400 or above fail the job.
func OnRunHttpRequest(ctx context.Context, _ *kinds.Runtime, input *Input) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx)

	timeout, err := time.ParseDuration(input.Timeout)
	if err != nil {
		return cty.NilVal, fmt.Errorf("invalid timeout: %w", err)
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger.Info("Making HTTP request.", "method", input.Method, "url", input.URL)
	req, err := http.NewRequestWithContext(ctx, input.Method, input.URL, nil)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response.", "status", resp.Status)
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return cty.NilVal, fmt.Errorf("unexpected response status %s", resp.Status)
	}

	return cty.ObjectVal(map[string]cty.Value{
		"status_code": cty.NumberIntVal(int64(resp.StatusCode)),
		"body":        cty.StringVal(string(bodyBytes)),
	}), nil
}

// Register registers the kind with the registry.
func (m *Module) Register(r *kinds.Registry) {
	kinds.Register(r, "http_request", map[string]cty.Value{
		"method":  cty.StringVal(http.MethodGet),
		"timeout": cty.StringVal("30s"),
	}, OnRunHttpRequest)
}
