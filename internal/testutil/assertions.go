package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/jobgrid/internal/app"
	"github.com/zclconf/go-cty/cty"
)

// AssertJobRan checks that the named job finished without error.
func AssertJobRan(t *testing.T, result *HarnessResult, name string) app.Result {
	t.Helper()
	require.NotNil(t, result.Report, "run produced no report: %v", result.Err)

	res, ok := result.Report.Lookup(name)
	require.True(t, ok, "job '%s' is not part of the report", name)
	require.True(t, res.OK(), "job '%s' did not succeed: state=%s err=%v", name, res.State, res.Err)
	return res
}

// AssertNumberOutput checks that the named job succeeded with the given
// numeric output.
func AssertNumberOutput(t *testing.T, result *HarnessResult, name string, want float64) {
	t.Helper()
	res := AssertJobRan(t, result, name)
	require.True(t, res.Output.Type().Equals(cty.Number), "job '%s' output is %s, not a number", name, res.Output.Type().FriendlyName())

	got, _ := res.Output.AsBigFloat().Float64()
	require.InDelta(t, want, got, 1e-9, "unexpected output for job '%s'", name)
}
