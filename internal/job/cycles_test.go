package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCycles(t *testing.T) {
	t.Run("no jobs has no cycles", func(t *testing.T) {
		assert.NoError(t, DetectCycles())
	})

	t.Run("jobs without edges have no cycles", func(t *testing.T) {
		assert.NoError(t, DetectCycles(New(noop()), New(noop())))
	})

	t.Run("diamond has no cycles", func(t *testing.T) {
		a, b, c, d := New(noop()), New(noop()), New(noop()), New(noop())
		require.NoError(t, b.AddDependency(a))
		require.NoError(t, c.AddDependency(a))
		require.NoError(t, d.AddDependency(b))
		require.NoError(t, d.AddDependency(c))

		assert.NoError(t, DetectCycles(a, b, c, d))
	})

	t.Run("three job cycle is detected", func(t *testing.T) {
		a := New(noop(), WithName("a"))
		b := New(noop(), WithName("b"))
		c := New(noop(), WithName("c"))
		require.NoError(t, b.AddDependency(a))
		require.NoError(t, c.AddDependency(b))
		require.NoError(t, a.AddDependency(c))

		err := DetectCycles(a)
		assert.ErrorIs(t, err, ErrCycle)
		assert.ErrorContains(t, err, "involving job")
	})

	t.Run("nil job", func(t *testing.T) {
		assert.ErrorIs(t, DetectCycles(nil), ErrNilJob)
	})
}
