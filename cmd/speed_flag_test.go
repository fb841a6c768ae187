package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeedFlag(t *testing.T) {
	var s speedFlag
	assert.Equal(t, "speed", s.Type())
	assert.InDelta(t, 0, s.resolve(3), 1e-9, "unset means no animation")

	require.NoError(t, s.Set(speedDefaultToken))
	assert.InDelta(t, 3, s.resolve(3), 1e-9)
	assert.Empty(t, s.String())

	require.NoError(t, s.Set("2.5"))
	assert.InDelta(t, 2.5, s.resolve(3), 1e-9)
	assert.Equal(t, "2.5", s.String())

	for _, bad := range []string{"0", "-1", "fast"} {
		assert.Error(t, s.Set(bad), bad)
	}

	s.reset()
	assert.False(t, s.set)
}
