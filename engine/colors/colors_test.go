package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSlice(t *testing.T) {
	c, err := FromSlice([]float32{0.5, 0.25, 1})
	require.NoError(t, err)
	assert.Equal(t, Color{0.5, 0.25, 1, 1}, c)

	c, err = FromSlice([]float32{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, Transparent, c)

	_, err = FromSlice([]float32{1, 1})
	assert.Error(t, err)
}

func TestWithAlpha(t *testing.T) {
	assert.Equal(t, Color{1, 1, 1, 0.5}, White.WithAlpha(0.5))
	assert.Equal(t, float32(1), White[3], "receiver is a copy")
}
