package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACSHA256(t *testing.T) {
	h := NewHMACSHA256("secret")

	got, err := h.Hash("token")
	require.NoError(t, err)

	assert.Len(t, got, 64)
	assert.True(t, h.Verify(string(got), "token"))
	assert.False(t, h.Verify(string(got), "other"))

	again, err := h.Hash("token")
	require.NoError(t, err)
	assert.Equal(t, got, again)

	other, err := NewHMACSHA256("another-secret").Hash("token")
	require.NoError(t, err)
	assert.NotEqual(t, got, other)
}
