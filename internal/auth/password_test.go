package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("kisan123")
	require.NoError(t, err)
	require.NotEqual(t, "kisan123", hash)

	assert.True(t, CheckPassword(hash, "kisan123"))
	assert.False(t, CheckPassword(hash, "kisan124"))
	assert.False(t, CheckPassword("not-a-hash", "kisan123"))
}
