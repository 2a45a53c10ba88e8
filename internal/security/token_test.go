package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	first, err := GenerateToken()
	require.NoError(t, err)
	assert.Len(t, first, 64) // 32 random bytes, hex encoded

	second, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestTokensEqual(t *testing.T) {
	assert.True(t, TokensEqual("abc123", "abc123"))
	assert.False(t, TokensEqual("abc123", "abc124"))
	assert.False(t, TokensEqual("abc123", "abc1234"))
	assert.False(t, TokensEqual("abc123", ""))
}
