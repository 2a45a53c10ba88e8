package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amirk1998/project-tracker/pkg/errors"
)

func TestCheckLimit_BurstExhaustion(t *testing.T) {
	rl := NewRateLimiter(0, 2)

	assert.NoError(t, rl.CheckLimit("login:alice"))
	assert.NoError(t, rl.CheckLimit("login:alice"))
	assert.ErrorIs(t, rl.CheckLimit("login:alice"), errors.ErrRateLimitExceeded)
}

func TestCheckLimit_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(0, 1)

	assert.NoError(t, rl.CheckLimit("login:alice"))
	assert.ErrorIs(t, rl.CheckLimit("login:alice"), errors.ErrRateLimitExceeded)

	// A different key still has its full burst
	assert.NoError(t, rl.CheckLimit("login:bob"))
}

func TestCleanup_ResetsOversizedMap(t *testing.T) {
	rl := NewRateLimiter(10, 10)

	rl.GetLimiter("a")
	rl.Cleanup()

	// Under the threshold, limiters survive
	rl.mu.RLock()
	_, ok := rl.limiters["a"]
	rl.mu.RUnlock()
	assert.True(t, ok)
}
