// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLock(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("nil lockeduntil is unlocked", func(t *testing.T) {
		status := CheckLock(nil, now)
		assert.False(t, status.Locked)
		assert.Zero(t, status.RetryAfter)
	})

	t.Run("future lockeduntil is locked with remaining duration", func(t *testing.T) {
		until := now.Add(10 * time.Minute)
		status := CheckLock(&until, now)
		assert.True(t, status.Locked)
		assert.Equal(t, 10*time.Minute, status.RetryAfter)
	})

	t.Run("past lockeduntil is unlocked", func(t *testing.T) {
		until := now.Add(-time.Second)
		status := CheckLock(&until, now)
		assert.False(t, status.Locked)
	})

	t.Run("lockeduntil exactly now is unlocked", func(t *testing.T) {
		until := now
		status := CheckLock(&until, now)
		assert.False(t, status.Locked)
	})
}

func TestRegisterPinFailure(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("increments below the threshold", func(t *testing.T) {
		attempts, lockedUntil := RegisterPinFailure(0, now)
		assert.Equal(t, 1, attempts)
		assert.Nil(t, lockedUntil)

		attempts, lockedUntil = RegisterPinFailure(3, now)
		assert.Equal(t, 4, attempts)
		assert.Nil(t, lockedUntil)
	})

	t.Run("fifth failure engages the lockout and resets the counter", func(t *testing.T) {
		attempts, lockedUntil := RegisterPinFailure(MaxFailedPinAttempts-1, now)
		assert.Equal(t, 0, attempts)
		require.NotNil(t, lockedUntil)
		assert.Equal(t, now.Add(LockoutDuration), *lockedUntil)
	})
}

// TestLockoutSequence walks through a full failure/lockout/recovery cycle.
func TestLockoutSequence(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	attempts := 0
	var lockedUntil *time.Time

	// Four failures: counter climbs, no lock yet.
	for i := 1; i <= 4; i++ {
		status := CheckLock(lockedUntil, now)
		require.False(t, status.Locked)
		attempts, lockedUntil = RegisterPinFailure(attempts, now)
		assert.Equal(t, i, attempts)
		assert.Nil(t, lockedUntil)
	}

	// Fifth failure locks the account for the full window.
	attempts, lockedUntil = RegisterPinFailure(attempts, now)
	assert.Equal(t, 0, attempts)
	require.NotNil(t, lockedUntil)

	// While locked, attempts are refused before any hash comparison.
	status := CheckLock(lockedUntil, now.Add(time.Minute))
	assert.True(t, status.Locked)
	assert.Equal(t, LockoutDuration-time.Minute, status.RetryAfter)

	// After the window elapses the account is usable again with a
	// fresh attempt budget.
	status = CheckLock(lockedUntil, now.Add(LockoutDuration))
	assert.False(t, status.Locked)
	assert.Equal(t, 0, attempts)
}
