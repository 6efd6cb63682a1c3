// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package auth

import "time"

// # PIN Lockout State Machine
//
// The lockout state of an account is fully described by two columns:
// failedpinattempts and lockeduntil. The functions below are pure so the
// transition rules can be tested without a database; the postgres
// repository invokes them inside a row-locking transaction.

// LockStatus describes whether an account may attempt a PIN check right now.
type LockStatus struct {
	// Locked is true while an unexpired lockout window is active.
	Locked bool

	// RetryAfter is the remaining lockout duration. Zero when unlocked.
	RetryAfter time.Duration
}

// CheckLock evaluates the lockout window at the given instant.
//
// # Lazy Expiry
//
// A lockedUntil value in the past means the window has elapsed: the account
// is treated as unlocked without requiring a background job to clear the
// column. The attempt counter was already reset when the lock engaged, so
// no counter mutation is needed here.
func CheckLock(lockedUntil *time.Time, now time.Time) LockStatus {
	if lockedUntil == nil || !now.Before(*lockedUntil) {
		return LockStatus{}
	}
	return LockStatus{
		Locked:     true,
		RetryAfter: lockedUntil.Sub(now),
	}
}

// RegisterPinFailure computes the state transition for one failed PIN attempt.
//
// # Transition Rules
//
//   - Attempt counter increments by one.
//   - Reaching [MaxFailedPinAttempts] engages a lockout of [LockoutDuration]
//     and resets the counter to zero, so the account starts with a clean
//     budget once the window elapses.
//
// # Returns
//   - newAttempts: The counter value to persist.
//   - lockedUntil: The lock expiry to persist, or nil if no lock engaged.
func RegisterPinFailure(failedAttempts int, now time.Time) (newAttempts int, lockedUntil *time.Time) {
	newAttempts = failedAttempts + 1
	if newAttempts >= MaxFailedPinAttempts {
		expiry := now.Add(LockoutDuration)
		return 0, &expiry
	}
	return newAttempts, nil
}
