// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package auth

import (
	"context"
	"time"
)

// # User Data Access

// PinAttemptResult reports the outcome of an atomic PIN attempt.
type PinAttemptResult struct {
	// User is the account the attempt was made against.
	User *User

	// Locked is true when the attempt was refused because a lockout
	// window is active. No hash comparison was performed.
	Locked bool

	// RetryAfter is the remaining lockout duration when Locked.
	RetryAfter time.Duration

	// Verified is true when the presented PIN matched the stored hash.
	Verified bool
}

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures (Conflict on duplicate email)
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email address.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		SetPin replaces only the user's PIN hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - pinHash: string

		Returns:
		  - error: Persistence failures
	*/
	SetPin(context context.Context, userID, pinHash string) error

	/*
		AttemptPin performs one atomic PIN authentication attempt.

		Description: Loads the account row under a row lock, evaluates the
		lockout window, invokes the verify callback against the stored hash
		and persists the resulting counter/lock transition. Concurrent
		attempts against the same account serialize on the row lock, so the
		failure counter can never miss an increment.

		Parameters:
		  - context: context.Context
		  - email: string
		  - verify: func(storedHash string) bool (hash comparison callback)

		Returns:
		  - *PinAttemptResult: Outcome of the attempt
		  - error: apperr.NotFound when the user does not exist, or storage failures
	*/
	AttemptPin(context context.Context, email string, verify func(storedHash string) bool) (*PinAttemptResult, error)
}
