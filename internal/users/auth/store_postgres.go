// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

// PostgreSQL implementation of the auth storage layer.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement domain-defined interfaces (e.g., [UserRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veriface/veriface/internal/platform/apperr"
	"github.com/veriface/veriface/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account credentials, ensuring timestamps are
initialized if not provided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, email, passwordhash, pinhash, isactive, failedpinattempts, createdat, updatedat
		) VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.PinHash,
		user.IsActive,
		user.FailedPinAttempts,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_create")
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT id, email, passwordhash, COALESCE(pinhash, ''), isactive, failedpinattempts, lockeduntil, createdat, updatedat
		FROM users.account
		WHERE id = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.PinHash,
		&user.IsActive,
		&user.FailedPinAttempts,
		&user.LockedUntil,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Standard lookup by email for authentication.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, passwordhash, COALESCE(pinhash, ''), isactive, failedpinattempts, lockeduntil, createdat, updatedat
		FROM users.account
		WHERE email = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.PinHash,
		&user.IsActive,
		&user.FailedPinAttempts,
		&user.LockedUntil,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found with this email")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
SetPin updates only the PIN hash for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - pinHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetPin(context context.Context, userID, pinHash string) error {
	const query = `
		UPDATE users.account
		SET pinhash = $2, updatedat = $3
		WHERE id = $1`

	commandTag, err := repository.pool.Exec(context, query, userID, pinHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_pin_failed: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
AttemptPin performs one atomic PIN authentication attempt.

Description: The account row is loaded under SELECT ... FOR UPDATE so
concurrent attempts against the same account serialize, making the
counter/lockout transition race-free. The lockout window is evaluated
BEFORE the hash comparison: a locked account never reaches the verify
callback and its counters are left untouched.

Parameters:
  - context: context.Context
  - email: string
  - verify: func(storedHash string) bool

Returns:
  - *PinAttemptResult: Outcome of the attempt
  - error: apperr.NotFound or storage failures
*/
func (repository *PostgresUserRepository) AttemptPin(context context.Context, email string, verify func(storedHash string) bool) (*PinAttemptResult, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_attempt_pin_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	const query = `
		SELECT id, email, passwordhash, COALESCE(pinhash, ''), isactive, failedpinattempts, lockeduntil, createdat, updatedat
		FROM users.account
		WHERE email = $1
		FOR UPDATE`

	user := &User{}
	err = transaction.QueryRow(context, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.PinHash,
		&user.IsActive,
		&user.FailedPinAttempts,
		&user.LockedUntil,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found with this email")
		}
		return nil, fmt.Errorf("postgres_user_repo_attempt_pin_find_failed: %w", err)
	}

	now := time.Now()
	result := &PinAttemptResult{User: user}

	// 1. Active lockout: refuse before any hash comparison, no state change.
	if status := CheckLock(user.LockedUntil, now); status.Locked {
		result.Locked = true
		result.RetryAfter = status.RetryAfter
		if err := transaction.Commit(context); err != nil {
			return nil, fmt.Errorf("postgres_user_repo_attempt_pin_commit_failed: %w", err)
		}
		return result, nil
	}

	// 2. No PIN configured: report without touching counters. The service
	// maps this to a generic Unauthorized to prevent credential probing.
	if !user.HasPIN() {
		if err := transaction.Commit(context); err != nil {
			return nil, fmt.Errorf("postgres_user_repo_attempt_pin_commit_failed: %w", err)
		}
		return result, nil
	}

	// 3. Hash comparison and state transition under the row lock.
	if verify(user.PinHash) {
		result.Verified = true
		user.FailedPinAttempts = 0
		user.LockedUntil = nil
	} else {
		user.FailedPinAttempts, user.LockedUntil = RegisterPinFailure(user.FailedPinAttempts, now)
		if user.LockedUntil != nil {
			result.Locked = true
			result.RetryAfter = LockoutDuration
		}
	}

	const update = `
		UPDATE users.account
		SET failedpinattempts = $2, lockeduntil = $3, updatedat = $4
		WHERE id = $1`

	if _, err := transaction.Exec(context, update, user.ID, user.FailedPinAttempts, user.LockedUntil, now); err != nil {
		return nil, fmt.Errorf("postgres_user_repo_attempt_pin_update_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return nil, fmt.Errorf("postgres_user_repo_attempt_pin_commit_failed: %w", err)
	}

	return result, nil
}
