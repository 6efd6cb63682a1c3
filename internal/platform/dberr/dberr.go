// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/veriface/veriface/internal/platform/apperr"
)

// Postgres SQLSTATE codes handled by this package.
const (
	sqlstateUniqueViolation = "23505"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique constraint violations surface as conflicts (e.g. duplicate email).
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == sqlstateUniqueViolation {
		return apperr.Conflict("Resource already exists")
	}

	// 3. Unknown query errors become Internal Server Errors.
	return apperr.Internal(fmt.Errorf("%s_failed: %w", action, err))
}
