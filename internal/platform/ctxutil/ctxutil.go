// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

// Package ctxutil provides typed accessors for request-scoped context values.
//
// It wraps the raw keys from [ctxkey] with getters and setters so handlers
// never deal with untyped context lookups directly.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/veriface/veriface/internal/platform/ctxkey"
	"github.com/veriface/veriface/internal/platform/sec"
)

// WithRequestID returns a context carrying the request correlation ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, requestID)
}

// RequestID extracts the correlation ID from the context.
// Returns an empty string when no request ID was set.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxkey.KeyRequestID).(string); ok {
		return id
	}
	return ""
}

// WithUser returns a context carrying the authenticated user's claims.
func WithUser(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, claims)
}

// User extracts the authenticated user's claims from the context.
// The boolean reports whether the request was authenticated.
func User(ctx context.Context) (*sec.AuthClaims, bool) {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	return claims, ok
}

// UserID extracts just the authenticated user's ID from the context.
// Returns an empty string for unauthenticated requests.
func UserID(ctx context.Context) string {
	if claims, ok := User(ctx); ok {
		return claims.UserID
	}
	return ""
}

// WithLogger returns a context carrying a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// Logger extracts the request-scoped logger from the context.
//
// Falls back to [slog.Default] so call sites never need a nil check.
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
