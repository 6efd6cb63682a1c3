// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package ctxutil

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veriface/veriface/internal/platform/sec"
)

func TestRequestID(t *testing.T) {
	t.Run("returns stored request ID", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-123")
		assert.Equal(t, "req-123", RequestID(ctx))
	})

	t.Run("returns empty string when absent", func(t *testing.T) {
		assert.Equal(t, "", RequestID(context.Background()))
	})
}

func TestUser(t *testing.T) {
	t.Run("returns stored claims", func(t *testing.T) {
		claims := &sec.AuthClaims{UserID: "user-1", TokenType: sec.TokenTypeAccess}
		ctx := WithUser(context.Background(), claims)

		got, ok := User(ctx)
		assert.True(t, ok)
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, "user-1", UserID(ctx))
	})

	t.Run("reports missing claims", func(t *testing.T) {
		_, ok := User(context.Background())
		assert.False(t, ok)
		assert.Equal(t, "", UserID(context.Background()))
	})
}

func TestLogger(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		logger := slog.Default().With("component", "test")
		ctx := WithLogger(context.Background(), logger)
		assert.Same(t, logger, Logger(ctx))
	})

	t.Run("falls back to default logger", func(t *testing.T) {
		assert.NotNil(t, Logger(context.Background()))
	})
}
