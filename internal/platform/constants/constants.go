// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

// Package constants centralizes cross-cutting configuration values for the
// Veriface API: server timings, rate limits, cookie settings, database
// schema names and Redis key prefixes.
//
// Domain-specific tunables (lockout thresholds, liveness thresholds) live in
// their own packages next to the logic that uses them.
package constants

import "time"

// # Application Identity

const (
	// AppName identifies the service in logs and metrics.
	AppName = "veriface-api"

	// AuthIssuer is the "iss" claim stamped into every JWT.
	AuthIssuer = "veriface"
)

// # Server Timings

const (
	// ServerReadTimeout limits how long the server waits for a full request.
	// Generous because face verification uploads carry multiple image frames.
	ServerReadTimeout = 30 * time.Second

	// ServerWriteTimeout limits how long a handler may take to respond.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout closes keep-alive connections that sit unused.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout bounds the graceful shutdown drain period.
	ServerShutdownTimeout = 15 * time.Second

	// GlobalRequestTimeout is the per-request deadline enforced by middleware
	// and mirrored as the per-connection database statement timeout.
	GlobalRequestTimeout = 30 * time.Second
)

// # HTTP Headers

const (
	// HeaderXRequestID carries the request correlation ID.
	HeaderXRequestID = "X-Request-ID"

	// HeaderOrigin is the CORS origin header.
	HeaderOrigin = "Origin"

	// HeaderXRealIP is set by reverse proxies to the original client IP.
	HeaderXRealIP = "X-Real-IP"

	// HeaderXForwardedFor is the standard proxy chain header.
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # JSON Field Identifiers

const (
	// FieldCode is the JSON key for machine-readable error codes.
	FieldCode = "code"

	// FieldError is the JSON key for human-readable error messages.
	FieldError = "error"
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the per-IP request rate for the in-memory
	// token-bucket middleware applied to all routes.
	DefaultRateLimitRPS = 100

	// DefaultRateLimitBurst is the burst allowance of the global limiter.
	DefaultRateLimitBurst = 200

	// RateLimitCleanupInterval is how often stale per-IP buckets are swept.
	RateLimitCleanupInterval = time.Minute

	// RateLimitClientTTL evicts per-IP buckets idle longer than this.
	RateLimitClientTTL = 3 * time.Minute

	// CredentialAttemptLimit caps credential-guessing requests per client
	// per window on the login and PIN endpoints.
	CredentialAttemptLimit = 10

	// CredentialAttemptWindow is the fixed window for [CredentialAttemptLimit].
	CredentialAttemptWindow = time.Minute
)

// # Cookies

const (
	// RefreshTokenCookieName is the HttpOnly cookie carrying the refresh token.
	RefreshTokenCookieName = "veriface_refresh_token"

	// RefreshTokenCookiePath scopes the refresh cookie to the auth endpoints
	// so it is not sent with every API request.
	RefreshTokenCookiePath = "/api/v1/auth"
)

// # Request Limits

const (
	// MaxJSONBodyBytes caps JSON request bodies.
	MaxJSONBodyBytes = 1 << 20 // 1 MiB

	// MaxMultipartMemory caps the in-memory portion of multipart uploads.
	// Face verification sends several JPEG frames per request.
	MaxMultipartMemory = 32 << 20 // 32 MiB

	// MaxFrameBytes caps a single uploaded image frame.
	MaxFrameBytes = 8 << 20 // 8 MiB
)

// # Database Schemas

const (
	// SchemaUsers holds account and credential tables.
	SchemaUsers = "users"

	// SchemaBiometrics holds encrypted template storage.
	SchemaBiometrics = "biometrics"

	// SchemaSystem holds operational tables such as the audit log.
	SchemaSystem = "system"
)

// # Redis Key Prefixes

const (
	// RedisPrefixAttempt namespaces credential-attempt counters.
	RedisPrefixAttempt = "veriface:attempt:"
)
