// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (15m) to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the duration a refresh token remains valid.
	// Long-lived (30 days) to provide a good user experience.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// MinPINLength is the minimum number of digits in a PIN.
	MinPINLength = 4

	// MaxFailedPinAttempts is the number of consecutive PIN failures that
	// trigger an account lockout.
	MaxFailedPinAttempts = 5

	// LockoutDuration is how long the PIN lockout window lasts once engaged.
	LockoutDuration = 15 * time.Minute
)

// # Audit Actions

const (
	ActionRegister      = "register"
	ActionLoginPassword = "login_password"
	ActionLoginPin      = "login_pin"
	ActionSetPin        = "set_pin"
	ActionRefreshToken  = "refresh_token"
)
