// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

/*
Package auth implements the user identity and credential management layer.

It defines the core domain entity (User) and the logic for password, PIN and
session-token based authentication, including the PIN lockout state machine.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"
)

// # Domain Entities

// User represents a registered account in the Veriface platform.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Explicitly omitted from JSON for security.

	// PinHash is empty until the user configures a PIN.
	PinHash string `json:"-"`

	// IsActive marks the account as usable. Deactivation is an operator
	// action; there is no self-service path.
	IsActive bool `json:"is_active"`

	// FailedPinAttempts counts consecutive failed PIN attempts since the
	// last success or lockout. Reset to zero when the lockout engages.
	FailedPinAttempts int `json:"-"`

	// LockedUntil is non-nil while a PIN lockout window is active.
	// A value in the past is equivalent to unlocked (lazy expiry).
	LockedUntil *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPIN reports whether the user has configured a PIN credential.
func (user *User) HasPIN() bool {
	return user.PinHash != ""
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldPIN          = "pin"
	FieldRefreshToken = "refresh_token"
	FieldAccessToken  = "access_token"
	FieldTokenType    = "token_type"
	FieldExpiresIn    = "expires_in"
	FieldUser         = "user"
	FieldMessage      = "message"
)
