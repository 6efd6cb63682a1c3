// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

/*
Package auth implements the core identity and credential security engine.

It handles user registration, password and PIN authentication with lockout
protection, and the stateless dual-token JWT session lifecycle.

Architecture:

  - Service: Orchestrates business logic (Register, Login, PIN lockout).
  - Repository: Abstracted interface for Postgres (Users).
  - Security: Leverages Argon2id hashing and HS256-signed JWTs.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veriface/veriface/internal/platform/apperr"
	"github.com/veriface/veriface/internal/platform/sec"
	"github.com/veriface/veriface/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating and verifying session tokens.
type TokenProvider interface {
	// IssueAccessToken creates a signed short-lived JWT for the given user.
	IssueAccessToken(userID string) (string, error)

	// IssueRefreshToken creates a signed long-lived JWT for the given user.
	IssueRefreshToken(userID string) (string, error)

	// VerifyToken checks the signature and validity of a JWT string.
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// AuditRecorder defines the contract for recording authentication events.
//
// # Why an interface?
//
// The audit trail is a separate bounded context. Depending on an interface
// here keeps the auth domain free of storage concerns and lets tests plug in
// a no-op recorder.
type AuditRecorder interface {
	// RecordAuth logs one authentication event. userID may be empty when
	// the attempt did not resolve to a known account.
	RecordAuth(context context.Context, userID, action string, success bool, ipAddress string)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, lockout,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	auditRecorder  AuditRecorder
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokenProv TokenProvider, auditRec AuditRecorder) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		auditRecorder:  auditRec,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email    string
	Password string

	// PIN is optional at registration; it can also be configured later
	// through SetPin.
	PIN string

	IPAddress string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrollment of a new account with argon2id password hashing.
A PIN may be supplied up front; otherwise the account starts without one.
Accounts are created active and without biometric templates.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. The password profile carries the
	// full memory-hard cost.
	hashedPassword, err := sec.HashSecret(input.Password, sec.ProfilePassword)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}

	// An up-front PIN is hashed under the reduced-cost profile.
	if input.PIN != "" {
		hashedPin, err := sec.HashSecret(input.PIN, sec.ProfilePIN)
		if err != nil {
			return nil, fmt.Errorf("auth_service_pin_hash_failed: %w", err)
		}
		user.PinHash = hashedPin
	}

	// Persist the user to the database. The unique index on email is the
	// race-safe backstop for the uniqueness check above.
	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.auditRecorder.RecordAuth(context, user.ID, ActionRegister, true, input.IPAddress)
	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for a password authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
}

// PinLoginInput defines credentials for a PIN authentication attempt.
type PinLoginInput struct {
	Email     string
	PIN       string
	IPAddress string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates password credentials and issues a token pair.

Description: Verifies identity with constant-time hash comparison and mints
a stateless access/refresh JWT pair. No session state is persisted: token
validity is purely signature and expiry based.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session tokens
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.userRepository.FindByEmail(context, input.Email)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		service.auditRecorder.RecordAuth(context, "", ActionLoginPassword, false, input.IPAddress)
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify the password hash using constant-time comparison to prevent timing attacks.
	if !sec.VerifySecret(input.Password, user.PasswordHash) {
		service.auditRecorder.RecordAuth(context, user.ID, ActionLoginPassword, false, input.IPAddress)
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	session, err := service.issueSession(user)
	if err != nil {
		return nil, err
	}

	service.auditRecorder.RecordAuth(context, user.ID, ActionLoginPassword, true, input.IPAddress)
	return session, nil
}

/*
LoginWithPin validates PIN credentials under the lockout state machine.

Description: Delegates the lock check, hash comparison and counter
transition to an atomic repository operation, then maps the outcome to
transport-level errors. A locked account is refused with ACCOUNT_LOCKED
before any hash comparison takes place.

Parameters:
  - context: context.Context
  - input: PinLoginInput

Returns:
  - *LoginSession: Transport-ready session tokens
  - error: Unauthorized, Locked (423) or internal failures
*/
func (service *Service) LoginWithPin(context context.Context, input PinLoginInput) (*LoginSession, error) {
	result, err := service.userRepository.AttemptPin(context, input.Email, func(storedHash string) bool {
		return sec.VerifySecret(input.PIN, storedHash)
	})

	// Unknown user: same generic message as a wrong PIN to prevent enumeration.
	if err != nil {
		var appError *apperr.AppError
		if errors.As(err, &appError) && appError.HTTPStatus == 404 {
			service.auditRecorder.RecordAuth(context, "", ActionLoginPin, false, input.IPAddress)
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, fmt.Errorf("auth_service_pin_attempt_failed: %w", err)
	}

	if result.Locked && !result.Verified {
		service.auditRecorder.RecordAuth(context, result.User.ID, ActionLoginPin, false, input.IPAddress)
		return nil, apperr.Locked(fmt.Sprintf(
			"Account temporarily locked. Try again in %d seconds.",
			int(result.RetryAfter.Seconds()),
		))
	}

	if !result.Verified {
		service.auditRecorder.RecordAuth(context, result.User.ID, ActionLoginPin, false, input.IPAddress)
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	session, err := service.issueSession(result.User)
	if err != nil {
		return nil, err
	}

	service.auditRecorder.RecordAuth(context, result.User.ID, ActionLoginPin, true, input.IPAddress)
	return session, nil
}

/*
SetPin configures or replaces the PIN credential of an authenticated user.

Description: Hashes the PIN under the reduced-cost profile and persists it.
Setting a new PIN does not clear an active lockout window.

Parameters:
  - context: context.Context
  - userID: string
  - pin: string
  - ipAddress: string

Returns:
  - error: NotFound or storage failures
*/
func (service *Service) SetPin(context context.Context, userID, pin, ipAddress string) error {
	hashedPin, err := sec.HashSecret(pin, sec.ProfilePIN)
	if err != nil {
		return fmt.Errorf("auth_service_pin_hash_failed: %w", err)
	}

	if err := service.userRepository.SetPin(context, userID, hashedPin); err != nil {
		if apperr.IsAppError(err) {
			return err
		}
		return fmt.Errorf("auth_service_set_pin_failed: %w", err)
	}

	service.auditRecorder.RecordAuth(context, userID, ActionSetPin, true, ipAddress)
	return nil
}

// # Session Management

// RefreshResult carries the outcome of a token refresh.
type RefreshResult struct {
	AccessToken string
}

/*
RefreshAccessToken mints a new access token from a valid refresh token.

Description: Verifies the refresh JWT (signature and expiry) and checks the
token type discriminator. Refresh tokens are never rotated or revoked:
validity is purely stateless. An access token presented here is refused with
TOKEN_TYPE_MISMATCH.

Parameters:
  - context: context.Context
  - refreshToken: string
  - ipAddress: string

Returns:
  - *RefreshResult: Fresh access token
  - error: Unauthorized, TokenTypeMismatch or signing failures
*/
func (service *Service) RefreshAccessToken(context context.Context, refreshToken, ipAddress string) (*RefreshResult, error) {
	claims, err := service.tokenProvider.VerifyToken(refreshToken)

	// Expired, bad signature and malformed all collapse into one response.
	if err != nil {
		service.auditRecorder.RecordAuth(context, "", ActionRefreshToken, false, ipAddress)
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	if claims.TokenType != sec.TokenTypeRefresh {
		service.auditRecorder.RecordAuth(context, claims.UserID, ActionRefreshToken, false, ipAddress)
		return nil, apperr.TokenTypeMismatch()
	}

	accessToken, err := service.tokenProvider.IssueAccessToken(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	service.auditRecorder.RecordAuth(context, claims.UserID, ActionRefreshToken, true, ipAddress)
	return &RefreshResult{AccessToken: accessToken}, nil
}

// issueSession mints the access/refresh token pair for an authenticated user.
func (service *Service) issueSession(user *User) (*LoginSession, error) {
	accessToken, err := service.tokenProvider.IssueAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := service.tokenProvider.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: time.Now().Add(RefreshTokenTTL),
		User:                  user,
	}, nil
}
