// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

/*
Package auth provides the HTTP delivery layer for identity management.

It implements the gateway for the authentication lifecycle, from account
creation to PIN configuration and stateless token refresh.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Handles JWT orchestration and refresh token cookie injection.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/veriface/veriface/internal/platform/apperr"
	"github.com/veriface/veriface/internal/platform/constants"
	"github.com/veriface/veriface/internal/platform/ctxutil"
	"github.com/veriface/veriface/internal/platform/limiter"
	"github.com/veriface/veriface/internal/platform/metrics"
	"github.com/veriface/veriface/internal/platform/middleware"
	requestutil "github.com/veriface/veriface/internal/platform/request"
	"github.com/veriface/veriface/internal/platform/respond"
	"github.com/veriface/veriface/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the credential lifecycle entry
// points (Registration, Login, PIN management, Token refresh).
type Handler struct {
	authService    *Service
	attemptLimiter *limiter.AttemptLimiter
	metrics        *metrics.Metrics
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, attemptLimiter *limiter.AttemptLimiter, apiMetrics *metrics.Metrics) *Handler {
	return &Handler{
		authService:    service,
		attemptLimiter: attemptLimiter,
		metrics:        apiMetrics,
	}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register  : Creates a new account.
//   - POST /login     : Password authentication, returns a JWT pair.
//   - POST /login/pin : PIN authentication under lockout rules.
//   - POST /refresh   : Mints a new access token from the refresh cookie.
//   - POST /set-pin   : Configures the PIN credential (authenticated).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/login/pin", handler.loginPin)
	router.Post("/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/set-pin", handler.setPin)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// PIN is optional; when present it is configured at registration time.
	PIN string `json:"pin,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type pinLoginRequest struct {
	Email string `json:"email"`
	PIN   string `json:"pin"`
}

type setPinRequest struct {
	PIN string `json:"pin"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, and persists
a new user profile to the database.

Request:
  - Body: registerRequest (Email, Password, optional PIN)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength)
	if input.PIN != "" {
		validator.Digits(FieldPIN, input.PIN, MinPINLength)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:     input.Email,
		Password:  input.Password,
		PIN:       input.PIN,
		IPAddress: middleware.RealIP(request),
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user by password and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials, generates a JWT access token, and injects
a secure refresh token cookie into the response.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Session: Access token and User profile
  - 401: ErrUnauthorized: Invalid credentials
  - 429: ErrRateLimited: Too many attempts from this client
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clientIP := middleware.RealIP(request)
	if !handler.allowAttempt(request, clientIP+":"+input.Email) {
		respond.Error(writer, request, apperr.RateLimited(int(constants.CredentialAttemptWindow.Seconds())))
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:     input.Email,
		Password:  input.Password,
		IPAddress: clientIP,
	})
	if err != nil {
		handler.metrics.AuthAttempts.WithLabelValues(metrics.MethodPassword, metrics.OutcomeFailure).Inc()
		respond.Error(writer, request, err)
		return
	}

	handler.metrics.AuthAttempts.WithLabelValues(metrics.MethodPassword, metrics.OutcomeSuccess).Inc()
	handler.setRefreshCookie(writer, session)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldUser:        session.User,
	})
}

/*
LoginPin authenticates a user by PIN under the lockout state machine.

POST /api/v1/auth/login/pin

Description: Verifies the PIN through an atomic attempt that enforces the
five-strikes lockout. Locked accounts are refused with 423 and a retry hint.

Request:
  - Body: pinLoginRequest (Email, PIN)

Response:
  - 200: Session: Access token and User profile
  - 401: ErrUnauthorized: Invalid credentials or PIN not configured
  - 423: ErrLocked: Account inside an active lockout window
  - 429: ErrRateLimited: Too many attempts from this client
*/
func (handler *Handler) loginPin(writer http.ResponseWriter, request *http.Request) {
	var input pinLoginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPIN, input.PIN)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clientIP := middleware.RealIP(request)
	if !handler.allowAttempt(request, clientIP+":"+input.Email) {
		respond.Error(writer, request, apperr.RateLimited(int(constants.CredentialAttemptWindow.Seconds())))
		return
	}

	session, err := handler.authService.LoginWithPin(request.Context(), PinLoginInput{
		Email:     input.Email,
		PIN:       input.PIN,
		IPAddress: clientIP,
	})
	if err != nil {
		outcome := metrics.OutcomeFailure
		var appError *apperr.AppError
		if errors.As(err, &appError) && appError.Code == "ACCOUNT_LOCKED" {
			outcome = metrics.OutcomeLocked
		}
		handler.metrics.AuthAttempts.WithLabelValues(metrics.MethodPIN, outcome).Inc()
		respond.Error(writer, request, err)
		return
	}

	handler.metrics.AuthAttempts.WithLabelValues(metrics.MethodPIN, metrics.OutcomeSuccess).Inc()
	handler.setRefreshCookie(writer, session)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldUser:        session.User,
	})
}

/*
SetPin configures the PIN credential for the authenticated user.

POST /api/v1/auth/set-pin

Description: Validates the PIN format (digits only, minimum length) and
stores its hash. Replaces any previously configured PIN.

Request:
  - Body: setPinRequest (PIN)

Response:
  - 200: Success: PIN configured
  - 400: ErrInvalidJSON: Non-numeric or too-short PIN
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) setPin(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setPinRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldPIN, input.PIN).
		Digits(FieldPIN, input.PIN, MinPINLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.SetPin(request.Context(), userID, input.PIN, middleware.RealIP(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "PIN configured successfully",
	})
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/v1/auth/refresh

Description: Reads the refresh token from the HttpOnly cookie and mints a
fresh access token. The cookie is the only accepted channel: a token in the
request body would be visible to page scripts, which the cookie attributes
exist to prevent. Refresh tokens are stateless and never rotated.

Response:
  - 200: RefreshResponse: New access token credentials
  - 401: ErrUnauthorized / TokenTypeMismatch: Missing, invalid or wrong-type token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token"))
		return
	}
	refreshToken := cookie.Value

	result, err := handler.authService.RefreshAccessToken(request.Context(), refreshToken, middleware.RealIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldAccessToken: result.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   AccessTokenTTL / time.Second,
	})
}

// # Handler Helpers

// setRefreshCookie injects the refresh token as a scoped HttpOnly cookie.
func (handler *Handler) setRefreshCookie(writer http.ResponseWriter, session *LoginSession) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  session.RefreshTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// allowAttempt consults the shared Redis attempt limiter.
//
// Fails open: if Redis is unreachable the attempt is allowed and the outage
// is logged, so authentication stays available during a cache incident.
func (handler *Handler) allowAttempt(request *http.Request, key string) bool {
	allowed, err := handler.attemptLimiter.Allow(request.Context(), key)
	if err != nil {
		ctxutil.Logger(request.Context()).WarnContext(request.Context(),
			"attempt_limiter_unavailable", "error", err.Error())
		return true
	}
	return allowed
}
