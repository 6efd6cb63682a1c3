// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Token Types

const (
	// TokenTypeAccess marks a short-lived token used to authorize API requests.
	TokenTypeAccess = "access"

	// TokenTypeRefresh marks a long-lived token used solely to mint new
	// access tokens. It is never accepted for request authorization.
	TokenTypeRefresh = "refresh"
)

// # Verification Errors
//
// Verification failures are distinguished here so the caller can log the
// precise cause. The HTTP layer collapses all of them into a single 401
// response, so the client never learns WHY a token was rejected.
var (
	// ErrTokenExpired marks a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenSignature marks a token whose signature does not verify.
	ErrTokenSignature = errors.New("sec: token signature invalid")

	// ErrTokenMalformed marks a token that could not be parsed at all.
	ErrTokenMalformed = errors.New("sec: token malformed")
)

// AuthClaims represents the payload embedded inside a Veriface JWT.
//
// # Why custom claims?
//
// By embedding the UserID and the token type directly inside the JWT, the
// verification path needs no database lookup: validity is purely
// signature + expiry based, and tokens are never persisted server-side.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID    string `json:"uid"`
	TokenType string `json:"typ"`
}

// TokenService handles generation and verification of JWT tokens using HS256.
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a new TokenService with the shared signing secret
// and the validity durations for each token class.
func NewTokenService(secret []byte, issuer string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     secret,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL returns the configured access token validity duration.
func (service *TokenService) AccessTTL() time.Duration { return service.accessTTL }

// RefreshTTL returns the configured refresh token validity duration.
func (service *TokenService) RefreshTTL() time.Duration { return service.refreshTTL }

// IssueAccessToken mints a signed access token for the given subject.
func (service *TokenService) IssueAccessToken(userID string) (string, error) {
	return service.issue(userID, TokenTypeAccess, service.accessTTL)
}

// IssueRefreshToken mints a signed refresh token for the given subject.
func (service *TokenService) IssueRefreshToken(userID string) (string, error) {
	return service.issue(userID, TokenTypeRefresh, service.refreshTTL)
}

// issue builds and signs a token with the subject, type discriminator and expiry.
func (service *TokenService) issue(userID, tokenType string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:    userID,
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
//
// The returned error is one of [ErrTokenExpired], [ErrTokenSignature] or
// [ErrTokenMalformed]; callers must not forward the distinction to clients.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
