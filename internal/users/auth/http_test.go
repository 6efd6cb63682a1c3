// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriface/veriface/internal/platform/constants"
	"github.com/veriface/veriface/internal/platform/metrics"
	"github.com/veriface/veriface/internal/platform/sec"
)

// # Refresh Endpoint

func TestHandlerRefresh(t *testing.T) {
	newRefreshFixture := func(t *testing.T) (*Handler, *sec.TokenService) {
		t.Helper()
		service, _, tokens, _ := newTestService(t)
		return NewHandler(service, nil, metrics.New()), tokens
	}

	refreshCookie := func(value string) *http.Cookie {
		return &http.Cookie{Name: constants.RefreshTokenCookieName, Value: value}
	}

	t.Run("valid refresh cookie mints an access token", func(t *testing.T) {
		handler, tokens := newRefreshFixture(t)
		refreshToken, err := tokens.IssueRefreshToken("user-1")
		require.NoError(t, err)

		request := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		request.AddCookie(refreshCookie(refreshToken))
		recorder := httptest.NewRecorder()

		handler.refresh(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), FieldAccessToken)
	})

	t.Run("missing cookie is unauthorized", func(t *testing.T) {
		handler, _ := newRefreshFixture(t)

		request := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		recorder := httptest.NewRecorder()

		handler.refresh(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("token in the request body is not accepted", func(t *testing.T) {
		handler, tokens := newRefreshFixture(t)
		refreshToken, err := tokens.IssueRefreshToken("user-1")
		require.NoError(t, err)

		// The HttpOnly cookie is the only channel: a valid token smuggled
		// through the JSON body must not establish a session.
		body := strings.NewReader(`{"refresh_token":"` + refreshToken + `"}`)
		request := httptest.NewRequest(http.MethodPost, "/refresh", body)
		request.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		handler.refresh(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("access token in the cookie is a type mismatch", func(t *testing.T) {
		handler, tokens := newRefreshFixture(t)
		accessToken, err := tokens.IssueAccessToken("user-1")
		require.NoError(t, err)

		request := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		request.AddCookie(refreshCookie(accessToken))
		recorder := httptest.NewRecorder()

		handler.refresh(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "TOKEN_TYPE_MISMATCH")
	})
}
