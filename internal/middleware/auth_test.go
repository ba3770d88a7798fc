package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gonzalo9292/myworkout/internal/auth"
	"github.com/gonzalo9292/myworkout/internal/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuthenticator := NewMockauthenticator(ctrl)
	authMiddleware := middleware.NewAuthMiddlewareHandler(
		mockAuthenticator,
		"/health", "/auth/login", "/auth/register",
	)

	mockAuthenticator.EXPECT().
		Authenticate(gomock.Any(), "valid-token").
		Return(&auth.Claims{UserID: 3, Role: auth.RoleUser}, nil).AnyTimes()
	mockAuthenticator.EXPECT().
		Authenticate(gomock.Any(), "invalid-token").
		Return(nil, auth.ErrInvalidToken).AnyTimes()
	mockAuthenticator.EXPECT().
		Authenticate(gomock.Any(), "revoked-token").
		Return(nil, auth.ErrTokenRevoked).AnyTimes()
	mockAuthenticator.EXPECT().
		Authenticate(gomock.Any(), "redis-down").
		Return(nil, errors.New("redis down")).AnyTimes()

	testCases := []struct {
		name               string
		path               string
		method             string
		authHeader         string
		expectedStatusCode int
		expectedUserID     int
	}{
		{
			name:               "AllowedPathWithoutToken",
			path:               "/health",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "LoginWithoutToken",
			path:               "/auth/login",
			method:             "POST",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "Options",
			path:               "/routines",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusNoContent,
		},
		{
			name:               "NotAllowedPathWithoutToken",
			path:               "/routines",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "NotBearer",
			path:               "/routines",
			method:             "GET",
			authHeader:         "Basic abc",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ValidToken",
			path:               "/routines",
			method:             "GET",
			authHeader:         "Bearer valid-token",
			expectedStatusCode: http.StatusOK,
			expectedUserID:     3,
		},
		{
			name:               "ValidTokenLowercaseScheme",
			path:               "/auth/me",
			method:             "GET",
			authHeader:         "bearer valid-token",
			expectedStatusCode: http.StatusOK,
			expectedUserID:     3,
		},
		{
			name:               "InvalidToken",
			path:               "/routines",
			method:             "GET",
			authHeader:         "Bearer invalid-token",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "RevokedToken",
			path:               "/routines",
			method:             "GET",
			authHeader:         "Bearer revoked-token",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "AuthenticatorError",
			path:               "/routines",
			method:             "GET",
			authHeader:         "Bearer redis-down",
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, tc.path, nil)
			assert.NoError(t, err)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			var gotUserID int
			rr := httptest.NewRecorder()
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
					gotUserID = claims.UserID
				}
			})
			authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			assert.Equal(t, tc.expectedUserID, gotUserID)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := middleware.RequireAdmin()(next)

	req := httptest.NewRequest(http.MethodPost, "/exercises/sync", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	userReq := req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{UserID: 1, Role: auth.RoleUser}))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, userReq)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	adminReq := req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{UserID: 2, Role: auth.RoleAdmin}))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, adminReq)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middleware.BearerToken(req)
	assert.False(t, ok)

	req.Header.Set("Authorization", "Bearer ")
	_, ok = middleware.BearerToken(req)
	assert.False(t, ok)

	req.Header.Set("Authorization", "Bearer  abc.def ")
	token, ok := middleware.BearerToken(req)
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)
}
