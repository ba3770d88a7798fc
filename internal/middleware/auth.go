package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gonzalo9292/myworkout/internal/auth"
	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"
	"github.com/gonzalo9292/myworkout/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

type AuthMiddlewareHandler struct {
	authenticator authenticator
	allowedPaths  map[string]bool
}

// NewAuthMiddlewareHandler guards every path except the given public ones.
func NewAuthMiddlewareHandler(
	authenticator authenticator,
	publicPaths ...string,
) *AuthMiddlewareHandler {
	allowedPaths := make(map[string]bool, len(publicPaths))
	for _, p := range publicPaths {
		allowedPaths[p] = true
	}
	return &AuthMiddlewareHandler{
		authenticator: authenticator,
		allowedPaths:  allowedPaths,
	}
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			token, ok := BearerToken(r)
			if !ok {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, http.StatusUnauthorized, "missing bearer token")
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			claims, err := h.authenticator.Authenticate(ctx, token)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrTokenRevoked) {
					log.Tracef("[invalid token] [auth middleware] unauthorized => %s: %s", r.URL.Path, err)
				} else {
					log.Errorf("[failed auth check] => %s: %s", r.URL.Path, err)
					span.RecordError(err)
				}
				pkg.WriteJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				span.SetStatus(codes.Error, "not-authenticated")
				return
			}

			span.SetAttributes(attribute.Int("user.id", claims.UserID))
			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin must run after AuthCheck.
func RequireAdmin() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				pkg.WriteJSONError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			if !claims.IsAdmin() {
				log.Debugf("[admin check] user %d forbidden => %s", claims.UserID, r.URL.Path)
				pkg.WriteJSONError(w, http.StatusForbidden, "admin role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func BearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < len("Bearer ")+1 || !strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	return token, token != ""
}
