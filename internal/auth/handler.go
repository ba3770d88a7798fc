package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gonzalo9292/myworkout/internal/telemetry/metrics"
	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"
	"github.com/gonzalo9292/myworkout/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

type authService interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, claims *Claims) error
}

type MeResponse struct {
	UserID int    `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type Handler struct {
	service        authService
	metricsManager *metrics.Manager
}

func NewHandler(service authService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.register")
	defer span.End()

	var req RegisterRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil {
		log.Tracef("register: decode body: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.Register(ctx, req)
	if err != nil {
		var validationErr *pkg.ValidationError
		switch {
		case errors.As(err, &validationErr):
			log.Tracef("register: %s", err)
			pkg.WriteJSONError(w, http.StatusBadRequest, validationErr.Message)
		case errors.Is(err, ErrUserExists):
			log.Debugf("register: email already registered")
			pkg.WriteJSONError(w, http.StatusConflict, "email already registered")
		default:
			log.Errorf("register user: %s", err)
			span.SetStatus(codes.Error, err.Error())
			pkg.WriteJSONError(w, http.StatusInternalServerError, "error registering user")
		}
		return
	}

	span.SetAttributes(attribute.Int("user.id", user.ID))
	pkg.WriteJSON(w, http.StatusCreated, user.Public())
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	var req LoginRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil {
		log.Tracef("login: decode body: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Login(ctx, req)
	if err != nil {
		var validationErr *pkg.ValidationError
		switch {
		case errors.As(err, &validationErr):
			pkg.WriteJSONError(w, http.StatusBadRequest, validationErr.Message)
		case errors.Is(err, ErrInvalidCredentials):
			h.countLogin("invalid")
			log.Debugf("login: invalid credentials")
			pkg.WriteJSONError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			h.countLogin("error")
			log.Errorf("login: %s", err)
			span.SetStatus(codes.Error, err.Error())
			pkg.WriteJSONError(w, http.StatusInternalServerError, "error logging in")
		}
		return
	}

	h.countLogin("ok")
	span.SetAttributes(attribute.Int("user.id", resp.User.ID))
	pkg.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.me")
	defer span.End()

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, MeResponse{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.service.Logout(ctx, claims); err != nil {
		log.Errorf("logout user %d: %s", claims.UserID, err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, http.StatusInternalServerError, "error logging out")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) countLogin(result string) {
	if h.metricsManager == nil {
		return
	}
	h.metricsManager.CounterLogins.WithLabelValues(result).Inc()
}
