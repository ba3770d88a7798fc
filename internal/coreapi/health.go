package coreapi

import (
	"context"
	"net/http"

	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"
	"github.com/gonzalo9292/myworkout/pkg"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type dbProbe interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type HealthResponse struct {
	Status string           `json:"status"`
	DB     []map[string]int `json:"db"`
}

type HealthErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type HealthHandler struct {
	db dbProbe
}

func NewHealthHandler(db dbProbe) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health")
	defer span.End()

	var ok int
	if err := h.db.QueryRow(ctx, "SELECT 1 AS ok").Scan(&ok); err != nil {
		log.Errorf("health check: %s", err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSON(w, http.StatusInternalServerError, HealthErrorResponse{
			Status:  "error",
			Message: "DB connection failed",
		})
		return
	}

	pkg.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		DB:     []map[string]int{{"ok": ok}},
	})
}
