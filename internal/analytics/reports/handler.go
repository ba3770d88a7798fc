package reports

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gonzalo9292/myworkout/internal/auth"
	"github.com/gonzalo9292/myworkout/internal/telemetry/metrics"
	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"
	"github.com/gonzalo9292/myworkout/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultListLimit = 50
	maxListLimit     = 200
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=reports_test

type reportsRepo interface {
	Insert(ctx context.Context, userID int, doc Document, generatedAt time.Time) (string, error)
	List(ctx context.Context, userID, limit, skip int) ([]StoredReport, error)
	Get(ctx context.Context, userID int, id string) (*StoredReport, error)
	Delete(ctx context.Context, userID int, id string) error
}

type Handler struct {
	repo             reportsRepo
	metricsManager   *metrics.Manager
	defaultListLimit int
	// ability to inject the clock (for unit testing)
	NowFunc func() time.Time
}

func NewHandler(repo reportsRepo, metricsManager *metrics.Manager, defaultListLimit int) *Handler {
	if defaultListLimit <= 0 || defaultListLimit > maxListLimit {
		defaultListLimit = DefaultListLimit
	}
	return &Handler{
		repo:             repo,
		metricsManager:   metricsManager,
		defaultListLimit: defaultListLimit,
		NowFunc:          time.Now,
	}
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reports.create")
	defer span.End()

	userID, ok := auth.UserID(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil && !errors.Is(err, pkg.ErrEmptyBody) {
		log.Tracef("create report: decode body: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, generatedAt := Prepare(req, h.NowFunc())
	id, err := h.repo.Insert(ctx, userID, doc, generatedAt)
	if err != nil {
		log.Errorf("create report: %s", err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, http.StatusInternalServerError, "error saving report")
		return
	}

	if h.metricsManager != nil {
		h.metricsManager.CounterReportsGenerated.Inc()
	}
	span.SetAttributes(attribute.String("report.id", id))
	pkg.WriteJSON(w, http.StatusCreated, CreateResponse{OK: true, ID: id})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reports.list")
	defer span.End()

	userID, ok := auth.UserID(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, skip, err := h.pageParams(r)
	if err != nil {
		log.Tracef("list reports: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := h.repo.List(ctx, userID, limit, skip)
	if err != nil {
		log.Errorf("list reports: %s", err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, http.StatusInternalServerError, "error listing reports")
		return
	}

	items := make([]Report, 0, len(stored))
	for _, s := range stored {
		items = append(items, Normalize(s))
	}
	pkg.WriteJSON(w, http.StatusOK, ListResponse{
		Items: items,
		Limit: limit,
		Skip:  skip,
	})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reports.get")
	defer span.End()

	userID, id, ok := reportScope(w, r)
	if !ok {
		return
	}

	stored, err := h.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			pkg.WriteJSONError(w, http.StatusNotFound, "report not found")
			return
		}
		log.Errorf("get report %s: %s", id, err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, http.StatusInternalServerError, "error getting report")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, Normalize(*stored))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reports.delete")
	defer span.End()

	userID, id, ok := reportScope(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrReportNotFound) {
			pkg.WriteJSONError(w, http.StatusNotFound, "report not found")
			return
		}
		log.Errorf("delete report %s: %s", id, err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, http.StatusInternalServerError, "error deleting report")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, DeleteResponse{OK: true, Deleted: true, ID: id})
}

func (h *Handler) pageParams(r *http.Request) (limit, skip int, err error) {
	query := r.URL.Query()

	limit = h.defaultListLimit
	if limitParam := query.Get("limit"); limitParam != "" {
		limit, err = strconv.Atoi(limitParam)
		if err != nil || limit < 1 || limit > maxListLimit {
			return 0, 0, pkg.NewValidationError("'limit' must be an integer between 1 and %d", maxListLimit)
		}
	}

	if skipParam := query.Get("skip"); skipParam != "" {
		skip, err = strconv.Atoi(skipParam)
		if err != nil || skip < 0 {
			return 0, 0, pkg.NewValidationError("'skip' must be an integer >= 0")
		}
	}

	return limit, skip, nil
}

func reportScope(w http.ResponseWriter, r *http.Request) (int, string, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return 0, "", false
	}

	id := mux.Vars(r)["id"]
	parsed, err := uuid.Parse(id)
	if err != nil {
		log.Tracef("report id [%s]: %s", id, err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid id")
		return 0, "", false
	}
	return userID, parsed.String(), true
}
