package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"
	"github.com/gonzalo9292/myworkout/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=catalog_test

type exercisesRepo interface {
	List(ctx context.Context, limit int) ([]ExerciseListItem, error)
	Get(ctx context.Context, id int) (*Exercise, error)
	Reset(ctx context.Context) error
}

type catalogSyncer interface {
	Sync(ctx context.Context) (*SyncReport, error)
}

type listCache interface {
	Get() ([]ExerciseListItem, bool)
	Set(items []ExerciseListItem)
	Invalidate()
}

type Handler struct {
	repo   exercisesRepo
	syncer catalogSyncer
	cache  listCache
}

func NewHandler(repo exercisesRepo, syncer catalogSyncer, cache listCache) *Handler {
	return &Handler{
		repo:   repo,
		syncer: syncer,
		cache:  cache,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.list")
	defer span.End()

	if items, ok := h.cache.Get(); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		pkg.WriteJSON(w, http.StatusOK, items)
		return
	}

	items, err := h.repo.List(ctx, ListLimit)
	if err != nil {
		log.Errorf("list exercises: %s", err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, http.StatusInternalServerError, "error listing exercises")
		return
	}

	h.cache.Set(items)
	pkg.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.get")
	defer span.End()

	id, err := pkg.PathID(r, "id")
	if err != nil {
		log.Tracef("get exercise: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid id")
		return
	}
	span.SetAttributes(attribute.Int("id", id))

	exercise, err := h.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			pkg.WriteJSONError(w, http.StatusNotFound, "not found")
			return
		}
		log.Errorf("get exercise %d: %s", id, err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, http.StatusInternalServerError, "error getting exercise")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, exercise)
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.reset")
	defer span.End()

	if err := h.repo.Reset(ctx); err != nil {
		if errors.Is(err, ErrCatalogInUse) {
			log.Debugf("reset exercises: %s", err)
			pkg.WriteJSONError(w, http.StatusConflict, "exercises are still referenced by routines or workouts")
			return
		}
		log.Errorf("reset exercises: %s", err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, http.StatusInternalServerError, "error resetting exercise catalog")
		return
	}

	h.cache.Invalidate()
	log.Warnln("exercise catalog reset")
	pkg.WriteJSON(w, http.StatusOK, ResetResponse{
		Message: "exercise catalog reset (exercises + relations)",
	})
}

func (h *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.sync")
	defer span.End()

	report, err := h.syncer.Sync(ctx)
	if err != nil {
		switch {
		case errors.Is(err, ErrSyncInProgress):
			pkg.WriteJSONError(w, http.StatusConflict, "a catalog sync is already running")
		case errors.Is(err, ErrWgerUnavailable):
			log.Errorf("sync exercises: %s", err)
			span.SetStatus(codes.Error, err.Error())
			pkg.WriteJSONError(w, http.StatusBadGateway, "wger unavailable")
		default:
			log.Errorf("sync exercises: %s", err)
			span.SetStatus(codes.Error, err.Error())
			pkg.WriteJSONError(w, http.StatusInternalServerError, "error syncing exercises")
		}
		return
	}

	pkg.WriteJSON(w, http.StatusOK, report)
}
