package workouts

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gonzalo9292/myworkout/internal/auth"
	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"
	"github.com/gonzalo9292/myworkout/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	ListRecent(ctx context.Context, userID, limit int) ([]Workout, error)
	GetByDate(ctx context.Context, userID int, date time.Time) (*Workout, error)
	Create(ctx context.Context, userID int, newWorkout NewWorkout) (*Workout, error)
	Get(ctx context.Context, userID, id int) (*Detail, error)
	Delete(ctx context.Context, userID, id int) error
	AddItem(ctx context.Context, userID, workoutID int, newItem NewItem) (*Item, error)
	AddRoutine(ctx context.Context, userID, workoutID, routineID int) (*Detail, error)
	DeleteItem(ctx context.Context, userID, workoutID, itemID int) error
	AddSet(ctx context.Context, userID, workoutID, itemID int, req AddSetRequest) (*Set, error)
	DeleteSet(ctx context.Context, userID, workoutID, itemID, setID int) error
	AnalyticsRows(ctx context.Context, userID int, from, to time.Time) ([]AnalyticsRow, error)
}

type Handler struct {
	repo workoutsRepo
}

func NewHandler(repo workoutsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

// HandleList answers the recent workouts, or the single workout of ?date= (null when there is none).
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	userID, ok := auth.UserID(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if r.URL.Query().Has("date") {
		dateParam := r.URL.Query().Get("date")
		date, err := pkg.ParseDate(dateParam)
		if err != nil {
			log.Tracef("workout by date: %s", err)
			pkg.WriteJSONError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		span.SetAttributes(attribute.String("date", dateParam))

		workout, err := h.repo.GetByDate(ctx, userID, date)
		if err != nil {
			if errors.Is(err, ErrWorkoutNotFound) {
				pkg.WriteJSONResponseOK(w, "null")
				return
			}
			writeRepoError(w, span, "workout by date", err)
			return
		}
		pkg.WriteJSON(w, http.StatusOK, workout)
		return
	}

	workouts, err := h.repo.ListRecent(ctx, userID, RecentLimit)
	if err != nil {
		writeRepoError(w, span, "list workouts", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, workouts)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.create")
	defer span.End()

	userID, ok := auth.UserID(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil {
		log.Tracef("create workout: decode body: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	newWorkout, err := req.Validate()
	if err != nil {
		log.Tracef("create workout: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.repo.Create(ctx, userID, newWorkout)
	if err != nil {
		writeRepoError(w, span, "create workout", err)
		return
	}

	span.SetAttributes(attribute.Int("workout.id", workout.ID))
	pkg.WriteJSON(w, http.StatusCreated, workout)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	userID, ids, ok := requestScope(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.repo.Get(ctx, userID, ids[0])
	if err != nil {
		writeRepoError(w, span, "get workout", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	userID, ids, ok := requestScope(w, r, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(ctx, userID, ids[0]); err != nil {
		writeRepoError(w, span, "delete workout", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, DeletedResponse{DeletedID: ids[0]})
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.addItem")
	defer span.End()

	userID, ids, ok := requestScope(w, r, "id")
	if !ok {
		return
	}

	var req AddItemRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil {
		log.Tracef("add workout item: decode body: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	newItem, err := req.Validate()
	if err != nil {
		log.Tracef("add workout item: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.repo.AddItem(ctx, userID, ids[0], newItem)
	if err != nil {
		writeRepoError(w, span, "add workout item", err)
		return
	}
	pkg.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) HandleAddRoutine(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.addRoutine")
	defer span.End()

	userID, ids, ok := requestScope(w, r, "id", "routineId")
	if !ok {
		return
	}

	detail, err := h.repo.AddRoutine(ctx, userID, ids[0], ids[1])
	if err != nil {
		writeRepoError(w, span, "add routine to workout", err)
		return
	}
	pkg.WriteJSON(w, http.StatusCreated, detail)
}

func (h *Handler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.deleteItem")
	defer span.End()

	userID, ids, ok := requestScope(w, r, "id", "itemId")
	if !ok {
		return
	}

	if err := h.repo.DeleteItem(ctx, userID, ids[0], ids[1]); err != nil {
		writeRepoError(w, span, "delete workout item", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, DeletedResponse{DeletedID: ids[1]})
}

func (h *Handler) HandleAddSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.addSet")
	defer span.End()

	userID, ids, ok := requestScope(w, r, "id", "itemId")
	if !ok {
		return
	}

	var req AddSetRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil {
		log.Tracef("add set: decode body: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		log.Tracef("add set: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	set, err := h.repo.AddSet(ctx, userID, ids[0], ids[1], req)
	if err != nil {
		writeRepoError(w, span, "add set", err)
		return
	}
	pkg.WriteJSON(w, http.StatusCreated, set)
}

func (h *Handler) HandleDeleteSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.deleteSet")
	defer span.End()

	userID, ids, ok := requestScope(w, r, "id", "itemId", "setId")
	if !ok {
		return
	}

	if err := h.repo.DeleteSet(ctx, userID, ids[0], ids[1], ids[2]); err != nil {
		writeRepoError(w, span, "delete set", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, DeletedResponse{DeletedID: ids[2]})
}

// HandleAnalyticsRows serves the flat rows the analytics service aggregates.
func (h *Handler) HandleAnalyticsRows(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.analyticsRows")
	defer span.End()

	userID, ok := auth.UserID(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	from, to, err := pkg.ParseDateRange(r)
	if err != nil {
		log.Tracef("analytics rows: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.repo.AnalyticsRows(ctx, userID, from, to)
	if err != nil {
		writeRepoError(w, span, "analytics rows", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, AnalyticsRowsResponse{
		From: from.Format(pkg.DateLayout),
		To:   to.Format(pkg.DateLayout),
		Rows: rows,
	})
}

// requestScope reads the authenticated user and the named positive route ids.
func requestScope(w http.ResponseWriter, r *http.Request, names ...string) (int, []int, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return 0, nil, false
	}

	ids := make([]int, 0, len(names))
	for _, name := range names {
		id, err := pkg.PathID(r, name)
		if err != nil {
			log.Tracef("%s: %s", r.URL.Path, err)
			pkg.WriteJSONError(w, http.StatusBadRequest, "invalid "+name)
			return 0, nil, false
		}
		ids = append(ids, id)
	}
	return userID, ids, true
}

func writeRepoError(w http.ResponseWriter, span trace.Span, op string, err error) {
	status, msg := http.StatusInternalServerError, "error handling workout"
	switch {
	case errors.Is(err, ErrWorkoutNotFound):
		status, msg = http.StatusNotFound, "workout not found"
	case errors.Is(err, ErrItemNotFound):
		status, msg = http.StatusNotFound, "item not found"
	case errors.Is(err, ErrSetNotFound):
		status, msg = http.StatusNotFound, "set not found"
	case errors.Is(err, ErrExerciseNotFound):
		status, msg = http.StatusNotFound, "exercise not found"
	case errors.Is(err, ErrRoutineNotFound):
		status, msg = http.StatusNotFound, "routine not found"
	case errors.Is(err, ErrWorkoutExists):
		status, msg = http.StatusConflict, "a workout already exists for that date"
	case errors.Is(err, ErrSetExists):
		status, msg = http.StatusConflict, "set index already used for that item"
	}

	if status == http.StatusInternalServerError {
		log.Errorf("%s: %s", op, err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		log.Tracef("%s: %s", op, err)
	}
	pkg.WriteJSONError(w, status, msg)
}
