package routines

import (
	"context"
	"errors"
	"net/http"

	"github.com/gonzalo9292/myworkout/internal/auth"
	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"
	"github.com/gonzalo9292/myworkout/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=routines_test

type routinesRepo interface {
	List(ctx context.Context, userID int) ([]Routine, error)
	Create(ctx context.Context, userID int, req RoutineRequest) (*Routine, error)
	Get(ctx context.Context, userID, id int) (*Detail, error)
	Update(ctx context.Context, userID, id int, req RoutineRequest) (*Routine, error)
	Delete(ctx context.Context, userID, id int) error
	AddItem(ctx context.Context, userID, routineID int, newItem NewItem) (*Item, error)
	DeleteItem(ctx context.Context, userID, routineID, itemID int) error
}

type Handler struct {
	repo routinesRepo
}

func NewHandler(repo routinesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.list")
	defer span.End()

	userID, ok := auth.UserID(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	routines, err := h.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("list routines: %s", err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, http.StatusInternalServerError, "error listing routines")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, routines)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.create")
	defer span.End()

	userID, ok := auth.UserID(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	req, ok := decodeRoutineRequest(w, r)
	if !ok {
		return
	}

	routine, err := h.repo.Create(ctx, userID, req)
	if err != nil {
		log.Errorf("create routine: %s", err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, http.StatusInternalServerError, "error creating routine")
		return
	}

	span.SetAttributes(attribute.Int("routine.id", routine.ID))
	pkg.WriteJSON(w, http.StatusCreated, routine)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.get")
	defer span.End()

	userID, ok := auth.UserID(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pkg.PathID(r, "id")
	if err != nil {
		log.Tracef("get routine: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid id")
		return
	}

	detail, err := h.repo.Get(ctx, userID, id)
	if err != nil {
		writeRepoError(w, span, "get routine", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.update")
	defer span.End()

	userID, ok := auth.UserID(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pkg.PathID(r, "id")
	if err != nil {
		log.Tracef("update routine: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid id")
		return
	}

	req, ok := decodeRoutineRequest(w, r)
	if !ok {
		return
	}

	routine, err := h.repo.Update(ctx, userID, id, req)
	if err != nil {
		writeRepoError(w, span, "update routine", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, routine)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.delete")
	defer span.End()

	userID, ok := auth.UserID(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pkg.PathID(r, "id")
	if err != nil {
		log.Tracef("delete routine: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.repo.Delete(ctx, userID, id); err != nil {
		writeRepoError(w, span, "delete routine", err)
		return
	}

	log.Debugf("routine %d deleted", id)
	pkg.WriteJSON(w, http.StatusOK, DeletedResponse{DeletedID: id})
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.addItem")
	defer span.End()

	userID, ok := auth.UserID(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	routineID, err := pkg.PathID(r, "id")
	if err != nil {
		log.Tracef("add routine item: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req AddItemRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil {
		log.Tracef("add routine item: decode body: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	newItem, err := req.Validate()
	if err != nil {
		log.Tracef("add routine item: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.repo.AddItem(ctx, userID, routineID, newItem)
	if err != nil {
		writeRepoError(w, span, "add routine item", err)
		return
	}

	span.SetAttributes(attribute.Int("item.id", item.ID))
	pkg.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.deleteItem")
	defer span.End()

	userID, ok := auth.UserID(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	routineID, err := pkg.PathID(r, "id")
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid id")
		return
	}
	itemID, err := pkg.PathID(r, "itemId")
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.repo.DeleteItem(ctx, userID, routineID, itemID); err != nil {
		writeRepoError(w, span, "delete routine item", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, DeletedResponse{DeletedID: itemID})
}

func writeRepoError(w http.ResponseWriter, span trace.Span, op string, err error) {
	switch {
	case errors.Is(err, ErrRoutineNotFound):
		log.Tracef("%s: %s", op, err)
		pkg.WriteJSONError(w, http.StatusNotFound, "routine not found")
	case errors.Is(err, ErrItemNotFound):
		log.Tracef("%s: %s", op, err)
		pkg.WriteJSONError(w, http.StatusNotFound, "item not found")
	case errors.Is(err, ErrExerciseNotFound):
		log.Tracef("%s: %s", op, err)
		pkg.WriteJSONError(w, http.StatusNotFound, "exercise not found")
	default:
		log.Errorf("%s: %s", op, err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, http.StatusInternalServerError, "error handling routine")
	}
}

func decodeRoutineRequest(w http.ResponseWriter, r *http.Request) (RoutineRequest, bool) {
	var req RoutineRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil {
		log.Tracef("routine request: decode body: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return RoutineRequest{}, false
	}
	normalized, err := req.Normalize()
	if err != nil {
		log.Tracef("routine request: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return RoutineRequest{}, false
	}
	return normalized, true
}
