package analytics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"
	"github.com/gonzalo9292/myworkout/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultRebuildDays = 90
	maxRebuildDays     = 3650
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=analytics_test

type rowsFetcher interface {
	FetchRows(ctx context.Context, authorization, from, to string) ([]Row, error)
}

type RebuildRange struct {
	From string `json:"from"`
	To   string `json:"to"`
	Days int    `json:"days"`
}

type RebuildResponse struct {
	Range  RebuildRange `json:"range"`
	Result Result       `json:"result"`
}

type Handler struct {
	core        rowsFetcher
	defaultDays int
	// ability to inject the clock (for unit testing)
	NowFunc func() time.Time
}

func NewHandler(core rowsFetcher, defaultDays int) *Handler {
	if defaultDays <= 0 || defaultDays > maxRebuildDays {
		defaultDays = DefaultRebuildDays
	}
	return &Handler{
		core:        core,
		defaultDays: defaultDays,
		NowFunc:     time.Now,
	}
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.summary")
	defer span.End()

	from, to, err := pkg.ParseDateRange(r)
	if err != nil {
		log.Tracef("analytics summary: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	fromStr, toStr := from.Format(pkg.DateLayout), to.Format(pkg.DateLayout)
	span.SetAttributes(attribute.String("from", fromStr), attribute.String("to", toStr))

	rows, err := h.core.FetchRows(ctx, r.Header.Get("Authorization"), fromStr, toStr)
	if err != nil {
		writeCoreError(w, span, err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, Compute(fromStr, toStr, rows))
}

// HandleRebuildLatest summarizes [today - days, today], today being the UTC date.
func (h *Handler) HandleRebuildLatest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.rebuildLatest")
	defer span.End()

	days := h.defaultDays
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil || parsed < 1 || parsed > maxRebuildDays {
			log.Tracef("rebuild latest: bad days [%s]", daysParam)
			pkg.WriteJSONError(w, http.StatusBadRequest, "'days' must be an integer between 1 and 3650")
			return
		}
		days = parsed
	}
	span.SetAttributes(attribute.Int("days", days))

	now := h.NowFunc().UTC()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, -days)
	fromStr, toStr := from.Format(pkg.DateLayout), to.Format(pkg.DateLayout)

	rows, err := h.core.FetchRows(ctx, r.Header.Get("Authorization"), fromStr, toStr)
	if err != nil {
		writeCoreError(w, span, err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, RebuildResponse{
		Range: RebuildRange{
			From: fromStr,
			To:   toStr,
			Days: days,
		},
		Result: Compute(fromStr, toStr, rows),
	})
}

func writeCoreError(w http.ResponseWriter, span trace.Span, err error) {
	var statusErr *CoreStatusError
	if errors.As(err, &statusErr) {
		log.Debugf("core api answered %d: %s", statusErr.StatusCode, statusErr.Body)
		pkg.WriteJSONError(w, statusErr.StatusCode, statusErr.Error())
		return
	}

	log.Errorf("fetch core rows: %s", err)
	span.SetStatus(codes.Error, err.Error())
	pkg.WriteJSONError(w, http.StatusBadGateway, "core api unreachable")
}
