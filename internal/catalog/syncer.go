package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gonzalo9292/myworkout/internal/telemetry/metrics"
	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrSyncInProgress = errors.New("catalog sync already in progress")

//go:generate mockgen -source=$GOFILE -destination=syncer_mocks_test.go -package=catalog_test

type wgerSource interface {
	FetchMuscles(ctx context.Context) ([]WgerMuscle, error)
	FetchExercises(ctx context.Context, languageID int) ([]WgerExerciseInfo, error)
}

type syncStore interface {
	RunInTx(ctx context.Context, fn func(w SyncWriter) error) error
}

type syncLocker interface {
	Acquire(ctx context.Context) (string, bool, error)
	Release(ctx context.Context, token string) error
}

type cacheInvalidator interface {
	Invalidate()
}

type SyncPolicy struct {
	LanguageID            int
	OnlyPreferredLanguage bool
	OnlyWithImage         bool
	// 0 means unlimited
	MaxExercises int
}

type Syncer struct {
	wger           wgerSource
	store          syncStore
	locker         syncLocker
	cache          cacheInvalidator
	policy         SyncPolicy
	metricsManager *metrics.Manager
}

func NewSyncer(
	wger wgerSource,
	store syncStore,
	locker syncLocker,
	cache cacheInvalidator,
	policy SyncPolicy,
	metricsManager *metrics.Manager,
) *Syncer {
	return &Syncer{
		wger:           wger,
		store:          store,
		locker:         locker,
		cache:          cache,
		policy:         policy,
		metricsManager: metricsManager,
	}
}

// Sync imports muscles and exercises from WGER. Everything is written in one transaction.
func (s *Syncer) Sync(ctx context.Context) (_ *SyncReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.syncer.sync")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	start := time.Now()
	defer func() {
		s.recordOutcome(err, time.Since(start))
	}()

	if s.locker != nil {
		token, acquired, err := s.locker.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire sync lock: %w", err)
		}
		if !acquired {
			return nil, ErrSyncInProgress
		}
		defer func() {
			// the request context may be done by now
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := s.locker.Release(releaseCtx, token); err != nil {
				log.Errorf("catalog sync: %s", err)
			}
		}()
	}

	log.Infoln("[sync] start ...")

	muscles, err := s.wger.FetchMuscles(ctx)
	if err != nil {
		return nil, err
	}
	log.Debugf("[sync] wger muscles: %d", len(muscles))

	exercises, err := s.wger.FetchExercises(ctx, s.policy.LanguageID)
	if err != nil {
		return nil, err
	}
	log.Debugf("[sync] wger exerciseinfo: %d", len(exercises))

	var report *SyncReport
	err = s.store.RunInTx(ctx, func(w SyncWriter) error {
		r, err := s.write(ctx, w, muscles, exercises)
		if err != nil {
			return err
		}
		report = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sync transaction: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate()
	}

	report.DurationMs = time.Since(start).Milliseconds()
	span.SetAttributes(
		attribute.Int("sync.inserted", report.Inserted),
		attribute.Int("sync.updated", report.Updated),
		attribute.Int("sync.relations", report.RelationsInserted),
	)
	log.Infof("[sync] ok -> inserted=%d, updated=%d, relationsInserted=%d",
		report.Inserted, report.Updated, report.RelationsInserted)
	log.Infof("[sync] skipped -> noPreferredLanguage=%d, noImage=%d, garbage=%d, duplicateName=%d",
		report.Skipped.NoPreferredLanguage, report.Skipped.NoImage, report.Skipped.Garbage, report.Skipped.DuplicateName)

	return report, nil
}

func (s *Syncer) write(
	ctx context.Context,
	w SyncWriter,
	muscles []WgerMuscle,
	exercises []WgerExerciseInfo,
) (*SyncReport, error) {
	report := &SyncReport{
		Message:               "sync completed",
		OnlyPreferredLanguage: s.policy.OnlyPreferredLanguage,
		OnlyWithImage:         s.policy.OnlyWithImage,
		MaxExercisesToProcess: s.policy.MaxExercises,
		LanguageID:            s.policy.LanguageID,
	}

	// wger muscle id -> internal muscle id
	muscleIDs := make(map[int]int, len(muscles))
	for _, m := range muscles {
		id, err := w.UpsertMuscle(ctx, m.ID, muscleName(m))
		if err != nil {
			return nil, err
		}
		muscleIDs[m.ID] = id
	}

	seenNames := map[string]bool{}
	processed := 0
	for _, ex := range exercises {
		if s.policy.MaxExercises > 0 && processed >= s.policy.MaxExercises {
			break
		}

		best := pickBestText(ex, s.policy.LanguageID)
		if s.policy.OnlyPreferredLanguage && !best.hasPreferred {
			report.Skipped.NoPreferredLanguage++
			continue
		}

		name := strings.TrimSpace(best.name)
		if name == "" || isGarbageName(name) {
			report.Skipped.Garbage++
			continue
		}

		nameKey := strings.ToLower(name)
		if seenNames[nameKey] {
			report.Skipped.DuplicateName++
			continue
		}
		seenNames[nameKey] = true

		descHTML := strings.TrimSpace(best.descHTML)
		var descText *string
		if descHTML != "" {
			descText = nilIfEmpty(stripHTML(descHTML))
		}

		imageURL := pickFirstImageURL(ex)
		if s.policy.OnlyWithImage && imageURL == nil {
			report.Skipped.NoImage++
			continue
		}

		exerciseID, inserted, err := w.UpsertExercise(ctx, ExerciseUpsert{
			WgerID:          ex.ID,
			Name:            name,
			DescriptionHTML: nilIfEmpty(descHTML),
			DescriptionText: descText,
			ImageURL:        imageURL,
		})
		if err != nil {
			return nil, err
		}
		if inserted {
			report.Inserted++
		} else {
			report.Updated++
		}

		for _, wgerMuscleID := range unionMuscleIDs(ex.Muscles, ex.MusclesSecondary) {
			muscleID, known := muscleIDs[wgerMuscleID]
			if !known {
				continue
			}
			added, err := w.LinkMuscle(ctx, exerciseID, muscleID)
			if err != nil {
				return nil, err
			}
			if added {
				report.RelationsInserted++
			}
		}

		processed++
	}

	return report, nil
}

func (s *Syncer) recordOutcome(err error, took time.Duration) {
	if s.metricsManager == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrSyncInProgress):
		outcome = "conflict"
	case errors.Is(err, ErrWgerUnavailable):
		outcome = "upstream_error"
	default:
		outcome = "error"
	}
	s.metricsManager.CounterCatalogSyncs.WithLabelValues(outcome).Inc()
	if err == nil {
		s.metricsManager.HistCatalogSyncDuration.Observe(took.Seconds())
	}
}
