package coreapi

import (
	"net/http"

	"github.com/gonzalo9292/myworkout/internal/catalog"
	"github.com/gonzalo9292/myworkout/internal/config"
	"github.com/gonzalo9292/myworkout/internal/telemetry/metrics"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewCatalogSyncer wires the WGER syncer the same way for the http api and the sync cli.
func NewCatalogSyncer(
	cfg *config.Config,
	dbPool *pgxpool.Pool,
	redisClient *redis.Client,
	cache *catalog.ListCache,
	metricsManager *metrics.Manager,
) *catalog.Syncer {
	wgerHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.Wger.RequestTimeout(),
	}

	return catalog.NewSyncer(
		catalog.NewWgerClient(cfg.Wger.BaseURL, wgerHttpClient, cfg.Wger.PageLimit, cfg.Wger.MaxPages),
		catalog.NewRepo(dbPool),
		catalog.NewRedisLock(redisClient, cfg.Wger.SyncLockTTL()),
		cache,
		catalog.SyncPolicy{
			LanguageID:            cfg.Wger.LanguageID,
			OnlyPreferredLanguage: cfg.Wger.OnlyPreferredLanguage,
			OnlyWithImage:         cfg.Wger.OnlyWithImage,
			MaxExercises:          cfg.Wger.MaxExercises,
		},
		metricsManager,
	)
}
