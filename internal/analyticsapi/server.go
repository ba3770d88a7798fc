package analyticsapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gonzalo9292/myworkout/internal"
	"github.com/gonzalo9292/myworkout/internal/analytics"
	"github.com/gonzalo9292/myworkout/internal/analytics/reports"
	"github.com/gonzalo9292/myworkout/internal/auth"
	"github.com/gonzalo9292/myworkout/internal/config"
	"github.com/gonzalo9292/myworkout/internal/db"
	"github.com/gonzalo9292/myworkout/internal/middleware"
	"github.com/gonzalo9292/myworkout/internal/telemetry/metrics"
	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"
	"github.com/gonzalo9292/myworkout/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	config *config.Config

	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	authService *auth.Service
	coreClient  *analytics.CoreClient

	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()

	server *internal.Server
}

type NewServerParams struct {
	Config  *config.Config
	Secrets *config.Secrets
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	secrets := params.Secrets

	if cfg.CoreAPIBase == "" {
		return nil, errors.New("core_api_base not set")
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     secrets.PostgresPassword,
		TracingEnabled: secrets.HoneycombEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if cfg.ApplySchemaOnStartup {
		if err := db.ApplySchema(ctx, dbPool); err != nil {
			dbPool.Close()
			return nil, err
		}
	}

	promRegistry := metrics.SetupPrometheus(pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	))
	metricsManager := metrics.NewManager("myworkout", "analytics_api", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	// revoked token ids are shared with the core api
	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
		DB:       0,
	})
	tracing.InstrumentRedis(rdb, secrets.HoneycombEnabled)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	}

	otelShutdown, err := tracing.HoneycombSetup(secrets.HoneycombEnabled, "myworkout-analytics-api")
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	// only verifies tokens, users live in the core api
	authService := auth.NewService(
		nil,
		auth.NewTokenManager(secrets.JWTSecret, cfg.JWTTTL()),
		auth.NewRevoker(rdb),
		"",
	)

	coreClient := analytics.NewCoreClient(cfg.CoreAPIBase, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.CoreAPITimeout(),
	})

	return &Server{
		config:         cfg,
		dbPool:         dbPool,
		redisClient:    rdb,
		authService:    authService,
		coreClient:     coreClient,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONResponseOK(w, `{"status":"ok"}`)
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("analytics-router"))

	r.HandleFunc("/health", HandleHealth).Methods("GET", "OPTIONS").Name("health")

	analyticsHandler := analytics.NewHandler(s.coreClient, s.config.RebuildLatestDefaultDays)
	r.HandleFunc("/analytics/summary", analyticsHandler.HandleSummary).Methods("GET", "OPTIONS").Name("summary")
	r.HandleFunc("/analytics/rebuild/latest", analyticsHandler.HandleRebuildLatest).Methods("POST", "OPTIONS").Name("rebuild-latest")

	reportsHandler := reports.NewHandler(reports.NewRepo(s.dbPool), s.metricsManager, s.config.ReportsDefaultPageSize)
	r.HandleFunc("/analytics/reports", reportsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-report")
	r.HandleFunc("/analytics/reports", reportsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-reports")
	r.HandleFunc("/analytics/reports/{id}", reportsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-report")
	r.HandleFunc("/analytics/reports/{id}", reportsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-report")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteJSONError(w, http.StatusNotFound, "not found")
	})

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.authService, "/health")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve() {
	s.server = internal.NewServer(internal.NewServerParams{
		Name:           "analytics api",
		Host:           s.config.Host,
		Port:           s.config.Port,
		MetricsHost:    s.config.PrometheusMetricsHost,
		MetricsPort:    s.config.PrometheusMetricsPort,
		Handler:        s.routerSetup(),
		MetricsManager: s.metricsManager,
		PromRegistry:   s.promRegistry,
		Closers: []func(){
			s.otelShutdown,
			func() {
				if err := s.redisClient.Close(); err != nil {
					log.Errorf("failed to close redis client conn: %s", err)
				}
			},
			s.dbPool.Close,
		},
	})
	s.server.Serve()
}

func (s *Server) GracefulShutdown() {
	if s.server != nil {
		s.server.GracefulShutdown()
		return
	}
	s.otelShutdown()
	_ = s.redisClient.Close()
	s.dbPool.Close()
}
