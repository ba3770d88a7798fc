package coreapi

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/gonzalo9292/myworkout/internal"
	"github.com/gonzalo9292/myworkout/internal/auth"
	"github.com/gonzalo9292/myworkout/internal/catalog"
	"github.com/gonzalo9292/myworkout/internal/config"
	"github.com/gonzalo9292/myworkout/internal/db"
	"github.com/gonzalo9292/myworkout/internal/middleware"
	"github.com/gonzalo9292/myworkout/internal/routines"
	"github.com/gonzalo9292/myworkout/internal/telemetry/metrics"
	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"
	"github.com/gonzalo9292/myworkout/internal/workouts"
	"github.com/gonzalo9292/myworkout/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Server struct {
	config *config.Config

	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	authService   *auth.Service
	catalogCache  *catalog.ListCache
	catalogSyncer *catalog.Syncer

	// metrics
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

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("myworkout", "core_api", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
		DB:       0, // use default DB
	})
	tracing.InstrumentRedis(rdb, secrets.HoneycombEnabled)

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(secrets.HoneycombEnabled, "myworkout-core-api")
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	authService := auth.NewService(
		auth.NewRepo(dbPool),
		auth.NewTokenManager(secrets.JWTSecret, cfg.JWTTTL()),
		auth.NewRevoker(rdb),
		secrets.AdminEmail,
	)

	catalogCache := catalog.NewListCache(cfg.CatalogCacheTTL(), metricsManager)
	catalogSyncer := NewCatalogSyncer(cfg, dbPool, rdb, catalogCache, metricsManager)

	return &Server{
		config:         cfg,
		dbPool:         dbPool,
		redisClient:    rdb,
		authService:    authService,
		catalogCache:   catalogCache,
		catalogSyncer:  catalogSyncer,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("core-router"))

	healthHandler := NewHealthHandler(s.dbPool)
	r.HandleFunc("/health", healthHandler.HandleHealth).Methods("GET", "OPTIONS").Name("health")

	authRateLimit := middleware.RateLimit(
		redis_rate.NewLimiter(s.redisClient),
		"auth",
		s.config.LoginRateLimitAllowedPerMin,
		s.metricsManager,
	)
	authHandler := auth.NewHandler(s.authService, s.metricsManager)
	r.Handle("/auth/register", authRateLimit(http.HandlerFunc(authHandler.HandleRegister))).Methods("POST", "OPTIONS").Name("register")
	r.Handle("/auth/login", authRateLimit(http.HandlerFunc(authHandler.HandleLogin))).Methods("POST", "OPTIONS").Name("login")
	r.HandleFunc("/auth/me", authHandler.HandleMe).Methods("GET", "OPTIONS").Name("me")
	r.HandleFunc("/auth/logout", authHandler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")

	adminOnly := middleware.RequireAdmin()
	catalogHandler := catalog.NewHandler(catalog.NewRepo(s.dbPool), s.catalogSyncer, s.catalogCache)
	r.HandleFunc("/exercises", catalogHandler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	r.Handle("/exercises/reset", adminOnly(http.HandlerFunc(catalogHandler.HandleReset))).Methods("POST", "OPTIONS").Name("reset-exercises")
	r.Handle("/exercises/sync", adminOnly(http.HandlerFunc(catalogHandler.HandleSync))).Methods("POST", "OPTIONS").Name("sync-exercises")
	r.HandleFunc("/exercises/{id}", catalogHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")

	routinesHandler := routines.NewHandler(routines.NewRepo(s.dbPool))
	r.HandleFunc("/routines", routinesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-routines")
	r.HandleFunc("/routines", routinesHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-routine")
	r.HandleFunc("/routines/{id}", routinesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-routine")
	r.HandleFunc("/routines/{id}", routinesHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-routine")
	r.HandleFunc("/routines/{id}", routinesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-routine")
	r.HandleFunc("/routines/{id}/items", routinesHandler.HandleAddItem).Methods("POST", "OPTIONS").Name("new-routine-item")
	r.HandleFunc("/routines/{id}/items/{itemId}", routinesHandler.HandleDeleteItem).Methods("DELETE", "OPTIONS").Name("delete-routine-item")

	workoutsHandler := workouts.NewHandler(workouts.NewRepo(s.dbPool))
	r.HandleFunc("/workouts", workoutsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts", workoutsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
	r.HandleFunc("/workouts/{id}/items", workoutsHandler.HandleAddItem).Methods("POST", "OPTIONS").Name("new-workout-item")
	r.HandleFunc("/workouts/{id}/routine/{routineId}", workoutsHandler.HandleAddRoutine).Methods("POST", "OPTIONS").Name("add-routine-to-workout")
	r.HandleFunc("/workouts/{id}/items/{itemId}", workoutsHandler.HandleDeleteItem).Methods("DELETE", "OPTIONS").Name("delete-workout-item")
	r.HandleFunc("/workouts/{id}/items/{itemId}/sets", workoutsHandler.HandleAddSet).Methods("POST", "OPTIONS").Name("new-workout-set")
	r.HandleFunc("/workouts/{id}/items/{itemId}/sets/{setId}", workoutsHandler.HandleDeleteSet).Methods("DELETE", "OPTIONS").Name("delete-workout-set")
	r.HandleFunc("/analytics/workouts", workoutsHandler.HandleAnalyticsRows).Methods("GET", "OPTIONS").Name("analytics-rows")

	// all the rest - unhandled paths
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Tracef("not found: %s %s", r.Method, r.URL.Path)
		pkg.WriteJSONError(w, http.StatusNotFound, "not found")
	})

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.authService,
		"/health",
		"/auth/register",
		"/auth/login",
	)

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
		Name:           "core api",
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
			func() {
				log.Debugln("closing db pool ...")
				s.dbPool.Close() // blocking operation
				log.Debugln("db pool closed")
			},
		},
	})
	s.server.Serve()
}

func (s *Server) GracefulShutdown() {
	if s.server != nil {
		s.server.GracefulShutdown()
		return
	}
	// never served
	s.otelShutdown()
	_ = s.redisClient.Close()
	s.dbPool.Close()
}
