package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gonzalo9292/myworkout/internal"
	"github.com/gonzalo9292/myworkout/internal/config"
	"github.com/gonzalo9292/myworkout/internal/middleware"
	"github.com/gonzalo9292/myworkout/internal/telemetry/metrics"
	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Server struct {
	config          *config.Config
	coreTarget      *url.URL
	analyticsTarget *url.URL
	transport       http.RoundTripper

	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()

	server *internal.Server
}

type NewServerParams struct {
	Config                  *config.Config
	HoneycombTracingEnabled bool
	// nil means an otelhttp wrapped default transport
	Transport http.RoundTripper
}

func NewServer(params NewServerParams) (*Server, error) {
	if params.Config.CoreAPITarget == "" || params.Config.AnalyticsAPITarget == "" {
		return nil, errors.New("core_api_target and analytics_api_target must be set")
	}
	coreTarget, err := url.Parse(params.Config.CoreAPITarget)
	if err != nil {
		return nil, fmt.Errorf("parse core api target: %w", err)
	}
	analyticsTarget, err := url.Parse(params.Config.AnalyticsAPITarget)
	if err != nil {
		return nil, fmt.Errorf("parse analytics api target: %w", err)
	}

	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "myworkout-gateway")
	if err != nil {
		return nil, err
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("myworkout", "gateway", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	return &Server{
		config:          params.Config,
		coreTarget:      coreTarget,
		analyticsTarget: analyticsTarget,
		transport:       params.Transport,
		metricsManager:  metricsManager,
		promRegistry:    promRegistry,
		otelShutdown:    otelShutdown,
	}, nil
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gateway-router"))

	r.HandleFunc("/health", HandleHealth).Methods("GET", "OPTIONS").Name("health")

	coreProxy := NewProxy(Upstream{
		Name:        UpstreamCore,
		Target:      s.coreTarget,
		StripPrefix: "/api",
	}, s.transport, s.metricsManager)
	r.PathPrefix("/api/").Handler(coreProxy).Name("core-proxy")

	analyticsProxy := NewProxy(Upstream{
		Name:   UpstreamAnalytics,
		Target: s.analyticsTarget,
	}, s.transport, s.metricsManager)
	r.PathPrefix("/analytics/").Handler(analyticsProxy).Name("analytics-proxy")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))

	return r
}

func (s *Server) Serve() {
	s.server = internal.NewServer(internal.NewServerParams{
		Name:           "gateway",
		Host:           s.config.Host,
		Port:           s.config.Port,
		MetricsHost:    s.config.PrometheusMetricsHost,
		MetricsPort:    s.config.PrometheusMetricsPort,
		Handler:        s.Router(),
		MetricsManager: s.metricsManager,
		PromRegistry:   s.promRegistry,
		Closers:        []func(){s.otelShutdown},
	})
	s.server.Serve()
}

func (s *Server) GracefulShutdown() {
	if s.server != nil {
		s.server.GracefulShutdown()
	}
}
