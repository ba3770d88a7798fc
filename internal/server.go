package internal

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gonzalo9292/myworkout/internal/telemetry/metrics"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const shutdownMaxWait = 15 * time.Second

// Server runs the main http server of a service next to its prometheus metrics server.
type Server struct {
	name              string
	httpServer        *http.Server
	metricsHttpServer *http.Server

	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry

	// called in order on shutdown, after both servers stopped accepting requests
	closers []func()
}

type NewServerParams struct {
	Name           string
	Host           string
	Port           int
	MetricsHost    string
	MetricsPort    string
	Handler        http.Handler
	MetricsManager *metrics.Manager
	PromRegistry   *prometheus.Registry
	Closers        []func()
}

func NewServer(params NewServerParams) *Server {
	s := &Server{
		name:           params.Name,
		metricsManager: params.MetricsManager,
		promRegistry:   params.PromRegistry,
		closers:        params.Closers,
	}

	s.httpServer = &http.Server{
		Handler:      params.Handler,
		Addr:         net.JoinHostPort(params.Host, strconv.Itoa(params.Port)),
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	if params.PromRegistry != nil && params.MetricsPort != "" {
		metricsRouter := mux.NewRouter()
		metricsRouter.Handle("/metrics", promhttp.HandlerFor(
			params.PromRegistry,
			promhttp.HandlerOpts{Registry: params.PromRegistry},
		))
		s.metricsHttpServer = &http.Server{
			Addr:              net.JoinHostPort(params.MetricsHost, params.MetricsPort),
			Handler:           metricsRouter,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return s
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func (s *Server) Serve() {
	go func() {
		log.Infof(" > %s listening on: [%s]", s.name, s.httpServer.Addr)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("%s, listen and serve: %s", s.name, err)
		}
	}()

	if s.metricsHttpServer != nil {
		go func() {
			log.Debugf(" > %s metrics listening on: [%s]", s.name, s.metricsHttpServer.Addr)
			err := s.metricsHttpServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("%s metrics, listen and serve: %s", s.name, err)
			}
		}()
	}

	if s.metricsManager != nil {
		s.metricsManager.GaugeLifeSignal.Set(1)
	}
}

func (s *Server) GracefulShutdown() {
	log.Debugf("%s graceful shutdown initiated ...", s.name)

	if s.metricsManager != nil {
		s.metricsManager.GaugeLifeSignal.Set(0)
	}

	ctx, timeoutCancel := context.WithTimeout(context.Background(), shutdownMaxWait)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Errorf(" >>> failed to gracefully shutdown %s http server: %s", s.name, err)
	}
	log.Warnf("%s shut down", s.name)

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown %s metrics http server: %s", s.name, err)
		}
		log.Warnf("%s metrics server shut down", s.name)
	}

	for _, closeFn := range s.closers {
		closeFn()
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	if s.metricsManager == nil {
		return
	}
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed, http.StateHijacked:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
