package tracing

import (
	"fmt"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/honeycombio/honeycomb-opentelemetry-go"
	"github.com/honeycombio/otel-config-go/otelconfig"
	log "github.com/sirupsen/logrus"
)

// HoneycombSetup configures the OpenTelemetry SDK to export to Honeycomb.
// The API key and service name are read by otelconfig from HONEYCOMB_API_KEY and OTEL_SERVICE_NAME.
// The returned func flushes and shuts the exporter down.
func HoneycombSetup(enabled bool, serviceName string) (func(), error) {
	if !enabled {
		log.Debugln("honeycomb tracing disabled")
		return func() {}, nil
	}

	bsp := honeycomb.NewBaggageSpanProcessor()
	opts := []otelconfig.Option{
		otelconfig.WithSpanProcessor(bsp),
	}
	if serviceName != "" {
		opts = append(opts, otelconfig.WithServiceName(serviceName))
	}

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(opts...)
	if err != nil {
		return nil, fmt.Errorf("configure open telemetry: %w", err)
	}

	log.Infof("honeycomb tracing enabled for service [%s]", serviceName)
	return otelShutdown, nil
}

// InstrumentRedis attaches the otel hook to the redis client when tracing is on.
func InstrumentRedis(rdb *redis.Client, enabled bool) {
	if !enabled || rdb == nil {
		return
	}
	rdb.AddHook(redisotel.NewTracingHook())
}
