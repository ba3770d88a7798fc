package main

import (
	"context"
	"encoding/json"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gonzalo9292/myworkout/internal/catalog"
	"github.com/gonzalo9292/myworkout/internal/config"
	"github.com/gonzalo9292/myworkout/internal/coreapi"
	"github.com/gonzalo9292/myworkout/internal/db"
	"github.com/gonzalo9292/myworkout/internal/logging"
	"github.com/gonzalo9292/myworkout/internal/telemetry/metrics"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev ]")
	configPath := flag.String("config", "./config/core_api.toml", "path for the core api TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	secrets, err := config.LoadSecrets(ctx, cfg)
	if err != nil {
		log.Fatalf("load secrets: %s", err)
	}

	// stdout is reserved for the report
	log.SetOutput(os.Stderr)
	log.SetLevel(logging.GetLevel(cfg.LogLevel))

	if err := run(ctx, cfg, secrets); err != nil {
		log.Errorf("catalog sync failed: %s", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, secrets *config.Secrets) error {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.PostgresPassword,
	})
	if err != nil {
		return err
	}
	defer dbPool.Close()

	if cfg.ApplySchemaOnStartup {
		if err := db.ApplySchema(ctx, dbPool); err != nil {
			return err
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Errorf("close redis: %s", err)
		}
	}()

	metricsManager := metrics.NewManager("myworkout", "catalog_sync", prometheus.NewRegistry())
	syncer := coreapi.NewCatalogSyncer(
		cfg,
		dbPool,
		rdb,
		catalog.NewListCache(cfg.CatalogCacheTTL(), metricsManager),
		metricsManager,
	)

	report, err := syncer.Sync(ctx)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
