package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gonzalo9292/myworkout/internal/config"
	"github.com/gonzalo9292/myworkout/internal/gateway"
	"github.com/gonzalo9292/myworkout/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting gateway ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev ]")
	configPath := flag.String("config", "./config/gateway.toml", "path for the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	secrets, err := config.LoadSecrets(context.Background(), cfg)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogsPath:         cfg.LogsPath,
		LogFileName:      "gateway",
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        secrets.SentryDSN,
		SentryServerName: "gateway",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("/api -> [%s], /analytics -> [%s]", cfg.CoreAPITarget, cfg.AnalyticsAPITarget)

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	server, err := gateway.NewServer(gateway.NewServerParams{
		Config:                  cfg,
		HoneycombTracingEnabled: secrets.HoneycombEnabled,
	})
	if err != nil {
		log.Fatalf("new gateway: %s", err)
	}

	server.Serve()

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, shutting down ...", receivedSig)

	server.GracefulShutdown()
}
