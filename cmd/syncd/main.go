package main

import (
	"context"
	"fmt"
	"time"

	"github.com/avetra/bizsync/internal/adapter"
	"github.com/avetra/bizsync/internal/config"
	handlerhttp "github.com/avetra/bizsync/internal/handler/http"
	"github.com/avetra/bizsync/internal/logger"
	"github.com/avetra/bizsync/internal/server"
	"github.com/avetra/bizsync/internal/service"
	"github.com/avetra/bizsync/internal/store"
	"github.com/avetra/bizsync/internal/workers"
	"github.com/avetra/bizsync/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("bizsync")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	registryDB, err := store.NewConnectPostgres(ctx, cfg.Storage.Registry, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting session registry database")
	}
	if err = migrations.Migrate(registryDB.DB); err != nil {
		log.Fatal().Err(err).Msg("error migrating session registry database")
	}
	registry := store.NewSessionRegistry(registryDB, log)

	localDB, err := store.NewConnectSQLite(ctx, cfg.Storage.Local, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting local entity database")
	}
	local, err := store.NewEntityStore(ctx, localDB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating local entity store")
	}

	remote := adapter.NewHTTPRemoteInstance(adapter.HTTPClientConfig{
		BaseURL: cfg.Adapter.RemoteAddress,
		Timeout: cfg.Adapter.RequestTimeout,
	})

	services, err := service.NewServices(registry, local, remote, *cfg, buildVersion, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers := handlerhttp.NewHandler(services, log)
	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	ws := workers.NewWorkers(
		workers.NewLeaseHeartbeat(services.Engine, cfg.Workers.HeartbeatInterval),
		workers.NewTimeoutWatchdog(services.Engine, cfg.Workers.WatchdogInterval),
	)
	ws.Run()

	if err = services.Engine.ResumeActive(ctx); err != nil {
		log.Err(err).Msg("error resuming active sessions")
	}

	srv.RunServer()

	// The server returned after a stop signal: settle the background side.
	ws.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err = services.Engine.Shutdown(shutdownCtx); err != nil {
		log.Err(err).Msg("error shutting down sync engine")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
