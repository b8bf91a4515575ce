// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// The orbit-sync host: opens a PIN-protected pairing window on the LAN,
// accepts one transaction batch from the paired device, and parks
// conflicting batches for operator approval.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/orbit-sync/internal/config"
	"github.com/MKhiriev/orbit-sync/internal/handler"
	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/internal/server"
	"github.com/MKhiriev/orbit-sync/internal/service"
	"github.com/MKhiriev/orbit-sync/internal/store"
	"github.com/MKhiriev/orbit-sync/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("sync-host")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	services := service.NewServices(&storages, *cfg, log)
	handlers := handler.NewHandlers(services, cfg.App, log)
	endpoint := server.NewServer(handlers.HTTP.Init(), cfg.Server, log)
	services.Session.AttachEndpoint(endpoint)

	workers.NewWorkers(
		workers.NewSessionExpiryWorker(ctx, services.Session, 0, log),
	).Run()

	result, err := services.Control.StartServer(ctx, cfg.Server.Port)
	if err != nil {
		log.Fatal().Err(err).Msg("error starting pairing session")
	}

	fmt.Printf("Pairing PIN:  %s\n", result.Pin)
	fmt.Printf("Connect URL:  %s\n", result.URL)
	fmt.Printf("Valid for:    %s\n", time.Duration(result.ExpiresIn)*time.Second)

	<-ctx.Done()

	if err := services.Control.StopServer(context.Background()); err != nil {
		log.Debug().Err(err).Msg("no session left to stop")
	}

	if pending := services.Control.ListPending(); len(pending) > 0 {
		fmt.Printf("\n%d sync batch(es) still await approval:\n", len(pending))
		for _, p := range pending {
			fmt.Printf("  %s  from %s  (%d transactions, %d conflicts)\n",
				p.ID, p.DeviceName, len(p.Payload.Transactions), len(p.Conflicts))
		}
	}

	log.Info().Msg("sync host stopped")
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
