package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-tour-booking/internal/adapter"
	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/internal/handler"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/server"
	"github.com/MKhiriev/go-tour-booking/internal/service"
	"github.com/MKhiriev/go-tour-booking/internal/store"
	"github.com/MKhiriev/go-tour-booking/internal/validators"
	"github.com/MKhiriev/go-tour-booking/internal/workers"
	"github.com/MKhiriev/go-tour-booking/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	if code := run(); code != 0 {
		os.Exit(code)
	}
}

// run wires the application and blocks until the server stops. Deferred
// cleanups finish before main exits with the returned code.
func run() (exitCode int) {
	buildInfo := printBuildInfo()

	log := logger.NewLogger("tour-booking-server")

	// a panic before the server is up is a startup failure
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Msg("UNCAUGHT EXCEPTION! Shutting down...")
			exitCode = 1
		}
	}()

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	logger.SetRunMode(cfg.App.IsDevelopment())

	log.Info().
		Str("version", buildInfo.BuildVersion()).
		Str("commit", buildInfo.BuildCommit()).
		Str("run_mode", cfg.App.RunMode).
		Msg("starting tour booking server")

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	storages := store.NewStorages(db, cfg.RateLimit, log)

	mailer, mailerCloser, err := adapter.NewMailer(cfg.Mail, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating mailer")
	}
	if mailerCloser != nil {
		defer mailerCloser.Close()
	}

	emails, err := adapter.NewEmailComposer(cfg.Mail)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating email composer")
	}

	services := service.NewServices(storages, service.Adapters{
		Mailer:  mailer,
		Emails:  emails,
		Payment: adapter.NewStripeGateway(cfg.Payment, log),
	}, validators.NewRequestValidator(), *cfg, log)

	handlers, err := handler.NewHandlers(services, storages, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, workers.NewWorkers(storages, cfg.Workers, log), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("UNHANDLED REJECTION! Shutting down...")
		exitCode = 1
	}

	return exitCode
}

func printBuildInfo() models.AppBuildInfo {
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

	return models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
}
