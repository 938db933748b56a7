package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"stockdesk/m/internal/api"
	"stockdesk/m/internal/config"
	"stockdesk/m/internal/database"
	"stockdesk/m/internal/inventory"
	"stockdesk/m/internal/jobs"
	"stockdesk/m/internal/logging"
	"stockdesk/m/internal/migrations"
	"stockdesk/m/internal/remote"
	"stockdesk/m/internal/seed"
	"stockdesk/m/internal/store"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogMode, cfg.LogFile)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	st := store.New(db)
	backend := remote.New(cfg.RemoteBaseURL, cfg.RemoteTimeout)

	if cfg.CatalogCSV != "" {
		seedCatalog(logger, cfg, backend)
	}

	scheduler, err := jobs.Start(st, cfg.CartTTL, logger)
	if err != nil {
		logger.Fatal("unable to schedule housekeeping", zap.Error(err))
	}
	defer scheduler.Stop()

	handler := api.New(st, backend, cfg, logger)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("stockdesk starting", zap.String("port", cfg.HTTPPort), zap.String("backend", cfg.RemoteBaseURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

// seedCatalog signs in with the seed account and imports the catalog CSV.
func seedCatalog(logger *zap.Logger, cfg config.Config, backend *remote.Client) {
	if cfg.SeedUser == "" {
		logger.Warn("CATALOG_CSV set without SEED_USER, skipping catalog import")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := backend.Login(ctx, cfg.SeedUser, cfg.SeedPassword)
	if err != nil {
		logger.Warn("seed login failed", zap.String("user", cfg.SeedUser), zap.Error(err))
		return
	}
	session := backend.As(res.Token)
	seed.LoadFile(ctx, logger, cfg.CatalogCSV, session, inventory.New(session), cfg.SeedUser)
}
