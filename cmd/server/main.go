package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/mytheresa/catalog-admin/app/catalog"
	"github.com/mytheresa/catalog-admin/app/forms"
	"github.com/mytheresa/catalog-admin/app/router"
	"github.com/mytheresa/catalog-admin/config"
	"github.com/mytheresa/catalog-admin/migrations"
	"github.com/mytheresa/catalog-admin/models"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cf, err := config.Load(".env")
	if err != nil {
		logger.Fatal().Err(err).Msg("loading config")
	}
	if level, err := zerolog.ParseLevel(cf.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	if cf.MigrateOnStart {
		if err := migrate(cf.DSN()); err != nil {
			logger.Fatal().Err(err).Msg("running migrations")
		}
		logger.Info().Msg("migrations applied")
	}

	db, err := models.Open(cf.DSN(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connecting to database")
	}

	schema, err := forms.LoadProductSchema()
	if err != nil {
		logger.Fatal().Err(err).Msg("loading product form schema")
	}

	catalogHandler := catalog.NewCatalogHandler(
		models.NewProductsRepository(db),
		models.NewCategoriesRepository(db),
		models.NewTagsRepository(db),
		schema,
	)

	srv := &http.Server{
		Addr:              cf.Addr(),
		Handler:           router.SetupRouter(catalogHandler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutdownCompleted := make(chan struct{})
	go func() {
		<-sigChan
		logger.Info().Msg("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown")
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		close(shutdownCompleted)
	}()

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server stopped")
	}
	<-shutdownCompleted
	logger.Info().Msg("shutdown completed")
}

func migrate(dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return migrations.Up(db)
}
