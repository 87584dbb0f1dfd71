package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lojatech/catalog-import/config"
	"github.com/lojatech/catalog-import/internal/app"
	httpDelivery "github.com/lojatech/catalog-import/internal/delivery/http"
	"github.com/lojatech/catalog-import/internal/logging"
	"github.com/lojatech/catalog-import/internal/usecase"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	log.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting catalog import service v1.0.0")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	store, err := app.OpenStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	classifier, err := app.NewClassifier(cfg.Import)
	if err != nil {
		return err
	}

	enricher, stopEnricher, err := app.NewEnricher(ctx, cfg)
	if err != nil {
		return err
	}
	defer stopEnricher()
	log.Info().Bool("enabled", enricher != nil).Int("concurrency", cfg.Enrichment.Concurrency).Msg("Description enrichment")

	// Initialize usecase layer
	handler := httpDelivery.NewHandler(
		usecase.NewParseService(classifier),
		app.NewImportService(cfg, store, enricher, classifier),
		usecase.NewCatalogService(store.Products),
		cfg.Import.MaxInputBytes,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           httpDelivery.SetupRouter(cfg, handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
