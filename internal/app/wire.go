// Package app assembles the catalog import services from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/lojatech/catalog-import/config"
	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/lojatech/catalog-import/internal/infrastructure/cache"
	"github.com/lojatech/catalog-import/internal/infrastructure/enrichment"
	"github.com/lojatech/catalog-import/internal/infrastructure/ids"
	"github.com/lojatech/catalog-import/internal/infrastructure/postgres"
	"github.com/lojatech/catalog-import/internal/infrastructure/sqlite"
	"github.com/lojatech/catalog-import/internal/usecase"
	"github.com/rs/zerolog/log"
)

// Store bundles the catalog repositories with their shutdown hook
type Store struct {
	Products   domain.ProductRepository
	Categories domain.CategoryRepository
	Close      func() error
}

// OpenStore connects to the configured catalog store
func OpenStore(cfg config.StorageConfig) (*Store, error) {
	gen := ids.NewGenerator()

	switch cfg.Driver {
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN, cfg.AutoMigrate)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get postgres handle: %w", err)
		}
		log.Info().Str("driver", cfg.Driver).Msg("Catalog store opened")
		return &Store{
			Products:   postgres.NewProductRepository(db, gen),
			Categories: postgres.NewCategoryRepository(db, gen),
			Close:      sqlDB.Close,
		}, nil

	case "sqlite", "":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if _, err := sqlite.Migrate(db, 0); err != nil {
				db.Close()
				return nil, err
			}
		}
		log.Info().Str("driver", "sqlite").Str("path", cfg.SQLitePath).Msg("Catalog store opened")
		return &Store{
			Products:   sqlite.NewProductRepository(db, gen),
			Categories: sqlite.NewCategoryRepository(db, gen),
			Close:      db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// NewClassifier builds the category classifier from the rules file, or the
// built-in table when none is configured
func NewClassifier(cfg config.ImportConfig) (*usecase.CategoryClassifier, error) {
	rules := usecase.DefaultCategoryRules()
	if cfg.RulesFile != "" {
		loaded, err := config.LoadCategoryRules(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		rules = loaded
		log.Info().Str("file", cfg.RulesFile).Int("rules", len(rules)).Msg("Loaded category rules")
	}
	return usecase.NewCategoryClassifier(rules, cfg.FallbackCategory), nil
}

// NewEnricher builds the description lookup chain: product page first, then
// Gemini when a key is configured, all behind a TTL cache. It returns nil
// when enrichment is disabled. The returned stop func releases the cache.
func NewEnricher(ctx context.Context, cfg *config.Config) (domain.Enricher, func(), error) {
	if !cfg.Enrichment.Enabled {
		return nil, func() {}, nil
	}

	chain := enrichment.Chain{
		enrichment.NewPageClient(enrichment.PageClientConfig{
			Timeout:           cfg.Enrichment.Timeout,
			RequestsPerSecond: cfg.Enrichment.RequestsPerSecond,
			Burst:             cfg.Enrichment.Burst,
			UserAgent:         cfg.Enrichment.UserAgent,
		}),
	}

	if cfg.Enrichment.GeminiAPIKey != "" {
		gemini, err := enrichment.NewGeminiEnricher(ctx, cfg.Enrichment.GeminiAPIKey, cfg.Enrichment.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		chain = append(chain, gemini)
		log.Info().Str("model", cfg.Enrichment.GeminiModel).Msg("Gemini description fallback enabled")
	}

	descriptions := cache.NewMemoryCache(cache.DefaultCleanupInterval)
	return enrichment.NewCachedEnricher(chain, descriptions, cfg.Cache.TTL), descriptions.Close, nil
}

// NewImportService wires the orchestrator from configuration
func NewImportService(cfg *config.Config, store *Store, enricher domain.Enricher, classifier *usecase.CategoryClassifier) *usecase.ImportService {
	return usecase.NewImportService(store.Products, store.Categories, enricher, classifier, usecase.ImportServiceConfig{
		EnrichmentConcurrency: cfg.Enrichment.Concurrency,
		EnrichmentTimeout:     cfg.Enrichment.Timeout,
		YieldEvery:            cfg.Import.YieldEvery,
		DefaultStock:          cfg.Import.DefaultStock,
	})
}
