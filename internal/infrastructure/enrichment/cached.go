package enrichment

import (
	"context"
	"errors"
	"time"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/rs/zerolog/log"
)

// CachedEnricher memoizes another enricher per product page. Pages without
// a description are remembered for negativeTTL.
type CachedEnricher struct {
	next        domain.Enricher
	cache       domain.DescriptionCache
	ttl         time.Duration
	negativeTTL time.Duration
}

// NewCachedEnricher wraps next with cache
func NewCachedEnricher(next domain.Enricher, cache domain.DescriptionCache, ttl time.Duration) *CachedEnricher {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedEnricher{next: next, cache: cache, ttl: ttl, negativeTTL: ttl / 4}
}

// Enrich implements domain.Enricher
func (c *CachedEnricher) Enrich(ctx context.Context, req domain.EnrichmentRequest) (*domain.EnrichmentResult, error) {
	key := req.URL
	if key == "" {
		key = "name:" + req.Name
	}

	if cached, err := c.cache.Get(ctx, key); err == nil {
		if cached.Description == "" {
			return nil, domain.ErrNoDescription
		}
		return cached, nil
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("Description cache read failed")
	}

	result, err := c.next.Enrich(ctx, req)
	switch {
	case err == nil:
		c.store(ctx, key, result, c.ttl)
		return result, nil
	case errors.Is(err, domain.ErrNoDescription) && !errors.Is(err, domain.ErrEnrichmentFailed):
		c.store(ctx, key, &domain.EnrichmentResult{}, c.negativeTTL)
	}
	return nil, err
}

func (c *CachedEnricher) store(ctx context.Context, key string, result *domain.EnrichmentResult, ttl time.Duration) {
	if err := c.cache.Set(ctx, key, result, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Description cache write failed")
	}
}
