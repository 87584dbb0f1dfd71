package domain

import (
	"context"
	"time"
)

// ProductRepository persists catalog products.
// Insert returns an error wrapping ErrSchemaMismatch when the store rejects optional attributes.
type ProductRepository interface {
	Insert(ctx context.Context, in ProductInput) (*Product, error)
	ListAll(ctx context.Context) ([]Product, error)
	DeleteMany(ctx context.Context, ids []string) (int, error)
}

// CategoryRepository looks up and creates categories.
// FindBySlugOrName returns nil, nil when nothing matches; Create returns an
// error wrapping ErrCategoryExists when the slug is already taken.
type CategoryRepository interface {
	FindBySlugOrName(ctx context.Context, s string) (*Category, error)
	Create(ctx context.Context, name, slug, parentID string) (*Category, error)
}

// Enricher looks up a richer description for a product page
type Enricher interface {
	Enrich(ctx context.Context, req EnrichmentRequest) (*EnrichmentResult, error)
}

// DescriptionCache remembers enrichment results per product page
type DescriptionCache interface {
	Get(ctx context.Context, key string) (*EnrichmentResult, error)
	Set(ctx context.Context, key string, value *EnrichmentResult, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
