package usecase

import (
	"context"
	"fmt"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/rs/zerolog/log"
)

// CatalogService reads and prunes catalog products
type CatalogService struct {
	products domain.ProductRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(products domain.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// List returns every product in the catalog
func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// Delete removes the products with the given ids, typically to undo an import
func (s *CatalogService) Delete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, domain.ErrInvalidRequest
	}

	n, err := s.products.DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("deleting products: %w", err)
	}

	log.Info().Int("requested", len(ids)).Int("deleted", n).Msg("Deleted products")
	return n, nil
}
