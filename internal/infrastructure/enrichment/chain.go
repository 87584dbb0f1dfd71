package enrichment

import (
	"context"
	"errors"

	"github.com/lojatech/catalog-import/internal/domain"
)

// Chain tries each enricher in order and returns the first description found
type Chain []domain.Enricher

// Enrich implements domain.Enricher
func (c Chain) Enrich(ctx context.Context, req domain.EnrichmentRequest) (*domain.EnrichmentResult, error) {
	var errs []error
	for _, e := range c {
		result, err := e.Enrich(ctx, req)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil, domain.ErrNoDescription
	}
	return nil, errors.Join(errs...)
}
