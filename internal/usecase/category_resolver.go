package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/rs/zerolog/log"
)

// categoryResolver maps record categories to stored category ids for one
// batch, creating each missing category at most once
type categoryResolver struct {
	repo       domain.CategoryRepository
	classifier *CategoryClassifier
	ids        map[string]string
}

func newCategoryResolver(repo domain.CategoryRepository, classifier *CategoryClassifier) *categoryResolver {
	return &categoryResolver{
		repo:       repo,
		classifier: classifier,
		ids:        make(map[string]string),
	}
}

// Resolve returns the id of the category named or slugged by category.
// A create that loses a race to another writer re-reads the winner's row.
func (r *categoryResolver) Resolve(ctx context.Context, category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", nil
	}
	if id, ok := r.ids[category]; ok {
		return id, nil
	}

	existing, err := r.repo.FindBySlugOrName(ctx, category)
	if err != nil {
		return "", fmt.Errorf("looking up category %q: %w", category, err)
	}

	if existing == nil {
		slug := Slugify(category)
		created, err := r.repo.Create(ctx, r.classifier.DisplayName(category), slug, "")
		switch {
		case errors.Is(err, domain.ErrCategoryExists):
			existing, err = r.repo.FindBySlugOrName(ctx, slug)
			if err != nil {
				return "", fmt.Errorf("re-reading category %q: %w", slug, err)
			}
			if existing == nil {
				return "", fmt.Errorf("category %q reported as existing but not found: %w", slug, domain.ErrCategoryExists)
			}
		case err != nil:
			return "", fmt.Errorf("creating category %q: %w", slug, err)
		default:
			existing = created
			log.Info().Str("category", created.Slug).Str("id", created.ID).Msg("Created category")
		}
	}

	r.ids[category] = existing.ID
	return existing.ID, nil
}
