package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/lojatech/catalog-import/internal/infrastructure/ids"
	"gorm.io/gorm"
)

// CategoryRepository stores catalog categories in PostgreSQL
type CategoryRepository struct {
	db  *gorm.DB
	ids *ids.Generator
}

// NewCategoryRepository creates a new PostgreSQL category repository
func NewCategoryRepository(db *gorm.DB, gen *ids.Generator) *CategoryRepository {
	return &CategoryRepository{db: db, ids: gen}
}

// FindBySlugOrName matches s against the slug or, case-insensitively, the name.
// A slug match wins over a name match.
func (r *CategoryRepository) FindBySlugOrName(ctx context.Context, s string) (*domain.Category, error) {
	var rows []categoryModel
	err := r.db.WithContext(ctx).
		Where("slug = ? OR lower(name) = lower(?)", s, s).
		Limit(2).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find category %q: %w", s, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	best := rows[0]
	for _, m := range rows {
		if m.Slug == s {
			best = m
			break
		}
	}

	c := best.toDomain()
	return &c, nil
}

// Create inserts a category; a taken slug yields ErrCategoryExists
func (r *CategoryRepository) Create(ctx context.Context, name, slug, parentID string) (*domain.Category, error) {
	m := categoryModel{
		ID:        r.ids.New(),
		Name:      name,
		Slug:      slug,
		ParentID:  optionalString(parentID),
		CreatedAt: time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if hasCode(err, codeUniqueViolation) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCategoryExists, slug)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	c := m.toDomain()
	return &c, nil
}
