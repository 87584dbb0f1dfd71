package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/lojatech/catalog-import/internal/infrastructure/ids"
)

// CategoryRepository stores catalog categories in SQLite
type CategoryRepository struct {
	db  *sql.DB
	ids *ids.Generator
}

// NewCategoryRepository creates a new SQLite category repository
func NewCategoryRepository(db *sql.DB, gen *ids.Generator) *CategoryRepository {
	return &CategoryRepository{db: db, ids: gen}
}

// FindBySlugOrName matches s against the slug or, case-insensitively, the name
func (r *CategoryRepository) FindBySlugOrName(ctx context.Context, s string) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, slug, parent_id FROM categories
		 WHERE slug = ? OR lower(name) = lower(?)
		 ORDER BY CASE WHEN slug = ? THEN 0 ELSE 1 END
		 LIMIT 1`, s, s, s)

	var (
		c        domain.Category
		parentID sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &parentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find category %q: %w", s, err)
	}
	c.ParentID = parentID.String

	return &c, nil
}

// Create inserts a category; a taken slug yields ErrCategoryExists
func (r *CategoryRepository) Create(ctx context.Context, name, slug, parentID string) (*domain.Category, error) {
	c := domain.Category{ID: r.ids.New(), Name: name, Slug: slug, ParentID: parentID}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (id, name, slug, parent_id, created_at) VALUES (?, ?, ?, ?, ?)",
		c.ID, c.Name, c.Slug, nullString(c.ParentID), time.Now().UnixMilli())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCategoryExists, slug)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &c, nil
}
