package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/lojatech/catalog-import/internal/infrastructure/ids"
)

// ProductRepository stores catalog products in SQLite
type ProductRepository struct {
	db  *sql.DB
	ids *ids.Generator
	now func() time.Time
}

// NewProductRepository creates a new SQLite product repository
func NewProductRepository(db *sql.DB, gen *ids.Generator) *ProductRepository {
	return &ProductRepository{db: db, ids: gen, now: time.Now}
}

const baseProductColumns = "id, name, description, price, cost_price, image, category_id, stock, source_url, created_at"

// Insert writes a product. Optional attributes are written to their own
// columns; a schema without them yields ErrSchemaMismatch.
func (r *ProductRepository) Insert(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	p := domain.Product{
		ID:          r.ids.New(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CostPrice:   in.CostPrice,
		Image:       in.Image,
		CategoryID:  in.CategoryID,
		Stock:       in.Stock,
		SourceURL:   in.SourceURL,
		CreatedAt:   r.now().UTC().Truncate(time.Millisecond),
	}

	columns := baseProductColumns
	args := []any{
		p.ID, p.Name, p.Description, p.Price, p.CostPrice, p.Image,
		nullString(p.CategoryID), p.Stock, p.SourceURL, p.CreatedAt.UnixMilli(),
	}

	if in.HasOptional() {
		tags, attrs, err := encodeOptional(in.Tags, in.Attributes)
		if err != nil {
			return nil, err
		}
		columns += ", tags, attributes"
		args = append(args, tags, attrs)
		p.Tags = in.Tags
		p.Attributes = in.Attributes
	}

	query := fmt.Sprintf("INSERT INTO products (%s) VALUES (%s)", columns, placeholders(len(args)))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isSchemaMismatch(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrSchemaMismatch, err)
		}
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return &p, nil
}

// ListAll returns every product, oldest first
func (r *ProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	hasOptional, err := r.hasOptionalColumns(ctx)
	if err != nil {
		return nil, err
	}

	columns := baseProductColumns
	if hasOptional {
		columns += ", tags, attributes"
	}

	rows, err := r.db.QueryContext(ctx, "SELECT "+columns+" FROM products ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var (
			p          domain.Product
			categoryID sql.NullString
			createdAt  int64
			tags       string
			attrs      string
		)
		dest := []any{
			&p.ID, &p.Name, &p.Description, &p.Price, &p.CostPrice, &p.Image,
			&categoryID, &p.Stock, &p.SourceURL, &createdAt,
		}
		if hasOptional {
			dest = append(dest, &tags, &attrs)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		p.CategoryID = categoryID.String
		p.CreatedAt = time.UnixMilli(createdAt).UTC()
		if hasOptional {
			if err := decodeOptional(tags, attrs, &p); err != nil {
				return nil, fmt.Errorf("product %s: %w", p.ID, err)
			}
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// DeleteMany removes the products with the given ids and reports how many existed
func (r *ProductRepository) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id IN ("+placeholders(len(ids))+")", args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete products: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted products: %w", err)
	}
	return int(n), nil
}

// hasOptionalColumns reports whether the products table carries the
// tags and attributes columns
func (r *ProductRepository) hasOptionalColumns(ctx context.Context) (bool, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM pragma_table_info('products')")
	if err != nil {
		return false, fmt.Errorf("failed to inspect products table: %w", err)
	}
	defer rows.Close()

	found := 0
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if name == "tags" || name == "attributes" {
			found++
		}
	}
	return found == 2, rows.Err()
}

func encodeOptional(tags []string, attrs map[string]string) (string, string, error) {
	if tags == nil {
		tags = []string{}
	}
	if attrs == nil {
		attrs = map[string]string{}
	}
	t, err := json.Marshal(tags)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode tags: %w", err)
	}
	a, err := json.Marshal(attrs)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode attributes: %w", err)
	}
	return string(t), string(a), nil
}

func decodeOptional(tags, attrs string, p *domain.Product) error {
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return fmt.Errorf("failed to decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(attrs), &p.Attributes); err != nil {
		return fmt.Errorf("failed to decode attributes: %w", err)
	}
	if len(p.Tags) == 0 {
		p.Tags = nil
	}
	if len(p.Attributes) == 0 {
		p.Attributes = nil
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
