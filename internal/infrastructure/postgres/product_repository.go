package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/lojatech/catalog-import/internal/infrastructure/ids"
	"gorm.io/gorm"
)

// ProductRepository stores catalog products in PostgreSQL
type ProductRepository struct {
	db  *gorm.DB
	ids *ids.Generator
}

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db *gorm.DB, gen *ids.Generator) *ProductRepository {
	return &ProductRepository{db: db, ids: gen}
}

// Insert writes a product. Tags and attributes are only sent when present,
// so older tables without those columns still accept reduced inputs.
func (r *ProductRepository) Insert(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	m := productModel{
		ID:          r.ids.New(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CostPrice:   in.CostPrice,
		Image:       in.Image,
		CategoryID:  optionalString(in.CategoryID),
		Stock:       in.Stock,
		SourceURL:   in.SourceURL,
		Tags:        in.Tags,
		Attributes:  in.Attributes,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	tx := r.db.WithContext(ctx)
	if !in.HasOptional() {
		tx = tx.Omit("Tags", "Attributes")
	}

	if err := tx.Create(&m).Error; err != nil {
		if hasCode(err, codeUndefinedColumn) {
			return nil, fmt.Errorf("%w: %v", domain.ErrSchemaMismatch, err)
		}
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	p := m.toDomain()
	return &p, nil
}

// ListAll returns every product, oldest first
func (r *ProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	var rows []productModel
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, m := range rows {
		products = append(products, m.toDomain())
	}
	return products, nil
}

// DeleteMany removes the products with the given ids and reports how many existed
func (r *ProductRepository) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&productModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete products: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}
