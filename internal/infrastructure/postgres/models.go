package postgres

import (
	"time"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/shopspring/decimal"
)

// categoryModel is the categories table row
type categoryModel struct {
	ID        string    `gorm:"primaryKey;type:text"`
	Name      string    `gorm:"type:text;not null"`
	Slug      string    `gorm:"type:text;not null;uniqueIndex"`
	ParentID  *string   `gorm:"type:text;index"`
	CreatedAt time.Time `gorm:"type:timestamp with time zone;not null"`
}

// TableName overrides the table name
func (categoryModel) TableName() string {
	return "categories"
}

func (m categoryModel) toDomain() domain.Category {
	c := domain.Category{ID: m.ID, Name: m.Name, Slug: m.Slug}
	if m.ParentID != nil {
		c.ParentID = *m.ParentID
	}
	return c
}

// productModel is the products table row
type productModel struct {
	ID          string            `gorm:"primaryKey;type:text"`
	Name        string            `gorm:"type:text;not null"`
	Description string            `gorm:"type:text;not null"`
	Price       decimal.Decimal   `gorm:"type:numeric(12,2);not null"`
	CostPrice   decimal.Decimal   `gorm:"type:numeric(12,2);not null"`
	Image       string            `gorm:"type:text;not null"`
	CategoryID  *string           `gorm:"type:text;index"`
	Stock       int               `gorm:"not null"`
	SourceURL   string            `gorm:"column:source_url;type:text;not null"`
	Tags        []string          `gorm:"type:jsonb;serializer:json"`
	Attributes  map[string]string `gorm:"type:jsonb;serializer:json"`
	CreatedAt   time.Time         `gorm:"type:timestamp with time zone;not null;index"`
}

// TableName overrides the table name
func (productModel) TableName() string {
	return "products"
}

func (m productModel) toDomain() domain.Product {
	p := domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		CostPrice:   m.CostPrice,
		Image:       m.Image,
		Stock:       m.Stock,
		SourceURL:   m.SourceURL,
		CreatedAt:   m.CreatedAt.UTC(),
	}
	if m.CategoryID != nil {
		p.CategoryID = *m.CategoryID
	}
	if len(m.Tags) > 0 {
		p.Tags = m.Tags
	}
	if len(m.Attributes) > 0 {
		p.Attributes = m.Attributes
	}
	return p
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
