package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Validation failure reasons attached to rejected records
const (
	ReasonNameTooShort = "name missing or too short"
	ReasonNoPrice      = "no price detected"
	ReasonZeroPrice    = "price is zero"
)

// RibbonTagPrefix marks the tag that carries a display ribbon label
const RibbonTagPrefix = "badge:"

// ParsedProductRecord is one pasted line after classification and validation
type ParsedProductRecord struct {
	LineNumber      int               `json:"lineNumber"`
	RawLine         string            `json:"rawLine,omitempty"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	Price           decimal.Decimal   `json:"price"`
	CostPrice       *decimal.Decimal  `json:"costPrice,omitempty"`
	Image           string            `json:"image,omitempty"`
	SourceURL       string            `json:"sourceUrl,omitempty"`
	Category        string            `json:"category"`
	Tags            []string          `json:"tags"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	IsValid         bool              `json:"isValid"`
	ValidationError string            `json:"validationError,omitempty"`
}

// NeedsEnrichment reports whether a description lookup is worth attempting
func (r ParsedProductRecord) NeedsEnrichment() bool {
	return r.SourceURL != "" && r.Description == ""
}

// ProductInput is the payload handed to the product repository
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CostPrice   decimal.Decimal
	Image       string
	CategoryID  string
	Stock       int
	SourceURL   string

	// Optional attributes; stores with an older schema may not accept them.
	Tags       []string
	Attributes map[string]string
}

// HasOptional reports whether the input carries any optional attribute
func (in ProductInput) HasOptional() bool {
	return len(in.Tags) > 0 || len(in.Attributes) > 0
}

// Reduced returns a copy limited to the fields every store accepts
func (in ProductInput) Reduced() ProductInput {
	out := in
	out.Tags = nil
	out.Attributes = nil
	return out
}

// Product is a record persisted in the catalog
type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Price       decimal.Decimal   `json:"price"`
	CostPrice   decimal.Decimal   `json:"costPrice"`
	Image       string            `json:"image,omitempty"`
	CategoryID  string            `json:"categoryId,omitempty"`
	Stock       int               `json:"stock"`
	SourceURL   string            `json:"sourceUrl,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Category groups products in the catalog
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID string `json:"parentId,omitempty"`
}

// CategoryRule maps a name keyword to a category slug
type CategoryRule struct {
	Keyword string `json:"keyword" yaml:"keyword"`
	Slug    string `json:"slug" yaml:"slug"`
	Name    string `json:"name,omitempty" yaml:"name"`
}
