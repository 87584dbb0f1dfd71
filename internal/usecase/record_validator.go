package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/shopspring/decimal"
)

// minNameLength is the rune count a record name must exceed to be accepted
const minNameLength = 3

var hundred = decimal.NewFromInt(100)

// RecordValidator turns classified lines into parsed product records
type RecordValidator struct {
	categories *CategoryClassifier
	names      *NameNormalizer
	attributes *AttributeExtractor
}

// NewRecordValidator creates a validator using the given category classifier
func NewRecordValidator(categories *CategoryClassifier) *RecordValidator {
	if categories == nil {
		categories = NewCategoryClassifier(DefaultCategoryRules(), "")
	}
	return &RecordValidator{
		categories: categories,
		names:      NewNameNormalizer(),
		attributes: NewAttributeExtractor(),
	}
}

// Validate builds a record from a classified line. The first failing check
// sets the rejection reason: name length, then price presence, then a
// positive amount. Rejected records keep whatever fields were found so they
// can be shown for review.
func (v *RecordValidator) Validate(line SplitLine, cl ClassifiedLine, cfg domain.ImportConfiguration) domain.ParsedProductRecord {
	name := v.names.Normalize(cl.Name)

	rec := domain.ParsedProductRecord{
		LineNumber: line.Number,
		RawLine:    line.Raw,
		Name:       name,
		Price:      cl.Price,
		Image:      cl.Image,
		SourceURL:  cl.ProductURL,
		Category:   v.categories.Classify(name, cfg),
		Tags:       mergeTags(cfg.DefaultTags, cfg.RibbonLabel),
		Attributes: v.attributes.Extract(name),
	}

	switch {
	case utf8.RuneCountInString(name) <= minNameLength:
		rec.ValidationError = domain.ReasonNameTooShort
		return rec
	case !cl.HasPrice:
		rec.ValidationError = domain.ReasonNoPrice
		return rec
	case !cl.Price.IsPositive():
		rec.ValidationError = domain.ReasonZeroPrice
		return rec
	}

	cost := cl.Price
	rec.CostPrice = &cost
	rec.Price = applyMargin(cost, cfg.ProfitMargin)
	rec.IsValid = true
	return rec
}

// Recheck applies the name and price rules to a record supplied by a caller
// and returns the rejection reason, or "" when the record may be committed.
// The record's own IsValid flag is not consulted.
func Recheck(rec domain.ParsedProductRecord) string {
	switch {
	case utf8.RuneCountInString(strings.TrimSpace(rec.Name)) <= minNameLength:
		return domain.ReasonNameTooShort
	case !rec.Price.IsPositive():
		return domain.ReasonZeroPrice
	}
	return ""
}

// applyMargin marks up cost by margin percent, rounded to cents
func applyMargin(cost, margin decimal.Decimal) decimal.Decimal {
	if !margin.IsPositive() {
		return cost
	}
	factor := decimal.NewFromInt(1).Add(margin.Div(hundred))
	return cost.Mul(factor).Round(2)
}

// mergeTags returns the default tags without repeats, followed by the ribbon
// tag when a label is set
func mergeTags(defaults []string, ribbon string) []string {
	tags := make([]string, 0, len(defaults)+1)
	seen := make(map[string]bool)
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	for _, t := range defaults {
		add(t)
	}
	if label := strings.TrimSpace(ribbon); label != "" {
		add(domain.RibbonTagPrefix + label)
	}
	return tags
}
