package usecase

import (
	"testing"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validate(tokens []string, cfg domain.ImportConfiguration) domain.ParsedProductRecord {
	v := NewRecordValidator(nil)
	line := SplitLine{Number: 1, Tokens: tokens}
	return v.Validate(line, ClassifyLine(tokens), cfg)
}

func TestValidateRejections(t *testing.T) {
	testCases := []struct {
		name   string
		tokens []string
		reason string
	}{
		{name: "no name at all", tokens: []string{"R$ 100,00"}, reason: domain.ReasonNameTooShort},
		{name: "name of three runes", tokens: []string{"SSD", "R$ 100,00"}, reason: domain.ReasonNameTooShort},
		{name: "name check comes before price check", tokens: []string{"SSD"}, reason: domain.ReasonNameTooShort},
		{name: "no price", tokens: []string{"Produto sem preço válido", "abc"}, reason: domain.ReasonNoPrice},
		{name: "zero price", tokens: []string{"Teclado Mecânico", "R$ 0,00"}, reason: domain.ReasonZeroPrice},
		{name: "unparseable price shape", tokens: []string{"Teclado Mecânico", "0000"}, reason: domain.ReasonZeroPrice},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := validate(tc.tokens, domain.ImportConfiguration{})
			assert.False(t, rec.IsValid)
			assert.Equal(t, tc.reason, rec.ValidationError)
			assert.Nil(t, rec.CostPrice)
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	t.Run("four rune name is long enough", func(t *testing.T) {
		rec := validate([]string{"Cabo", "R$ 10,00"}, domain.ImportConfiguration{})
		assert.True(t, rec.IsValid)
		assert.Empty(t, rec.ValidationError)
	})

	t.Run("cost price defaults to detected price", func(t *testing.T) {
		rec := validate([]string{"Mouse Gamer", "R$ 99,90"}, domain.ImportConfiguration{})
		require.True(t, rec.IsValid)
		require.NotNil(t, rec.CostPrice)
		assert.True(t, rec.CostPrice.Equal(decimal.RequireFromString("99.90")))
		assert.True(t, rec.Price.Equal(decimal.RequireFromString("99.90")))
	})

	t.Run("profit margin marks up the sale price", func(t *testing.T) {
		cfg := domain.ImportConfiguration{ProfitMargin: decimal.NewFromInt(30)}
		rec := validate([]string{"Mouse Gamer", "R$ 99,90"}, cfg)
		require.True(t, rec.IsValid)
		assert.True(t, rec.CostPrice.Equal(decimal.RequireFromString("99.90")))
		assert.True(t, rec.Price.Equal(decimal.RequireFromString("129.87")), "got %s", rec.Price)
	})

	t.Run("default tags and ribbon", func(t *testing.T) {
		cfg := domain.ImportConfiguration{
			DefaultTags: []string{"importado", "gamer", "importado"},
			RibbonLabel: "Oferta",
		}
		rec := validate([]string{"Mouse Gamer", "R$ 99,90"}, cfg)
		assert.Equal(t, []string{"importado", "gamer", "badge:Oferta"}, rec.Tags)
	})

	t.Run("no tags yields an empty list", func(t *testing.T) {
		rec := validate([]string{"Mouse Gamer", "R$ 99,90"}, domain.ImportConfiguration{})
		assert.NotNil(t, rec.Tags)
		assert.Empty(t, rec.Tags)
	})

	t.Run("name is cleaned before checks", func(t *testing.T) {
		rec := validate([]string{"[SKU-991] Mouse Gamer FRETE GRÁTIS", "R$ 99,90"}, domain.ImportConfiguration{})
		assert.Equal(t, "Mouse Gamer", rec.Name)
	})
}

func TestRecheck(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.ParsedProductRecord
		want string
	}{
		{"short name flagged valid", domain.ParsedProductRecord{Name: "ab", Price: decimal.NewFromInt(10), IsValid: true}, domain.ReasonNameTooShort},
		{"padded short name", domain.ParsedProductRecord{Name: "  abc  ", Price: decimal.NewFromInt(10)}, domain.ReasonNameTooShort},
		{"zero price flagged valid", domain.ParsedProductRecord{Name: "Mouse Gamer", IsValid: true}, domain.ReasonZeroPrice},
		{"negative price", domain.ParsedProductRecord{Name: "Mouse Gamer", Price: decimal.NewFromInt(-1)}, domain.ReasonZeroPrice},
		{"acceptable", domain.ParsedProductRecord{Name: "Mouse Gamer", Price: decimal.RequireFromString("0.01")}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recheck(tt.rec))
		})
	}
}
