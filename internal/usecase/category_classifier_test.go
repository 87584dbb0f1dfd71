package usecase

import (
	"testing"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCategoryClassifierAutomatic(t *testing.T) {
	c := NewCategoryClassifier(DefaultCategoryRules(), "")
	cfg := domain.ImportConfiguration{AutoDetectCategory: true}

	testCases := []struct {
		name string
		want string
	}{
		{"Processador Ryzen 5 5600", "processadores"},
		{"Processador Intel Core i5 12400F", "processadores"},
		{"Monitor Gamer LG 24 IPS 144Hz", "monitores"},
		{"Notebook Acer Aspire 5 Ryzen 7", "notebooks"},
		{"Placa de Vídeo RTX 3060 12GB", "placas-de-video"},
		{"PLACA DE VIDEO GALAX GTX 1650", "placas-de-video"},
		{"Placa-Mãe ASUS B550M", "placas-mae"},
		{"Memória Kingston Fury 16GB DDR4", "memorias"},
		{"SSD Kingston NV2 1TB NVMe", "armazenamento"},
		{"Gabinete Gamer com Fonte 500W", "gabinetes"},
		{"Water Cooler Rise Mode 240mm", "refrigeracao"},
		{"Mouse Logitech G203", "perifericos"},
		{"Cadeira Gamer Husky", "cadeiras"},
		{"Mesa Digitalizadora Wacom", "outros"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.name, cfg))
		})
	}
}

func TestCategoryClassifierFirstMatchWins(t *testing.T) {
	rules := []domain.CategoryRule{
		{Keyword: "gamer", Slug: "gamer"},
		{Keyword: "monitor", Slug: "monitores"},
	}
	c := NewCategoryClassifier(rules, "")
	cfg := domain.ImportConfiguration{AutoDetectCategory: true}

	assert.Equal(t, "gamer", c.Classify("Monitor Gamer 27", cfg))

	reversed := NewCategoryClassifier([]domain.CategoryRule{rules[1], rules[0]}, "")
	assert.Equal(t, "monitores", reversed.Classify("Monitor Gamer 27", cfg))
}

func TestCategoryClassifierDefaults(t *testing.T) {
	c := NewCategoryClassifier(DefaultCategoryRules(), "diversos")

	t.Run("manual mode uses the default verbatim", func(t *testing.T) {
		cfg := domain.ImportConfiguration{DefaultCategory: "Promoções"}
		assert.Equal(t, "Promoções", c.Classify("Monitor LG 24", cfg))
	})

	t.Run("manual mode without default uses the fallback", func(t *testing.T) {
		assert.Equal(t, "diversos", c.Classify("Monitor LG 24", domain.ImportConfiguration{}))
	})

	t.Run("automatic mode falls back to the default", func(t *testing.T) {
		cfg := domain.ImportConfiguration{AutoDetectCategory: true, DefaultCategory: "acessorios"}
		assert.Equal(t, "acessorios", c.Classify("Mesa Digitalizadora", cfg))
	})

	t.Run("automatic mode is deterministic", func(t *testing.T) {
		cfg := domain.ImportConfiguration{AutoDetectCategory: true}
		first := c.Classify("Notebook Dell Inspiron", cfg)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, c.Classify("Notebook Dell Inspiron", cfg))
		}
	})
}

func TestNewCategoryClassifierSkipsBlankRules(t *testing.T) {
	c := NewCategoryClassifier([]domain.CategoryRule{
		{Keyword: "", Slug: "x"},
		{Keyword: "tablet", Slug: ""},
		{Keyword: " tablet ", Slug: "tablets", Name: "Tablets"},
	}, "")

	rules := c.Rules()
	assert.Len(t, rules, 1)
	assert.Equal(t, "tablet", rules[0].Keyword)
	assert.Equal(t, DefaultFallbackCategory, c.Fallback())
}

func TestDisplayName(t *testing.T) {
	c := NewCategoryClassifier(DefaultCategoryRules(), "")

	assert.Equal(t, "Placas de Vídeo", c.DisplayName("placas-de-video"))
	assert.Equal(t, "Acessorios Gamer", c.DisplayName("acessorios-gamer"))
	assert.Equal(t, "Promoções de Natal", c.DisplayName("Promoções de Natal"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "placas-de-video", Slugify("Placas de Vídeo"))
	assert.Equal(t, "placas-mae", Slugify("Placas-Mãe"))
	assert.Equal(t, "promocoes-de-natal", Slugify("  Promoções de Natal! "))
	assert.Equal(t, "processadores", Slugify("processadores"))
}
