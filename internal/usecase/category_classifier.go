package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lojatech/catalog-import/internal/domain"
)

// DefaultFallbackCategory is used when neither a rule nor the caller picks a category
const DefaultFallbackCategory = "outros"

// DefaultCategoryRules is the built-in keyword table for a hardware store.
// Order matters: the first matching keyword wins, so "Notebook Ryzen 7"
// lands in notebooks and never reaches the processor rules.
func DefaultCategoryRules() []domain.CategoryRule {
	return []domain.CategoryRule{
		{Keyword: "monitor", Slug: "monitores", Name: "Monitores"},
		{Keyword: "notebook", Slug: "notebooks", Name: "Notebooks"},
		{Keyword: "laptop", Slug: "notebooks", Name: "Notebooks"},
		{Keyword: "placa de vídeo", Slug: "placas-de-video", Name: "Placas de Vídeo"},
		{Keyword: "geforce", Slug: "placas-de-video", Name: "Placas de Vídeo"},
		{Keyword: "rtx", Slug: "placas-de-video", Name: "Placas de Vídeo"},
		{Keyword: "gtx", Slug: "placas-de-video", Name: "Placas de Vídeo"},
		{Keyword: "radeon rx", Slug: "placas-de-video", Name: "Placas de Vídeo"},
		{Keyword: "placa mãe", Slug: "placas-mae", Name: "Placas-Mãe"},
		{Keyword: "placa-mãe", Slug: "placas-mae", Name: "Placas-Mãe"},
		{Keyword: "motherboard", Slug: "placas-mae", Name: "Placas-Mãe"},
		{Keyword: "processador", Slug: "processadores", Name: "Processadores"},
		{Keyword: "ryzen", Slug: "processadores", Name: "Processadores"},
		{Keyword: "core i", Slug: "processadores", Name: "Processadores"},
		{Keyword: "memória", Slug: "memorias", Name: "Memórias"},
		{Keyword: "ddr4", Slug: "memorias", Name: "Memórias"},
		{Keyword: "ddr5", Slug: "memorias", Name: "Memórias"},
		{Keyword: "ssd", Slug: "armazenamento", Name: "Armazenamento"},
		{Keyword: "nvme", Slug: "armazenamento", Name: "Armazenamento"},
		{Keyword: "hd externo", Slug: "armazenamento", Name: "Armazenamento"},
		{Keyword: "gabinete", Slug: "gabinetes", Name: "Gabinetes"},
		{Keyword: "fonte", Slug: "fontes", Name: "Fontes"},
		{Keyword: "water cooler", Slug: "refrigeracao", Name: "Refrigeração"},
		{Keyword: "cooler", Slug: "refrigeracao", Name: "Refrigeração"},
		{Keyword: "teclado", Slug: "perifericos", Name: "Periféricos"},
		{Keyword: "mouse", Slug: "perifericos", Name: "Periféricos"},
		{Keyword: "headset", Slug: "perifericos", Name: "Periféricos"},
		{Keyword: "cadeira", Slug: "cadeiras", Name: "Cadeiras"},
		{Keyword: "pc gamer", Slug: "computadores-gamer", Name: "Computadores Gamer"},
		{Keyword: "pc office", Slug: "computadores-office", Name: "Computadores Office"},
	}
}

// CategoryClassifier assigns category slugs from product names
type CategoryClassifier struct {
	rules    []domain.CategoryRule
	folded   []string // folded keywords, parallel to rules
	names    map[string]string
	fallback string
}

// NewCategoryClassifier creates a classifier over rules, kept in the given order.
// Rules with a blank keyword or slug are skipped.
func NewCategoryClassifier(rules []domain.CategoryRule, fallback string) *CategoryClassifier {
	if fallback == "" {
		fallback = DefaultFallbackCategory
	}

	c := &CategoryClassifier{
		names:    make(map[string]string),
		fallback: fallback,
	}
	for _, r := range rules {
		keyword := strings.TrimSpace(r.Keyword)
		slug := strings.TrimSpace(r.Slug)
		if keyword == "" || slug == "" {
			continue
		}
		c.rules = append(c.rules, domain.CategoryRule{Keyword: keyword, Slug: slug, Name: r.Name})
		c.folded = append(c.folded, foldText(keyword))
		if r.Name != "" {
			if _, ok := c.names[slug]; !ok {
				c.names[slug] = r.Name
			}
		}
	}
	return c
}

// Classify returns the category for a product name.
// In manual mode the configured default is used verbatim. In automatic mode
// the first rule whose keyword occurs in the name wins, then the default,
// then the fallback slug.
func (c *CategoryClassifier) Classify(name string, cfg domain.ImportConfiguration) string {
	def := strings.TrimSpace(cfg.DefaultCategory)

	if cfg.AutoDetectCategory {
		if slug, ok := c.Match(name); ok {
			return slug
		}
	}

	if def != "" {
		return def
	}
	return c.fallback
}

// Match returns the slug of the first rule whose keyword occurs in name
func (c *CategoryClassifier) Match(name string) (string, bool) {
	folded := foldText(name)
	for i, keyword := range c.folded {
		if strings.Contains(folded, keyword) {
			return c.rules[i].Slug, true
		}
	}
	return "", false
}

// Rules returns a copy of the rule table in evaluation order
func (c *CategoryClassifier) Rules() []domain.CategoryRule {
	out := make([]domain.CategoryRule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Fallback returns the slug used when nothing else applies
func (c *CategoryClassifier) Fallback() string {
	return c.fallback
}

// DisplayName returns the human name for a category slug or caller-chosen
// category. Known slugs use their rule name; others are title-cased.
func (c *CategoryClassifier) DisplayName(category string) string {
	if name, ok := c.names[category]; ok {
		return name
	}
	if strings.ContainsAny(category, " ") || strings.ToLower(category) != category {
		return category
	}

	words := strings.Fields(strings.ReplaceAll(category, "-", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
