package config

import (
	"fmt"
	"os"

	"github.com/lojatech/catalog-import/internal/domain"
	"gopkg.in/yaml.v3"
)

// CategoryRules is the YAML layout of a category rules file:
//
//	rules:
//	  - keyword: monitor
//	    slug: monitores
//	    name: Monitores
type CategoryRules struct {
	Rules []domain.CategoryRule `yaml:"rules"`
}

// LoadCategoryRules reads an ordered keyword rule table from a YAML file.
// The order of entries in the file is the evaluation order.
func LoadCategoryRules(path string) ([]domain.CategoryRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading category rules: %w", err)
	}

	var file CategoryRules
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing category rules %s: %w", path, err)
	}

	for i, r := range file.Rules {
		if r.Keyword == "" || r.Slug == "" {
			return nil, fmt.Errorf("category rule %d in %s needs both keyword and slug", i+1, path)
		}
	}

	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("category rules file %s has no rules", path)
	}

	return file.Rules, nil
}
