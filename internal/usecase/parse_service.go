package usecase

import (
	"strings"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/rs/zerolog/log"
)

var cellReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// ParseService turns pasted catalog text into reviewed product records
type ParseService struct {
	categories *CategoryClassifier
	validator  *RecordValidator
}

// NewParseService creates a parse service over a category rule table
func NewParseService(categories *CategoryClassifier) *ParseService {
	if categories == nil {
		categories = NewCategoryClassifier(DefaultCategoryRules(), "")
	}
	return &ParseService{
		categories: categories,
		validator:  NewRecordValidator(categories),
	}
}

// Categories exposes the classifier used by the parser
func (s *ParseService) Categories() *CategoryClassifier {
	return s.categories
}

// Parse splits, classifies and validates every line of text. Records come
// back in input order, valid and invalid alike; parsing never fails.
func (s *ParseService) Parse(text string, cfg domain.ImportConfiguration) []domain.ParsedProductRecord {
	lines := SplitLines(text)
	records := make([]domain.ParsedProductRecord, 0, len(lines))

	valid := 0
	for _, line := range lines {
		rec := s.validator.Validate(line, ClassifyLine(line.Tokens), cfg)
		if rec.IsValid {
			valid++
		}
		records = append(records, rec)
	}

	log.Debug().
		Int("lines", len(lines)).
		Int("valid", valid).
		Int("invalid", len(records)-valid).
		Bool("auto_category", cfg.AutoDetectCategory).
		Msg("Parsed catalog text")

	return records
}

// ParseRows parses spreadsheet rows by joining each row's cells with tabs.
// Line numbers in the result match row numbers.
func (s *ParseService) ParseRows(rows [][]string, cfg domain.ImportConfiguration) []domain.ParsedProductRecord {
	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(cellReplacer.Replace(cell))
		}
		b.WriteByte('\n')
	}
	return s.Parse(b.String(), cfg)
}
