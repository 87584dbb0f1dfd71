package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxNameLength caps product names at a length storefronts display without truncation
const maxNameLength = 150

// Compiled patterns for product name cleanup
var (
	// Matches marketing phrases pasted along with supplier titles
	marketingNoisePattern = regexp.MustCompile(`(?i)\b(frete\s+gr[aá]tis|promo[cç][aã]o|oferta|imperd[ií]vel|lan[cç]amento|queima\s+de\s+estoque|pronta\s+entrega|envio\s+imediato)\b[!]*`)

	// Matches leading SKU-like codes in brackets, e.g. "[ABC-123] Monitor"
	leadingCodePattern = regexp.MustCompile(`^\s*[\[(][A-Za-z0-9._/-]{2,20}[\])]\s*`)

	// Matches emoji and pictographic symbols copied from marketplace listings
	pictographPattern = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B50}\x{2705}]`)

	orphanPunctuationPattern = regexp.MustCompile(`\s+[,\-;:!|]+(\s+|$)`)
	edgePunctuationPattern   = regexp.MustCompile(`^[\s,\-;:!|*]+|[\s,\-;:!|*]+$`)
)

// NameNormalizer cleans product names picked from pasted lines
type NameNormalizer struct{}

// NewNameNormalizer creates a new name normalizer
func NewNameNormalizer() *NameNormalizer {
	return &NameNormalizer{}
}

// Normalize strips marketing noise and stray punctuation while keeping the
// original casing of the product name
func (n *NameNormalizer) Normalize(name string) string {
	if name == "" {
		return ""
	}

	// Step 1: Drop leading bracketed codes
	cleaned := leadingCodePattern.ReplaceAllString(name, "")

	// Step 2: Drop emoji and marketing phrases
	cleaned = pictographPattern.ReplaceAllString(cleaned, " ")
	cleaned = marketingNoisePattern.ReplaceAllString(cleaned, " ")

	// Step 3: Clean up punctuation that is now orphaned
	cleaned = orphanPunctuationPattern.ReplaceAllString(cleaned, " ")
	cleaned = collapseSpaces(cleaned)
	cleaned = edgePunctuationPattern.ReplaceAllString(cleaned, "")

	// Step 4: Cap the length at a word boundary
	if utf8.RuneCountInString(cleaned) > maxNameLength {
		r := []rune(cleaned)[:maxNameLength]
		cleaned = string(r)
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxNameLength/2 {
			cleaned = cleaned[:lastSpace]
		}
	}

	return cleaned
}
