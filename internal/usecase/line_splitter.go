package usecase

import (
	"strings"
)

// fieldDelimiters are tried in order; the first yielding two or more fields wins
var fieldDelimiters = []string{"\t", ";", "|"}

// Header signature words for the first line of a pasted sheet
var (
	headerProductLabels = []string{"produto", "nome", "product", "name", "título", "titulo", "descrição", "descricao"}
	headerPriceLabels   = []string{"preço", "preco", "price", "valor"}
	headerColumnMarkers = map[string]bool{
		"imagem": true,
		"image":  true,
		"img":    true,
		"foto":   true,
		"link":   true,
		"url":    true,
	}
)

// SplitLine is one surviving input line and its fields
type SplitLine struct {
	Number int // 1-based position in the raw input
	Raw    string
	Tokens []string
}

// SplitLines breaks pasted catalog text into per-line field lists.
// Blank lines and a leading header row are dropped. A line that no
// delimiter splits into two fields is kept as a single field.
func SplitLines(text string) []SplitLine {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out []SplitLine
	seenContent := false
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		tokens := splitFields(line)
		if !seenContent {
			seenContent = true
			if isHeaderLine(tokens) {
				continue
			}
		}

		out = append(out, SplitLine{Number: i + 1, Raw: line, Tokens: tokens})
	}
	return out
}

// splitFields returns the trimmed non-empty fields of line using the first
// delimiter that produces at least two of them
func splitFields(line string) []string {
	for _, delim := range fieldDelimiters {
		if fields := nonEmptyFields(line, delim); len(fields) >= 2 {
			return fields
		}
	}
	return []string{line}
}

func nonEmptyFields(line, delim string) []string {
	parts := strings.Split(line, delim)
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

// isHeaderLine reports whether a line looks like a spreadsheet header: one
// cell labelling the product and another labelling the price, or a cell that
// is exactly an image or link column marker
func isHeaderLine(tokens []string) bool {
	var product, price bool
	for _, tok := range tokens {
		cell := strings.ToLower(tok)
		if headerColumnMarkers[cell] {
			return true
		}
		if !isLabelCell(cell) {
			continue
		}
		switch {
		case hasAnyPrefix(cell, headerProductLabels):
			product = true
		case hasAnyPrefix(cell, headerPriceLabels):
			price = true
		}
	}
	return product && price
}

// isLabelCell accepts short digit-free cells such as "preço (r$)" or "nome do produto"
func isLabelCell(cell string) bool {
	return len(strings.Fields(cell)) <= 3 && !strings.ContainsAny(cell, "0123456789")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
