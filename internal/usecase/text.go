package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars      = regexp.MustCompile(`[^a-z0-9]+`)
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// foldText lowercases s and strips diacritics so "Vídeo" and "video" compare equal
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Slugify turns a category name into a URL-safe slug ("Placas de Vídeo" -> "placas-de-video")
func Slugify(s string) string {
	slug := nonSlugChars.ReplaceAllString(foldText(s), "-")
	return strings.Trim(slug, "-")
}

// collapseSpaces trims s and reduces every whitespace run to a single space
func collapseSpaces(s string) string {
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(s, " "))
}
