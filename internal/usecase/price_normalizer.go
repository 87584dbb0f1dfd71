package usecase

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Compiled patterns for money detection and normalization
var (
	currencyPrefix = `(?:r\$|us\$|\$|€|brl|usd)`

	// Matches decorated or bare money formats: "R$ 1.234,56", "1,234.56",
	// "1234,56", "1234.56" and bare integers of four or more digits
	moneyPattern = regexp.MustCompile(`(?i)^` + currencyPrefix + `?\s*(?:\d{1,3}(?:\.\d{3})+(?:,\d{1,2})?|\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?|\d+,\d{1,2}|\d+\.\d{1,2}|\d{4,})$`)

	// Matches a currency symbol followed by a plain integer: "R$ 899", "$15"
	currencyIntegerPattern = regexp.MustCompile(`(?i)^` + currencyPrefix + `\s*\d+$`)

	currencyStripPattern = regexp.MustCompile(`(?i)` + currencyPrefix + `|\s`)
	commaCentsPattern    = regexp.MustCompile(`,\d{2}$`)
	dotCentsPattern      = regexp.MustCompile(`\.\d{2}$`)
	nonNumericPattern    = regexp.MustCompile(`[^\d.,]`)
)

// IsPriceToken reports whether tok is shaped like a money amount
func IsPriceToken(tok string) bool {
	tok = strings.TrimSpace(strings.ReplaceAll(tok, "\u00a0", " "))
	return moneyPattern.MatchString(tok) || currencyIntegerPattern.MatchString(tok)
}

// NormalizePrice converts a price token into a decimal amount.
// A trailing ",dd" marks comma decimals with dot thousands; a trailing ".dd"
// marks dot decimals with comma thousands. Otherwise a lone comma is taken as
// the decimal separator. Unparseable input yields zero.
func NormalizePrice(raw string) decimal.Decimal {
	s := currencyStripPattern.ReplaceAllString(strings.ReplaceAll(raw, "\u00a0", ""), "")

	switch {
	case commaCentsPattern.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case dotCentsPattern.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	default:
		s = nonNumericPattern.ReplaceAllString(s, "")
		if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
			s = strings.Replace(s, ",", ".", 1)
		}
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return amount
}
