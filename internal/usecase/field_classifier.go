package usecase

import (
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/shopspring/decimal"
)

// minNameTokenLength is the rune count a field must exceed to count as a name
const minNameTokenLength = 5

// imageHostFragments are hostname pieces of common image CDNs and marketplaces
var imageHostFragments = []string{
	"cdn.",
	"img.",
	"images.",
	"imgur.com",
	"cloudinary.com",
	"mlstatic.com",
	"amazonaws.com",
	"googleusercontent.com",
	"imagekit.io",
	"shopify.com",
	"media-amazon.com",
	"staticflickr.com",
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".avif": true,
	".bmp":  true,
}

var (
	imagePathMarkers   = []string{"/image", "/img", "/photo", "/fotos/"}
	productPathMarkers = []string{"/produto/", "/product/"}
)

// ClassifiedLine is the outcome of classifying every field of one line
type ClassifiedLine struct {
	Tokens     []domain.ClassifiedToken
	Image      string
	ProductURL string
	PriceText  string
	Price      decimal.Decimal
	HasPrice   bool
	Name       string
}

// ClassifyToken assigns a role to a single trimmed field.
// Precedence: image URL, product page URL, price, name, unknown.
func ClassifyToken(tok string) domain.TokenKind {
	tok = strings.TrimSpace(tok)
	lower := strings.ToLower(tok)

	if isHTTPURL(lower) {
		switch {
		case isImageURL(lower):
			return domain.TokenImageURL
		case containsAny(lower, productPathMarkers):
			return domain.TokenProductURL
		default:
			return domain.TokenUnknown
		}
	}

	if IsPriceToken(tok) {
		return domain.TokenPrice
	}

	if utf8.RuneCountInString(tok) > minNameTokenLength {
		return domain.TokenName
	}

	return domain.TokenUnknown
}

// ClassifyLine classifies every field and picks the first image, first
// product page, first price and the name. The name is the first explicit name
// field, or else the longest non-URL unknown field.
func ClassifyLine(tokens []string) ClassifiedLine {
	var out ClassifiedLine
	var fallbackName string

	for _, raw := range tokens {
		tok := strings.TrimSpace(raw)
		kind := ClassifyToken(tok)
		out.Tokens = append(out.Tokens, domain.ClassifiedToken{RawText: tok, Kind: kind})

		switch kind {
		case domain.TokenImageURL:
			if out.Image == "" {
				out.Image = tok
			}
		case domain.TokenProductURL:
			if out.ProductURL == "" {
				out.ProductURL = tok
			}
		case domain.TokenPrice:
			if !out.HasPrice {
				out.HasPrice = true
				out.PriceText = tok
				out.Price = NormalizePrice(tok)
			}
		case domain.TokenName:
			if out.Name == "" {
				out.Name = tok
			}
		case domain.TokenUnknown:
			if !isHTTPURL(strings.ToLower(tok)) && utf8.RuneCountInString(tok) > utf8.RuneCountInString(fallbackName) {
				fallbackName = tok
			}
		}
	}

	if out.Name == "" {
		out.Name = fallbackName
	}
	return out
}

func isHTTPURL(lower string) bool {
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// isImageURL applies the image rules to a lowercased http(s) URL
func isImageURL(lower string) bool {
	u, err := url.Parse(lower)
	if err != nil {
		return false
	}

	if containsAny(u.Host, imageHostFragments) {
		return true
	}

	if containsAny(lower, productPathMarkers) {
		return false
	}

	if imageExtensions[path.Ext(u.Path)] {
		return true
	}

	return containsAny(u.Path, imagePathMarkers)
}
