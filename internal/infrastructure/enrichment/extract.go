package enrichment

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
	"github.com/lojatech/catalog-import/internal/domain"
	"golang.org/x/net/html"
)

// Description sources
const (
	SourceMeta        = "meta"
	SourceReadability = "readability"
	SourceGemini      = "gemini"
)

// MaxDescriptionRunes caps stored descriptions
const MaxDescriptionRunes = 600

// minDescriptionRunes rejects placeholder descriptions
const minDescriptionRunes = 20

// metaKeys lists description meta tags by preference
var metaKeys = []string{"og:description", "twitter:description", "description"}

// ExtractDescription picks the best description from an HTML page: a
// description meta tag first, then the readable article text
func ExtractDescription(page []byte, pageURL *url.URL) (*domain.EnrichmentResult, error) {
	if len(bytes.TrimSpace(page)) == 0 {
		return nil, domain.ErrNoDescription
	}

	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEnrichmentFailed, err)
	}

	if desc := metaDescription(doc); desc != "" {
		return &domain.EnrichmentResult{Description: desc, Source: SourceMeta}, nil
	}

	article, err := readability.FromReader(bytes.NewReader(page), pageURL)
	if err != nil {
		return nil, domain.ErrNoDescription
	}

	text := article.Excerpt
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minDescriptionRunes {
		text = article.TextContent
	}
	if desc := cleanDescription(text); desc != "" {
		return &domain.EnrichmentResult{Description: desc, Source: SourceReadability}, nil
	}

	return nil, domain.ErrNoDescription
}

// metaDescription returns the first usable description meta content
func metaDescription(doc *html.Node) string {
	found := make(map[string]string)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var key, content string
			for _, a := range n.Attr {
				switch strings.ToLower(a.Key) {
				case "name", "property":
					key = strings.ToLower(strings.TrimSpace(a.Val))
				case "content":
					content = a.Val
				}
			}
			if _, seen := found[key]; key != "" && !seen {
				found[key] = content
			}
		}
		if n.Type == html.ElementNode && n.Data == "body" {
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	for _, key := range metaKeys {
		if desc := cleanDescription(found[key]); desc != "" {
			return desc
		}
	}
	return ""
}

// cleanDescription collapses whitespace and truncates on a word boundary.
// Text shorter than minDescriptionRunes yields "".
func cleanDescription(s string) string {
	s = strings.Join(strings.Fields(html.UnescapeString(s)), " ")
	if utf8.RuneCountInString(s) < minDescriptionRunes {
		return ""
	}
	return truncateRunes(s, MaxDescriptionRunes)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	cut := string(runes[:limit-1])
	if i := strings.LastIndex(cut, " "); i > limit/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:-") + "…"
}
