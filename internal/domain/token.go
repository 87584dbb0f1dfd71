package domain

import "fmt"

// TokenKind is the closed set of roles a pasted field can play
type TokenKind int

const (
	TokenUnknown TokenKind = iota
	TokenImageURL
	TokenProductURL
	TokenPrice
	TokenName
)

// String returns the wire name of the token kind
func (k TokenKind) String() string {
	switch k {
	case TokenUnknown:
		return "unknown"
	case TokenImageURL:
		return "image_url"
	case TokenProductURL:
		return "product_url"
	case TokenPrice:
		return "price"
	case TokenName:
		return "name"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ClassifiedToken is a single trimmed field tagged with its detected role
type ClassifiedToken struct {
	RawText string    `json:"rawText"`
	Kind    TokenKind `json:"kind"`
}
