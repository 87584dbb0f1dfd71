package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ImportConfiguration holds the caller's choices for one parse call
type ImportConfiguration struct {
	DefaultCategory    string          `json:"defaultCategory,omitempty"`
	AutoDetectCategory bool            `json:"autoDetectCategory"`
	ProfitMargin       decimal.Decimal `json:"profitMargin"` // percent over cost
	DefaultTags        []string        `json:"defaultTags,omitempty"`
	RibbonLabel        string          `json:"ribbonLabel,omitempty"`
}

// ParseTagList splits a comma-separated tag string, dropping blanks and repeats
func ParseTagList(s string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// ImportBatch is the ordered record list plus the caller's selection
type ImportBatch struct {
	Records  []ParsedProductRecord
	Selected []int // indexes into Records; nil selects every record
}

// Committable returns the selected valid records in their original order.
// Invalid records are never committed, even when selected.
func (b ImportBatch) Committable() []ParsedProductRecord {
	pick := func(i int) bool { return true }
	if b.Selected != nil {
		chosen := make(map[int]bool, len(b.Selected))
		for _, i := range b.Selected {
			chosen[i] = true
		}
		pick = func(i int) bool { return chosen[i] }
	}

	out := make([]ParsedProductRecord, 0, len(b.Records))
	for i, rec := range b.Records {
		if rec.IsValid && pick(i) {
			out = append(out, rec)
		}
	}
	return out
}

// ImportProgress is emitted after every committed or failed item
type ImportProgress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// ImportFailure describes a record that could not be inserted
type ImportFailure struct {
	Line  int    `json:"line"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ImportOutcome summarizes a finished import run
type ImportOutcome struct {
	SuccessCount int             `json:"successCount"`
	FailureCount int             `json:"failureCount"`
	Failures     []ImportFailure `json:"failures,omitempty"`
	Created      []Product       `json:"created,omitempty"`
	StartedAt    time.Time       `json:"startedAt"`
	FinishedAt   time.Time       `json:"finishedAt"`
}

// ImportState is the orchestrator's lifecycle state
type ImportState string

const (
	ImportIdle    ImportState = "idle"
	ImportRunning ImportState = "running"
)

// ImportStatus is a point-in-time view of the orchestrator
type ImportStatus struct {
	State       ImportState    `json:"state"`
	Processed   int            `json:"processed"`
	Total       int            `json:"total"`
	CatalogSize int            `json:"catalogSize"`
	LastOutcome *ImportOutcome `json:"lastOutcome,omitempty"`
}

// EnrichmentRequest asks for a richer description of a product page
type EnrichmentRequest struct {
	URL  string
	Name string
}

// EnrichmentResult carries the optional description found for a product page
type EnrichmentResult struct {
	Description string
	Source      string // "meta", "readability" or "gemini"
}
