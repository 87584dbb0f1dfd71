package ids

import (
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Generator produces lexically sortable ULID record ids.
// Ids generated within the same millisecond stay ordered.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewGenerator creates a new id generator
func NewGenerator() *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// New returns a fresh id
func (g *Generator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Now(), g.entropy).String()
}
