// Package id generates the identifiers that show up in bridge logs.
//
// IDs are prefixed ULIDs ("batch_01J9...") so they sort by creation time and
// say what they identify at a glance.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	BatchPrefix   = "batch"
	RequestPrefix = "req"
	SpanPrefix    = "span"
)

// Generator generates monotonic ULIDs
type Generator struct {
	mu      sync.Mutex // Protects entropy
	entropy io.Reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand. IDs created within
// the same millisecond still sort in creation order.
func NewGenerator() *Generator {
	return NewGeneratorWithEntropy(ulid.Monotonic(rand.Reader, 0))
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// WithPrefix creates a "prefix_ULID" string
func (g *Generator) WithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewBatchID identifies one scheduled command batch
func NewBatchID() string {
	return Default().WithPrefix(BatchPrefix)
}

// NewRequestID identifies one request to the inference channel
func NewRequestID() string {
	return Default().WithPrefix(RequestPrefix)
}

// NewSpanID identifies one traced operation
func NewSpanID() string {
	return Default().WithPrefix(SpanPrefix)
}

// Split separates a prefixed ID into its prefix and ULID
func Split(s string) (string, ulid.ULID, error) {
	i := strings.LastIndexByte(s, '_')
	if i < 0 {
		return "", ulid.ULID{}, fmt.Errorf("id %q has no prefix", s)
	}
	u, err := ulid.Parse(s[i+1:])
	if err != nil {
		return "", ulid.ULID{}, fmt.Errorf("id %q: %w", s, err)
	}
	return s[:i], u, nil
}

// Timestamp extracts the creation time from a prefixed ID
func Timestamp(s string) (time.Time, error) {
	_, u, err := Split(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
