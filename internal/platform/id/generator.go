package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Generator mints opaque IDs for pipeline runs and archived payload rows.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator issues time-prefixed random IDs. The millisecond prefix
// keeps rows roughly insertion-ordered when sorted lexically; the random
// tail carries the uniqueness.
type RandomGenerator struct {
	clock func() time.Time
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{clock: time.Now}
}

func (g *RandomGenerator) NewID() (string, error) {
	tail := make([]byte, 10)
	if _, err := rand.Read(tail); err != nil {
		return "", fmt.Errorf("id: random source: %w", err)
	}

	return fmt.Sprintf("%012x%s", g.clock().UnixMilli(), hex.EncodeToString(tail)), nil
}
