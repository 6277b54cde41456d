package studentid

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Generator produces candidate student identifiers of the form
// <prefix>-<year>-<6 digits>. Callers must re-check candidates against
// existing profiles before assignment.
type Generator struct {
	prefix string
	now    func() time.Time
}

// NewGenerator builds a Generator with the given prefix.
func NewGenerator(prefix string) *Generator {
	if prefix == "" {
		prefix = "STU"
	}
	return &Generator{prefix: prefix, now: time.Now}
}

// Next returns a fresh candidate identifier.
func (g *Generator) Next() string {
	suffix := g.now().UnixNano() % 1000000
	if n, err := rand.Int(rand.Reader, big.NewInt(1000000)); err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("%s-%d-%06d", g.prefix, g.now().UTC().Year(), suffix)
}
