// Package idgen hands out sequential item identifiers.
package idgen

import "sync/atomic"

// Generator produces unique, strictly increasing identifiers.
// It is safe for concurrent use. The zero value is ready and its first
// identifier is 1.
type Generator struct {
	last atomic.Uint64
}

// Default is the process-wide generator shared by every item built
// without an explicit generator.
var Default = New()

// New returns a generator whose first identifier is 1.
func New() *Generator {
	return &Generator{}
}

// NewAfter returns a generator that continues a sequence whose last issued
// identifier was last. Used when items already exist in durable storage.
func NewAfter(last uint64) *Generator {
	g := &Generator{}
	g.last.Store(last)
	return g
}

// Next returns the next identifier in the sequence.
func (g *Generator) Next() uint64 {
	return g.last.Add(1)
}
