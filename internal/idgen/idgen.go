// Package idgen generates short, URL-safe ids for graph elements.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the element kinds that carry ids.
const (
	BlockPrefix      = "blk-"
	ConnectionPrefix = "con-"
	CompositePrefix  = "grp-"
)

// Alphabet is the character set of the random part.
var Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters after the prefix.
var Length = 12

// New returns a fresh id with the given prefix.
func New(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// Must is New for callers that cannot handle an entropy failure.
func Must(prefix string) string {
	id, err := New(prefix)
	if err != nil {
		panic(err)
	}
	return id
}
