package idgen

import (
	"regexp"
	"testing"
)

func TestNew_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^blk-[a-z0-9]{12}$`)
	for i := 0; i < 50; i++ {
		id, err := New(BlockPrefix)
		if err != nil {
			t.Fatalf("New() error on iteration %d: %v", i, err)
		}
		if !pattern.MatchString(id) {
			t.Fatalf("New() = %q, does not match %s", id, pattern)
		}
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := Must(ConnectionPrefix)
		if seen[id] {
			t.Fatalf("duplicate id %q after %d iterations", id, i)
		}
		seen[id] = true
	}
}
