package random

import (
	"strings"
	"testing"
)

func TestTableID(t *testing.T) {
	id := TableID(10)
	if len(id) != 10 {
		t.Fatalf("expected length 10, got %d", len(id))
	}
	for _, r := range id {
		if !strings.ContainsRune(tableIDChars, r) {
			t.Fatalf("unexpected character %q in %s", r, id)
		}
	}
	if TableID(0) != "" {
		t.Fatalf("expected empty id for zero length")
	}
}

func TestSeedVaries(t *testing.T) {
	a, err := Seed()
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	b, err := Seed()
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if a == b {
		t.Fatalf("two seeds collided: %d", a)
	}
}
