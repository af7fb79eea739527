package idgen

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGeneratesDistinctIDs(t *testing.T) {
	var g Generator = UUID{}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := g.NewID()
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("NewID() = %q is not a UUID: %v", id, err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestSequence(t *testing.T) {
	s := NewSequence("task")
	for _, want := range []string{"task-1", "task-2", "task-3"} {
		if got := s.NewID(); got != want {
			t.Errorf("NewID() = %q, want %q", got, want)
		}
	}
}
