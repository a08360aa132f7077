package id

import (
	"sort"
	"testing"
)

func TestNewUniqueAndSortable(t *testing.T) {
	const n = 1000

	seen := make(map[string]bool, n)
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := New()
		if len(id) != 26 {
			t.Fatalf("ULID length = %d, want 26: %q", len(id), id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if !sort.StringsAreSorted(ids) {
		t.Fatal("ids generated in sequence are not lexicographically sorted")
	}
}
