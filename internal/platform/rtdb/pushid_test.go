package rtdb

import (
	"sort"
	"testing"
	"time"
)

func TestPushIDsOrderAcrossMilliseconds(t *testing.T) {
	g := newPushIDGen()
	now := time.UnixMilli(1700000000000)
	g.now = func() time.Time { return now }

	var ids []string
	for i := 0; i < 50; i++ {
		ids = append(ids, g.next())
		now = now.Add(time.Millisecond)
	}
	if !sort.StringsAreSorted(ids) {
		t.Fatal("push ids across milliseconds should sort in generation order")
	}
}

func TestPushIDsOrderWithinMillisecond(t *testing.T) {
	g := newPushIDGen()
	now := time.UnixMilli(1700000000000)
	g.now = func() time.Time { return now }

	seen := map[string]bool{}
	var ids []string
	for i := 0; i < 100; i++ {
		id := g.next()
		if seen[id] {
			t.Fatalf("duplicate push id %q", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if !sort.StringsAreSorted(ids) {
		t.Fatal("same-millisecond push ids should still sort in generation order")
	}
}

func TestPushIDShape(t *testing.T) {
	g := newPushIDGen()
	id := g.next()
	if len(id) != 20 {
		t.Fatalf("push id length = %d, want 20", len(id))
	}
	for _, r := range id {
		if !in(pushChars, r) {
			t.Fatalf("push id %q contains %q outside the alphabet", id, r)
		}
	}
}

func in(alphabet string, r rune) bool {
	for _, a := range alphabet {
		if a == r {
			return true
		}
	}
	return false
}
