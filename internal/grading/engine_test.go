package grading_test

import (
	"testing"

	"github.com/classbridge/classbridge/internal/grading"
)

func TestExactMatchNormalization(t *testing.T) {
	g := grading.NewDefaultGrader()
	q := grading.Q{Type: "mcq", Answer: "Paris", Marks: 5}

	cases := []struct {
		answer string
		want   bool
	}{
		{"Paris", true},
		{"paris", true},
		{"  PARIS  ", true},
		{"London", false},
		{"", false},
	}
	for _, c := range cases {
		res := g.Grade(q, c.answer)
		if !res.Counted {
			t.Fatalf("mcq should be counted")
		}
		if res.Correct != c.want {
			t.Errorf("Grade(%q): correct=%v, want %v", c.answer, res.Correct, c.want)
		}
	}
}

func TestFillUsesSameStrategy(t *testing.T) {
	g := grading.NewDefaultGrader()
	res := g.Grade(grading.Q{Type: "fill", Answer: " mitochondria ", Marks: 2}, "Mitochondria")
	if !res.Counted || !res.Correct {
		t.Fatalf("fill answer should match: %+v", res)
	}
}

func TestUngradableTypesAreExcluded(t *testing.T) {
	g := grading.NewDefaultGrader()
	for _, typ := range []string{"essay", "scan", "unknown"} {
		res := g.Grade(grading.Q{Type: typ, Answer: "anything", Marks: 10}, "anything")
		if res.Counted {
			t.Errorf("%s should not be counted", typ)
		}
		if res.Correct {
			t.Errorf("%s should not be correct", typ)
		}
	}
}
