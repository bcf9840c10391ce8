package grading

import "strings"

// Q is a minimal view of a question needed for grading.
type Q struct {
	Type   string
	Answer string
	Marks  float64
}

// Result is the outcome of grading a single answer. Counted reports whether
// the question participates in scoring at all: types with no strategy (essay,
// scans, ...) are excluded from both score and max.
type Result struct {
	Counted bool
	Correct bool
	Marks   float64
}

// Strategy grades a single answer against the stored key.
type Strategy interface {
	Grade(q Q, answer string) bool
}

type Grader struct {
	strategies map[string]Strategy
}

// NewDefaultGrader installs the built-in strategies: multiple-choice and
// fill-in answers both grade by normalized string equality.
func NewDefaultGrader() *Grader {
	exact := exactMatchStrategy{}
	return &Grader{
		strategies: map[string]Strategy{
			"mcq":  exact,
			"fill": exact,
		},
	}
}

func (g *Grader) Grade(q Q, answer string) Result {
	s, ok := g.strategies[q.Type]
	if !ok {
		return Result{Marks: q.Marks}
	}
	return Result{Counted: true, Correct: s.Grade(q, answer), Marks: q.Marks}
}

type exactMatchStrategy struct{}

func (exactMatchStrategy) Grade(q Q, answer string) bool {
	return normalize(answer) == normalize(q.Answer)
}

// normalize trims surrounding whitespace and casefolds.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
