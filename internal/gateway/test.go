package gateway

import (
	"context"
	"fmt"

	"github.com/classbridge/classbridge/internal/audit"
	"github.com/classbridge/classbridge/internal/grading"
)

type Question struct {
	Type    string   `json:"type"` // mcq, fill, essay, ...
	Prompt  string   `json:"prompt,omitempty"`
	Choices []string `json:"choices,omitempty"`
	Answer  string   `json:"answer,omitempty"`
	Marks   float64  `json:"marks"`
}

type Test struct {
	TestID    string     `json:"testId"`
	Title     string     `json:"title"`
	Duration  int        `json:"duration"` // minutes
	Questions []Question `json:"questions"`
}

// CreateOrUpdateTest overwrites the full test record at its id. Last writer
// wins; edits do not recompute already-submitted scores.
func (g *Gateway) CreateOrUpdateTest(ctx context.Context, t Test) error {
	if t.TestID == "" || t.Title == "" || t.Duration <= 0 || t.Questions == nil {
		return ErrInvalidTest
	}
	return g.rt.Set(ctx, "tests/"+t.TestID, t)
}

// GetTest returns the test record, or nil when it does not exist.
func (g *Gateway) GetTest(ctx context.Context, testID string) (*Test, error) {
	var t Test
	found, err := g.rt.Get(ctx, "tests/"+testID, &t)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &t, nil
}

type SubmitRequest struct {
	TestID      string   `json:"testId"`
	StudentName string   `json:"studentName"`
	StudentID   string   `json:"studentId"`
	Answers     []string `json:"answers"`
}

type QuestionResult struct {
	Q       int    `json:"q"` // 1-based question number
	Correct bool   `json:"correct"`
	Answer  string `json:"ans"`
}

type SubmitResult struct {
	SubmissionID string           `json:"submissionId"`
	Score        float64          `json:"score"`
	Max          float64          `json:"max"`
	Results      []QuestionResult `json:"results"`
}

// SubmissionRecord is the stored shape of one submission. SubmittedAt is the
// submitter's clock (unix ms), not server time.
type SubmissionRecord struct {
	StudentName string   `json:"studentName"`
	StudentID   string   `json:"studentId"`
	Answers     []string `json:"answers"`
	Score       float64  `json:"score"`
	Max         float64  `json:"max"`
	SubmittedAt int64    `json:"submittedAt"`
}

// SubmitTest grades the answers against the test's current question set and
// appends an independent submission record. Resubmitting creates a second
// record; retakes are allowed.
func (g *Gateway) SubmitTest(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	t, err := g.GetTest(ctx, req.TestID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTestNotFound
	}

	var score, max float64
	results := make([]QuestionResult, 0, len(t.Questions))
	for i, q := range t.Questions {
		ans := ""
		if i < len(req.Answers) {
			ans = req.Answers[i]
		}
		res := g.grader.Grade(grading.Q{Type: q.Type, Answer: q.Answer, Marks: q.Marks}, ans)
		if res.Counted {
			max += q.Marks
			if res.Correct {
				score += q.Marks
			}
		}
		results = append(results, QuestionResult{Q: i + 1, Correct: res.Counted && res.Correct, Answer: ans})
	}

	rec := SubmissionRecord{
		StudentName: req.StudentName,
		StudentID:   req.StudentID,
		Answers:     req.Answers,
		Score:       score,
		Max:         max,
		SubmittedAt: g.now().UnixMilli(),
	}
	key, err := g.rt.Push(ctx, "submissions/"+req.TestID, rec)
	if err != nil {
		return nil, fmt.Errorf("record submission: %w", err)
	}
	g.recordEvent(ctx, audit.EventTestSubmitted, req.TestID, map[string]any{
		"studentId": req.StudentID, "score": score, "max": max,
	})
	return &SubmitResult{SubmissionID: key, Score: score, Max: max, Results: results}, nil
}

// Submission pairs a stored record with its push key.
type Submission struct {
	ID string `json:"id"`
	SubmissionRecord
}

// Submissions lists a test's submissions in submission order.
func (g *Gateway) Submissions(ctx context.Context, testID string) ([]Submission, error) {
	children, err := g.rt.Children(ctx, "submissions/"+testID)
	if err != nil {
		return nil, err
	}
	out := make([]Submission, 0, len(children))
	for _, c := range children {
		var rec SubmissionRecord
		if err := decodeRaw(c.Data, &rec); err != nil {
			return nil, err
		}
		out = append(out, Submission{ID: c.Key, SubmissionRecord: rec})
	}
	return out, nil
}
