package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classbridge/classbridge/internal/gateway"
)

// PUT /tests/{testID} overwrites the full record. Last writer wins.
func PutTestHandler(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t gateway.Test
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		t.TestID = chi.URLParam(r, "testID")
		if err := g.CreateOrUpdateTest(r.Context(), t); err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "testId": t.TestID})
	}
}

// GET /tests/{testID}
func GetTestHandler(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := g.GetTest(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			fail(w, err)
			return
		}
		if t == nil {
			http.Error(w, "test not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

// POST /tests/{testID}/submissions
func SubmitTestHandler(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StudentName string   `json:"studentName" validate:"required"`
			StudentID   string   `json:"studentId" validate:"required"`
			Answers     []string `json:"answers"`
		}
		if err := decodeValid(r, &req); err != nil {
			fail(w, err)
			return
		}
		res, err := g.SubmitTest(r.Context(), gateway.SubmitRequest{
			TestID:      chi.URLParam(r, "testID"),
			StudentName: req.StudentName,
			StudentID:   req.StudentID,
			Answers:     req.Answers,
		})
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// GET /tests/{testID}/submissions lists records in submission order.
func ListSubmissionsHandler(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subs, err := g.Submissions(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, subs)
	}
}
