package http

import (
	"net/http"

	"github.com/classbridge/classbridge/internal/gateway"
	"github.com/classbridge/classbridge/internal/rbac"
)

// POST /classrooms {"name","code"}
func CreateClassroomHandler(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name" validate:"required"`
			Code string `json:"code" validate:"required"`
		}
		if err := decodeValid(r, &req); err != nil {
			fail(w, err)
			return
		}
		uid := rbac.SubjectFromContext(r.Context())
		id, err := g.CreateClassroom(r.Context(), uid, req.Name, req.Code)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}

// GET /classrooms lists classrooms the caller is a member of.
func ListClassroomsHandler(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := rbac.SubjectFromContext(r.Context())
		rooms, err := g.UserClassrooms(r.Context(), uid)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rooms)
	}
}

// POST /classrooms/join {"code"}
func JoinClassroomHandler(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code" validate:"required"`
		}
		if err := decodeValid(r, &req); err != nil {
			fail(w, err)
			return
		}
		uid := rbac.SubjectFromContext(r.Context())
		id, err := g.JoinClassroom(r.Context(), uid, req.Code)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id})
	}
}
