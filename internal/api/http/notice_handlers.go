package http

import (
	"net/http"

	"github.com/classbridge/classbridge/internal/gateway"
	"github.com/classbridge/classbridge/internal/rbac"
)

// POST /notices accepts a multipart form: title, message, optional file.
func PostNoticeHandler(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, "multipart form required", http.StatusBadRequest)
			return
		}
		title := r.FormValue("title")
		message := r.FormValue("message")
		if title == "" || message == "" {
			http.Error(w, "title and message required", http.StatusBadRequest)
			return
		}

		var att *gateway.Attachment
		if f, hdr, err := r.FormFile("file"); err == nil {
			defer f.Close()
			att = &gateway.Attachment{Name: hdr.Filename, Size: hdr.Size, Body: f}
		}

		sender := rbac.SubjectFromContext(r.Context())
		id, err := g.PostNotice(r.Context(), title, message, att, sender)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}

// GET /notices returns notices newest first.
func ListNoticesHandler(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notices, err := g.Notices(r.Context())
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, notices)
	}
}
