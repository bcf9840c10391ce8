package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/classbridge/classbridge/internal/gateway"
)

// UploadFileHandler stores a multipart upload at the given path.
// POST /files accepts form fields path and file.
func UploadFileHandler(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			http.Error(w, "multipart form required", http.StatusBadRequest)
			return
		}
		path := r.FormValue("path")
		if path == "" {
			http.Error(w, "path required", http.StatusBadRequest)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		res, err := g.UploadFile(r.Context(), path, f, hdr.Size, nil)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// GET /files/{rollNo} lists name/URL pairs for the roll number's documents.
func ListDocumentsHandler(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rollNo := chi.URLParam(r, "rollNo")
		links, err := g.ListDocumentsByRoll(r.Context(), rollNo)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, links)
	}
}

// DownloadHandler streams a stored blob.
// GET /files/blob/*: key is everything after /files/blob/.
func DownloadHandler(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := g.OpenFile(r.Context(), key)
		if err != nil {
			http.Error(w, "not found: "+err.Error(), http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.Copy(w, rc)
	}
}
