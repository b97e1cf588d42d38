package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"clinic-booking-api/internal/httpx"
)

// DownloadFile serves a file from the uploads directory. Only bare file names
// are accepted; anything that could escape the directory is rejected before
// touching the filesystem.
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if name == "" || name != filepath.Base(name) || !filepath.IsLocal(name) {
		httpx.Error(w, http.StatusBadRequest, "invalid file name")
		return
	}

	path := filepath.Join(h.cfg.UploadsDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		httpx.Error(w, http.StatusNotFound, "file not found")
		return
	}

	http.ServeFile(w, r, path)
}
