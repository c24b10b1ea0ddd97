package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// UserImage serves a derived avatar by filename, falling back to the default
// avatar so a missing derivation still renders as a face, not a broken image.
func (s *Server) UserImage(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		WriteError(w, http.StatusBadRequest, "Invalid filename")
		return
	}
	path := filepath.Join(s.Config.UploadsPath, "avatars", filename)
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		path = filepath.Join(s.Config.UploadsPath, "avatars", "default_90x90.png")
		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			WriteError(w, http.StatusNotFound, "Image not found")
			return
		}
	}
	http.ServeFile(w, r, path)
}

func (s *Server) ContentAsset(w http.ResponseWriter, r *http.Request) {
	md5ext := chi.URLParam(r, "md5ext")
	path, contentType, found := s.Assets.ContentAsset(md5ext)
	if !found {
		WriteError(w, http.StatusNotFound, "Asset not found")
		return
	}
	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, path)
}

func (s *Server) ProjectFile(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(chi.URLParam(r, "projectId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	path, found := s.Assets.ProjectBlob(projectID)
	if !found {
		WriteError(w, http.StatusNotFound, "Project file not found")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, path)
}
