package httpapi

import (
	"net/http"

	"remixlab-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Featured(w http.ResponseWriter, r *http.Request) {
	content := services.GetFeaturedContent(s.DB)
	WriteJSON(w, http.StatusOK, s.buildFeaturedResponse(content))
}

func (s *Server) UserFeatured(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	content := services.GetUserFeaturedContent(s.DB, userID)
	WriteJSON(w, http.StatusOK, s.buildFeaturedResponse(content))
}

func (s *Server) SearchProjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parseInt(query.Get("limit"), 10)
	offset := parseInt(query.Get("offset"), 0)
	rows, err := services.SearchProjects(s.DB, query.Get("q"), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	items := make([]FeedItemDTO, 0, len(rows))
	for _, row := range rows {
		thumb := ""
		if row.Image != nil {
			thumb = *row.Image
		}
		items = append(items, FeedItemDTO{
			ID:           row.ID,
			Title:        row.Title,
			ThumbnailURL: s.Assets.ProjectThumbnailURL(row.ID, thumb),
			Username:     row.AuthorUsername,
			Type:         "project",
		})
	}
	WriteJSON(w, http.StatusOK, items)
}
