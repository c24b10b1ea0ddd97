package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"remixlab-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type CreateProjectRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Instructions string `json:"instructions"`
	Image        string `json:"image"`
	Author       struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	} `json:"author"`
	History struct {
		Created  *time.Time `json:"created"`
		Modified *time.Time `json:"modified"`
		Shared   *time.Time `json:"shared"`
	} `json:"history"`
	Remix struct {
		Root *int64 `json:"root"`
	} `json:"remix"`
}

func (s *Server) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	project, err := services.CreateProject(s.DB, services.NewProject{
		Title:          req.Title,
		Description:    req.Description,
		Instructions:   req.Instructions,
		Image:          req.Image,
		AuthorID:       req.Author.ID,
		AuthorUsername: req.Author.Username,
		Created:        req.History.Created,
		Modified:       req.History.Modified,
		Shared:         req.History.Shared,
		RemixRoot:      req.Remix.Root,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, buildProjectDTO(project))
}

func (s *Server) CountProjects(w http.ResponseWriter, r *http.Request) {
	count, err := services.CountProjects(s.DB)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// ProjectDetail returns the full projection plus a project token. Tokens are
// pass-through: the caller's token if supplied, a fixed local one otherwise.
func (s *Server) ProjectDetail(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(chi.URLParam(r, "projectId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	project, err := services.GetProjectByID(s.DB, projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dto := buildProjectDTO(project)
	dto.Image = s.Assets.ProjectThumbnailURL(project.ID, project.Image)
	dto.ProjectToken = r.URL.Query().Get("token")
	if dto.ProjectToken == "" {
		dto.ProjectToken = "local-token"
	}
	WriteJSON(w, http.StatusOK, dto)
}

type PatchProjectRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Instructions *string `json:"instructions"`
	Image        *string `json:"image"`
	Author       *struct {
		ID       *int64  `json:"id"`
		Username *string `json:"username"`
	} `json:"author"`
	History *struct {
		Created  *time.Time `json:"created"`
		Modified *time.Time `json:"modified"`
		Shared   *time.Time `json:"shared"`
	} `json:"history"`
	Stats *struct {
		Views     *int64 `json:"views"`
		Loves     *int64 `json:"loves"`
		Favorites *int64 `json:"favorites"`
		Comments  *int64 `json:"comments"`
	} `json:"stats"`
	Remix *struct {
		Root *int64 `json:"root"`
	} `json:"remix"`
}

func (s *Server) PatchProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(chi.URLParam(r, "projectId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req PatchProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	patch := services.ProjectPatch{
		Title:        req.Title,
		Description:  req.Description,
		Instructions: req.Instructions,
		Image:        req.Image,
	}
	if req.Author != nil {
		patch.AuthorID = req.Author.ID
		patch.AuthorUsername = req.Author.Username
	}
	if req.History != nil {
		patch.Created = req.History.Created
		patch.Modified = req.History.Modified
		patch.Shared = req.History.Shared
	}
	if req.Stats != nil {
		patch.StatsViews = req.Stats.Views
		patch.StatsLoves = req.Stats.Loves
		patch.StatsFavorites = req.Stats.Favorites
		patch.StatsComments = req.Stats.Comments
	}
	if req.Remix != nil {
		patch.RemixRoot = req.Remix.Root
	}
	project, err := services.UpdateProjectFields(s.DB, projectID, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildProjectDTO(project))
}

func (s *Server) ProjectRemixes(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(chi.URLParam(r, "projectId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := services.GetProjectByID(s.DB, projectID); err != nil {
		writeServiceError(w, err)
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 0)
	remixes, err := services.RemixesOf(s.DB, projectID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	items := make([]ProjectDTO, 0, len(remixes))
	for i := range remixes {
		dto := buildProjectDTO(&remixes[i])
		dto.Image = s.Assets.ProjectThumbnailURL(remixes[i].ID, remixes[i].Image)
		items = append(items, dto)
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) RemixProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(chi.URLParam(r, "projectId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	remix, err := services.RemixProject(s.DB, projectID, CurrentUserID(r), CurrentUsername(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, buildProjectDTO(remix))
}

func (s *Server) LoveProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(chi.URLParam(r, "projectId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := services.GetProjectByID(s.DB, projectID); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := services.LoveProject(s.DB, CurrentUserID(r), projectID); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"userLove": true})
}

func (s *Server) UnloveProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(chi.URLParam(r, "projectId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := services.GetProjectByID(s.DB, projectID); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := services.UnloveProject(s.DB, CurrentUserID(r), projectID); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"userLove": false})
}

// FavoriteProject only bumps the counter; favorites have no per-user edge,
// so repeat calls keep counting.
func (s *Server) FavoriteProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(chi.URLParam(r, "projectId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := services.IncrementProjectStat(s.DB, projectID, "favorites", 1); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"userFavorite": true})
}
