package httpapi

import (
	"encoding/json"
	"net/http"

	"remixlab-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type CreateStudioRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Server) CreateStudio(w http.ResponseWriter, r *http.Request) {
	var req CreateStudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	studio, err := services.CreateStudio(s.DB, req.Title, req.Description, CurrentUserID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	detail, err := services.GetStudioDetail(s.DB, studio.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, s.buildStudioDetailDTO(detail))
}

func (s *Server) StudioDetail(w http.ResponseWriter, r *http.Request) {
	studioID, err := parseID(chi.URLParam(r, "studioId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	detail, err := services.GetStudioDetail(s.DB, studioID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, s.buildStudioDetailDTO(detail))
}

type StudioProjectDTO struct {
	ID       int64            `json:"id"`
	Title    string           `json:"title"`
	Image    string           `json:"image"`
	Avatar   ProfileImagesDTO `json:"avatar"`
	Username string           `json:"username"`
	ActorID  *int64           `json:"actor_id"`
}

func (s *Server) StudioProjects(w http.ResponseWriter, r *http.Request) {
	studioID, err := parseID(chi.URLParam(r, "studioId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := services.GetStudioByID(s.DB, studioID); err != nil {
		writeServiceError(w, err)
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), services.DefaultStudioPageSize)
	offset := parseInt(r.URL.Query().Get("offset"), 0)
	projects, err := services.ProjectsInStudio(s.DB, studioID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	items := make([]StudioProjectDTO, 0, len(projects))
	for i := range projects {
		project := &projects[i]
		username := project.AuthorUsername
		if username == "" {
			username = "Unknown"
		}
		items = append(items, StudioProjectDTO{
			ID:    project.ID,
			Title: project.Title,
			Image: s.Assets.ProjectThumbnailURL(project.ID, project.Image),
			Avatar: ProfileImagesDTO{
				Size90: s.Assets.UserAvatarURL(project.AuthorID, nil),
			},
			Username: username,
			ActorID:  nil,
		})
	}
	WriteJSON(w, http.StatusOK, items)
}

type StudioProjectRequest struct {
	ProjectID int64 `json:"projectId"`
}

func (s *Server) AddStudioProject(w http.ResponseWriter, r *http.Request) {
	studioID, err := parseID(chi.URLParam(r, "studioId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req StudioProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProjectID < 1 {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if _, err := services.GetStudioByID(s.DB, studioID); err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := services.GetProjectByID(s.DB, req.ProjectID); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := services.AddProjectToStudio(s.DB, studioID, req.ProjectID); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Project added to studio"})
}

func (s *Server) RemoveStudioProject(w http.ResponseWriter, r *http.Request) {
	studioID, err := parseID(chi.URLParam(r, "studioId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	projectID, err := parseID(chi.URLParam(r, "projectId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := services.RemoveProjectFromStudio(s.DB, studioID, projectID); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Project removed from studio"})
}

type StudioMemberRequest struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// resolveMember accepts either the numeric id or the username; the username
// wins ties so form-driven callers keep working.
func (s *Server) resolveMember(req StudioMemberRequest) (int64, error) {
	if req.Username != "" {
		user, err := services.GetUserByUsername(s.DB, req.Username)
		if err != nil {
			return 0, err
		}
		return user.ID, nil
	}
	if req.UserID < 1 {
		return 0, services.ErrBadRequest("Invalid id")
	}
	return req.UserID, nil
}

func (s *Server) addStudioMember(w http.ResponseWriter, r *http.Request, role string) {
	studioID, err := parseID(chi.URLParam(r, "studioId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := services.GetStudioByID(s.DB, studioID); err != nil {
		writeServiceError(w, err)
		return
	}
	var req StudioMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	userID, err := s.resolveMember(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := services.AddStudioRole(s.DB, studioID, userID, role); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Added " + role})
}

func (s *Server) removeStudioMember(w http.ResponseWriter, r *http.Request, role string) {
	studioID, err := parseID(chi.URLParam(r, "studioId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	userID, err := parseID(chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := services.RemoveStudioRole(s.DB, studioID, userID, role); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Removed " + role})
}

func (s *Server) listStudioMembers(w http.ResponseWriter, r *http.Request, role string) {
	studioID, err := parseID(chi.URLParam(r, "studioId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := services.GetStudioByID(s.DB, studioID); err != nil {
		writeServiceError(w, err)
		return
	}
	members, err := services.ListStudioRole(s.DB, studioID, role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, s.buildCuratorDTOs(members))
}

func (s *Server) StudioCurators(w http.ResponseWriter, r *http.Request) {
	s.listStudioMembers(w, r, services.RoleCurator)
}

func (s *Server) AddStudioCurator(w http.ResponseWriter, r *http.Request) {
	s.addStudioMember(w, r, services.RoleCurator)
}

func (s *Server) RemoveStudioCurator(w http.ResponseWriter, r *http.Request) {
	s.removeStudioMember(w, r, services.RoleCurator)
}

func (s *Server) StudioManagers(w http.ResponseWriter, r *http.Request) {
	s.listStudioMembers(w, r, services.RoleManager)
}

func (s *Server) AddStudioManager(w http.ResponseWriter, r *http.Request) {
	s.addStudioMember(w, r, services.RoleManager)
}

func (s *Server) RemoveStudioManager(w http.ResponseWriter, r *http.Request) {
	s.removeStudioMember(w, r, services.RoleManager)
}

func (s *Server) FollowStudio(w http.ResponseWriter, r *http.Request) {
	studioID, err := parseID(chi.URLParam(r, "studioId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := services.GetStudioByID(s.DB, studioID); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := services.FollowStudio(s.DB, studioID, CurrentUserID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Following studio"})
}

func (s *Server) UnfollowStudio(w http.ResponseWriter, r *http.Request) {
	studioID, err := parseID(chi.URLParam(r, "studioId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := services.UnfollowStudio(s.DB, studioID, CurrentUserID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Unfollowed studio"})
}
