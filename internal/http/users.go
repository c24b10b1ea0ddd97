package httpapi

import (
	"net/http"
	"time"

	"remixlab-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type ProfileHistoryDTO struct {
	Joined time.Time  `json:"joined"`
	Login  *time.Time `json:"login"`
}

type ProfileDTO struct {
	ID     int64  `json:"id"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
	Status string `json:"status"`
}

type UserProfileDTO struct {
	ID       int64             `json:"id"`
	Username string            `json:"username"`
	History  ProfileHistoryDTO `json:"history"`
	Profile  ProfileDTO        `json:"profile"`
}

func (s *Server) UserProfile(w http.ResponseWriter, r *http.Request) {
	user, err := services.GetUserByUsername(s.DB, chi.URLParam(r, "username"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	bio := ""
	if user.Bio != nil {
		bio = *user.Bio
	}
	status := ""
	if user.Status != nil {
		status = *user.Status
	}
	WriteJSON(w, http.StatusOK, UserProfileDTO{
		ID:       user.ID,
		Username: user.Username,
		History: ProfileHistoryDTO{
			Joined: user.CreatedAt,
			Login:  user.LastLogin,
		},
		Profile: ProfileDTO{
			ID:     user.ID,
			Avatar: s.Assets.UserAvatarURL(user.ID, user.Avatar),
			Bio:    bio,
			Status: status,
		},
	})
}

func (s *Server) UserProjects(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	limit := parseInt(r.URL.Query().Get("limit"), 10)
	offset := parseInt(r.URL.Query().Get("offset"), 0)
	projects, err := services.ProjectsByAuthor(s.DB, username, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	items := make([]ProjectDTO, 0, len(projects))
	for i := range projects {
		dto := buildProjectDTO(&projects[i])
		dto.Image = s.Assets.ProjectThumbnailURL(projects[i].ID, projects[i].Image)
		items = append(items, dto)
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) UserProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(chi.URLParam(r, "projectId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	project, err := services.ProjectByAuthor(s.DB, chi.URLParam(r, "username"), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dto := buildProjectDTO(project)
	dto.Image = s.Assets.ProjectThumbnailURL(project.ID, project.Image)
	WriteJSON(w, http.StatusOK, dto)
}

// ProjectVisibility always reports visible: moderation states were never
// carried over, so every project a reader can name is a visible one.
func (s *Server) ProjectVisibility(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(chi.URLParam(r, "projectId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := services.GetProjectByID(s.DB, projectID); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"visibility": "visible"})
}

func (s *Server) UserFavorites(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, []FeedItemDTO{})
}

func (s *Server) FollowingStudios(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	limit := parseInt(r.URL.Query().Get("limit"), 0)
	rows := services.FollowedStudios(s.DB, username, limit)
	WriteJSON(w, http.StatusOK, s.buildStudioItems(rows))
}

func (s *Server) FollowingStudioProjects(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	limit := parseInt(r.URL.Query().Get("limit"), 0)
	rows := services.ProjectsFromFollowedStudios(s.DB, username, limit)
	WriteJSON(w, http.StatusOK, s.buildFeedItems(rows, true))
}

func (s *Server) FollowingUserProjects(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	limit := parseInt(r.URL.Query().Get("limit"), 0)
	rows := services.ProjectsFromFollowedUsers(s.DB, username, limit)
	WriteJSON(w, http.StatusOK, s.buildFeedItems(rows, true))
}

func (s *Server) FollowingUserLoves(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	limit := parseInt(r.URL.Query().Get("limit"), 0)
	rows := services.LovesFromFollowedUsers(s.DB, username, limit)
	WriteJSON(w, http.StatusOK, s.buildFeedItems(rows, true))
}

type ActivityItemDTO struct {
	ID              int64     `json:"id"`
	Type            string    `json:"type"`
	ActorID         int64     `json:"actor_id"`
	ActorUsername   string    `json:"actor_username"`
	DatetimeCreated time.Time `json:"datetime_created"`
}

// Activity streams are served as fixed placeholders; the client renders an
// empty timeline from them.
func (s *Server) FollowingUserActivity(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, []ActivityItemDTO{})
}

func (s *Server) UserActivity(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, []ActivityItemDTO{})
}

func (s *Server) UserActivityCount(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]int{"count": 0})
}

func (s *Server) MessagesCount(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]int{"msg_count": 0})
}

func (s *Server) FollowUser(w http.ResponseWriter, r *http.Request) {
	target, err := services.GetUserByUsername(s.DB, chi.URLParam(r, "username"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := services.FollowUser(s.DB, CurrentUserID(r), target.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Following " + target.Username})
}

func (s *Server) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	target, err := services.GetUserByUsername(s.DB, chi.URLParam(r, "username"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := services.UnfollowUser(s.DB, CurrentUserID(r), target.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Unfollowed " + target.Username})
}
