package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"remixlab-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

// The comment surface predates threading: replies never load and parent ids
// are always null, but the client expects every key to be present.

type CommentAuthorDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Image    string `json:"image"`
}

type CommentDTO struct {
	ID                int64            `json:"id"`
	Content           string           `json:"content"`
	DatetimeCreated   time.Time        `json:"datetime_created"`
	Author            CommentAuthorDTO `json:"author"`
	Visibility        string           `json:"visibility"`
	ReplyCount        int              `json:"reply_count"`
	ParentID          *int64           `json:"parent_id"`
	MoreRepliesToLoad bool             `json:"moreRepliesToLoad"`
}

type CommentsResponse struct {
	Comments []CommentDTO `json:"comments"`
	More     bool         `json:"more"`
}

func (s *Server) buildCommentDTO(row services.CommentRow) CommentDTO {
	return CommentDTO{
		ID:              row.ID,
		Content:         row.Content,
		DatetimeCreated: row.CreatedAt,
		Author: CommentAuthorDTO{
			ID:       strconv.FormatInt(row.UserID, 10),
			Username: orUnknown(row.Username),
			Image:    s.Assets.UserAvatarURL(row.UserID, row.Avatar),
		},
		Visibility:        "visible",
		ReplyCount:        0,
		ParentID:          nil,
		MoreRepliesToLoad: false,
	}
}

func (s *Server) StudioComments(w http.ResponseWriter, r *http.Request) {
	studioID, err := parseID(chi.URLParam(r, "studioId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := services.GetStudioByID(s.DB, studioID); err != nil {
		writeServiceError(w, err)
		return
	}
	rows, err := services.ListStudioComments(s.DB, studioID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	comments := make([]CommentDTO, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, s.buildCommentDTO(row))
	}
	WriteJSON(w, http.StatusOK, CommentsResponse{Comments: comments, More: false})
}

type PostCommentRequest struct {
	Content string `json:"content"`
}

func (s *Server) PostStudioComment(w http.ResponseWriter, r *http.Request) {
	studioID, err := parseID(chi.URLParam(r, "studioId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := services.GetStudioByID(s.DB, studioID); err != nil {
		writeServiceError(w, err)
		return
	}
	var req PostCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	userID := CurrentUserID(r)
	commentID, err := services.CreateStudioComment(s.DB, studioID, userID, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	username := CurrentUsername(r)
	WriteJSON(w, http.StatusCreated, s.buildCommentDTO(services.CommentRow{
		ID:        commentID,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
		UserID:    userID,
		Username:  &username,
	}))
}
