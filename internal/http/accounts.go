package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"remixlab-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Bio      *string `json:"bio"`
	Status   *string `json:"status"`
}

type SessionResponse struct {
	Message      string `json:"message"`
	Username     string `json:"username"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

type UsernameCheckResponse struct {
	Username string `json:"username"`
	Msg      string `json:"msg"`
	Success  bool   `json:"success"`
}

// Login resolves the account case-sensitively and keeps the original status
// split: unknown username is 404, wrong password is 401. Both answer with the
// same body shape so the split is not visible from the payload alone.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	user, err := services.GetUserByUsername(s.DB, req.Username)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !s.Tokens.VerifyPassword(req.Password, user.PasswordHash) {
		writeServiceError(w, services.ErrUnauthorized("Invalid password"))
		return
	}
	if err := services.SetLastLogin(s.DB, user.ID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Server error during login")
		return
	}
	access, exp, err := s.Tokens.CreateAccessToken(user.ID, user.Username)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Server error during login")
		return
	}
	refresh, err := s.Tokens.CreateRefreshToken(user.ID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Server error during login")
		return
	}
	WriteJSON(w, http.StatusOK, SessionResponse{
		Message:      "Login successful",
		Username:     user.Username,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    exp,
	})
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	user, err := services.CreateUser(s.DB, s.Tokens, services.NewUser{
		Username: req.Username,
		Password: req.Password,
		Bio:      req.Bio,
		Status:   req.Status,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	access, exp, err := s.Tokens.CreateAccessToken(user.ID, user.Username)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	refresh, err := s.Tokens.CreateRefreshToken(user.ID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, SessionResponse{
		Message:      "Registration successful",
		Username:     user.Username,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    exp,
	})
}

// CheckUsername is the availability probe used by the signup form; it is the
// one case-insensitive lookup in the read paths.
func (s *Server) CheckUsername(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if username == "" {
		WriteJSON(w, http.StatusOK, UsernameCheckResponse{
			Username: username,
			Msg:      "invalid username",
			Success:  false,
		})
		return
	}
	taken, err := services.IsUsernameTaken(s.DB, username)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if taken {
		WriteJSON(w, http.StatusOK, UsernameCheckResponse{
			Username: username,
			Msg:      "username exists",
			Success:  false,
		})
		return
	}
	WriteJSON(w, http.StatusOK, UsernameCheckResponse{
		Username: username,
		Msg:      "username available",
		Success:  true,
	})
}

// CheckPassword always succeeds; password policy is enforced at registration.
func (s *Server) CheckPassword(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"msg":     "password ok",
		"success": true,
	})
}

func (s *Server) CsrfToken(w http.ResponseWriter, r *http.Request) {
	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:  "scratchcsrftoken",
		Value: token,
		Path:  "/",
	})
	WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) RootInfo(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"api":     "localhost:3000",
		"help":    "support@renat.dev",
		"website": "localhost:8333",
	})
}

type NewsItemDTO struct {
	ID       int64  `json:"id"`
	Headline string `json:"headline"`
	Copy     string `json:"copy"`
	Username string `json:"username"`
	Image    string `json:"image"`
}

func (s *Server) News(w http.ResponseWriter, r *http.Request) {
	placeholder := s.Assets.DefaultThumbnailURL()
	WriteJSON(w, http.StatusOK, []NewsItemDTO{
		{
			ID:       1,
			Headline: "Welcome to Local Scratch!",
			Copy:     "This is a placeholder news item.",
			Username: "renat",
			Image:    placeholder,
		},
		{
			ID:       2,
			Headline: "Another test news item",
			Copy:     "More placeholder content.",
			Username: "renat",
			Image:    placeholder,
		},
	})
}
