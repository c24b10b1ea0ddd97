package services

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"remixlab-backend-go/internal/models"
)

type NewUser struct {
	Username string
	Password string
	Avatar   *string
	Bio      *string
	Status   *string
}

// CreateUser registers a user. Usernames are unique case-insensitively at
// write time; the stored casing is what profile reads display.
func CreateUser(db *sqlx.DB, tokens TokenService, input NewUser) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrBadRequest("Username and password are required")
	}
	taken, err := IsUsernameTaken(db, username)
	if err != nil {
		return nil, WrapError(err, "checking username")
	}
	if taken {
		return nil, ErrBadRequest("Username already taken")
	}
	hash, err := tokens.HashPassword(input.Password)
	if err != nil {
		return nil, WrapError(err, "hashing password")
	}
	now := time.Now().UTC()
	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Avatar:       input.Avatar,
		Bio:          input.Bio,
		Status:       input.Status,
		CreatedAt:    now,
	}
	err = db.Get(&user.ID, `
INSERT INTO users (username, password_hash, avatar, bio, status, created_at, last_login)
VALUES ($1, $2, $3, $4, $5, $6, NULL)
RETURNING id
`, user.Username, user.PasswordHash, user.Avatar, user.Bio, user.Status, user.CreatedAt)
	if err != nil {
		return nil, WrapError(err, "creating user")
	}
	return &user, nil
}

// GetUserByUsername is a case-sensitive exact match. Callers that need the
// case-insensitive check use IsUsernameTaken instead.
func GetUserByUsername(db *sqlx.DB, username string) (*models.User, error) {
	var user models.User
	err := db.Get(&user, `
SELECT id, username, password_hash, avatar, bio, status, created_at, last_login
FROM users
WHERE username = $1
`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound("User not found")
	}
	if err != nil {
		return nil, WrapError(err, "getting user")
	}
	return &user, nil
}

func IsUsernameTaken(db *sqlx.DB, username string) (bool, error) {
	var exists bool
	err := db.Get(&exists, `
SELECT EXISTS(SELECT 1 FROM users WHERE lower(username) = lower($1))
`, username)
	return exists, err
}

func SetLastLogin(db *sqlx.DB, userID int64) error {
	_, err := db.Exec(`UPDATE users SET last_login = $1 WHERE id = $2`, time.Now().UTC(), userID)
	return err
}

func UsernameByID(db *sqlx.DB, userID int64) (string, error) {
	var username string
	err := db.Get(&username, `SELECT username FROM users WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound("User not found")
	}
	return username, err
}
