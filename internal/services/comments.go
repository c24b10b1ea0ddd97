package services

import (
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Comments are flat in this service: no threading, so readers always see a
// zero reply count.

type CommentRow struct {
	ID        int64     `db:"id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UserID    int64     `db:"user_id"`
	Username  *string   `db:"username"`
	Avatar    *string   `db:"avatar"`
}

func ListStudioComments(db *sqlx.DB, studioID int64) ([]CommentRow, error) {
	rows := []CommentRow{}
	err := db.Select(&rows, `
SELECT c.id, c.content, c.created_at, c.user_id, u.username, u.avatar
FROM studio_comments c
LEFT JOIN users u ON c.user_id = u.id
WHERE c.studio_id = $1
ORDER BY c.created_at DESC
`, studioID)
	if err != nil {
		return nil, WrapError(err, "listing studio comments")
	}
	return rows, nil
}

func CreateStudioComment(db *sqlx.DB, studioID, userID int64, content string) (int64, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0, ErrBadRequest("Missing data")
	}
	var id int64
	err := db.Get(&id, `
INSERT INTO studio_comments (studio_id, user_id, content, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id
`, studioID, userID, content, time.Now().UTC())
	if err != nil {
		return 0, WrapError(err, "creating studio comment")
	}
	return id, nil
}
