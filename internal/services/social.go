package services

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// Follow and love edges are unique-pair sets; re-asserting an edge is always
// a success and leaves exactly one row behind.

func FollowUser(db *sqlx.DB, followerID, followeeID int64) error {
	if followerID == followeeID {
		return ErrBadRequest("Cannot follow yourself")
	}
	_, err := db.Exec(`
INSERT INTO user_follows (follower_id, followee_id, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (follower_id, followee_id) DO NOTHING
`, followerID, followeeID, time.Now().UTC())
	return WrapError(err, "following user")
}

func UnfollowUser(db *sqlx.DB, followerID, followeeID int64) error {
	_, err := db.Exec(`DELETE FROM user_follows WHERE follower_id = $1 AND followee_id = $2`,
		followerID, followeeID)
	return WrapError(err, "unfollowing user")
}

// LoveProject asserts the love edge and bumps the project's counter only when
// the edge is new, so repeated loves from one user count once.
func LoveProject(db *sqlx.DB, userID, projectID int64) error {
	result, err := db.Exec(`
INSERT INTO loves (user_id, project_id, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, project_id) DO NOTHING
`, userID, projectID, time.Now().UTC())
	if err != nil {
		return WrapError(err, "loving project")
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return WrapError(err, "loving project")
	}
	if inserted == 0 {
		return nil
	}
	return IncrementProjectStat(db, projectID, "loves", 1)
}

func UnloveProject(db *sqlx.DB, userID, projectID int64) error {
	result, err := db.Exec(`DELETE FROM loves WHERE user_id = $1 AND project_id = $2`,
		userID, projectID)
	if err != nil {
		return WrapError(err, "unloving project")
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return WrapError(err, "unloving project")
	}
	if removed == 0 {
		return nil
	}
	return IncrementProjectStat(db, projectID, "loves", -1)
}

func HasLoved(db *sqlx.DB, userID, projectID int64) (bool, error) {
	var exists bool
	err := db.Get(&exists, `
SELECT EXISTS(SELECT 1 FROM loves WHERE user_id = $1 AND project_id = $2)
`, userID, projectID)
	return exists, err
}
