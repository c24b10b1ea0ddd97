package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"remixlab-backend-go/internal/models"
)

const DefaultStudioPageSize = 24

// Studio roles are set memberships: add is a union insert, remove is a set
// difference. Neither has an error path for "already true"/"already false".
const (
	RoleCurator = "curator"
	RoleManager = "manager"
)

var roleTables = map[string]string{
	RoleCurator: "studio_curators",
	RoleManager: "studio_managers",
}

func CreateStudio(db *sqlx.DB, title, description string, ownerID int64) (*models.Studio, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrBadRequest("Studio title is required")
	}
	studio := models.Studio{
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}
	err := db.Get(&studio.ID, `
INSERT INTO studios (title, description, owner_id, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id
`, studio.Title, studio.Description, studio.OwnerID, studio.CreatedAt)
	if err != nil {
		return nil, WrapError(err, "creating studio")
	}
	return &studio, nil
}

func GetStudioByID(db *sqlx.DB, id int64) (*models.Studio, error) {
	var studio models.Studio
	err := db.Get(&studio, `
SELECT id, title, description, owner_id, created_at
FROM studios
WHERE id = $1
`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound("Studio not found")
	}
	if err != nil {
		return nil, WrapError(err, "getting studio")
	}
	return &studio, nil
}

// StudioOwnerUsername resolves the display name of a studio's host. A
// dangling owner reference degrades to the "unknown" placeholder.
func StudioOwnerUsername(db *sqlx.DB, ownerID int64) string {
	username, err := UsernameByID(db, ownerID)
	if err != nil || username == "" {
		return "unknown"
	}
	return username
}

func roleTable(role string) (string, error) {
	table, ok := roleTables[role]
	if !ok {
		return "", ErrBadRequest("Unknown studio role " + role)
	}
	return table, nil
}

// AddStudioRole is an idempotent union insert: re-adding an existing member
// is a no-op, not an error.
func AddStudioRole(db *sqlx.DB, studioID, userID int64, role string) error {
	table, err := roleTable(role)
	if err != nil {
		return err
	}
	_, err = db.Exec(fmt.Sprintf(`
INSERT INTO %s (studio_id, user_id, added_at)
VALUES ($1, $2, $3)
ON CONFLICT (studio_id, user_id) DO NOTHING
`, table), studioID, userID, time.Now().UTC())
	return WrapError(err, "adding studio "+role)
}

// RemoveStudioRole removes the membership if present; removing an absent
// member is a success.
func RemoveStudioRole(db *sqlx.DB, studioID, userID int64, role string) error {
	table, err := roleTable(role)
	if err != nil {
		return err
	}
	_, err = db.Exec(fmt.Sprintf(
		`DELETE FROM %s WHERE studio_id = $1 AND user_id = $2`, table),
		studioID, userID)
	return WrapError(err, "removing studio "+role)
}

type RoleMember struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
}

func ListStudioRole(db *sqlx.DB, studioID int64, role string) ([]RoleMember, error) {
	table, err := roleTable(role)
	if err != nil {
		return nil, err
	}
	members := []RoleMember{}
	err = db.Select(&members, fmt.Sprintf(`
SELECT u.id, u.username
FROM %s m
JOIN users u ON m.user_id = u.id
WHERE m.studio_id = $1
ORDER BY m.added_at DESC
`, table), studioID)
	if err != nil {
		return nil, WrapError(err, "listing studio "+role+"s")
	}
	return members, nil
}

func CountStudioProjects(db *sqlx.DB, studioID int64) (int64, error) {
	var count int64
	err := db.Get(&count, `SELECT count(*) FROM studio_projects WHERE studio_id = $1`, studioID)
	return count, err
}

func CountStudioFollowers(db *sqlx.DB, studioID int64) (int64, error) {
	var count int64
	err := db.Get(&count, `SELECT count(*) FROM studio_followers WHERE studio_id = $1`, studioID)
	return count, err
}

// ProjectsInStudio pages the gallery, newest additions first. Ties on
// added_at break by project id ascending so pagination stays stable.
func ProjectsInStudio(db *sqlx.DB, studioID int64, limit, offset int) ([]models.Project, error) {
	if limit <= 0 {
		limit = DefaultStudioPageSize
	}
	if offset < 0 {
		offset = 0
	}
	projects := []models.Project{}
	err := db.Select(&projects, `
SELECT p.id, p.title, p.description, p.instructions, p.image,
       p.author_id, p.author_username,
       p.history_created, p.history_modified, p.history_shared,
       p.stats_views, p.stats_loves, p.stats_favorites, p.stats_comments,
       p.remix_root_id
FROM studio_projects sp
JOIN projects p ON p.id = sp.project_id
WHERE sp.studio_id = $1
ORDER BY sp.added_at DESC, p.id ASC
LIMIT $2 OFFSET $3
`, studioID, limit, offset)
	if err != nil {
		return nil, WrapError(err, "listing studio projects")
	}
	return projects, nil
}

func AddProjectToStudio(db *sqlx.DB, studioID, projectID int64) error {
	_, err := db.Exec(`
INSERT INTO studio_projects (studio_id, project_id, added_at)
VALUES ($1, $2, $3)
ON CONFLICT (studio_id, project_id) DO NOTHING
`, studioID, projectID, time.Now().UTC())
	return WrapError(err, "adding project to studio")
}

func RemoveProjectFromStudio(db *sqlx.DB, studioID, projectID int64) error {
	_, err := db.Exec(`DELETE FROM studio_projects WHERE studio_id = $1 AND project_id = $2`,
		studioID, projectID)
	return WrapError(err, "removing project from studio")
}

func FollowStudio(db *sqlx.DB, studioID, userID int64) error {
	_, err := db.Exec(`
INSERT INTO studio_followers (studio_id, user_id, added_at)
VALUES ($1, $2, $3)
ON CONFLICT (studio_id, user_id) DO NOTHING
`, studioID, userID, time.Now().UTC())
	return WrapError(err, "following studio")
}

func UnfollowStudio(db *sqlx.DB, studioID, userID int64) error {
	_, err := db.Exec(`DELETE FROM studio_followers WHERE studio_id = $1 AND user_id = $2`,
		studioID, userID)
	return WrapError(err, "unfollowing studio")
}
