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

const maxRemixListing = 20

type NewProject struct {
	Title          string
	Description    string
	Instructions   string
	Image          string
	AuthorID       int64
	AuthorUsername string
	Created        *time.Time
	Modified       *time.Time
	Shared         *time.Time
	RemixRoot      *int64
}

func CreateProject(db *sqlx.DB, input NewProject) (*models.Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Untitled Project"
	}
	now := time.Now().UTC()
	project := models.Project{
		Title:           title,
		Description:     input.Description,
		Instructions:    input.Instructions,
		Image:           input.Image,
		AuthorID:        input.AuthorID,
		AuthorUsername:  input.AuthorUsername,
		HistoryCreated:  normalizeInstant(input.Created, now),
		HistoryModified: normalizeInstant(input.Modified, now),
		HistoryShared:   normalizeInstant(input.Shared, now),
		RemixRootID:     input.RemixRoot,
	}
	if project.RemixRootID != nil {
		if err := validateRemixRoot(db, 0, *project.RemixRootID); err != nil {
			return nil, err
		}
	}
	err := db.Get(&project.ID, `
INSERT INTO projects (
  title, description, instructions, image,
  author_id, author_username,
  history_created, history_modified, history_shared,
  stats_views, stats_loves, stats_favorites, stats_comments,
  remix_root_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0, 0, 0, $10)
RETURNING id
`, project.Title, project.Description, project.Instructions, project.Image,
		project.AuthorID, project.AuthorUsername,
		project.HistoryCreated, project.HistoryModified, project.HistoryShared,
		project.RemixRootID)
	if err != nil {
		return nil, WrapError(err, "creating project")
	}
	return &project, nil
}

func GetProjectByID(db *sqlx.DB, id int64) (*models.Project, error) {
	var project models.Project
	err := db.Get(&project, `
SELECT id, title, description, instructions, image,
       author_id, author_username,
       history_created, history_modified, history_shared,
       stats_views, stats_loves, stats_favorites, stats_comments,
       remix_root_id
FROM projects
WHERE id = $1
`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound("Project not found")
	}
	if err != nil {
		return nil, WrapError(err, "getting project")
	}
	return &project, nil
}

func CountProjects(db *sqlx.DB) (int64, error) {
	var count int64
	err := db.Get(&count, `SELECT count(*) FROM projects`)
	return count, err
}

// ProjectPatch is a partial update: only non-nil fields are applied.
type ProjectPatch struct {
	Title          *string
	Description    *string
	Instructions   *string
	Image          *string
	AuthorID       *int64
	AuthorUsername *string
	Created        *time.Time
	Modified       *time.Time
	Shared         *time.Time
	StatsViews     *int64
	StatsLoves     *int64
	StatsFavorites *int64
	StatsComments  *int64
	RemixRoot      *int64
}

// UpdateProjectFields applies exactly the supplied fields. An empty patch is
// an error, never a silent no-op.
func UpdateProjectFields(db *sqlx.DB, id int64, patch ProjectPatch) (*models.Project, error) {
	sets := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Instructions != nil {
		add("instructions", *patch.Instructions)
	}
	if patch.Image != nil {
		add("image", *patch.Image)
	}
	if patch.AuthorID != nil {
		add("author_id", *patch.AuthorID)
	}
	if patch.AuthorUsername != nil {
		add("author_username", *patch.AuthorUsername)
	}
	if patch.Created != nil {
		add("history_created", patch.Created.UTC())
	}
	if patch.Modified != nil {
		add("history_modified", patch.Modified.UTC())
	}
	if patch.Shared != nil {
		add("history_shared", patch.Shared.UTC())
	}
	if patch.StatsViews != nil {
		add("stats_views", *patch.StatsViews)
	}
	if patch.StatsLoves != nil {
		add("stats_loves", *patch.StatsLoves)
	}
	if patch.StatsFavorites != nil {
		add("stats_favorites", *patch.StatsFavorites)
	}
	if patch.StatsComments != nil {
		add("stats_comments", *patch.StatsComments)
	}
	if patch.RemixRoot != nil {
		if err := validateRemixRoot(db, id, *patch.RemixRoot); err != nil {
			return nil, err
		}
		add("remix_root_id", *patch.RemixRoot)
	}

	if len(sets) == 0 {
		return nil, ErrNoFieldsToUpdate()
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	result, err := db.Exec(query, args...)
	if err != nil {
		return nil, WrapError(err, "updating project")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, WrapError(err, "updating project")
	}
	if affected == 0 {
		return nil, ErrNotFound("Project not found")
	}
	return GetProjectByID(db, id)
}

var statColumns = map[string]string{
	"views":     "stats_views",
	"loves":     "stats_loves",
	"favorites": "stats_favorites",
	"comments":  "stats_comments",
}

// IncrementProjectStat bumps a counter at the store so concurrent increments
// never lose updates. delta may be negative (un-love).
func IncrementProjectStat(db *sqlx.DB, id int64, stat string, delta int64) error {
	column, ok := statColumns[stat]
	if !ok {
		return ErrBadRequest("Unknown stat " + stat)
	}
	result, err := db.Exec(
		fmt.Sprintf(`UPDATE projects SET %s = %s + $1 WHERE id = $2`, column, column),
		delta, id)
	if err != nil {
		return WrapError(err, "incrementing stat")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return WrapError(err, "incrementing stat")
	}
	if affected == 0 {
		return ErrNotFound("Project not found")
	}
	return nil
}

// RemixesOf lists direct children only, newest first. Remix trees are browsed
// one level at a time.
func RemixesOf(db *sqlx.DB, projectID int64, limit int) ([]models.Project, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > maxRemixListing {
		limit = maxRemixListing
	}
	remixes := []models.Project{}
	err := db.Select(&remixes, `
SELECT id, title, description, instructions, image,
       author_id, author_username,
       history_created, history_modified, history_shared,
       stats_views, stats_loves, stats_favorites, stats_comments,
       remix_root_id
FROM projects
WHERE remix_root_id = $1
ORDER BY history_created DESC
LIMIT $2
`, projectID, limit)
	if err != nil {
		return nil, WrapError(err, "listing remixes")
	}
	return remixes, nil
}

// RemixProject creates a derivative linked to root, copying its presentation
// fields. The new author's snapshot is taken at creation time.
func RemixProject(db *sqlx.DB, rootID, authorID int64, authorUsername string) (*models.Project, error) {
	root, err := GetProjectByID(db, rootID)
	if err != nil {
		return nil, err
	}
	rid := root.ID
	return CreateProject(db, NewProject{
		Title:          root.Title + " remix",
		Description:    root.Description,
		Instructions:   root.Instructions,
		Image:          root.Image,
		AuthorID:       authorID,
		AuthorUsername: authorUsername,
		RemixRoot:      &rid,
	})
}

// validateRemixRoot enforces the forest invariant: the root must exist, must
// not be the project itself, and following parents from the root must never
// revisit the project.
func validateRemixRoot(db *sqlx.DB, projectID, rootID int64) error {
	if rootID == projectID {
		return ErrBadRequest("Project cannot remix itself")
	}
	current := rootID
	for i := 0; i < 1000; i++ {
		var parent *int64
		err := db.Get(&parent, `SELECT remix_root_id FROM projects WHERE id = $1`, current)
		if errors.Is(err, sql.ErrNoRows) {
			if current == rootID {
				return ErrBadRequest("Remix root does not exist")
			}
			return nil
		}
		if err != nil {
			return WrapError(err, "walking remix chain")
		}
		if parent == nil {
			return nil
		}
		if *parent == projectID {
			return ErrBadRequest("Remix reference would create a cycle")
		}
		current = *parent
	}
	return ErrBadRequest("Remix chain too deep")
}

func normalizeInstant(value *time.Time, fallback time.Time) time.Time {
	if value == nil {
		return fallback
	}
	return value.UTC()
}
