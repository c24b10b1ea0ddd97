package services

import (
	"log"
	"strings"

	"github.com/jmoiron/sqlx"

	"remixlab-backend-go/internal/models"
)

const followFeedLimit = 20

// FeedRow is the narrow projection every feed slice is built from.
type FeedRow struct {
	ID       int64   `db:"id"`
	Title    string  `db:"title"`
	Image    *string `db:"image"`
	Username *string `db:"username"`
}

type StudioFeedRow struct {
	ID       int64   `db:"id"`
	Title    string  `db:"title"`
	OwnerID  int64   `db:"owner_id"`
	Username *string `db:"username"`
}

// FeaturedContent is the front-page carousel payload: five named slices, each
// from its own query. A failing slice degrades to empty instead of failing
// the page, so one degraded signal source never blanks the whole surface.
type FeaturedContent struct {
	MostLoved   []FeedRow
	MostRemixed []FeedRow
	Newest      []FeedRow
	Studios     []StudioFeedRow
}

func GetFeaturedContent(db *sqlx.DB) FeaturedContent {
	return FeaturedContent{
		MostLoved: feedSlice(db, `
SELECT p.id, p.title, p.image, u.username
FROM projects p
JOIN users u ON p.author_id = u.id
ORDER BY p.stats_loves DESC
LIMIT 5
`),
		// Ordered by remix root id, not remix volume. Intentional: the
		// client treats this slice as a rough signal, not a ranking.
		MostRemixed: feedSlice(db, `
SELECT p.id, p.title, p.image, u.username
FROM projects p
JOIN users u ON p.author_id = u.id
WHERE p.remix_root_id IS NOT NULL
ORDER BY p.remix_root_id DESC
LIMIT 5
`),
		Newest: feedSlice(db, `
SELECT p.id, p.title, p.image, u.username
FROM projects p
JOIN users u ON p.author_id = u.id
ORDER BY p.history_created DESC
LIMIT 5
`),
		Studios: studioSlice(db, `
SELECT s.id, s.title, s.owner_id, u.username
FROM studios s
LEFT JOIN users u ON s.owner_id = u.id
ORDER BY s.created_at DESC
LIMIT 3
`),
	}
}

// GetUserFeaturedContent reuses one query for every slice: a user's front
// page is just their own projects by recency. Callers must not assume the
// slices are independently sourced.
func GetUserFeaturedContent(db *sqlx.DB, userID int64) FeaturedContent {
	own := feedSlice(db, `
SELECT p.id, p.title, p.image, u.username
FROM projects p
JOIN users u ON p.author_id = u.id
WHERE p.author_id = $1
ORDER BY p.history_created DESC
LIMIT 5
`, userID)
	return FeaturedContent{
		MostLoved:   own,
		MostRemixed: own,
		Newest:      own,
		Studios:     []StudioFeedRow{},
	}
}

func feedSlice(db *sqlx.DB, query string, args ...interface{}) []FeedRow {
	rows := []FeedRow{}
	if err := db.Select(&rows, query, args...); err != nil {
		log.Printf("feed slice degraded: %v", err)
		return []FeedRow{}
	}
	return rows
}

func studioSlice(db *sqlx.DB, query string, args ...interface{}) []StudioFeedRow {
	rows := []StudioFeedRow{}
	if err := db.Select(&rows, query, args...); err != nil {
		log.Printf("studio slice degraded: %v", err)
		return []StudioFeedRow{}
	}
	return rows
}

type SearchRow struct {
	ID             int64   `db:"id"`
	Title          string  `db:"title"`
	Image          *string `db:"image"`
	AuthorUsername string  `db:"author_username"`
}

// SearchProjects matches the title substring case-insensitively. An empty
// query is the unfiltered recency listing, not an empty result.
func SearchProjects(db *sqlx.DB, query string, limit, offset int) ([]SearchRow, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	rows := []SearchRow{}
	term := strings.TrimSpace(query)
	var err error
	if term != "" {
		like := "%" + strings.ToLower(term) + "%"
		err = db.Select(&rows, `
SELECT id, title, image, author_username
FROM projects
WHERE lower(title) LIKE $1
ORDER BY history_created DESC
LIMIT $2 OFFSET $3
`, like, limit, offset)
	} else {
		err = db.Select(&rows, `
SELECT id, title, image, author_username
FROM projects
ORDER BY history_created DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	}
	if err != nil {
		return nil, WrapError(err, "searching projects")
	}
	return rows, nil
}

// The four following feeds below are fixed multi-hop traversals rooted at a
// username. A base user that does not exist yields an empty set, and a store
// failure degrades the same way: these power a browsing page that must render
// even when one source is down.

func FollowedStudios(db *sqlx.DB, username string, limit int) []StudioFeedRow {
	return studioSlice(db, `
SELECT s.id, s.title, s.owner_id, u.username
FROM users me
JOIN studio_followers sf ON sf.user_id = me.id
JOIN studios s ON s.id = sf.studio_id
LEFT JOIN users u ON s.owner_id = u.id
WHERE me.username = $1
ORDER BY s.created_at DESC
LIMIT $2
`, username, clampFollowLimit(limit))
}

func ProjectsFromFollowedStudios(db *sqlx.DB, username string, limit int) []FeedRow {
	return feedSlice(db, `
SELECT p.id, p.title, p.image, u.username
FROM users me
JOIN studio_followers sf ON sf.user_id = me.id
JOIN studio_projects sp ON sp.studio_id = sf.studio_id
JOIN projects p ON p.id = sp.project_id
JOIN users u ON p.author_id = u.id
WHERE me.username = $1
ORDER BY sp.added_at DESC
LIMIT $2
`, username, clampFollowLimit(limit))
}

func ProjectsFromFollowedUsers(db *sqlx.DB, username string, limit int) []FeedRow {
	return feedSlice(db, `
SELECT p.id, p.title, p.image, u.username
FROM users me
JOIN user_follows uf ON uf.follower_id = me.id
JOIN projects p ON p.author_id = uf.followee_id
JOIN users u ON p.author_id = u.id
WHERE me.username = $1
ORDER BY p.history_created DESC
LIMIT $2
`, username, clampFollowLimit(limit))
}

func LovesFromFollowedUsers(db *sqlx.DB, username string, limit int) []FeedRow {
	return feedSlice(db, `
SELECT p.id, p.title, p.image, u.username
FROM users me
JOIN user_follows uf ON uf.follower_id = me.id
JOIN loves l ON l.user_id = uf.followee_id
JOIN projects p ON p.id = l.project_id
JOIN users u ON p.author_id = u.id
WHERE me.username = $1
ORDER BY l.created_at DESC
LIMIT $2
`, username, clampFollowLimit(limit))
}

func clampFollowLimit(limit int) int {
	if limit <= 0 || limit > followFeedLimit {
		return followFeedLimit
	}
	return limit
}

// StudioDetail composes the five lookups behind the studio page: the studio
// row, its host's username, the curator roster, and the two counters.
type StudioDetail struct {
	Studio        models.Studio
	OwnerUsername string
	Curators      []RoleMember
	ProjectCount  int64
	FollowerCount int64
}

func GetStudioDetail(db *sqlx.DB, studioID int64) (*StudioDetail, error) {
	studio, err := GetStudioByID(db, studioID)
	if err != nil {
		return nil, err
	}
	curators, err := ListStudioRole(db, studioID, RoleCurator)
	if err != nil {
		return nil, err
	}
	projects, err := CountStudioProjects(db, studioID)
	if err != nil {
		return nil, WrapError(err, "counting studio projects")
	}
	followers, err := CountStudioFollowers(db, studioID)
	if err != nil {
		return nil, WrapError(err, "counting studio followers")
	}
	return &StudioDetail{
		Studio:        *studio,
		OwnerUsername: StudioOwnerUsername(db, studio.OwnerID),
		Curators:      curators,
		ProjectCount:  projects,
		FollowerCount: followers,
	}, nil
}

// ProjectsByAuthor lists a user's own projects by recency.
func ProjectsByAuthor(db *sqlx.DB, username string, limit, offset int) ([]models.Project, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	projects := []models.Project{}
	err := db.Select(&projects, `
SELECT id, title, description, instructions, image,
       author_id, author_username,
       history_created, history_modified, history_shared,
       stats_views, stats_loves, stats_favorites, stats_comments,
       remix_root_id
FROM projects
WHERE author_username = $1
ORDER BY history_created DESC
LIMIT $2 OFFSET $3
`, username, limit, offset)
	if err != nil {
		return nil, WrapError(err, "listing author projects")
	}
	return projects, nil
}

// ProjectByAuthor fetches one project scoped to its author's username.
func ProjectByAuthor(db *sqlx.DB, username string, projectID int64) (*models.Project, error) {
	project, err := GetProjectByID(db, projectID)
	if err != nil {
		return nil, err
	}
	if project.AuthorUsername != username {
		return nil, ErrNotFound("Project not found")
	}
	return project, nil
}
