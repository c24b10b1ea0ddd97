package models

import "time"

type User struct {
	ID           int64      `db:"id"`
	Username     string     `db:"username"`
	PasswordHash string     `db:"password_hash"`
	Avatar       *string    `db:"avatar"`
	Bio          *string    `db:"bio"`
	Status       *string    `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
	LastLogin    *time.Time `db:"last_login"`
}

// Project carries a denormalized author snapshot (id + username frozen at
// write time). Display names can go stale after a username change; reads
// stay join-free on purpose.
type Project struct {
	ID              int64      `db:"id"`
	Title           string     `db:"title"`
	Description     string     `db:"description"`
	Instructions    string     `db:"instructions"`
	Image           string     `db:"image"`
	AuthorID        int64      `db:"author_id"`
	AuthorUsername  string     `db:"author_username"`
	HistoryCreated  time.Time  `db:"history_created"`
	HistoryModified time.Time  `db:"history_modified"`
	HistoryShared   time.Time  `db:"history_shared"`
	StatsViews      int64      `db:"stats_views"`
	StatsLoves      int64      `db:"stats_loves"`
	StatsFavorites  int64      `db:"stats_favorites"`
	StatsComments   int64      `db:"stats_comments"`
	RemixRootID     *int64     `db:"remix_root_id"`
}

type Studio struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	OwnerID     int64     `db:"owner_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// Edge tables (studio roles, studio projects, follows, loves) have no row
// structs: every edge write is ON CONFLICT DO NOTHING over its composite key
// and reads project into query-shaped rows in the services layer.
