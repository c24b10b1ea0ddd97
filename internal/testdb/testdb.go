// Package testdb provides an in-memory database with the application schema
// for service-level tests.
package testdb

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE users (
  id            INTEGER PRIMARY KEY AUTOINCREMENT,
  username      TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  avatar        TEXT,
  bio           TEXT,
  status        TEXT,
  created_at    TIMESTAMP NOT NULL,
  last_login    TIMESTAMP
);
CREATE UNIQUE INDEX uq_users_username_ci ON users (lower(username));

CREATE TABLE projects (
  id               INTEGER PRIMARY KEY AUTOINCREMENT,
  title            TEXT NOT NULL,
  description      TEXT NOT NULL DEFAULT '',
  instructions     TEXT NOT NULL DEFAULT '',
  image            TEXT NOT NULL DEFAULT '',
  author_id        INTEGER NOT NULL,
  author_username  TEXT NOT NULL DEFAULT '',
  history_created  TIMESTAMP NOT NULL,
  history_modified TIMESTAMP NOT NULL,
  history_shared   TIMESTAMP NOT NULL,
  stats_views      INTEGER NOT NULL DEFAULT 0,
  stats_loves      INTEGER NOT NULL DEFAULT 0,
  stats_favorites  INTEGER NOT NULL DEFAULT 0,
  stats_comments   INTEGER NOT NULL DEFAULT 0,
  remix_root_id    INTEGER
);

CREATE TABLE studios (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  title       TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  owner_id    INTEGER NOT NULL,
  created_at  TIMESTAMP NOT NULL
);

CREATE TABLE studio_curators (
  studio_id INTEGER NOT NULL,
  user_id   INTEGER NOT NULL,
  added_at  TIMESTAMP NOT NULL,
  PRIMARY KEY (studio_id, user_id)
);

CREATE TABLE studio_managers (
  studio_id INTEGER NOT NULL,
  user_id   INTEGER NOT NULL,
  added_at  TIMESTAMP NOT NULL,
  PRIMARY KEY (studio_id, user_id)
);

CREATE TABLE studio_followers (
  studio_id INTEGER NOT NULL,
  user_id   INTEGER NOT NULL,
  added_at  TIMESTAMP NOT NULL,
  PRIMARY KEY (studio_id, user_id)
);

CREATE TABLE studio_projects (
  studio_id  INTEGER NOT NULL,
  project_id INTEGER NOT NULL,
  added_at   TIMESTAMP NOT NULL,
  PRIMARY KEY (studio_id, project_id)
);

CREATE TABLE studio_comments (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  studio_id  INTEGER NOT NULL,
  user_id    INTEGER NOT NULL,
  content    TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL
);

CREATE TABLE user_follows (
  follower_id INTEGER NOT NULL,
  followee_id INTEGER NOT NULL,
  created_at  TIMESTAMP NOT NULL,
  PRIMARY KEY (follower_id, followee_id)
);

CREATE TABLE loves (
  user_id    INTEGER NOT NULL,
  project_id INTEGER NOT NULL,
  created_at TIMESTAMP NOT NULL,
  PRIMARY KEY (user_id, project_id)
);

CREATE TABLE server_metric_samples (
  id                        TEXT PRIMARY KEY,
  captured_at               TIMESTAMP NOT NULL,
  heap_used_bytes           INTEGER NOT NULL,
  heap_max_bytes            INTEGER NOT NULL,
  system_memory_total_bytes INTEGER NOT NULL,
  system_memory_used_bytes  INTEGER NOT NULL,
  disk_total_bytes          INTEGER NOT NULL,
  disk_used_bytes           INTEGER NOT NULL,
  process_cpu_load          REAL NOT NULL,
  system_cpu_load           REAL NOT NULL
);
`

// New opens a fresh in-memory database seeded with the schema. Each call
// returns an isolated database; it is closed when the test finishes.
func New(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// A single connection keeps the in-memory database alive and visible for
	// the whole test; a second connection would see an empty database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("apply test schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
