package services

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remixlab-backend-go/internal/models"
	"remixlab-backend-go/internal/testdb"
)

func mustCreateProject(t *testing.T, db *sqlx.DB, input NewProject) *models.Project {
	t.Helper()
	project, err := CreateProject(db, input)
	require.NoError(t, err)
	return project
}

func TestCreateProjectDefaultsTitle(t *testing.T) {
	db := testdb.New(t)
	author := mustCreateUser(t, db, "renat")

	project := mustCreateProject(t, db, NewProject{
		Title:          "   ",
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
	})
	assert.Equal(t, "Untitled Project", project.Title)
	assert.False(t, project.HistoryCreated.IsZero())
	assert.Nil(t, project.RemixRootID)
}

func TestCreateProjectKeepsSuppliedInstants(t *testing.T) {
	db := testdb.New(t)
	author := mustCreateUser(t, db, "renat")
	created := time.Date(2020, 3, 14, 9, 26, 53, 0, time.UTC)

	project := mustCreateProject(t, db, NewProject{
		Title:          "Pi Day",
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		Created:        &created,
	})
	assert.True(t, project.HistoryCreated.Equal(created))
}

func TestUpdateProjectFieldsPatchesOnlySuppliedFields(t *testing.T) {
	db := testdb.New(t)
	author := mustCreateUser(t, db, "renat")
	project := mustCreateProject(t, db, NewProject{
		Title:          "Original",
		Description:    "keep me",
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
	})

	title := "Renamed"
	updated, err := UpdateProjectFields(db, project.ID, ProjectPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, project.StatsLoves, updated.StatsLoves)
}

func TestUpdateProjectFieldsEmptyPatch(t *testing.T) {
	db := testdb.New(t)
	author := mustCreateUser(t, db, "renat")
	project := mustCreateProject(t, db, NewProject{Title: "p", AuthorID: author.ID, AuthorUsername: author.Username})

	_, err := UpdateProjectFields(db, project.ID, ProjectPatch{})
	require.Error(t, err)
	serr, ok := err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 400, serr.Status)
}

func TestUpdateProjectFieldsMissingProject(t *testing.T) {
	db := testdb.New(t)

	title := "x"
	_, err := UpdateProjectFields(db, 9999, ProjectPatch{Title: &title})
	require.Error(t, err)
	serr, ok := err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 404, serr.Status)
}

func TestRemixRootMustExist(t *testing.T) {
	db := testdb.New(t)
	author := mustCreateUser(t, db, "renat")

	missing := int64(424242)
	_, err := CreateProject(db, NewProject{
		Title:          "orphan remix",
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		RemixRoot:      &missing,
	})
	require.Error(t, err)
	serr, ok := err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 400, serr.Status)
}

func TestRemixRootRejectsSelfReference(t *testing.T) {
	db := testdb.New(t)
	author := mustCreateUser(t, db, "renat")
	project := mustCreateProject(t, db, NewProject{Title: "p", AuthorID: author.ID, AuthorUsername: author.Username})

	self := project.ID
	_, err := UpdateProjectFields(db, project.ID, ProjectPatch{RemixRoot: &self})
	require.Error(t, err)
}

func TestRemixRootRejectsCycle(t *testing.T) {
	db := testdb.New(t)
	author := mustCreateUser(t, db, "renat")
	root := mustCreateProject(t, db, NewProject{Title: "root", AuthorID: author.ID, AuthorUsername: author.Username})
	child, err := RemixProject(db, root.ID, author.ID, author.Username)
	require.NoError(t, err)

	// Pointing the root at its own descendant would close a loop.
	childID := child.ID
	_, err = UpdateProjectFields(db, root.ID, ProjectPatch{RemixRoot: &childID})
	require.Error(t, err)
	serr, ok := err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 400, serr.Status)
}

func TestRemixProjectCopiesPresentation(t *testing.T) {
	db := testdb.New(t)
	author := mustCreateUser(t, db, "renat")
	remixer := mustCreateUser(t, db, "guest")
	root := mustCreateProject(t, db, NewProject{
		Title:          "Platformer",
		Description:    "jump around",
		Instructions:   "arrow keys",
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
	})

	remix, err := RemixProject(db, root.ID, remixer.ID, remixer.Username)
	require.NoError(t, err)
	assert.Equal(t, "Platformer remix", remix.Title)
	assert.Equal(t, "jump around", remix.Description)
	assert.Equal(t, remixer.ID, remix.AuthorID)
	require.NotNil(t, remix.RemixRootID)
	assert.Equal(t, root.ID, *remix.RemixRootID)
}

func TestRemixesOfOrderAndLimit(t *testing.T) {
	db := testdb.New(t)
	author := mustCreateUser(t, db, "renat")
	root := mustCreateProject(t, db, NewProject{Title: "root", AuthorID: author.ID, AuthorUsername: author.Username})

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rid := root.ID
	for i := 0; i < 25; i++ {
		created := base.Add(time.Duration(i) * time.Hour)
		mustCreateProject(t, db, NewProject{
			Title:          "remix",
			AuthorID:       author.ID,
			AuthorUsername: author.Username,
			Created:        &created,
			RemixRoot:      &rid,
		})
	}

	remixes, err := RemixesOf(db, root.ID, 0)
	require.NoError(t, err)
	require.Len(t, remixes, 5)
	for i := 1; i < len(remixes); i++ {
		assert.False(t, remixes[i].HistoryCreated.After(remixes[i-1].HistoryCreated))
	}

	// Anything above the cap clamps to 20, never rejects.
	remixes, err = RemixesOf(db, root.ID, 100)
	require.NoError(t, err)
	assert.Len(t, remixes, 20)

	remixes, err = RemixesOf(db, root.ID, 3)
	require.NoError(t, err)
	assert.Len(t, remixes, 3)
}

func TestIncrementProjectStat(t *testing.T) {
	db := testdb.New(t)
	author := mustCreateUser(t, db, "renat")
	project := mustCreateProject(t, db, NewProject{Title: "p", AuthorID: author.ID, AuthorUsername: author.Username})

	require.NoError(t, IncrementProjectStat(db, project.ID, "views", 3))
	reloaded, err := GetProjectByID(db, project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), reloaded.StatsViews)

	err = IncrementProjectStat(db, project.ID, "applause", 1)
	require.Error(t, err)

	err = IncrementProjectStat(db, project.ID+1000, "views", 1)
	require.Error(t, err)
	serr, ok := err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 404, serr.Status)
}

func TestCountProjects(t *testing.T) {
	db := testdb.New(t)
	author := mustCreateUser(t, db, "renat")
	mustCreateProject(t, db, NewProject{Title: "a", AuthorID: author.ID, AuthorUsername: author.Username})
	mustCreateProject(t, db, NewProject{Title: "b", AuthorID: author.ID, AuthorUsername: author.Username})

	count, err := CountProjects(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
