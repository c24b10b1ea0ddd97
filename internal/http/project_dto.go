package httpapi

import (
	"time"

	"remixlab-backend-go/internal/models"
)

// View projection for projects. Every nested object is always present with
// all sub-keys populated; absent values surface as defaults, never as
// missing keys.

type AuthorDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type HistoryDTO struct {
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Shared   time.Time `json:"shared"`
}

type ProjectStatsDTO struct {
	Views     int64 `json:"views"`
	Loves     int64 `json:"loves"`
	Favorites int64 `json:"favorites"`
	Comments  int64 `json:"comments"`
	Remixes   int64 `json:"remixes"`
}

type RemixDTO struct {
	Root *int64 `json:"root"`
}

type ProjectDTO struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Instructions string          `json:"instructions"`
	Author       AuthorDTO       `json:"author"`
	Image        string          `json:"image"`
	History      HistoryDTO      `json:"history"`
	Stats        ProjectStatsDTO `json:"stats"`
	Remix        RemixDTO        `json:"remix"`
	ProjectToken string          `json:"project_token,omitempty"`
}

func buildProjectDTO(project *models.Project) ProjectDTO {
	username := project.AuthorUsername
	if username == "" {
		username = "Unknown"
	}
	return ProjectDTO{
		ID:           project.ID,
		Title:        project.Title,
		Description:  project.Description,
		Instructions: project.Instructions,
		Author: AuthorDTO{
			ID:       project.AuthorID,
			Username: username,
		},
		Image: project.Image,
		History: HistoryDTO{
			Created:  project.HistoryCreated,
			Modified: project.HistoryModified,
			Shared:   project.HistoryShared,
		},
		Stats: ProjectStatsDTO{
			Views:     project.StatsViews,
			Loves:     project.StatsLoves,
			Favorites: project.StatsFavorites,
			Comments:  project.StatsComments,
			Remixes:   0,
		},
		Remix: RemixDTO{Root: project.RemixRootID},
	}
}
