package httpapi

import "remixlab-backend-go/internal/services"

// FeedItemDTO is the shared shape of every feed slice entry.
type FeedItemDTO struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
	Username     string `json:"username"`
	Type         string `json:"type"`
}

type HostDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// StudioItemDTO is the gallery flavor of a feed entry; the carousel reads the
// top-level username while the studio page reads host.
type StudioItemDTO struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Type     string  `json:"type"`
	Image    string  `json:"image"`
	Username string  `json:"username"`
	Host     HostDTO `json:"host"`
}

type FeaturedResponse struct {
	FeaturedProjects    []FeedItemDTO   `json:"community_featured_projects"`
	FeaturedStudios     []StudioItemDTO `json:"community_featured_studios"`
	MostLovedProjects   []FeedItemDTO   `json:"community_most_loved_projects"`
	MostRemixedProjects []FeedItemDTO   `json:"community_most_remixed_projects"`
	NewestProjects      []FeedItemDTO   `json:"community_newest_projects"`
}

func (s *Server) buildFeedItems(rows []services.FeedRow, resolve bool) []FeedItemDTO {
	items := make([]FeedItemDTO, 0, len(rows))
	for _, row := range rows {
		thumb := ""
		if row.Image != nil {
			thumb = *row.Image
		}
		if resolve {
			thumb = s.Assets.ProjectThumbnailURL(row.ID, thumb)
		}
		items = append(items, FeedItemDTO{
			ID:           row.ID,
			Title:        row.Title,
			ThumbnailURL: thumb,
			Username:     orUnknown(row.Username),
			Type:         "project",
		})
	}
	return items
}

func (s *Server) buildStudioItems(rows []services.StudioFeedRow) []StudioItemDTO {
	items := make([]StudioItemDTO, 0, len(rows))
	for _, row := range rows {
		username := orUnknown(row.Username)
		items = append(items, StudioItemDTO{
			ID:       row.ID,
			Title:    row.Title,
			Type:     "gallery",
			Image:    s.Assets.StudioThumbnailURL(row.ID),
			Username: username,
			Host: HostDTO{
				ID:       row.OwnerID,
				Username: username,
			},
		})
	}
	return items
}

func (s *Server) buildFeaturedResponse(content services.FeaturedContent) FeaturedResponse {
	mostLoved := s.buildFeedItems(content.MostLoved, false)
	// The featured carousel is the head of the most-loved slice rather than
	// an editorial selection.
	featured := mostLoved
	if len(featured) > 2 {
		featured = featured[:2]
	}
	return FeaturedResponse{
		FeaturedProjects:    featured,
		FeaturedStudios:     s.buildStudioItems(content.Studios),
		MostLovedProjects:   mostLoved,
		MostRemixedProjects: s.buildFeedItems(content.MostRemixed, false),
		NewestProjects:      s.buildFeedItems(content.Newest, false),
	}
}
