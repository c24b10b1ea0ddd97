package httpapi

import (
	"time"

	"remixlab-backend-go/internal/services"
)

type ProfileImagesDTO struct {
	Size90 string `json:"90x90"`
}

type CuratorProfileDTO struct {
	Images ProfileImagesDTO `json:"images"`
}

type CuratorDTO struct {
	ID       int64             `json:"id"`
	Username string            `json:"username"`
	Profile  CuratorProfileDTO `json:"profile"`
}

type StudioStatsDTO struct {
	Projects  int64 `json:"projects"`
	Followers int64 `json:"followers"`
}

type StudioHistoryDTO struct {
	Created time.Time `json:"created"`
}

type StudioDetailDTO struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Image        string           `json:"image"`
	Host         HostDTO          `json:"host"`
	Curators     []CuratorDTO     `json:"curators"`
	Stats        StudioStatsDTO   `json:"stats"`
	History      StudioHistoryDTO `json:"history"`
	ThumbnailURL string           `json:"thumbnail_url"`
}

func (s *Server) buildCuratorDTOs(members []services.RoleMember) []CuratorDTO {
	curators := make([]CuratorDTO, 0, len(members))
	for _, member := range members {
		curators = append(curators, CuratorDTO{
			ID:       member.ID,
			Username: member.Username,
			Profile: CuratorProfileDTO{
				Images: ProfileImagesDTO{
					Size90: s.Assets.UserAvatarURL(member.ID, nil),
				},
			},
		})
	}
	return curators
}

func (s *Server) buildStudioDetailDTO(detail *services.StudioDetail) StudioDetailDTO {
	thumb := s.Assets.StudioThumbnailURL(detail.Studio.ID)
	return StudioDetailDTO{
		ID:          detail.Studio.ID,
		Title:       detail.Studio.Title,
		Description: detail.Studio.Description,
		Image:       thumb,
		Host: HostDTO{
			ID:       detail.Studio.OwnerID,
			Username: detail.OwnerUsername,
		},
		Curators: s.buildCuratorDTOs(detail.Curators),
		Stats: StudioStatsDTO{
			Projects:  detail.ProjectCount,
			Followers: detail.FollowerCount,
		},
		History:      StudioHistoryDTO{Created: detail.Studio.CreatedAt},
		ThumbnailURL: thumb,
	}
}
