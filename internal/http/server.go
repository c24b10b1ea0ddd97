package httpapi

import (
	"net/http"
	"path/filepath"
	"time"

	"remixlab-backend-go/internal/config"
	"remixlab-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	DB         *sqlx.DB
	Config     config.Config
	Tokens     services.TokenService
	Assets     services.AssetResolver
	MetricsHub *services.MetricsHub
}

func NewServer(db *sqlx.DB, cfg config.Config, hub *services.MetricsHub) *Server {
	tokens := services.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  time.Duration(cfg.AccessTTLSeconds) * time.Second,
		RefreshTTL: time.Duration(cfg.RefreshTTLSeconds) * time.Second,
	}
	return &Server{
		DB:         db,
		Config:     cfg,
		Tokens:     tokens,
		Assets:     services.NewAssetResolver(cfg.UploadsPath, cfg.PublicBaseURL),
		MetricsHub: hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/", s.RootInfo)
	r.Get("/csrf_token/", s.CsrfToken)
	r.Get("/news", s.News)

	r.Route("/accounts", func(accounts chi.Router) {
		accounts.Post("/login/", s.Login)
		accounts.Post("/register/", s.Register)
		accounts.Get("/checkusername/{username}", s.CheckUsername)
		accounts.Post("/checkpassword", s.CheckPassword)
	})

	r.Route("/users/{username}", func(users chi.Router) {
		users.Get("/", s.UserProfile)
		users.Get("/projects", s.UserProjects)
		users.Get("/projects/{projectId}", s.UserProject)
		users.Get("/projects/{projectId}/visibility", s.ProjectVisibility)
		users.Get("/favorites", s.UserFavorites)
		users.Get("/following/studios", s.FollowingStudios)
		users.Get("/following/studios/projects", s.FollowingStudioProjects)
		users.Get("/following/users/projects", s.FollowingUserProjects)
		users.Get("/following/users/loves", s.FollowingUserLoves)
		users.Get("/following/users/activity", s.FollowingUserActivity)
		users.Get("/activity", s.UserActivity)
		users.Get("/activity/count", s.UserActivityCount)
		users.Get("/messages/count", s.MessagesCount)
		users.With(WithAuth(s.Tokens)).Post("/followers", s.FollowUser)
		users.With(WithAuth(s.Tokens)).Delete("/followers", s.UnfollowUser)
	})

	r.Route("/projects", func(projects chi.Router) {
		projects.Post("/", s.CreateProject)
		projects.Get("/count/all", s.CountProjects)
		projects.Get("/{projectId}", s.ProjectDetail)
		projects.Patch("/{projectId}", s.PatchProject)
		projects.Get("/{projectId}/remixes", s.ProjectRemixes)
		projects.With(WithAuth(s.Tokens)).Post("/{projectId}/remixes", s.RemixProject)
		projects.With(WithAuth(s.Tokens)).Post("/{projectId}/loves", s.LoveProject)
		projects.With(WithAuth(s.Tokens)).Delete("/{projectId}/loves", s.UnloveProject)
		projects.With(WithAuth(s.Tokens)).Post("/{projectId}/favorites", s.FavoriteProject)
	})

	r.Get("/search/projects", s.SearchProjects)

	r.Route("/studios", func(studios chi.Router) {
		studios.With(WithAuth(s.Tokens)).Post("/", s.CreateStudio)
		studios.Get("/{studioId}", s.StudioDetail)
		studios.Get("/{studioId}/projects", s.StudioProjects)
		studios.Post("/{studioId}/projects", s.AddStudioProject)
		studios.Delete("/{studioId}/projects/{projectId}", s.RemoveStudioProject)
		studios.Get("/{studioId}/curators", s.StudioCurators)
		studios.Post("/{studioId}/curators", s.AddStudioCurator)
		studios.Delete("/{studioId}/curators/{userId}", s.RemoveStudioCurator)
		studios.Get("/{studioId}/managers", s.StudioManagers)
		studios.Post("/{studioId}/managers", s.AddStudioManager)
		studios.Delete("/{studioId}/managers/{userId}", s.RemoveStudioManager)
		studios.With(WithAuth(s.Tokens)).Post("/{studioId}/followers", s.FollowStudio)
		studios.With(WithAuth(s.Tokens)).Delete("/{studioId}/followers", s.UnfollowStudio)
	})

	r.Route("/proxy", func(proxy chi.Router) {
		proxy.Get("/featured", s.Featured)
		proxy.Get("/users/{userId}/featured", s.UserFeatured)
		proxy.Get("/comments/studio/{studioId}", s.StudioComments)
		proxy.With(WithAuth(s.Tokens)).Post("/comments/studio/{studioId}", s.PostStudioComment)
		proxy.Get("/news", s.News)
	})

	r.Get("/get_image/user/{filename}", s.UserImage)
	r.Get("/internalapi/asset/{md5ext}/get/", s.ContentAsset)
	r.Get("/internalapi/project/{projectId}/get/", s.ProjectFile)

	s.mountStatic(r, "/uploads/avatars", "avatars")
	s.mountStatic(r, "/uploads/thumbnails", "thumbnails")
	s.mountStatic(r, "/uploads/studios/thumbnails", filepath.Join("studios", "thumbnails"))

	r.With(WithAuth(s.Tokens)).Get("/admin/metrics/history", s.MetricsHistory)
	r.Get("/ws/metrics", s.MetricsSocket)

	return r
}

func (s *Server) mountStatic(r chi.Router, prefix, dir string) {
	root := http.Dir(filepath.Join(s.Config.UploadsPath, dir))
	r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(root)))
}
