package routes

import (
	"github.com/gin-gonic/gin"

	analyticshttp "github.com/protodeck/protodeck-backend/internal/analytics/http"
	"github.com/protodeck/protodeck-backend/internal/api/http/middleware"
	"github.com/protodeck/protodeck-backend/internal/auth"
	authhttp "github.com/protodeck/protodeck-backend/internal/auth/http"
	clienthttp "github.com/protodeck/protodeck-backend/internal/clients/http"
	projecthttp "github.com/protodeck/protodeck-backend/internal/projects/http"
	sharehttp "github.com/protodeck/protodeck-backend/internal/sharing/http"
	thumbhttp "github.com/protodeck/protodeck-backend/internal/thumbnails/http"
)

// UserService is what the /me routes and WithUser need.
type UserService interface {
	authhttp.ProfileService
	auth.UserEnsurer
}

type V1Deps struct {
	Auth             gin.HandlerFunc
	Users            UserService
	Projects         projecthttp.ProjectService
	Clients          clienthttp.ClientService
	ShareLinks       sharehttp.ShareService
	Analytics        analyticshttp.AnalyticsService
	Thumbnails       thumbhttp.ThumbnailService
	TrackViewLimiter *middleware.IPRateLimiter
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")

	projectHandler := projecthttp.New(dep.Projects)
	shareHandler := sharehttp.New(dep.ShareLinks)
	analyticsHandler := analyticshttp.New(dep.Analytics)

	// Anonymous viewers: public prototype pages and client share links.
	projectHandler.RegisterPublic(api.Group("/public/projects"))
	shareHandler.RegisterPublic(api.Group("/share"))
	analyticsHandler.RegisterPublic(api, middleware.RateLimit(dep.TrackViewLimiter))

	protected := api.Group("")
	protected.Use(dep.Auth, auth.WithUser(dep.Users))

	authhttp.New(dep.Users).Register(protected)
	projectHandler.Register(protected.Group("/projects"))
	clienthttp.New(dep.Clients).Register(protected.Group("/clients"))
	shareHandler.Register(protected.Group("/share-links"))
	analyticsHandler.Register(protected)
	thumbhttp.New(dep.Thumbnails).Register(protected.Group("/figma"))
}
