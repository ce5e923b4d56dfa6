package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/protodeck/protodeck-backend/config"
	httpapi "github.com/protodeck/protodeck-backend/internal/api/http"
	"github.com/protodeck/protodeck-backend/internal/api/http/middleware"
	"github.com/protodeck/protodeck-backend/internal/api/http/routes"
	"github.com/protodeck/protodeck-backend/internal/metrics"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Config      *config.Config
	DB          httpapi.Pinger
	Services    *Services
	// Auth authenticates /api/v1 callers: the Firebase middleware in
	// production, middleware.DevUser when AUTH_DISABLED is set.
	Auth gin.HandlerFunc
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	// client labels are free text; route on the escaped path so %2F stays
	// inside a :label segment, then hand handlers the decoded value
	r.UseRawPath = true
	r.UnescapePathValues = true
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = dep.Config.Server.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-Id", "X-User-Id", "X-User-Email"}
	corsConfig.ExposeHeaders = []string{"X-Request-Id"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	svc := dep.Services
	routes.RegisterV1(r, routes.V1Deps{
		Auth:             dep.Auth,
		Users:            svc.Auth,
		Projects:         svc.Projects,
		Clients:          svc.Clients,
		ShareLinks:       svc.ShareLinks,
		Analytics:        svc.Analytics,
		Thumbnails:       svc.Thumbnails,
		TrackViewLimiter: middleware.NewIPRateLimiter(dep.Config.Analytics.TrackViewRateLimit, burstFor(dep.Config.Analytics.TrackViewRateLimit)),
	})

	return r
}

func burstFor(perSecond float64) int {
	b := int(perSecond * 2)
	if b < 1 {
		return 1
	}
	return b
}
