package bootstrap

import (
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/protodeck/protodeck-backend/config"
	"github.com/protodeck/protodeck-backend/internal/analytics/dedupe"
	analyticsrepo "github.com/protodeck/protodeck-backend/internal/analytics/repository"
	analyticsservice "github.com/protodeck/protodeck-backend/internal/analytics/service"
	authrepo "github.com/protodeck/protodeck-backend/internal/auth/repository"
	authservice "github.com/protodeck/protodeck-backend/internal/auth/service"
	clientrepo "github.com/protodeck/protodeck-backend/internal/clients/repository"
	clientservice "github.com/protodeck/protodeck-backend/internal/clients/service"
	"github.com/protodeck/protodeck-backend/internal/figma"
	"github.com/protodeck/protodeck-backend/internal/jobs"
	projectrepo "github.com/protodeck/protodeck-backend/internal/projects/repository"
	projectservice "github.com/protodeck/protodeck-backend/internal/projects/service"
	sharerepo "github.com/protodeck/protodeck-backend/internal/sharing/repository"
	shareservice "github.com/protodeck/protodeck-backend/internal/sharing/service"
	"github.com/protodeck/protodeck-backend/internal/thumbnails"
)

// Services is the wired service layer shared by the API server and the worker.
type Services struct {
	Auth       *authservice.AuthService
	Projects   *projectservice.ProjectService
	Clients    *clientservice.ClientService
	ShareLinks *shareservice.ShareService
	Analytics  *analyticsservice.AnalyticsService
	Thumbnails *thumbnails.Service
}

// BuildServices wires repositories into services. rdb may be nil, in which
// case view de-duplication and the thumbnail cache are off.
func BuildServices(db *sql.DB, rdb *redis.Client, cfg *config.Config) *Services {
	var (
		deduper dedupe.Deduper   = dedupe.Noop{}
		cache   thumbnails.Cache = thumbnails.NoopCache{}
	)
	if rdb != nil {
		deduper = dedupe.NewRedisDeduper(rdb, cfg.Analytics.ViewDedupeWindow)
		cache = thumbnails.NewRedisCache(rdb, cfg.Figma.ThumbnailTTL)
	}

	projects := projectservice.NewProjectService(projectrepo.NewProjectRepository(db), cfg.Figma.EmbedHost)

	return &Services{
		Auth:       authservice.NewAuthService(authrepo.NewUserRepository(db)),
		Projects:   projects,
		Clients:    clientservice.NewClientService(clientrepo.NewClientRepository(db)),
		ShareLinks: shareservice.NewShareService(sharerepo.NewShareLinkRepository(db), projects, cfg.Server.PublicBaseURL),
		Analytics:  analyticsservice.NewAnalyticsService(analyticsrepo.NewViewRepository(db), deduper, cfg.Analytics.MaxDays),
		Thumbnails: thumbnails.NewService(figma.NewClient(cfg.Figma), cache),
	}
}

// JobDeps adapts the services to the scheduler.
func (s *Services) JobDeps(cfg config.JobsConfig) jobs.Deps {
	return jobs.Deps{
		Clients:            s.Clients,
		Projects:           s.Projects,
		ShareLinks:         s.ShareLinks,
		TrashRetentionDays: cfg.TrashRetentionDays,
		ShareLinkGraceDays: cfg.ShareLinkGraceDays,
	}
}
