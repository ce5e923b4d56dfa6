package http

import (
	"context"

	"github.com/protodeck/protodeck-backend/internal/analytics/domain"
)

// AnalyticsService is implemented by service.AnalyticsService.
type AnalyticsService interface {
	TrackView(ctx context.Context, v domain.View) (bool, error)
	Report(ctx context.Context, days int, clientLabel string) (*domain.Report, error)
}

type Handler struct {
	svc AnalyticsService
}

func New(svc AnalyticsService) *Handler {
	return &Handler{svc: svc}
}

type trackViewReq struct {
	ProjectID   string `json:"project_id"`
	ProjectSlug string `json:"project_slug"`
}
