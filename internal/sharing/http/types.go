package http

import (
	"context"

	projectdomain "github.com/protodeck/protodeck-backend/internal/projects/domain"
	"github.com/protodeck/protodeck-backend/internal/sharing/domain"
)

// ShareService is implemented by service.ShareService.
type ShareService interface {
	Create(ctx context.Context, in domain.CreateInput) (*domain.ShareLink, error)
	List(ctx context.Context, label, baseURL string) ([]domain.ShareLink, error)
	Revoke(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (*domain.ShareLink, error)
	SharedProjects(ctx context.Context, token string) (*domain.ShareLink, []projectdomain.PublicProject, error)
}

type Handler struct {
	svc ShareService
}

func New(svc ShareService) *Handler {
	return &Handler{svc: svc}
}

type createReq struct {
	ClientLabel   string `json:"client_label"`
	ExpiresInDays int    `json:"expires_in_days"`
}

func toResolution(l *domain.ShareLink) domain.Resolution {
	return domain.Resolution{
		ClientLabel: l.ClientLabel,
		ExpiresAt:   l.ExpiresAt,
		CreatedAt:   l.CreatedAt,
	}
}
