package http

import (
	"context"

	"github.com/protodeck/protodeck-backend/internal/projects/domain"
)

// ProjectService is implemented by service.ProjectService.
type ProjectService interface {
	Create(ctx context.Context, in domain.CreateInput) (*domain.Project, error)
	List(ctx context.Context, clientLabel string) ([]domain.Project, error)
	ListDeleted(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Rename(ctx context.Context, id, name string) (*domain.RenameResult, error)
	SetClientLabel(ctx context.Context, id, label string) (*domain.Project, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*domain.Project, error)
	PermanentDelete(ctx context.Context, id string) (*domain.PermanentDeleteResult, error)
	PublicBySlug(ctx context.Context, slug string) (*domain.PublicProject, error)
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc ProjectService
}

func New(svc ProjectService) *Handler {
	return &Handler{svc: svc}
}

type createReq struct {
	Name        string `json:"name"`
	FigmaURL    string `json:"figma_url"`
	ClientLabel string `json:"client_label"`
}

type renameReq struct {
	Name string `json:"name"`
}

type labelReq struct {
	ClientLabel string `json:"client_label"`
}
