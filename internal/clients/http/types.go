package http

import (
	"context"

	"github.com/protodeck/protodeck-backend/internal/clients/domain"
)

// ClientService is implemented by service.ClientService.
type ClientService interface {
	ListLabels(ctx context.Context) ([]string, error)
	Rename(ctx context.Context, oldLabel, newLabel string) (*domain.RenameResult, error)
	GetDescription(ctx context.Context, label string) (*string, error)
	SetDescription(ctx context.Context, label string, description *string) (*domain.Client, error)
	SoftDeleteAll(ctx context.Context, label string) (int64, error)
	ListDeletedProjects(ctx context.Context, label string) ([]domain.DeletedProject, error)
	ListDeletedClients(ctx context.Context) ([]domain.DeletedClient, error)
	RestoreAll(ctx context.Context, label string) (int64, error)
	RestoreSelected(ctx context.Context, label string, ids []string) (int64, error)
	PermanentDeleteAll(ctx context.Context, label string) (int64, error)
	Sync(ctx context.Context) (*domain.SyncResult, error)
}

type Handler struct {
	svc ClientService
}

func New(svc ClientService) *Handler {
	return &Handler{svc: svc}
}

type renameReq struct {
	OldClientLabel string `json:"old_client_label"`
	NewClientLabel string `json:"new_client_label"`
}

type descriptionReq struct {
	Description *string `json:"description"`
}

type restoreSelectedReq struct {
	ProjectIDs []string `json:"project_ids"`
}
