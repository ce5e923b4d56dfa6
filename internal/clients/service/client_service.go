package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/protodeck/protodeck-backend/internal/clients/domain"
	projectdomain "github.com/protodeck/protodeck-backend/internal/projects/domain"
)

// ClientStore is implemented by repository.ClientRepository.
type ClientStore interface {
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
	Sync(ctx context.Context) ([]string, error)
}

type ClientService struct {
	store ClientStore
}

func NewClientService(store ClientStore) *ClientService {
	return &ClientService{store: store}
}

func (s *ClientService) ListLabels(ctx context.Context) ([]string, error) {
	return s.store.ListLabels(ctx)
}

// Rename relabels a client everywhere. The old label is matched verbatim,
// the new one is trimmed.
func (s *ClientService) Rename(ctx context.Context, oldLabel, newLabel string) (*domain.RenameResult, error) {
	newLabel = strings.TrimSpace(newLabel)
	if oldLabel == "" || newLabel == "" {
		return nil, fmt.Errorf("%w: both old and new client names are required", domain.ErrInvalidInput)
	}
	return s.store.Rename(ctx, oldLabel, newLabel)
}

func (s *ClientService) GetDescription(ctx context.Context, label string) (*string, error) {
	return s.store.GetDescription(ctx, label)
}

// SetDescription stores a trimmed description; blank clears it.
func (s *ClientService) SetDescription(ctx context.Context, label string, description *string) (*domain.Client, error) {
	if strings.TrimSpace(label) == "" {
		return nil, fmt.Errorf("%w: client label is required", domain.ErrInvalidInput)
	}
	if label == projectdomain.DefaultClientLabel {
		return nil, domain.ErrDefaultClient
	}
	if description != nil {
		d := strings.TrimSpace(*description)
		if d == "" {
			description = nil
		} else {
			description = &d
		}
	}
	return s.store.SetDescription(ctx, label, description)
}

func (s *ClientService) SoftDeleteAll(ctx context.Context, label string) (int64, error) {
	return s.store.SoftDeleteAll(ctx, label)
}

func (s *ClientService) ListDeletedProjects(ctx context.Context, label string) ([]domain.DeletedProject, error) {
	return s.store.ListDeletedProjects(ctx, label)
}

func (s *ClientService) ListDeletedClients(ctx context.Context) ([]domain.DeletedClient, error) {
	return s.store.ListDeletedClients(ctx)
}

func (s *ClientService) RestoreAll(ctx context.Context, label string) (int64, error) {
	return s.store.RestoreAll(ctx, label)
}

// RestoreSelected requires at least one id.
func (s *ClientService) RestoreSelected(ctx context.Context, label string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: invalid project IDs", domain.ErrInvalidInput)
	}
	return s.store.RestoreSelected(ctx, label, ids)
}

func (s *ClientService) PermanentDeleteAll(ctx context.Context, label string) (int64, error) {
	return s.store.PermanentDeleteAll(ctx, label)
}

// Sync backfills the clients table from project labels.
func (s *ClientService) Sync(ctx context.Context) (*domain.SyncResult, error) {
	labels, err := s.store.Sync(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync clients: %w", err)
	}
	return &domain.SyncResult{Synced: len(labels), Clients: labels}, nil
}
