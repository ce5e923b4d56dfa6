package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/protodeck/protodeck-backend/internal/figma"
	"github.com/protodeck/protodeck-backend/internal/projects/domain"
)

// ProjectStore is implemented by repository.ProjectRepository.
type ProjectStore interface {
	Create(ctx context.Context, in domain.CreateInput) (*domain.Project, error)
	List(ctx context.Context, clientLabel string) ([]domain.Project, error)
	ListDeleted(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	GetActiveBySlug(ctx context.Context, slug string) (*domain.Project, error)
	Rename(ctx context.Context, id, name, slug string) (*domain.RenameResult, error)
	SetClientLabel(ctx context.Context, id, label string) (*domain.Project, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*domain.Project, error)
	PermanentDelete(ctx context.Context, id string) (*domain.PermanentDeleteResult, error)
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ProjectService handles project business logic
type ProjectService struct {
	store     ProjectStore
	embedHost string
	now       func() time.Time
}

// NewProjectService creates a new project service
func NewProjectService(store ProjectStore, embedHost string) *ProjectService {
	return &ProjectService{
		store:     store,
		embedHost: embedHost,
		now:       time.Now,
	}
}

// validID rejects ids postgres would fail to cast to uuid.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Create validates input, normalizes the client label and stores the project.
func (s *ProjectService) Create(ctx context.Context, in domain.CreateInput) (*domain.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.FigmaURL = strings.TrimSpace(in.FigmaURL)
	if in.Name == "" || in.FigmaURL == "" {
		return nil, domain.ErrMissingFields
	}
	in.ClientLabel = domain.NormalizeClientLabel(in.ClientLabel)
	return s.store.Create(ctx, in)
}

// List returns active projects, optionally for one client.
func (s *ProjectService) List(ctx context.Context, clientLabel string) ([]domain.Project, error) {
	return s.store.List(ctx, strings.TrimSpace(clientLabel))
}

func (s *ProjectService) ListDeleted(ctx context.Context) ([]domain.Project, error) {
	return s.store.ListDeleted(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return s.store.Get(ctx, id)
}

// Rename re-derives the slug from the new name.
func (s *ProjectService) Rename(ctx context.Context, id, name string) (*domain.RenameResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrMissingFields
	}
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return s.store.Rename(ctx, id, name, domain.Slugify(name))
}

func (s *ProjectService) SetClientLabel(ctx context.Context, id, label string) (*domain.Project, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return s.store.SetClientLabel(ctx, id, domain.NormalizeClientLabel(label))
}

func (s *ProjectService) SoftDelete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	return s.store.SoftDelete(ctx, id)
}

func (s *ProjectService) Restore(ctx context.Context, id string) (*domain.Project, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return s.store.Restore(ctx, id)
}

func (s *ProjectService) PermanentDelete(ctx context.Context, id string) (*domain.PermanentDeleteResult, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return s.store.PermanentDelete(ctx, id)
}

// PublicBySlug resolves the anonymous project page, including the iframe URL.
func (s *ProjectService) PublicBySlug(ctx context.Context, slug string) (*domain.PublicProject, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domain.ErrNotFound
	}
	p, err := s.store.GetActiveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.ToPublic(p), nil
}

// ToPublic strips internal fields and attaches the embed URL.
func (s *ProjectService) ToPublic(p *domain.Project) *domain.PublicProject {
	return &domain.PublicProject{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		FigmaURL:    p.FigmaURL,
		EmbedURL:    figma.EmbedURL(p.FigmaURL, s.embedHost),
		ClientLabel: p.ClientLabel,
		CreatedAt:   p.CreatedAt,
	}
}

// ListPublic returns the active projects of a client as anonymous viewers see
// them.
func (s *ProjectService) ListPublic(ctx context.Context, clientLabel string) ([]domain.PublicProject, error) {
	items, err := s.store.List(ctx, clientLabel)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PublicProject, 0, len(items))
	for i := range items {
		out = append(out, *s.ToPublic(&items[i]))
	}
	return out, nil
}

// PurgeTrash hard-deletes projects that sat in the trash longer than
// retentionDays. A non-positive retention keeps the trash forever.
func (s *ProjectService) PurgeTrash(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	return s.store.PurgeDeletedBefore(ctx, s.now().AddDate(0, 0, -retentionDays))
}
