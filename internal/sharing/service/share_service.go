package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/protodeck/protodeck-backend/internal/metrics"
	projectdomain "github.com/protodeck/protodeck-backend/internal/projects/domain"
	"github.com/protodeck/protodeck-backend/internal/sharing/domain"
)

// LinkStore is implemented by repository.ShareLinkRepository.
type LinkStore interface {
	Create(ctx context.Context, label string, expiresAt *time.Time, createdBy string) (*domain.ShareLink, error)
	ListByClient(ctx context.Context, label string) ([]domain.ShareLink, error)
	GetByToken(ctx context.Context, token string) (*domain.ShareLink, error)
	Delete(ctx context.Context, token string) error
	PurgeExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ProjectLister is implemented by the projects service.
type ProjectLister interface {
	ListPublic(ctx context.Context, clientLabel string) ([]projectdomain.PublicProject, error)
}

type ShareService struct {
	links    LinkStore
	projects ProjectLister
	baseURL  string
	now      func() time.Time
}

// NewShareService builds the service. baseURL prefixes the URLs of newly
// created links.
func NewShareService(links LinkStore, projects ProjectLister, baseURL string) *ShareService {
	return &ShareService{
		links:    links,
		projects: projects,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

// ShareURL joins a base URL and a token into the public page URL.
func ShareURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/share/" + token
}

// Create issues a link. A positive ExpiresInDays sets the expiry that many
// days from now; zero or less never expires.
func (s *ShareService) Create(ctx context.Context, in domain.CreateInput) (*domain.ShareLink, error) {
	label := strings.TrimSpace(in.ClientLabel)
	if label == "" {
		return nil, domain.ErrMissingLabel
	}
	if in.ExpiresInDays > domain.MaxExpiryDays {
		return nil, fmt.Errorf("%w: at most %d days", domain.ErrInvalidExpiry, domain.MaxExpiryDays)
	}

	var expiresAt *time.Time
	if in.ExpiresInDays > 0 {
		t := s.now().AddDate(0, 0, in.ExpiresInDays)
		expiresAt = &t
	}

	l, err := s.links.Create(ctx, label, expiresAt, in.CreatedBy)
	if err != nil {
		return nil, err
	}
	l.URL = ShareURL(s.baseURL, l.Token)
	return l, nil
}

// List returns a client's links with URLs rooted at baseURL.
func (s *ShareService) List(ctx context.Context, label, baseURL string) ([]domain.ShareLink, error) {
	if strings.TrimSpace(label) == "" {
		return nil, domain.ErrMissingLabel
	}
	links, err := s.links.ListByClient(ctx, label)
	if err != nil {
		return nil, err
	}
	for i := range links {
		links[i].URL = ShareURL(baseURL, links[i].Token)
	}
	return links, nil
}

func (s *ShareService) Revoke(ctx context.Context, token string) error {
	return s.links.Delete(ctx, token)
}

// Resolve validates a token for public access.
func (s *ShareService) Resolve(ctx context.Context, token string) (*domain.ShareLink, error) {
	l, err := s.links.GetByToken(ctx, token)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		metrics.ShareLinkResolutionsTotal.WithLabelValues("not_found").Inc()
		return nil, err
	case err != nil:
		return nil, err
	case l.Expired(s.now()):
		metrics.ShareLinkResolutionsTotal.WithLabelValues("expired").Inc()
		return nil, domain.ErrExpired
	}
	metrics.ShareLinkResolutionsTotal.WithLabelValues("ok").Inc()
	return l, nil
}

// SharedProjects resolves the link and lists the projects it exposes.
func (s *ShareService) SharedProjects(ctx context.Context, token string) (*domain.ShareLink, []projectdomain.PublicProject, error) {
	l, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.projects.ListPublic(ctx, l.ClientLabel)
	if err != nil {
		return nil, nil, err
	}
	return l, items, nil
}

// PurgeExpired deletes links that expired more than graceDays ago.
func (s *ShareService) PurgeExpired(ctx context.Context, graceDays int) (int64, error) {
	if graceDays < 0 {
		graceDays = 0
	}
	return s.links.PurgeExpiredBefore(ctx, s.now().AddDate(0, 0, -graceDays))
}
