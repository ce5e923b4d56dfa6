package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/protodeck/protodeck-backend/internal/analytics/dedupe"
	"github.com/protodeck/protodeck-backend/internal/analytics/domain"
	"github.com/protodeck/protodeck-backend/internal/logging"
	"github.com/protodeck/protodeck-backend/internal/metrics"
)

// ViewStore is implemented by repository.ViewRepository.
type ViewStore interface {
	RecordView(ctx context.Context, v domain.View) error
	ActiveProjects(ctx context.Context, clientLabel string) ([]domain.ProjectRef, error)
	DailyCounts(ctx context.Context, since time.Time) ([]domain.DailyCount, error)
}

type AnalyticsService struct {
	store   ViewStore
	deduper dedupe.Deduper
	maxDays int
	now     func() time.Time
}

func NewAnalyticsService(store ViewStore, deduper dedupe.Deduper, maxDays int) *AnalyticsService {
	if deduper == nil {
		deduper = dedupe.Noop{}
	}
	return &AnalyticsService{
		store:   store,
		deduper: deduper,
		maxDays: maxDays,
		now:     time.Now,
	}
}

// TrackView records a view unless the same visitor saw the project within
// the dedupe window. The returned bool says whether the view was stored.
func (s *AnalyticsService) TrackView(ctx context.Context, v domain.View) (bool, error) {
	v.ProjectID = strings.TrimSpace(v.ProjectID)
	v.ProjectSlug = strings.TrimSpace(v.ProjectSlug)
	if v.ProjectID == "" || v.ProjectSlug == "" {
		return false, fmt.Errorf("%w: missing project_id or project_slug", domain.ErrInvalidInput)
	}

	first, err := s.deduper.FirstSeen(ctx, v.ProjectID, v.IPAddress)
	if err != nil {
		// a cache outage must not lose views
		logging.FromContext(ctx).Warnf("analytics.track_view", "dedupe unavailable: %v", err)
		first = true
	}
	if !first {
		metrics.ProjectViewsTotal.WithLabelValues("deduped").Inc()
		return false, nil
	}

	if err := s.store.RecordView(ctx, v); err != nil {
		// release the claim so a retry or a later view is not swallowed
		if ferr := s.deduper.Forget(ctx, v.ProjectID, v.IPAddress); ferr != nil {
			logging.FromContext(ctx).Warnf("analytics.track_view", "release dedupe claim: %v", ferr)
		}
		return false, err
	}
	metrics.ProjectViewsTotal.WithLabelValues("counted").Inc()
	return true, nil
}

// ClampDays applies the configured upper bound to a validated day count.
func (s *AnalyticsService) ClampDays(days int) int {
	if s.maxDays > 0 && days > s.maxDays {
		return s.maxDays
	}
	return days
}

// Report builds the per-project daily view series for the last days days.
func (s *AnalyticsService) Report(ctx context.Context, days int, clientLabel string) (*domain.Report, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be a positive integer", domain.ErrInvalidInput)
	}
	days = s.ClampDays(days)
	now := s.now()

	projects, err := s.store.ActiveProjects(ctx, strings.TrimSpace(clientLabel))
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	counts, err := s.store.DailyCounts(ctx, domain.WindowStart(now, days))
	if err != nil {
		return nil, fmt.Errorf("count views: %w", err)
	}

	report := domain.BuildReport(projects, counts, days, now)
	return &report, nil
}
