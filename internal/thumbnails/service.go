package thumbnails

import (
	"context"
	"strings"

	"github.com/protodeck/protodeck-backend/internal/figma"
	"github.com/protodeck/protodeck-backend/internal/logging"
	"github.com/protodeck/protodeck-backend/internal/metrics"
)

// Fetcher is implemented by figma.Client.
type Fetcher interface {
	Thumbnail(ctx context.Context, figmaURL string) (*figma.Thumbnail, error)
}

type Service struct {
	fetcher Fetcher
	cache   Cache
}

func NewService(fetcher Fetcher, cache Cache) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{fetcher: fetcher, cache: cache}
}

// Thumbnail returns the preview for figmaURL, consulting the cache first.
// Cache failures are logged and treated as misses.
func (s *Service) Thumbnail(ctx context.Context, figmaURL string) (*figma.Thumbnail, error) {
	figmaURL = strings.TrimSpace(figmaURL)
	fileID := figma.ExtractFileID(figmaURL)
	if fileID == "" {
		return nil, figma.ErrInvalidURL
	}

	log := logging.FromContext(ctx)
	if cached, err := s.cache.Get(ctx, fileID); err != nil {
		log.Warnf("thumbnails.get", "cache read failed for %s: %v", fileID, err)
	} else if cached != nil {
		metrics.FigmaRequestsTotal.WithLabelValues("cache_hit").Inc()
		return cached, nil
	}

	t, err := s.fetcher.Thumbnail(ctx, figmaURL)
	if err != nil {
		metrics.FigmaRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.FigmaRequestsTotal.WithLabelValues("ok").Inc()

	if err := s.cache.Set(ctx, t); err != nil {
		log.Warnf("thumbnails.get", "cache write failed for %s: %v", fileID, err)
	}
	return t, nil
}
