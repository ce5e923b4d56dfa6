package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	clientdomain "github.com/protodeck/protodeck-backend/internal/clients/domain"
	"github.com/protodeck/protodeck-backend/internal/logging"
	"github.com/protodeck/protodeck-backend/internal/metrics"
)

const (
	SyncClientsSpec     = "0 0 0 * * *"  // 12:00 AM
	PurgeTrashSpec      = "0 30 0 * * *" // 12:30 AM
	PurgeShareLinksSpec = "0 0 * * * *"  // hourly

	runTimeout = 5 * time.Minute
)

type ClientSyncer interface {
	Sync(ctx context.Context) (*clientdomain.SyncResult, error)
}

type TrashPurger interface {
	PurgeTrash(ctx context.Context, retentionDays int) (int64, error)
}

type ShareLinkPurger interface {
	PurgeExpired(ctx context.Context, graceDays int) (int64, error)
}

type Deps struct {
	Clients            ClientSyncer
	Projects           TrashPurger
	ShareLinks         ShareLinkPurger
	TrashRetentionDays int
	ShareLinkGraceDays int
}

// Scheduler runs the housekeeping jobs on a seconds-resolution cron.
type Scheduler struct {
	cron *cron.Cron
	deps Deps
}

func NewScheduler(deps Deps) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		deps: deps,
	}

	jobs := []struct {
		spec string
		name string
		run  func(context.Context) error
	}{
		{SyncClientsSpec, "sync_clients", s.SyncClients},
		{PurgeTrashSpec, "purge_trash", s.PurgeTrash},
		{PurgeShareLinksSpec, "purge_share_links", s.PurgeShareLinks},
	}
	for _, j := range jobs {
		j := j
		if _, err := s.cron.AddFunc(j.spec, func() { s.execute(j.name, j.run) }); err != nil {
			return nil, fmt.Errorf("failed to schedule %s: %w", j.name, err)
		}
	}
	return s, nil
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logging.L().Sugar().Infow("cron scheduler started", "jobs", s.Entries())
}

// Stop halts the scheduler and waits for running jobs or ctx, whichever
// comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) execute(name string, run func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	ctx = logging.WithRequestID(ctx, "job:"+name)

	started := time.Now()
	err := run(ctx)
	metrics.JobRunsTotal.WithLabelValues(name, metrics.Outcome(err)).Inc()

	log := logging.FromContext(ctx)
	if err != nil {
		log.Error("jobs."+name, err)
		return
	}
	log.Infof("jobs."+name, "completed in %s", time.Since(started).Round(time.Millisecond))
}

func (s *Scheduler) SyncClients(ctx context.Context) error {
	res, err := s.deps.Clients.Sync(ctx)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Infof("jobs.sync_clients", "synced %d client labels", res.Synced)
	return nil
}

func (s *Scheduler) PurgeTrash(ctx context.Context) error {
	if s.deps.TrashRetentionDays <= 0 {
		return nil
	}
	n, err := s.deps.Projects.PurgeTrash(ctx, s.deps.TrashRetentionDays)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Infof("jobs.purge_trash", "removed %d projects", n)
	return nil
}

func (s *Scheduler) PurgeShareLinks(ctx context.Context) error {
	n, err := s.deps.ShareLinks.PurgeExpired(ctx, s.deps.ShareLinkGraceDays)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Infof("jobs.purge_share_links", "removed %d expired links", n)
	return nil
}
