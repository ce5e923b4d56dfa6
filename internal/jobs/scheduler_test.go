package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	clientdomain "github.com/protodeck/protodeck-backend/internal/clients/domain"
	"github.com/protodeck/protodeck-backend/internal/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClients struct {
	calls int
	err   error
}

func (f *fakeClients) Sync(context.Context) (*clientdomain.SyncResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &clientdomain.SyncResult{Synced: 2, Clients: []string{"Acme", "Globex"}}, nil
}

type fakeProjects struct {
	retention int
	calls     int
}

func (f *fakeProjects) PurgeTrash(_ context.Context, days int) (int64, error) {
	f.calls++
	f.retention = days
	return 3, nil
}

type fakeLinks struct {
	grace int
}

func (f *fakeLinks) PurgeExpired(_ context.Context, grace int) (int64, error) {
	f.grace = grace
	return 1, nil
}

func newTestScheduler(t *testing.T, deps Deps) *Scheduler {
	t.Helper()
	s, err := NewScheduler(deps)
	require.NoError(t, err)
	return s
}

func TestScheduler_RegistersJobs(t *testing.T) {
	s := newTestScheduler(t, Deps{Clients: &fakeClients{}, Projects: &fakeProjects{}, ShareLinks: &fakeLinks{}})
	assert.Equal(t, 3, s.Entries())

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestScheduler_PurgeTrashDisabled(t *testing.T) {
	projects := &fakeProjects{}
	s := newTestScheduler(t, Deps{Projects: projects})

	require.NoError(t, s.PurgeTrash(context.Background()))
	assert.Zero(t, projects.calls)

	s.deps.TrashRetentionDays = 30
	require.NoError(t, s.PurgeTrash(context.Background()))
	assert.Equal(t, 1, projects.calls)
	assert.Equal(t, 30, projects.retention)
}

func TestScheduler_PurgeShareLinks(t *testing.T) {
	links := &fakeLinks{}
	s := newTestScheduler(t, Deps{ShareLinks: links, ShareLinkGraceDays: 14})

	require.NoError(t, s.PurgeShareLinks(context.Background()))
	assert.Equal(t, 14, links.grace)
}

func TestScheduler_ExecuteCountsOutcome(t *testing.T) {
	clients := &fakeClients{}
	s := newTestScheduler(t, Deps{Clients: clients})

	okBefore := testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues("sync_clients", "ok"))
	s.execute("sync_clients", s.SyncClients)
	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues("sync_clients", "ok")))

	clients.err = errors.New("db down")
	errBefore := testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues("sync_clients", "error"))
	s.execute("sync_clients", s.SyncClients)
	assert.Equal(t, errBefore+1, testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues("sync_clients", "error")))
	assert.Equal(t, 2, clients.calls)
}
