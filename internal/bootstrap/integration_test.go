package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyticsdomain "github.com/protodeck/protodeck-backend/internal/analytics/domain"
	"github.com/protodeck/protodeck-backend/internal/importer"
	projectdomain "github.com/protodeck/protodeck-backend/internal/projects/domain"
	sharedomain "github.com/protodeck/protodeck-backend/internal/sharing/domain"
	"github.com/protodeck/protodeck-backend/internal/storage/postgres"
)

// testDSN reads TEST_DB_DSN, or builds one from TEST_DB_HOST, TEST_DB_PORT,
// TEST_DB_USER, TEST_DB_PASSWORD and TEST_DB_NAME. Skips when neither is set.
func testDSN(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("TEST_DB_DSN"); dsn != "" {
		return dsn
	}
	host, port, user, name := os.Getenv("TEST_DB_HOST"), os.Getenv("TEST_DB_PORT"), os.Getenv("TEST_DB_USER"), os.Getenv("TEST_DB_NAME")
	if host == "" || port == "" || user == "" || name == "" {
		t.Skip("TEST_DB_DSN or TEST_DB_* environment variables not set, skipping PostgreSQL integration test")
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, os.Getenv("TEST_DB_PASSWORD"), name)
}

func setupTestPostgres(t *testing.T) (*sql.DB, string) {
	t.Helper()
	dsn := testDSN(t)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, db.PingContext(ctx), "failed to connect to test database")
	require.NoError(t, postgres.Migrate(ctx, db))

	_, err = db.ExecContext(ctx, `TRUNCATE projects, clients, share_links, users CASCADE`)
	require.NoError(t, err)
	return db, dsn
}

func TestIntegration_PrototypeLifecycle(t *testing.T) {
	db, dsn := setupTestPostgres(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cfg := testConfig()
	cfg.Analytics.ViewDedupeWindow = 30 * time.Minute
	svc := BuildServices(db, rdb, cfg)
	ctx := context.Background()

	first, err := svc.Projects.Create(ctx, projectdomain.CreateInput{Name: "Checkout Flow", FigmaURL: "https://www.figma.com/proto/abc/Checkout", ClientLabel: "Acme", CreatedBy: "uid-1"})
	require.NoError(t, err)
	second, err := svc.Projects.Create(ctx, projectdomain.CreateInput{Name: "checkout flow", FigmaURL: "https://www.figma.com/file/def/Checkout", ClientLabel: "Acme", CreatedBy: "uid-1"})
	require.NoError(t, err)
	assert.Equal(t, "checkout-flow", first.Slug)
	assert.Equal(t, "checkout-flow-1", second.Slug)

	labels, err := svc.Clients.ListLabels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme"}, labels)

	link, err := svc.ShareLinks.Create(ctx, sharedomain.CreateInput{ClientLabel: "Acme", ExpiresInDays: 7, CreatedBy: "uid-1"})
	require.NoError(t, err)
	_, shared, err := svc.ShareLinks.SharedProjects(ctx, link.Token)
	require.NoError(t, err)
	assert.Len(t, shared, 2)

	view := analyticsdomain.View{ProjectID: second.ID, ProjectSlug: second.Slug, IPAddress: "203.0.113.7"}
	counted, err := svc.Analytics.TrackView(ctx, view)
	require.NoError(t, err)
	assert.True(t, counted)
	counted, err = svc.Analytics.TrackView(ctx, view)
	require.NoError(t, err)
	assert.False(t, counted)

	report, err := svc.Analytics.Report(ctx, 7, "Acme")
	require.NoError(t, err)
	require.Len(t, report.Projects, 2)
	assert.Equal(t, second.ID, report.Projects[0].ProjectID)
	assert.Equal(t, 1, report.Projects[0].TotalViews)

	require.NoError(t, svc.Projects.SoftDelete(ctx, first.ID))
	_, err = svc.Projects.PublicBySlug(ctx, "checkout-flow")
	assert.ErrorIs(t, err, projectdomain.ErrNotFound)
	restored, err := svc.Projects.Restore(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "checkout-flow", restored.Slug)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	res, err := importer.New(pool, svc.Clients).Import(ctx, &importer.Document{Projects: []importer.Record{
		{Name: "Checkout Flow", FigmaURL: "https://www.figma.com/proto/ghi/x", ClientLabel: "Globex"},
	}}, importer.Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Imported)
	assert.Equal(t, 2, res.Clients)

	imported, err := svc.Projects.List(ctx, "Globex")
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "checkout-flow-2", imported[0].Slug)
}
