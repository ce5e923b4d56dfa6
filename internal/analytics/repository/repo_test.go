package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protodeck/protodeck-backend/internal/analytics/domain"
)

func TestViewRepository_RecordView(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewViewRepository(db)
	ctx := context.Background()

	t.Run("stores the view", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO project_views`).
			WithArgs(sqlmock.AnyArg(), "p1", "alpha", "agent", "", "1.2.3.4").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.RecordView(ctx, domain.View{ProjectID: "p1", ProjectSlug: "alpha", UserAgent: "agent", IPAddress: "1.2.3.4"})
		require.NoError(t, err)
	})

	t.Run("unknown project", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO project_views`).
			WillReturnError(&pq.Error{Code: "23503"})

		err := repo.RecordView(ctx, domain.View{ProjectID: "p9", ProjectSlug: "x"})
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestViewRepository_Aggregates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewViewRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id::text, name, slug, client_label`).
		WithArgs("").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "client_label"}).
			AddRow("p1", "Alpha", "alpha", "Acme"))
	projects, err := repo.ActiveProjects(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []domain.ProjectRef{{ID: "p1", Name: "Alpha", Slug: "alpha", ClientLabel: "Acme"}}, projects)

	since := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM project_views`).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"project_id", "day", "count"}).
			AddRow("p1", "2025-03-02", 4))
	counts, err := repo.DailyCounts(ctx, since)
	require.NoError(t, err)
	assert.Equal(t, []domain.DailyCount{{ProjectID: "p1", Date: "2025-03-02", Views: 4}}, counts)

	require.NoError(t, mock.ExpectationsWereMet())
}
