package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/protodeck/protodeck-backend/internal/analytics/domain"
)

// ViewRepository persists project views and aggregates them.
type ViewRepository struct {
	db *sql.DB
}

func NewViewRepository(db *sql.DB) *ViewRepository {
	return &ViewRepository{db: db}
}

// RecordView stores one view. Optional headers are stored as NULL when empty.
func (r *ViewRepository) RecordView(ctx context.Context, v domain.View) error {
	const q = `
INSERT INTO project_views (id, project_id, project_slug, user_agent, referer, ip_address)
VALUES ($1, $2, $3, nullif($4,''), nullif($5,''), nullif($6,''))`

	_, err := r.db.ExecContext(ctx, q, uuid.New().String(), v.ProjectID, v.ProjectSlug, v.UserAgent, v.Referer, v.IPAddress)
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503", "22P02": // unknown project, malformed uuid
			return domain.ErrProjectNotFound
		}
	}
	return err
}

// ActiveProjects lists the projects to report on, ordered by client label
// then name. An empty label selects all clients.
func (r *ViewRepository) ActiveProjects(ctx context.Context, clientLabel string) ([]domain.ProjectRef, error) {
	const q = `
SELECT id::text, name, slug, client_label
FROM projects
WHERE deleted_at IS NULL AND ($1 = '' OR client_label = $1)
ORDER BY client_label, name`
	rows, err := r.db.QueryContext(ctx, q, clientLabel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ProjectRef, 0, 16)
	for rows.Next() {
		var p domain.ProjectRef
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.ClientLabel); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DailyCounts buckets views since the given instant by project and UTC date.
func (r *ViewRepository) DailyCounts(ctx context.Context, since time.Time) ([]domain.DailyCount, error) {
	const q = `
SELECT project_id::text,
       to_char((viewed_at AT TIME ZONE 'UTC')::date, 'YYYY-MM-DD') AS day,
       count(*)
FROM project_views
WHERE viewed_at >= $1
GROUP BY project_id, day
ORDER BY day`
	rows, err := r.db.QueryContext(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.DailyCount, 0, 64)
	for rows.Next() {
		var c domain.DailyCount
		if err := rows.Scan(&c.ProjectID, &c.Date, &c.Views); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
