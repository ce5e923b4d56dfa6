package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/protodeck/protodeck-backend/internal/sharing/domain"
)

const linkColumns = `id::text, token, client_label, expires_at, created_by, created_at`

// ShareLinkRepository provides persistence operations for share links
type ShareLinkRepository struct {
	db       *sql.DB
	newToken func() (string, error)
}

func NewShareLinkRepository(db *sql.DB) *ShareLinkRepository {
	return &ShareLinkRepository{db: db, newToken: domain.NewToken}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*domain.ShareLink, error) {
	var (
		l         domain.ShareLink
		expiresAt sql.NullTime
		createdBy sql.NullString
	)
	if err := row.Scan(&l.ID, &l.Token, &l.ClientLabel, &expiresAt, &createdBy, &l.CreatedAt); err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		l.ExpiresAt = &t
	}
	if createdBy.Valid {
		v := createdBy.String
		l.CreatedBy = &v
	}
	return &l, nil
}

// Create inserts a link under a fresh random token.
func (r *ShareLinkRepository) Create(ctx context.Context, label string, expiresAt *time.Time, createdBy string) (*domain.ShareLink, error) {
	q := `
INSERT INTO share_links (token, client_label, expires_at, created_by)
VALUES ($1, $2, $3, nullif($4,''))
RETURNING ` + linkColumns

	for i := 0; i < 5; i++ {
		token, err := r.newToken()
		if err != nil {
			return nil, err
		}

		l, err := scanLink(r.db.QueryRowContext(ctx, q, token, label, expiresAt, createdBy))
		if err == nil {
			return l, nil
		}

		// unique violation on token → retry
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique share token")
}

// ListByClient returns the links of a label, newest first.
func (r *ShareLinkRepository) ListByClient(ctx context.Context, label string) ([]domain.ShareLink, error) {
	q := `SELECT ` + linkColumns + ` FROM share_links WHERE client_label = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ShareLink, 0, 4)
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *ShareLinkRepository) GetByToken(ctx context.Context, token string) (*domain.ShareLink, error) {
	q := `SELECT ` + linkColumns + ` FROM share_links WHERE token = $1`
	l, err := scanLink(r.db.QueryRowContext(ctx, q, token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return l, err
}

// Delete revokes a link.
func (r *ShareLinkRepository) Delete(ctx context.Context, token string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM share_links WHERE token = $1`, token)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PurgeExpiredBefore removes links that expired before cutoff.
func (r *ShareLinkRepository) PurgeExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM share_links WHERE expires_at IS NOT NULL AND expires_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
