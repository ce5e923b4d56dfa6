package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/protodeck/protodeck-backend/internal/clients/domain"
	projectdomain "github.com/protodeck/protodeck-backend/internal/projects/domain"
)

// ClientRepository covers the clients table and the label-wide project
// operations.
type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// ListLabels returns the distinct labels of active projects in byte order,
// leaving out the default label.
func (r *ClientRepository) ListLabels(ctx context.Context) ([]string, error) {
	const q = `
SELECT DISTINCT client_label
FROM projects
WHERE deleted_at IS NULL AND client_label <> '' AND client_label <> $1
ORDER BY client_label COLLATE "C"`
	return r.queryLabels(ctx, q, projectdomain.DefaultClientLabel)
}

func (r *ClientRepository) queryLabels(ctx context.Context, q string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, 16)
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		out = append(out, label)
	}
	return out, rows.Err()
}

// Rename moves every project, the client row and share links from oldLabel
// to newLabel in one transaction.
func (r *ClientRepository) Rename(ctx context.Context, oldLabel, newLabel string) (*domain.RenameResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if newLabel != oldLabel {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM projects WHERE client_label = $1 AND deleted_at IS NULL)`, newLabel,
		).Scan(&exists); err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrClientExists
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE projects SET client_label = $2, updated_at = now() WHERE client_label = $1`, oldLabel, newLabel)
	if err != nil {
		return nil, fmt.Errorf("update projects: %w", err)
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	if newLabel != oldLabel {
		if newLabel != projectdomain.DefaultClientLabel {
			// carry the description over; an existing row keeps its own
			if _, err := tx.ExecContext(ctx, `
INSERT INTO clients (client_label, description)
SELECT $2, description FROM clients WHERE client_label = $1
ON CONFLICT (client_label) DO UPDATE
SET description = coalesce(clients.description, excluded.description), updated_at = now()`,
				oldLabel, newLabel); err != nil {
				return nil, fmt.Errorf("move client: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO clients (client_label) VALUES ($1) ON CONFLICT (client_label) DO NOTHING`, newLabel); err != nil {
				return nil, fmt.Errorf("ensure client: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE client_label = $1`, oldLabel); err != nil {
			return nil, fmt.Errorf("drop old client: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE share_links SET client_label = $2 WHERE client_label = $1`, oldLabel, newLabel); err != nil {
			return nil, fmt.Errorf("update share links: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &domain.RenameResult{UpdatedCount: updated, OldName: oldLabel, NewName: newLabel}, nil
}

// GetDescription returns nil when the client has no row or no description.
func (r *ClientRepository) GetDescription(ctx context.Context, label string) (*string, error) {
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT description FROM clients WHERE client_label = $1`, label).Scan(&desc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !desc.Valid {
		return nil, nil
	}
	return &desc.String, nil
}

// SetDescription upserts the client row. A nil description clears it.
func (r *ClientRepository) SetDescription(ctx context.Context, label string, description *string) (*domain.Client, error) {
	const q = `
INSERT INTO clients (client_label, description)
VALUES ($1, $2)
ON CONFLICT (client_label) DO UPDATE
SET description = excluded.description, updated_at = now()
RETURNING id::text, client_label, description, created_at, updated_at`

	var (
		c    domain.Client
		desc sql.NullString
	)
	if err := r.db.QueryRowContext(ctx, q, label, description).
		Scan(&c.ID, &c.ClientLabel, &desc, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		c.Description = &desc.String
	}
	return &c, nil
}

// SoftDeleteAll moves every active project of label to the trash.
func (r *ClientRepository) SoftDeleteAll(ctx context.Context, label string) (int64, error) {
	return r.exec(ctx, `
UPDATE projects SET deleted_at = now(), updated_at = now()
WHERE client_label = $1 AND deleted_at IS NULL`, label)
}

// ListDeletedProjects returns the trash of one client, latest first.
func (r *ClientRepository) ListDeletedProjects(ctx context.Context, label string) ([]domain.DeletedProject, error) {
	const q = `
SELECT id::text, name, slug, created_at, deleted_at
FROM projects
WHERE client_label = $1 AND deleted_at IS NOT NULL
ORDER BY deleted_at DESC`
	rows, err := r.db.QueryContext(ctx, q, label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.DeletedProject, 0, 8)
	for rows.Next() {
		var p domain.DeletedProject
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.CreatedAt, &p.DeletedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListDeletedClients groups the trash by label.
func (r *ClientRepository) ListDeletedClients(ctx context.Context) ([]domain.DeletedClient, error) {
	const q = `
SELECT client_label, count(*), max(deleted_at)
FROM projects
WHERE deleted_at IS NOT NULL
GROUP BY client_label
ORDER BY max(deleted_at) DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.DeletedClient, 0, 8)
	for rows.Next() {
		var d domain.DeletedClient
		if err := rows.Scan(&d.ClientLabel, &d.DeletedCount, &d.LastDeletedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *ClientRepository) RestoreAll(ctx context.Context, label string) (int64, error) {
	return r.exec(ctx, `
UPDATE projects SET deleted_at = NULL, updated_at = now()
WHERE client_label = $1 AND deleted_at IS NOT NULL`, label)
}

// RestoreSelected only touches ids that belong to label and are deleted.
func (r *ClientRepository) RestoreSelected(ctx context.Context, label string, ids []string) (int64, error) {
	return r.exec(ctx, `
UPDATE projects SET deleted_at = NULL, updated_at = now()
WHERE client_label = $1 AND deleted_at IS NOT NULL AND id::text = ANY($2)`, label, pq.Array(ids))
}

// PermanentDeleteAll hard-deletes the trash of label. Active projects stay.
func (r *ClientRepository) PermanentDeleteAll(ctx context.Context, label string) (int64, error) {
	return r.exec(ctx, `DELETE FROM projects WHERE client_label = $1 AND deleted_at IS NOT NULL`, label)
}

// Sync creates a clients row for every non-default label used by any
// project and returns the full label list.
func (r *ClientRepository) Sync(ctx context.Context) ([]string, error) {
	const q = `
WITH labels AS (
  SELECT DISTINCT client_label FROM projects
  WHERE client_label <> '' AND client_label <> $1
), ins AS (
  INSERT INTO clients (client_label)
  SELECT client_label FROM labels
  ON CONFLICT (client_label) DO NOTHING
)
SELECT client_label FROM labels ORDER BY client_label COLLATE "C"`
	return r.queryLabels(ctx, q, projectdomain.DefaultClientLabel)
}

func (r *ClientRepository) exec(ctx context.Context, q string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
