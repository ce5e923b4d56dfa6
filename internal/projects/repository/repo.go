package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/protodeck/protodeck-backend/internal/projects/domain"
)

const projectColumns = `id::text, name, slug, figma_url, client_label, created_by, created_at, updated_at, deleted_at`

const maxCreateAttempts = 5

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p         domain.Project
		createdBy sql.NullString
		deletedAt sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.FigmaURL, &p.ClientLabel, &createdBy, &p.CreatedAt, &p.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	if createdBy.Valid {
		v := createdBy.String
		p.CreatedBy = &v
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		p.DeletedAt = &t
	}
	return &p, nil
}

func collectProjects(rows *sql.Rows) ([]domain.Project, error) {
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ensureClient creates the clients row for label if it is missing.
func ensureClient(ctx context.Context, ex execer, label string) error {
	if label == "" || label == domain.DefaultClientLabel {
		return nil
	}
	const q = `INSERT INTO clients (client_label) VALUES ($1) ON CONFLICT (client_label) DO NOTHING`
	if _, err := ex.ExecContext(ctx, q, label); err != nil {
		return fmt.Errorf("ensure client: %w", err)
	}
	return nil
}

// takenSlugs returns every slug equal to base or of the form base-*, across
// active and deleted rows.
func (r *ProjectRepository) takenSlugs(ctx context.Context, base string) (map[string]struct{}, error) {
	const q = `SELECT slug FROM projects WHERE slug = $1 OR slug LIKE $2`
	rows, err := r.db.QueryContext(ctx, q, base, base+"-%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	taken := make(map[string]struct{})
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		taken[s] = struct{}{}
	}
	return taken, rows.Err()
}

// Create inserts a project under the first free slug derived from its name.
// A concurrent insert that grabs the same slug makes the attempt retry.
func (r *ProjectRepository) Create(ctx context.Context, in domain.CreateInput) (*domain.Project, error) {
	base := domain.Slugify(in.Name)

	for i := 0; i < maxCreateAttempts; i++ {
		taken, err := r.takenSlugs(ctx, base)
		if err != nil {
			return nil, fmt.Errorf("load slugs: %w", err)
		}
		slug := domain.NextFreeSlug(base, taken)

		p, err := r.insert(ctx, in, slug)
		if err == nil {
			return p, nil
		}
		if isUniqueViolation(err) {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to allocate a unique slug for %q", base)
}

func (r *ProjectRepository) insert(ctx context.Context, in domain.CreateInput, slug string) (*domain.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := ensureClient(ctx, tx, in.ClientLabel); err != nil {
		return nil, err
	}

	q := `
INSERT INTO projects (name, slug, figma_url, client_label, created_by)
VALUES ($1, $2, $3, $4, nullif($5,''))
RETURNING ` + projectColumns
	p, err := scanProject(tx.QueryRowContext(ctx, q, in.Name, slug, in.FigmaURL, in.ClientLabel, in.CreatedBy))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns active projects, newest first. An empty label lists all.
func (r *ProjectRepository) List(ctx context.Context, clientLabel string) ([]domain.Project, error) {
	q := `SELECT ` + projectColumns + `
FROM projects
WHERE deleted_at IS NULL AND ($1 = '' OR client_label = $1)
ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, clientLabel)
	if err != nil {
		return nil, err
	}
	return collectProjects(rows)
}

// ListDeleted returns the trash, most recently deleted first.
func (r *ProjectRepository) ListDeleted(ctx context.Context) ([]domain.Project, error) {
	q := `SELECT ` + projectColumns + `
FROM projects
WHERE deleted_at IS NOT NULL
ORDER BY deleted_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectProjects(rows)
}

// Get returns a project whether or not it is deleted.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return p, err
}

// GetActiveBySlug resolves the public project page.
func (r *ProjectRepository) GetActiveBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE slug = $1 AND deleted_at IS NULL`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return p, err
}

// Rename sets a new name and slug. The slug must not belong to any other row.
func (r *ProjectRepository) Rename(ctx context.Context, id, name, slug string) (*domain.RenameResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var oldSlug string
	err = tx.QueryRowContext(ctx, `SELECT slug FROM projects WHERE id = $1 FOR UPDATE`, id).Scan(&oldSlug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var taken bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE slug = $1 AND id <> $2)`, slug, id,
	).Scan(&taken); err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrSlugTaken
	}

	q := `
UPDATE projects
SET name = $2, slug = $3, updated_at = now()
WHERE id = $1
RETURNING ` + projectColumns
	p, err := scanProject(tx.QueryRowContext(ctx, q, id, name, slug))
	if isUniqueViolation(err) {
		return nil, domain.ErrSlugTaken
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &domain.RenameResult{Project: p, OldSlug: oldSlug, NewSlug: p.Slug}, nil
}

// SetClientLabel moves a project to another client, creating the client row
// when needed.
func (r *ProjectRepository) SetClientLabel(ctx context.Context, id, label string) (*domain.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := ensureClient(ctx, tx, label); err != nil {
		return nil, err
	}

	q := `
UPDATE projects
SET client_label = $2, updated_at = now()
WHERE id = $1
RETURNING ` + projectColumns
	p, err := scanProject(tx.QueryRowContext(ctx, q, id, label))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// SoftDelete marks an active project as deleted.
func (r *ProjectRepository) SoftDelete(ctx context.Context, id string) error {
	const q = `
UPDATE projects
SET deleted_at = now(), updated_at = now()
WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Restore clears deleted_at. slug is unique across deleted and active rows,
// so the restored project always gets its old slug back.
func (r *ProjectRepository) Restore(ctx context.Context, id string) (*domain.Project, error) {
	q := `
UPDATE projects
SET deleted_at = NULL, updated_at = now()
WHERE id = $1 AND deleted_at IS NOT NULL
RETURNING ` + projectColumns
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return p, err
}

// PermanentDelete removes a soft-deleted project. Its views cascade.
func (r *ProjectRepository) PermanentDelete(ctx context.Context, id string) (*domain.PermanentDeleteResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		res       domain.PermanentDeleteResult
		deletedAt sql.NullTime
	)
	err = tx.QueryRowContext(ctx, `SELECT slug, name, deleted_at FROM projects WHERE id = $1 FOR UPDATE`, id).
		Scan(&res.FreedSlug, &res.FreedName, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !deletedAt.Valid {
		return nil, domain.ErrNotDeleted
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &res, nil
}

// PurgeDeletedBefore hard-deletes projects that have been in the trash since
// before cutoff.
func (r *ProjectRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE deleted_at IS NOT NULL AND deleted_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
