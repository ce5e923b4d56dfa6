package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/protodeck/protodeck-backend/internal/auth/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByFirebaseUID retrieves a user by their Firebase UID
func (r *UserRepository) GetByFirebaseUID(ctx context.Context, uid string) (*domain.User, error) {
	const q = `
SELECT id::text, firebase_uid, email, display_name, photo_url, created_at, updated_at, last_login_at
FROM users
WHERE firebase_uid = $1
`
	var (
		u                            domain.User
		email, displayName, photoURL sql.NullString
		lastLoginAt                  sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, uid).Scan(
		&u.ID, &u.FirebaseUID, &email, &displayName, &photoURL,
		&u.CreatedAt, &u.UpdatedAt, &lastLoginAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	u.Email = nullString(email)
	u.DisplayName = nullString(displayName)
	u.PhotoURL = nullString(photoURL)
	if lastLoginAt.Valid {
		u.LastLoginAt = &lastLoginAt.Time
	}
	return &u, nil
}

// EnsureUser upserts the identity and returns users.id.
func (r *UserRepository) EnsureUser(ctx context.Context, in domain.EnsureUserInput) (string, error) {
	if in.FirebaseUID == "" {
		return "", fmt.Errorf("firebase_uid required")
	}

	const q = `
INSERT INTO users (firebase_uid, email, display_name, photo_url, updated_at)
VALUES ($1, nullif($2,''), nullif($3,''), nullif($4,''), now())
ON CONFLICT (firebase_uid) DO UPDATE
SET email = coalesce(excluded.email, users.email),
    display_name = coalesce(excluded.display_name, users.display_name),
    photo_url = coalesce(excluded.photo_url, users.photo_url),
    updated_at = now()
RETURNING id::text
`
	var id string
	if err := r.db.QueryRowContext(ctx, q, in.FirebaseUID, in.Email, in.DisplayName, in.PhotoURL).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateProfile overwrites the profile columns and returns the fresh row.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	const q = `
UPDATE users
SET email = $2, display_name = $3, photo_url = $4, updated_at = now()
WHERE firebase_uid = $1
RETURNING updated_at
`
	err := r.db.QueryRowContext(ctx, q, u.FirebaseUID, u.Email, u.DisplayName, u.PhotoURL).Scan(&u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	return err
}

// UpdateLastLogin updates the last login timestamp
func (r *UserRepository) UpdateLastLogin(ctx context.Context, uid string) error {
	const q = `UPDATE users SET last_login_at = now() WHERE firebase_uid = $1`

	result, err := r.db.ExecContext(ctx, q, uid)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
