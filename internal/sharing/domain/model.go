package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("share link not found")
	ErrExpired       = errors.New("share link has expired")
	ErrMissingLabel  = errors.New("client label is required")
	ErrInvalidExpiry = errors.New("expires_in_days is out of range")
)

// MaxExpiryDays bounds expires_in_days to ten years.
const MaxExpiryDays = 3650

// ShareLink grants public read access to one client's active projects.
type ShareLink struct {
	ID          string     `json:"id"`
	Token       string     `json:"token"`
	ClientLabel string     `json:"client_label"`
	ExpiresAt   *time.Time `json:"expires_at"`
	CreatedBy   *string    `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	URL         string     `json:"url,omitempty"`
}

// Expired reports whether the link stopped being valid before now. Links
// without an expiry never expire.
func (l *ShareLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// Resolution is the public view of a link.
type Resolution struct {
	ClientLabel string     `json:"client_label"`
	ExpiresAt   *time.Time `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CreateInput struct {
	ClientLabel   string
	ExpiresInDays int
	CreatedBy     string
}
