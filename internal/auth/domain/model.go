package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

// User mirrors a Firebase identity in the local database.
// Firebase UID is the external identifier; ID is ours.
type User struct {
	ID          string     `json:"id"`
	FirebaseUID string     `json:"firebase_uid"`
	Email       *string    `json:"email,omitempty"`
	DisplayName *string    `json:"display_name,omitempty"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// EnsureUserInput carries the claims known at request time. Empty fields
// never overwrite stored values.
type EnsureUserInput struct {
	FirebaseUID string
	Email       string
	DisplayName string
	PhotoURL    string
}

// UpdateProfileRequest represents data for updating a user
type UpdateProfileRequest struct {
	Email       *string
	DisplayName *string
	PhotoURL    *string
}
