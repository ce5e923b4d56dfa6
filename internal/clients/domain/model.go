package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrClientExists  = errors.New("a client with this name already exists")
	ErrDefaultClient = errors.New("the default client cannot be modified")
)

// Client holds metadata for a client label. Projects reference clients by
// label only.
type Client struct {
	ID          string    `json:"id"`
	ClientLabel string    `json:"client_label"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeletedProject is the trash view of a project within one client.
type DeletedProject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	DeletedAt time.Time `json:"deleted_at"`
}

// DeletedClient summarizes a label that has projects in the trash.
type DeletedClient struct {
	ClientLabel   string    `json:"client_label"`
	DeletedCount  int       `json:"deleted_count"`
	LastDeletedAt time.Time `json:"last_deleted_at"`
}

type RenameResult struct {
	UpdatedCount int64  `json:"updated_count"`
	OldName      string `json:"old_name"`
	NewName      string `json:"new_name"`
}

type SyncResult struct {
	Synced  int      `json:"synced"`
	Clients []string `json:"clients"`
}
