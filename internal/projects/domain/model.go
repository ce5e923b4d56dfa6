package domain

import (
	"errors"
	"time"
)

// DefaultClientLabel is assigned to projects created without a label. It is
// never listed as a client and never gets a clients row.
const DefaultClientLabel = "Uncategorized"

var (
	ErrNotFound      = errors.New("project not found")
	ErrSlugTaken     = errors.New("a project with this name already exists")
	ErrNotDeleted    = errors.New("project must be soft-deleted first")
	ErrMissingFields = errors.New("missing required fields")
)

// Project pairs a display name with a hosted prototype URL.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	FigmaURL    string     `json:"figma_url"`
	ClientLabel string     `json:"client_label"`
	CreatedBy   *string    `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// IsDeleted reports whether the project sits in the trash.
func (p *Project) IsDeleted() bool {
	return p.DeletedAt != nil
}

type CreateInput struct {
	Name        string
	FigmaURL    string
	ClientLabel string
	CreatedBy   string
}

type RenameResult struct {
	Project *Project `json:"project"`
	OldSlug string   `json:"old_slug"`
	NewSlug string   `json:"new_slug"`
}

type PermanentDeleteResult struct {
	FreedSlug string `json:"freed_slug"`
	FreedName string `json:"freed_name"`
}

// PublicProject is what anonymous viewers receive.
type PublicProject struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	FigmaURL    string    `json:"figma_url"`
	EmbedURL    string    `json:"embed_url"`
	ClientLabel string    `json:"client_label"`
	CreatedAt   time.Time `json:"created_at"`
}

// NormalizeClientLabel trims the label and falls back to the default.
func NormalizeClientLabel(label string) string {
	label = trimSpace(label)
	if label == "" {
		return DefaultClientLabel
	}
	return label
}
