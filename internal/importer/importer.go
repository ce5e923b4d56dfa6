// Package importer bulk-loads projects exported from another deployment.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"

	clientdomain "github.com/protodeck/protodeck-backend/internal/clients/domain"
	"github.com/protodeck/protodeck-backend/internal/logging"
	"github.com/protodeck/protodeck-backend/internal/projects/domain"
)

var ErrInvalidRecord = errors.New("invalid project record")

// Record is one entry of the projects document. JSON exports parse as well
// since YAML is a superset. Keys may be snake_case or camelCase.
type Record struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Slug        string     `yaml:"slug"`
	FigmaURL    string     `yaml:"figma_url"`
	ClientLabel string     `yaml:"client_label"`
	CreatedBy   string     `yaml:"created_by"`
	CreatedAt   *time.Time `yaml:"created_at"`
	DeletedAt   *time.Time `yaml:"deleted_at"`
}

func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ID               string     `yaml:"id"`
		Name             string     `yaml:"name"`
		Slug             string     `yaml:"slug"`
		FigmaURL         string     `yaml:"figma_url"`
		FigmaURLCamel    string     `yaml:"figmaUrl"`
		ClientLabel      string     `yaml:"client_label"`
		ClientLabelCamel string     `yaml:"clientLabel"`
		CreatedBy        string     `yaml:"created_by"`
		CreatedByCamel   string     `yaml:"createdBy"`
		CreatedAt        *time.Time `yaml:"created_at"`
		CreatedAtCamel   *time.Time `yaml:"createdAt"`
		DeletedAt        *time.Time `yaml:"deleted_at"`
		DeletedAtCamel   *time.Time `yaml:"deletedAt"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	*r = Record{
		ID:          raw.ID,
		Name:        raw.Name,
		Slug:        raw.Slug,
		FigmaURL:    firstNonEmpty(raw.FigmaURL, raw.FigmaURLCamel),
		ClientLabel: firstNonEmpty(raw.ClientLabel, raw.ClientLabelCamel),
		CreatedBy:   firstNonEmpty(raw.CreatedBy, raw.CreatedByCamel),
		CreatedAt:   raw.CreatedAt,
		DeletedAt:   raw.DeletedAt,
	}
	if r.CreatedAt == nil {
		r.CreatedAt = raw.CreatedAtCamel
	}
	if r.DeletedAt == nil {
		r.DeletedAt = raw.DeletedAtCamel
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

type Document struct {
	Projects []Record `yaml:"projects"`
}

// Parse reads either a {projects: [...]} document or a bare list of
// records, which is how flat-file exports are laid out.
func Parse(r io.Reader) (*Document, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{}, nil
		}
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	var doc Document
	var err error
	switch node.Kind {
	case yaml.SequenceNode:
		err = node.Decode(&doc.Projects)
	default:
		err = node.Decode(&doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}

// Merge concatenates the projects of several documents in order.
func Merge(docs ...*Document) *Document {
	out := &Document{}
	for _, d := range docs {
		if d != nil {
			out.Projects = append(out.Projects, d.Projects...)
		}
	}
	return out
}

// legacyIDSpace namespaces ids that were not uuids in the exporting system.
var legacyIDSpace = uuid.MustParse("6f1c2a8e-4b7d-4e55-9a0c-3d2f7e9b1c44")

// recordID keeps uuid ids and maps any other id to a stable uuid, so
// re-importing the same export yields the same rows.
func recordID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" {
		return uuid.NewString()
	}
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return uuid.NewSHA1(legacyIDSpace, []byte(id)).String()
}

var copyColumns = []string{
	"id", "name", "slug", "figma_url", "client_label", "created_by", "created_at", "updated_at", "deleted_at",
}

// Plan turns records into COPY rows. Slugs follow the create rules: a
// record's own slug (or its name) is slugified and suffixed until it is free
// of taken and of every earlier record.
func Plan(records []Record, taken map[string]struct{}, now time.Time) ([][]any, error) {
	used := make(map[string]struct{}, len(taken)+len(records))
	for s := range taken {
		used[s] = struct{}{}
	}
	ids := make(map[string]struct{}, len(records))

	rows := make([][]any, 0, len(records))
	for i, rec := range records {
		name := strings.TrimSpace(rec.Name)
		figmaURL := strings.TrimSpace(rec.FigmaURL)
		if name == "" || figmaURL == "" {
			return nil, fmt.Errorf("%w #%d: name and figma_url are required", ErrInvalidRecord, i+1)
		}

		id := recordID(rec.ID)
		if _, dup := ids[id]; dup {
			return nil, fmt.Errorf("%w #%d: duplicate id %s", ErrInvalidRecord, i+1, id)
		}
		ids[id] = struct{}{}

		base := rec.Slug
		if strings.TrimSpace(base) == "" {
			base = name
		}
		slug := domain.NextFreeSlug(domain.Slugify(base), used)
		used[slug] = struct{}{}

		createdAt := now
		if rec.CreatedAt != nil {
			createdAt = rec.CreatedAt.UTC()
		}
		var createdBy any
		if v := strings.TrimSpace(rec.CreatedBy); v != "" {
			createdBy = v
		}
		var deletedAt any
		if rec.DeletedAt != nil {
			deletedAt = rec.DeletedAt.UTC()
		}

		rows = append(rows, []any{
			id,
			name,
			slug,
			figmaURL,
			domain.NormalizeClientLabel(rec.ClientLabel),
			createdBy,
			createdAt,
			now,
			deletedAt,
		})
	}
	return rows, nil
}

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type ClientSyncer interface {
	Sync(ctx context.Context) (*clientdomain.SyncResult, error)
}

type Options struct {
	// Replace removes every existing project (and its views) first.
	Replace bool
}

type Result struct {
	Imported int64
	Clients  int
}

type Importer struct {
	pool    TxBeginner
	clients ClientSyncer
	now     func() time.Time
}

func New(pool TxBeginner, clients ClientSyncer) *Importer {
	return &Importer{pool: pool, clients: clients, now: time.Now}
}

// Import loads doc in one transaction and then registers any new client
// labels.
func (im *Importer) Import(ctx context.Context, doc *Document, opts Options) (*Result, error) {
	tx, err := im.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if opts.Replace {
		if _, err := tx.Exec(ctx, `TRUNCATE projects CASCADE`); err != nil {
			return nil, fmt.Errorf("truncate projects: %w", err)
		}
	}

	taken, err := existingSlugs(ctx, tx)
	if err != nil {
		return nil, err
	}

	rows, err := Plan(doc.Projects, taken, im.now().UTC())
	if err != nil {
		return nil, err
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"projects"}, copyColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return nil, fmt.Errorf("copy projects: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	res := &Result{Imported: n}
	if im.clients != nil {
		synced, err := im.clients.Sync(ctx)
		if err != nil {
			return res, fmt.Errorf("sync clients: %w", err)
		}
		res.Clients = synced.Synced
	}

	logging.FromContext(ctx).Infof("importer.import", "imported %d projects, %d client labels", res.Imported, res.Clients)
	return res, nil
}

func existingSlugs(ctx context.Context, tx pgx.Tx) (map[string]struct{}, error) {
	rows, err := tx.Query(ctx, `SELECT slug FROM projects`)
	if err != nil {
		return nil, fmt.Errorf("load slugs: %w", err)
	}
	slugs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("load slugs: %w", err)
	}

	taken := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		taken[s] = struct{}{}
	}
	return taken, nil
}
