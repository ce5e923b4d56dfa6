package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/protodeck/protodeck-backend/config"
	"github.com/protodeck/protodeck-backend/internal/bootstrap"
	"github.com/protodeck/protodeck-backend/internal/db"
	"github.com/protodeck/protodeck-backend/internal/importer"
	"github.com/protodeck/protodeck-backend/internal/logging"
	"github.com/protodeck/protodeck-backend/internal/storage/postgres"
)

// env holds what every subcommand needs. Built lazily in PersistentPreRunE.
type env struct {
	cfg      *config.Config
	services *bootstrap.Services
	pool     *db.DB
	close    func()
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "worker",
		Short:         "Maintenance tasks for the protodeck backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.close != nil {
				e.close()
			}
		},
	}

	root.AddCommand(
		syncClientsCmd(e),
		purgeTrashCmd(e),
		purgeShareLinksCmd(e),
		importCmd(e),
	)
	return root
}

func (e *env) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logging.SetBase(logger)

	sqlDB, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	if err := postgres.Migrate(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return err
	}

	e.cfg = cfg
	// Redis only backs request-path caches, which no worker task uses.
	e.services = bootstrap.BuildServices(sqlDB, nil, cfg)
	e.close = func() {
		if e.pool != nil {
			e.pool.Close()
		}
		sqlDB.Close()
		_ = logger.Sync()
	}
	return nil
}

func syncClientsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-clients",
		Short: "Register every client label used by a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := e.services.Clients.Sync(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "synced %d client labels\n", res.Synced)
			return nil
		},
	}
}

func purgeTrashCmd(e *env) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "purge-trash",
		Short: "Permanently delete projects that sat in the trash too long",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("days") {
				days = e.cfg.Jobs.TrashRetentionDays
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive (or set TRASH_RETENTION_DAYS)")
			}
			n, err := e.services.Projects.PurgeTrash(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d projects deleted more than %d days ago\n", n, days)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "retention in days (defaults to TRASH_RETENTION_DAYS)")
	return cmd
}

func purgeShareLinksCmd(e *env) *cobra.Command {
	var grace int
	cmd := &cobra.Command{
		Use:   "purge-share-links",
		Short: "Delete share links that expired before the grace period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("grace-days") {
				grace = e.cfg.Jobs.ShareLinkGraceDays
			}
			n, err := e.services.ShareLinks.PurgeExpired(cmd.Context(), grace)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired share links\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&grace, "grace-days", 0, "keep expired links this many days (defaults to SHARE_LINK_GRACE_DAYS)")
	return cmd
}

func importCmd(e *env) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Bulk-load projects from YAML or JSON documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs := make([]*importer.Document, 0, len(args))
			for _, path := range args {
				d, err := parseImportFile(path)
				if err != nil {
					return err
				}
				docs = append(docs, d)
			}
			doc := importer.Merge(docs...)

			pool, err := db.Open(cmd.Context(), &e.cfg.Database)
			if err != nil {
				return err
			}
			e.pool = pool

			res, err := importer.New(pool.Pool, e.services.Clients).Import(cmd.Context(), doc, importer.Options{Replace: replace})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d projects (%d client labels)\n", res.Imported, res.Clients)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "delete existing projects before importing")
	return cmd
}

func parseImportFile(path string) (*importer.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := importer.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
