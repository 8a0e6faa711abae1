// ABOUTME: CLI command for migrating data between storage backends.
// ABOUTME: Copies every record from one backend to an empty destination backend.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data between storage backends",
	Long: `Copy all trainer data from one storage backend to another.

The destination must be empty. The source is left untouched, so switch
the configured backend once you are happy with the result.

IMPORTANT:

  - sqlite and markdown share the data directory (--data-dir)
  - charm keeps its own location and syncs to Charm Cloud
  - Run with --dry-run first to see what would be migrated

USAGE:

  trainer migrate --from sqlite --to markdown --dry-run
  trainer migrate --from sqlite --to markdown
  trainer migrate --from charm --to sqlite`,
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == "" || migrateTo == "" {
			return fmt.Errorf("--from and --to are required")
		}
		if migrateFrom == migrateTo {
			return fmt.Errorf("source and destination are the same backend")
		}

		src, err := openBackend(migrateFrom)
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()
			data, err := src.GetAllData()
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}
			fmt.Printf("Would migrate from %s to %s:\n", migrateFrom, migrateTo)
			fmt.Printf("  Clients:     %d\n", len(data.Clients))
			fmt.Printf("  Plans:       %d\n", len(data.Plans))
			fmt.Printf("  Assessments: %d\n", len(data.Assessments))
			fmt.Printf("  Sessions:    %d\n", len(data.Sessions))
			fmt.Printf("  Progress:    %d\n", len(data.Progress))
			return nil
		}

		if migrateTo == config.BackendMarkdown {
			if err := ensureEmptyMarkdownDir(cfg.GetDataDir()); err != nil {
				return err
			}
		}
		dst, err := openBackend(migrateTo)
		if err != nil {
			return err
		}
		defer func() { _ = dst.Close() }()
		if n, err := recordCount(dst); err != nil {
			return fmt.Errorf("read destination: %w", err)
		} else if n > 0 {
			return fmt.Errorf("destination %s already has %d records", migrateTo, n)
		}

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %d records from %s to %s", summary.Total(), migrateFrom, migrateTo)
		fmt.Printf("  Clients:     %d\n", summary.Clients)
		fmt.Printf("  Plans:       %d\n", summary.Plans)
		fmt.Printf("  Assessments: %d\n", summary.Assessments)
		fmt.Printf("  Sessions:    %d\n", summary.Sessions)
		fmt.Printf("  Progress:    %d\n", summary.Progress)
		fmt.Println()
		fmt.Printf("Set \"backend\": %q in %s to use it.\n", migrateTo, config.GetConfigPath())
		return nil
	},
}

// openBackend opens a backend with the current settings except Backend.
func openBackend(name string) (storage.Repository, error) {
	c := *cfg
	c.Backend = name
	r, err := c.OpenStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", name, err)
	}
	return r, nil
}

// ensureEmptyMarkdownDir refuses to write markdown files over existing ones.
func ensureEmptyMarkdownDir(dataDir string) error {
	for _, sub := range []string{"clients", "plans", "assessments", "sessions", "progress"} {
		nonEmpty, err := storage.IsDirNonEmpty(filepath.Join(dataDir, sub))
		if err != nil {
			return err
		}
		if nonEmpty {
			return fmt.Errorf("destination %s already contains %s; migrate into an empty data directory", dataDir, sub)
		}
	}
	return nil
}

func recordCount(r storage.Repository) (int, error) {
	data, err := r.GetAllData()
	if err != nil {
		return 0, err
	}
	return len(data.Clients) + len(data.Plans) + len(data.Assessments) + len(data.Sessions) + len(data.Progress), nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source backend: sqlite, markdown or charm")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: sqlite, markdown or charm")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
