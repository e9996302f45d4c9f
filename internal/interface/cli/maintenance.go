package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/careerhub/placement-hub/internal/infrastructure/persistence/postgres"
)

var errNoMigrator = errors.New("migrations require STORAGE_DRIVER=postgres")

func migrateCmd(s *session) *cobra.Command {
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}

	c.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
				if app.Migrator == nil {
					return errNoMigrator
				}
				applied, err := app.Migrator.Migrate(ctx)
				if err != nil {
					return err
				}
				return out.message(fmt.Sprintf("applied %d migration(s)", len(applied)), map[string]any{"applied": applied})
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest applied migration",
			RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
				if app.Migrator == nil {
					return errNoMigrator
				}
				version, err := app.Migrator.Rollback(ctx)
				if err != nil {
					return err
				}
				if version == 0 {
					return out.message("nothing to roll back", map[string]any{"rolled_back": nil})
				}
				return out.message(fmt.Sprintf("rolled back migration %d", version), map[string]any{"rolled_back": version})
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
				if app.Migrator == nil {
					return errNoMigrator
				}
				migrations, err := app.Migrator.Status(ctx)
				if err != nil {
					return err
				}
				return out.emit(migrationRows(migrations), func(w io.Writer) {
					fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED")
					for _, m := range migrations {
						applied := "pending"
						if m.IsApplied {
							applied = m.AppliedAt.UTC().Format("2006-01-02 15:04:05")
						}
						fmt.Fprintf(w, "%d\t%s\t%s\n", m.Version, m.Name, applied)
					}
				})
			}),
		},
	)
	return c
}

type migrationRow struct {
	Version   int    `json:"version"`
	Name      string `json:"name"`
	Applied   bool   `json:"applied"`
	AppliedAt string `json:"applied_at,omitempty"`
}

func migrationRows(ms []postgres.Migration) []migrationRow {
	rows := make([]migrationRow, 0, len(ms))
	for _, m := range ms {
		row := migrationRow{Version: m.Version, Name: m.Name, Applied: m.IsApplied}
		if m.IsApplied {
			row.AppliedAt = m.AppliedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		rows = append(rows, row)
	}
	return rows
}

func seedCmd(s *session) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load staff, students, reps and postings from a YAML file",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			report, err := app.Seed(ctx, file)
			if err != nil {
				return err
			}
			return out.message(
				fmt.Sprintf("seeded %d staff, %d students, %d reps, %d internships (%d skipped)",
					report.Staff, report.Students, report.Reps, report.Internships, report.Skipped),
				map[string]any{
					"staff":       report.Staff,
					"students":    report.Students,
					"reps":        report.Reps,
					"internships": report.Internships,
					"skipped":     report.Skipped,
				},
			)
		}),
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file path")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
