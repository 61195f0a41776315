package cmd

import (
	"fmt"

	"sportsbook/config"
	"sportsbook/database"

	"github.com/spf13/cobra"
)

type migrateOptions struct {
	backend    string
	sqlitePath string
}

// target resolves the migration driver and DSN, preferring flags over configuration
func (o *migrateOptions) target() (string, string, error) {
	cfg := config.Get()

	backend := o.backend
	if backend == "" {
		backend = cfg.StorageBackend
	}

	switch backend {
	case "sqlite":
		path := o.sqlitePath
		if path == "" {
			path = cfg.SQLitePath
		}
		return database.DriverSQLite, path, nil
	case "postgres":
		url := cfg.GetDatabaseURL()
		if url == "" {
			return "", "", fmt.Errorf("DATABASE_URL is required to migrate postgres")
		}
		return database.DriverPostgres, url, nil
	default:
		return "", "", fmt.Errorf("backend %q has no migrations", backend)
	}
}

// NewMigrateCommand creates the migrate command and its up, down and status subcommands
func NewMigrateCommand() *cobra.Command {
	opts := &migrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage SQL storage schema migrations",
	}
	cmd.PersistentFlags().StringVar(&opts.backend, "backend", "", "sqlite or postgres (defaults to STORAGE_BACKEND)")
	cmd.PersistentFlags().StringVar(&opts.sqlitePath, "sqlite-path", "", "SQLite file (defaults to SQLITE_PATH)")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, dsn, err := opts.target()
			if err != nil {
				return err
			}
			return database.MigrateUp(driver, dsn)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, dsn, err := opts.target()
			if err != nil {
				return err
			}
			steps := "1"
			if len(args) == 1 {
				steps = args[0]
			}
			return database.MigrateDown(driver, dsn, steps)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the current migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, dsn, err := opts.target()
			if err != nil {
				return err
			}
			state, err := database.MigrateStatus(driver, dsn)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case !state.Applied:
				fmt.Fprintln(out, "No migrations applied")
			case state.Dirty:
				fmt.Fprintf(out, "Version %d (dirty)\n", state.Version)
			default:
				fmt.Fprintf(out, "Version %d\n", state.Version)
			}
			return nil
		},
	})

	return cmd
}
