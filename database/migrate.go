package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations
var migrationsFS embed.FS

// Supported migration drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// MigrationState describes the schema version of a database
type MigrationState struct {
	Applied bool
	Version uint
	Dirty   bool
}

// MigrateUp runs all pending migrations
func MigrateUp(driver, dsn string) error {
	log.WithField("driver", driver).Info("Running migrations")

	m, err := getMigrate(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No new migrations to apply")
	} else {
		version, _, _ := m.Version()
		log.WithField("version", version).Info("Successfully migrated")
	}

	return nil
}

// MigrateDown rolls back the specified number of migrations
func MigrateDown(driver, dsn, stepsStr string) error {
	steps, err := strconv.Atoi(stepsStr)
	if err != nil {
		return fmt.Errorf("invalid steps value: %w", err)
	}
	if steps <= 0 {
		return fmt.Errorf("invalid steps value: %d", steps)
	}

	m, err := getMigrate(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	err = m.Steps(-steps)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to rollback migrations: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No migrations to rollback")
	} else {
		version, _, _ := m.Version()
		log.WithField("version", version).Info("Successfully rolled back")
	}

	return nil
}

// MigrateStatus reports the current migration version
func MigrateStatus(driver, dsn string) (*MigrationState, error) {
	m, err := getMigrate(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return &MigrationState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get migration version: %w", err)
	}

	return &MigrationState{Applied: true, Version: version, Dirty: dirty}, nil
}

// RunMigrationsWithURL runs all pending Postgres migrations against databaseURL.
// Used by test containers whose URL is only known at runtime.
func RunMigrationsWithURL(databaseURL string) error {
	return runUp(DriverPostgres, databaseURL)
}

// RunSQLiteMigrations runs all pending SQLite migrations against the file at path
func RunSQLiteMigrations(path string) error {
	return runUp(DriverSQLite, path)
}

func runUp(driver, dsn string) error {
	m, err := getMigrate(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// getMigrate opens a dedicated connection for the migrator; closing the
// migrator closes that connection.
func getMigrate(driver, dsn string) (*migrate.Migrate, error) {
	var (
		instance   migratedb.Driver
		driverName string
		err        error
	)

	switch driver {
	case DriverPostgres:
		config, perr := pgxpool.ParseConfig(dsn)
		if perr != nil {
			return nil, fmt.Errorf("failed to parse database URL: %w", perr)
		}
		db := stdlib.OpenDB(*config.ConnConfig)
		instance, err = postgres.WithInstance(db, &postgres.Config{})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create postgres driver: %w", err)
		}
		driverName = "postgres"
	case DriverSQLite:
		db, oerr := sql.Open("sqlite3", SQLiteDSN(dsn))
		if oerr != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", oerr)
		}
		instance, err = sqlite3.WithInstance(db, &sqlite3.Config{})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
		}
		driverName = "sqlite3"
	default:
		return nil, fmt.Errorf("unsupported migration driver %q", driver)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, driverName, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, nil
}
