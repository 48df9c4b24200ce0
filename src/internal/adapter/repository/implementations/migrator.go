package implementations

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/api-sage/banking-ledger/src/internal/logger"
)

//go:embed migrations
var migrationsFS embed.FS

// RunMigrations applies the embedded migrations for dialect that are not yet
// recorded in schema_migrations, each in its own transaction.
func RunMigrations(ctx context.Context, db *sql.DB, dialect Dialect) error {
	return runMigrations(ctx, db, migrationsFS, dialect.migrationsDir())
}

func runMigrations(ctx context.Context, db *sql.DB, fsys fs.FS, migrationsDir string) error {
	if err := ensureSchemaMigrationsTable(ctx, db); err != nil {
		return err
	}

	files, err := migrationFiles(fsys, migrationsDir)
	if err != nil {
		return err
	}

	for _, file := range files {
		applied, err := isApplied(ctx, db, file)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		sqlBytes, err := fs.ReadFile(fsys, path.Join(migrationsDir, file))
		if err != nil {
			return errors.Wrapf(err, "read migration %q", file)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return errors.Wrapf(err, "begin tx for migration %q", file)
		}

		if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "execute migration %q", file)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations(version) VALUES ($1)`, file); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "record migration %q", file)
		}

		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "commit migration %q", file)
		}

		logger.Info("migration applied", logger.Fields{
			"version": file,
		})
	}

	return nil
}

func ensureSchemaMigrationsTable(ctx context.Context, db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return errors.Wrap(err, "ensure schema_migrations table")
	}

	return nil
}

func migrationFiles(fsys fs.FS, migrationsDir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, migrationsDir)
	if err != nil {
		return nil, errors.Wrapf(err, "read migrations directory %q", migrationsDir)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".sql") {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)
	return files, nil
}

func isApplied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = $1`, version).Scan(&count); err != nil {
		return false, errors.Wrapf(err, "check migration %q status", version)
	}

	return count > 0, nil
}
