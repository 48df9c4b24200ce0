package implementations

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}

	if dialect == DialectSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s connection", driver)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "ping %s", driver)
	}

	if dialect == DialectSQLite {
		// one connection keeps in-memory databases shared and serializes writers
		db.SetMaxOpenConns(1)
		return db, nil
	}

	// Configure connection pool for concurrent goroutines
	db.SetMaxIdleConns(20)
	db.SetMaxOpenConns(30)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(15 * time.Minute)

	return db, nil
}

// sqliteDSN turns on foreign key enforcement unless the DSN already decides it.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}
	return dsn + separator + "_foreign_keys=1"
}
