package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bioisac/admindesk/internal/admin/store"
	"github.com/bioisac/admindesk/internal/admin/store/drivers/postgres"
	"github.com/bioisac/admindesk/internal/admin/store/drivers/sqlite"
)

// Database drivers selectable through DATABASE_URL.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrUnsupportedDatabase = errors.New("unsupported database")

// Database is a parsed DATABASE_URL.
type Database struct {
	Driver string
	// DSN is a file path for sqlite and the full URL for postgres.
	DSN string
}

// ParseDatabaseURL accepts sqlite://<path>, a bare file path, or a
// postgres:// (postgresql://) URL.
func ParseDatabaseURL(raw string) (Database, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Database{}, errors.New("DATABASE_URL is not set")
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return Database{Driver: DriverSQLite, DSN: raw}, nil
	}

	switch strings.ToLower(scheme) {
	case "sqlite", "sqlite3", "file":
		if rest == "" {
			return Database{}, errors.New("DATABASE_URL: sqlite path is empty")
		}
		return Database{Driver: DriverSQLite, DSN: rest}, nil

	case "postgres", "postgresql":
		u, err := url.Parse(raw)
		if err != nil {
			return Database{}, fmt.Errorf("DATABASE_URL: %w", err)
		}
		if u.Host == "" {
			return Database{}, errors.New("DATABASE_URL: postgres host is empty")
		}
		return Database{Driver: DriverPostgres, DSN: raw}, nil

	case "mysql":
		return Database{}, fmt.Errorf("%w: mysql is not supported, use sqlite:// or postgres://", ErrUnsupportedDatabase)

	default:
		return Database{}, fmt.Errorf("%w: %q", ErrUnsupportedDatabase, scheme)
	}
}

// String is the descriptor with any password redacted, for logging.
func (d Database) String() string {
	if d.Driver != DriverPostgres {
		return d.Driver + "://" + d.DSN
	}
	u, err := url.Parse(d.DSN)
	if err != nil {
		return d.Driver + "://?"
	}
	return u.Redacted()
}

// openStore connects to the database, applies migrations and returns
// the store.
func openStore(ctx context.Context, db Database) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch db.Driver {
	case DriverSQLite:
		st, err = sqlite.NewStore(db.DSN)
	case DriverPostgres:
		st, err = postgres.NewStore(ctx, db.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDatabase, db.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return st, nil
}
