package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/livequery"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/text/cases"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Config struct {
	Driver string
	Path   string // sqlite

	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DB is the store handle owned by the composition root and injected into
// every repository.
type DB struct {
	*sqlx.DB
	Dialect Dialect
	Hub     *livequery.Hub
	path    string
}

var registerOnce sync.Once

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

func registerFunctions() error {
	var err error
	registerOnce.Do(func() {
		err = sqlite.RegisterDeterministicScalarFunction("fold", 1,
			func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				switch v := args[0].(type) {
				case nil:
					return nil, nil
				case string:
					return cases.Fold().String(v), nil
				case []byte:
					return cases.Fold().String(string(v)), nil
				default:
					return v, nil
				}
			})
	})
	return err
}

func Open(ctx context.Context, cfg *Config) (*DB, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		return openSQLite(ctx, cfg.Path)
	case DriverPostgres:
		return openPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// OpenMemory opens a private in-memory SQLite store with the schema applied.
func OpenMemory(ctx context.Context) (*DB, error) {
	return openSQLite(ctx, ":memory:")
}

func openSQLite(ctx context.Context, path string) (*DB, error) {
	if err := registerFunctions(); err != nil {
		return nil, fmt.Errorf("register sqlite functions: %w", err)
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	conn, err := sqlx.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, err
	}
	// Single connection: one writer at a time, and an in-memory database
	// lives exactly as long as its connection.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	db := &DB{DB: conn, Dialect: Dialect{Driver: DriverSQLite}, Hub: livequery.NewHub(), path: path}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func openPostgres(ctx context.Context, cfg *Config) (*DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	conn, err := sqlx.ConnectContext(ctx, DriverPostgres, dsn)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	db := &DB{DB: conn, Dialect: Dialect{Driver: DriverPostgres}, Hub: livequery.NewHub()}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) migrate(ctx context.Context) error {
	for _, stmt := range db.Dialect.schema() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Changed tells live queries that the given tables were written.
func (db *DB) Changed(tables ...string) {
	db.Hub.Notify(tables...)
}

// InsertReturningID runs a named INSERT ... RETURNING id statement.
func (db *DB) InsertReturningID(ctx context.Context, query string, arg interface{}) (int64, error) {
	q, args, err := sqlx.Named(query+" RETURNING id", arg)
	if err != nil {
		return 0, err
	}
	var id int64
	if err := db.GetContext(ctx, &id, db.Rebind(q), args...); err != nil {
		return 0, db.Translate(err)
	}
	return id, nil
}

// Translate maps driver constraint errors onto apperr.ErrConflict.
func (db *DB) Translate(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case int(sqlite3.SQLITE_CONSTRAINT_UNIQUE), int(sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY):
			return fmt.Errorf("%w: %s", apperr.ErrConflict, sqliteErr.Error())
		}
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", apperr.ErrConflict, pqErr.Message)
	}
	return err
}

// Backup writes a consistent copy of the SQLite database file to dst.
func (db *DB) Backup(ctx context.Context, dst string) error {
	if db.Dialect.Driver != DriverSQLite {
		return fmt.Errorf("file backup on %s: %w", db.Dialect.Driver, apperr.ErrUnsupported)
	}
	if strings.TrimSpace(dst) == "" {
		return errors.New("backup destination is empty")
	}
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", dst); err != nil {
		return fmt.Errorf("vacuum into %s: %w", dst, err)
	}
	return nil
}

// Path is the SQLite file backing the store, empty for Postgres.
func (db *DB) Path() string {
	return db.path
}
