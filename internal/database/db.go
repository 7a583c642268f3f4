package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jgoulah/gridstats/pkg/models"
	_ "modernc.org/sqlite"
)

//go:embed sql/schema.sql
var schemaSQL string

//go:embed sql/insert-interval.sql
var insertIntervalSQL string

// ErrDataUnavailable is returned when the energy store cannot be opened or queried
var ErrDataUnavailable = errors.New("energy data unavailable")

// timestampLayout is how interval_start is written by InsertIntervals
const timestampLayout = "2006-01-02 15:04:05"

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// Options controls how the store is opened
type Options struct {
	// Logger receives every SQL statement at debug level when QueryLog is set
	Logger   *slog.Logger
	QueryLog bool
}

// Open opens an existing energy store read-only. The handle is safe for
// concurrent use by the aggregate queries.
func Open(ctx context.Context, dbPath string, opts Options) (*DB, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	conn, err := openConn(readOnlyDSN(dbPath), opts)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", ErrDataUnavailable, err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: pinging database: %v", ErrDataUnavailable, err)
	}

	return &DB{conn: conn}, nil
}

// OpenWritable opens (creating if needed) the store for import and ensures
// the energy_usage table exists
func OpenWritable(ctx context.Context, dbPath string, opts Options) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := openConn(writableDSN(dbPath), opts)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single writer keeps SQLite from reporting "database is locked" during import
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.ensureSchema(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

func openConn(dsn string, opts Options) (*sql.DB, error) {
	if opts.QueryLog {
		connector, err := NewLoggingConnector(dsn, opts.Logger)
		if err != nil {
			return nil, err
		}
		return sql.OpenDB(connector), nil
	}
	return sql.Open("sqlite", dsn)
}

func readOnlyDSN(path string) string {
	return fileDSN(path, "mode=ro&_pragma=query_only(1)&_pragma=busy_timeout(5000)")
}

func writableDSN(path string) string {
	return fileDSN(path, "mode=rwc&_pragma=busy_timeout(5000)")
}

// fileDSN builds a file: URI with the path escaped, so '#' and '?' in
// directory names stay part of the path
func fileDSN(path, query string) string {
	path = strings.TrimPrefix(path, "file:")
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path), OmitHost: true, RawQuery: query}
	return u.String()
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// ensureSchema creates the energy_usage table
func (db *DB) ensureSchema(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, schemaSQL)
	return err
}

// InsertIntervals stores readings in one transaction, ignoring intervals that
// already exist. It returns the number of rows actually inserted.
func (db *DB) InsertIntervals(ctx context.Context, intervals []models.EnergyInterval) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, insertIntervalSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, iv := range intervals {
		args := []any{
			iv.IntervalStart.UTC().Format(timestampLayout),
			iv.ConsumptionKWh,
			iv.CarbonIntensity,
		}
		for _, key := range models.FuelKeys {
			args = append(args, iv.Value(key))
		}

		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return 0, fmt.Errorf("inserting interval %s: %w", iv.IntervalStart.Format(time.RFC3339), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("reading rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return inserted, nil
}
