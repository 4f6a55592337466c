package sql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/scaffold/dialect"
)

// ExecQuerier is the subset of *sql.DB used to inspect a database.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn is a connection of a known dialect.
type Conn interface {
	ExecQuerier
	Dialect() string
}

// Driver wraps a *sql.DB with the dialect it speaks.
type Driver struct {
	db      *sql.DB
	dialect string
}

// Open opens a connection for the given dialect and verifies it is reachable.
func Open(ctx context.Context, name, source string) (*Driver, error) {
	d, err := dialect.Parse(name)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(d, source)
	if err != nil {
		return nil, err
	}
	drv := OpenDB(d, db)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sql: ping %s: %w", d, err)
	}
	return drv, nil
}

// OpenDB wraps the given database/sql.DB with a Driver.
func OpenDB(dialect string, db *sql.DB) *Driver {
	return &Driver{db: db, dialect: dialect}
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB { return d.db }

// Dialect returns the dialect name of the driver.
func (d *Driver) Dialect() string { return d.dialect }

// ExecContext implements ExecQuerier.
func (d *Driver) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.db.ExecContext(ctx, query, args...)
}

// QueryContext implements ExecQuerier.
func (d *Driver) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.db.QueryContext(ctx, query, args...)
}

// Close closes the underlying connection.
func (d *Driver) Close() error { return d.db.Close() }

// DBName returns the name of the database the connection is attached to.
func (d *Driver) DBName(ctx context.Context) (string, error) {
	var query string
	switch d.dialect {
	case dialect.MySQL:
		query = "SELECT DATABASE()"
	case dialect.Postgres:
		query = "SELECT current_database()"
	case dialect.SQLite:
		// SQLite connections always attach the primary database as "main".
		return "main", nil
	default:
		return "", fmt.Errorf("sql: unsupported dialect %q", d.dialect)
	}
	var name sql.NullString
	if err := d.db.QueryRowContext(ctx, query).Scan(&name); err != nil {
		return "", fmt.Errorf("sql: query database name: %w", err)
	}
	return name.String, nil
}
