// Package load resolves the schema of a named connection, either by
// inspecting a live database or by reading a previously saved snapshot.
package load

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/syssam/scaffold/dialect"
	"github.com/syssam/scaffold/dialect/sql"
	sqlschema "github.com/syssam/scaffold/dialect/sql/schema"
	"github.com/syssam/scaffold/schema"
)

// Config describes where the schema of a connection comes from.
type Config struct {
	// Connection is the name the schema is known under. It names the
	// schema dump written next to the generated models.
	Connection string
	// Dialect and DSN describe a live database to inspect.
	Dialect string
	DSN     string
	// Snapshot is the path of a saved schema, used when DSN is empty.
	Snapshot string
	// Logger receives slow inspection queries and a summary of the
	// inspection. Nil discards.
	Logger *slog.Logger
}

// Schema is a loaded database schema. It answers the schema questions of
// the generator and produces the DDL of its tables.
type Schema struct {
	*schema.Database
	conn   string
	dbName string
}

// Load reads the schema described by the config. A live database is
// inspected when a DSN is set, otherwise the snapshot file is decoded.
// Inconsistent schemas are rejected; schema warnings are logged.
func (c *Config) Load(ctx context.Context) (*Schema, error) {
	if c.Connection == "" {
		return nil, errors.New("load: connection name is required")
	}
	var (
		s   *Schema
		err error
	)
	switch {
	case c.DSN != "":
		s, err = c.inspect(ctx)
	case c.Snapshot != "":
		var db *schema.Database
		if db, err = schema.LoadSnapshot(c.Snapshot); err == nil {
			s = FromDatabase(c.Connection, db)
		}
	default:
		return nil, fmt.Errorf("load: connection %q has neither a dsn nor a snapshot", c.Connection)
	}
	if err != nil {
		return nil, fmt.Errorf("load: connection %q: %w", c.Connection, err)
	}
	r := sqlschema.ValidateSchema(s.Database)
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("load: connection %q: %w", c.Connection, err)
	}
	for _, w := range r.Warnings {
		c.logger().Warn("schema warning", "connection", c.Connection, "table", w.Table, "message", w.Message)
	}
	return s, nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c *Config) inspect(ctx context.Context) (*Schema, error) {
	d, err := dialect.Parse(c.Dialect)
	if err != nil {
		return nil, err
	}
	drv, err := sql.Open(ctx, d, c.DSN)
	if err != nil {
		return nil, err
	}
	defer drv.Close()
	log := c.logger()
	conn := sql.NewStatsDriver(drv, sql.WithSlowQueryLog(log))
	db, err := sqlschema.Inspect(ctx, conn)
	if err != nil {
		return nil, err
	}
	log.Debug("inspected", "connection", c.Connection, "tables", len(db.Tables), "stats", conn.QueryStats().Stats())
	name, err := drv.DBName(ctx)
	if err != nil {
		return nil, err
	}
	return &Schema{Database: db, conn: c.Connection, dbName: name}, nil
}

// FromDatabase wraps an in-memory schema description.
func FromDatabase(conn string, db *schema.Database) *Schema {
	return &Schema{Database: db, conn: conn, dbName: db.Name}
}

// ConnectionName returns the name of the connection the schema belongs to.
func (s *Schema) ConnectionName() string { return s.conn }

// DBName returns the name of the database.
func (s *Schema) DBName() string { return s.dbName }

// DialectName returns the SQL dialect of the database.
func (s *Schema) DialectName() string { return s.Dialect }

// CreateTablesDDL returns the CREATE TABLE statements of all tables.
func (s *Schema) CreateTablesDDL(ctx context.Context) (string, error) {
	return sqlschema.CreateTablesDDL(ctx, s.Database)
}
