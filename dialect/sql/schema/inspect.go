// Package schema inspects live databases into schema descriptions and
// generates their DDL, using Atlas drivers for each dialect.
package schema

import (
	"context"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/scaffold/dialect"
	"github.com/syssam/scaffold/dialect/sql"
	dbschema "github.com/syssam/scaffold/schema"
)

// InspectOption configures schema inspection.
type InspectOption func(*inspectConfig)

type inspectConfig struct {
	schemaName string
	tables     []string
}

// WithSchemaName sets the database schema to inspect. By default the
// connection's current schema is used.
func WithSchemaName(name string) InspectOption {
	return func(c *inspectConfig) {
		c.schemaName = name
	}
}

// WithTables limits inspection to the given tables.
func WithTables(tables ...string) InspectOption {
	return func(c *inspectConfig) {
		c.tables = append(c.tables, tables...)
	}
}

// Inspect reads the tables, columns, primary keys and foreign keys of the
// connected database.
func Inspect(ctx context.Context, drv sql.Conn, opts ...InspectOption) (*dbschema.Database, error) {
	cfg := &inspectConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	adrv, err := atlasDriver(drv)
	if err != nil {
		return nil, err
	}
	s, err := adrv.InspectSchema(ctx, cfg.schemaName, &schema.InspectOptions{Tables: cfg.tables})
	if err != nil {
		return nil, fmt.Errorf("schema: inspect %s: %w", drv.Dialect(), err)
	}
	db := dbschema.New(s.Name, drv.Dialect())
	for _, t := range s.Tables {
		db.AddTables(convertTable(drv.Dialect(), t))
	}
	return db, nil
}

func atlasDriver(drv sql.Conn) (migrate.Driver, error) {
	switch drv.Dialect() {
	case dialect.SQLite:
		return sqlite.Open(drv)
	case dialect.MySQL:
		return mysql.Open(drv)
	case dialect.Postgres:
		return postgres.Open(drv)
	default:
		return nil, fmt.Errorf("schema: unsupported dialect %q", drv.Dialect())
	}
}

func convertTable(d string, t *schema.Table) *dbschema.Table {
	pks := make(map[string]bool)
	if t.PrimaryKey != nil {
		for _, p := range t.PrimaryKey.Parts {
			if p.C != nil {
				pks[p.C.Name] = true
			}
		}
	}
	out := dbschema.NewTable(t.Name)
	for _, c := range t.Columns {
		col := dbschema.NewColumn(c.Name, rawType(c)).SetNull(c.Type != nil && c.Type.Null)
		if pks[c.Name] {
			col.SetPrimaryKey()
			if len(pks) == 1 && (autoIncrement(c) || hasAutoIncrement(t.Attrs) || rowidAlias(d, col)) {
				col.SetAutoIncrement()
			}
		} else if autoIncrement(c) {
			col.SetAutoIncrement()
		}
		out.AddColumns(col)
	}
	for _, fk := range t.ForeignKeys {
		f := dbschema.NewForeignKey(fk.Symbol)
		for _, c := range fk.Columns {
			f.AddColumns(c.Name)
		}
		if fk.RefTable != nil {
			f.SetRefTable(fk.RefTable.Name)
		}
		for _, c := range fk.RefColumns {
			f.AddRefColumns(c.Name)
		}
		out.AddForeignKeys(f)
	}
	return out
}

func rawType(c *schema.Column) string {
	if c.Type == nil {
		return ""
	}
	return c.Type.Raw
}

func autoIncrement(c *schema.Column) bool {
	if hasAutoIncrement(c.Attrs) {
		return true
	}
	if c.Type != nil {
		if _, ok := c.Type.Type.(*postgres.SerialType); ok {
			return true
		}
	}
	// Postgres serial columns are reported as integers defaulting to nextval().
	if x, ok := c.Default.(*schema.RawExpr); ok && strings.HasPrefix(strings.ToLower(x.X), "nextval(") {
		return true
	}
	return false
}

func hasAutoIncrement(attrs []schema.Attr) bool {
	for _, a := range attrs {
		switch a.(type) {
		case *sqlite.AutoIncrement, *mysql.AutoIncrement, *postgres.Identity:
			return true
		}
	}
	return false
}

// rowidAlias reports if an SQLite column is an alias of the rowid, which
// makes it auto-assigned even without the AUTOINCREMENT keyword.
func rowidAlias(d string, c *dbschema.Column) bool {
	return d == dialect.SQLite && strings.EqualFold(c.Type, "integer")
}
