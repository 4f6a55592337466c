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
	dbschema "github.com/syssam/scaffold/schema"
)

// CreateTablesDDL returns a script creating every table of db, in table
// declaration order, for the dialect recorded on db.
func CreateTablesDDL(ctx context.Context, db *dbschema.Database) (string, error) {
	planner, err := planApplier(db.Dialect)
	if err != nil {
		return "", err
	}
	s, err := atlasSchema(db)
	if err != nil {
		return "", err
	}
	changes := make([]schema.Change, 0, len(s.Tables))
	for _, t := range s.Tables {
		changes = append(changes, &schema.AddTable{T: t})
	}
	if len(changes) == 0 {
		return "", nil
	}
	plan, err := planner.PlanChanges(ctx, "create_tables", changes)
	if err != nil {
		return "", fmt.Errorf("schema: plan %s tables: %w", db.Dialect, err)
	}
	var b strings.Builder
	for _, c := range plan.Changes {
		b.WriteString(c.Cmd)
		b.WriteString(";\n")
	}
	return b.String(), nil
}

func planApplier(d string) (migrate.PlanApplier, error) {
	switch d {
	case dialect.SQLite:
		return sqlite.DefaultPlan, nil
	case dialect.MySQL:
		return mysql.DefaultPlan, nil
	case dialect.Postgres:
		return postgres.DefaultPlan, nil
	default:
		return nil, fmt.Errorf("schema: unsupported dialect %q", d)
	}
}

// atlasSchema converts db into an unnamed Atlas schema, so the planned
// statements are not qualified with a schema name.
func atlasSchema(db *dbschema.Database) (*schema.Schema, error) {
	s := schema.New("")
	for _, t := range db.Tables {
		at := schema.NewTable(t.Name)
		var pk []*schema.Column
		// Only a single-column key can be generated by the database.
		single := len(t.PrimaryKey()) == 1
		for _, c := range t.Columns {
			ac, err := atlasColumn(db.Dialect, c, single && c.PrimaryKey && c.AutoIncrement)
			if err != nil {
				return nil, fmt.Errorf("schema: table %q: %w", t.Name, err)
			}
			at.AddColumns(ac)
			if c.PrimaryKey {
				pk = append(pk, ac)
			}
		}
		if len(pk) > 0 {
			at.SetPrimaryKey(schema.NewPrimaryKey(pk...))
		}
		s.AddTables(at)
	}
	for _, t := range db.Tables {
		at, _ := s.Table(t.Name)
		for _, fk := range t.ForeignKeys {
			afk, ok := atlasForeignKey(s, at, fk)
			if ok {
				at.AddForeignKeys(afk)
			}
		}
	}
	return s, nil
}

func atlasColumn(d string, c *dbschema.Column, autoinc bool) (*schema.Column, error) {
	raw := strings.TrimSpace(c.Type)
	if raw == "" {
		// SQLite allows typeless columns; emit them with text affinity.
		raw = "text"
	}
	t, err := parseType(d, raw)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", c.Name, err)
	}
	ac := schema.NewColumn(c.Name).SetType(t).SetNull(c.Nullable && !c.PrimaryKey)
	ac.Type.Raw = raw
	if autoinc {
		switch d {
		case dialect.SQLite:
			ac.AddAttrs(&sqlite.AutoIncrement{})
		case dialect.MySQL:
			ac.AddAttrs(&mysql.AutoIncrement{})
		case dialect.Postgres:
			if _, serial := t.(*postgres.SerialType); !serial {
				ac.AddAttrs(&postgres.Identity{Generation: "BY DEFAULT"})
			}
		}
	}
	return ac, nil
}

func parseType(d, raw string) (schema.Type, error) {
	switch d {
	case dialect.SQLite:
		return sqlite.ParseType(strings.ToLower(raw))
	case dialect.MySQL:
		return mysql.ParseType(raw)
	case dialect.Postgres:
		return postgres.ParseType(raw)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", d)
	}
}

// atlasForeignKey converts fk, skipping keys whose referenced table or
// columns are not part of the schema.
func atlasForeignKey(s *schema.Schema, owner *schema.Table, fk *dbschema.ForeignKey) (*schema.ForeignKey, bool) {
	ref, ok := s.Table(fk.RefTable)
	if !ok || len(fk.Columns) == 0 || len(fk.Columns) != len(fk.RefColumns) {
		return nil, false
	}
	symbol := fk.Symbol
	if symbol == "" {
		symbol = owner.Name + "_" + strings.Join(fk.Columns, "_")
	}
	afk := schema.NewForeignKey(symbol).SetRefTable(ref)
	for i, name := range fk.Columns {
		c, ok := owner.Column(name)
		if !ok {
			return nil, false
		}
		rc, ok := ref.Column(fk.RefColumns[i])
		if !ok {
			return nil, false
		}
		afk.AddColumns(c).AddRefColumns(rc)
	}
	return afk, true
}
