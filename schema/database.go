package schema

import (
	"slices"

	"github.com/syssam/scaffold"
)

// Database is an ordered, read-only collection of tables. It implements the
// schema facts the generator needs (tables, columns, keys and references in
// both directions).
type Database struct {
	Name    string   `msgpack:"name"`
	Dialect string   `msgpack:"dialect"`
	Tables  []*Table `msgpack:"tables"`
}

// New returns an empty database description.
func New(name, dialect string) *Database {
	return &Database{Name: name, Dialect: dialect}
}

// AddTables appends tables to the database.
func (db *Database) AddTables(ts ...*Table) *Database {
	db.Tables = append(db.Tables, ts...)
	return db
}

// Table returns the table with the given name.
func (db *Database) Table(name string) (*Table, bool) {
	i := slices.IndexFunc(db.Tables, func(t *Table) bool { return t.Name == name })
	if i < 0 {
		return nil, false
	}
	return db.Tables[i], true
}

// TableNames returns all table names in declaration order.
func (db *Database) TableNames() []string {
	names := make([]string, 0, len(db.Tables))
	for _, t := range db.Tables {
		names = append(names, t.Name)
	}
	return names
}

func (db *Database) lookup(name string) (*Table, error) {
	t, ok := db.Table(name)
	if !ok {
		return nil, scaffold.NewSchemaLookupErrorIn(db.Name, name)
	}
	return t, nil
}

// Columns returns the columns of the given table.
func (db *Database) Columns(table string) ([]*Column, error) {
	t, err := db.lookup(table)
	if err != nil {
		return nil, err
	}
	return slices.Clone(t.Columns), nil
}

// PrimaryKeys returns the primary key columns of the given table.
func (db *Database) PrimaryKeys(table string) ([]*Column, error) {
	t, err := db.lookup(table)
	if err != nil {
		return nil, err
	}
	return t.PrimaryKey(), nil
}

// ForeignKeysFrom returns the foreign keys owned by the given table.
func (db *Database) ForeignKeysFrom(table string) ([]*ForeignKey, error) {
	t, err := db.lookup(table)
	if err != nil {
		return nil, err
	}
	return slices.Clone(t.ForeignKeys), nil
}

// ForeignKeysTo returns the foreign keys of other tables that reference the
// given table. The order is table declaration order, then key declaration order.
func (db *Database) ForeignKeysTo(table string) ([]*ForeignKey, error) {
	if _, err := db.lookup(table); err != nil {
		return nil, err
	}
	var refs []*ForeignKey
	for _, t := range db.Tables {
		for _, fk := range t.ForeignKeys {
			if fk.RefTable == table {
				refs = append(refs, fk)
			}
		}
	}
	return refs, nil
}
