package schema

import (
	"slices"
	"strings"
)

// Column describes a single table column.
type Column struct {
	Name          string `msgpack:"name" yaml:"name"`
	Type          string `msgpack:"type,omitempty" yaml:"type"` // raw SQL type, e.g. "varchar(255)"
	Nullable      bool   `msgpack:"nullable,omitempty" yaml:"nullable"`
	PrimaryKey    bool   `msgpack:"pk,omitempty" yaml:"primary_key"`
	AutoIncrement bool   `msgpack:"autoinc,omitempty" yaml:"auto_increment"`
}

// NewColumn returns a new column with the given name and raw SQL type.
func NewColumn(name, typ string) *Column {
	return &Column{Name: name, Type: typ}
}

// SetNull configures the column nullability.
func (c *Column) SetNull(b bool) *Column {
	c.Nullable = b
	return c
}

// SetPrimaryKey marks the column as part of the table primary key.
func (c *Column) SetPrimaryKey() *Column {
	c.PrimaryKey = true
	return c
}

// SetAutoIncrement marks the column as auto-incrementing.
func (c *Column) SetAutoIncrement() *Column {
	c.AutoIncrement = true
	return c
}

// IsPrimaryKey reports if the column is part of the primary key.
func (c *Column) IsPrimaryKey() bool { return c.PrimaryKey }

// IsAutoIncrement reports if the column value is generated by the database.
func (c *Column) IsAutoIncrement() bool { return c.AutoIncrement }

// BaseType returns the lower-cased type name without size or modifiers,
// e.g. "varchar" for "VARCHAR(255)".
func (c *Column) BaseType() string {
	t := strings.ToLower(strings.TrimSpace(c.Type))
	if i := strings.IndexAny(t, "( "); i >= 0 {
		t = t[:i]
	}
	return t
}

// ForeignKey describes a reference from one table to another.
type ForeignKey struct {
	Symbol     string   `msgpack:"symbol,omitempty"`
	Table      string   `msgpack:"table"` // owning (referencing) table
	RefTable   string   `msgpack:"ref_table"`
	Columns    []string `msgpack:"columns"`
	RefColumns []string `msgpack:"ref_columns,omitempty"`
}

// NewForeignKey returns a new foreign key with the given constraint name.
func NewForeignKey(symbol string) *ForeignKey {
	return &ForeignKey{Symbol: symbol}
}

// AddColumns appends local columns to the foreign key.
func (fk *ForeignKey) AddColumns(names ...string) *ForeignKey {
	fk.Columns = append(fk.Columns, names...)
	return fk
}

// SetRefTable sets the referenced table.
func (fk *ForeignKey) SetRefTable(name string) *ForeignKey {
	fk.RefTable = name
	return fk
}

// AddRefColumns appends referenced columns to the foreign key.
func (fk *ForeignKey) AddRefColumns(names ...string) *ForeignKey {
	fk.RefColumns = append(fk.RefColumns, names...)
	return fk
}

// LocalColumns returns a copy of the local column names in declaration order.
func (fk *ForeignKey) LocalColumns() []string {
	return slices.Clone(fk.Columns)
}

// FirstLocalColumn returns the first local column, or "" if there is none.
func (fk *ForeignKey) FirstLocalColumn() string {
	if len(fk.Columns) == 0 {
		return ""
	}
	return fk.Columns[0]
}

// Table describes a database table.
type Table struct {
	Name        string        `msgpack:"name"`
	Columns     []*Column     `msgpack:"columns"`
	ForeignKeys []*ForeignKey `msgpack:"foreign_keys,omitempty"`
}

// NewTable returns a new table with the given name.
func NewTable(name string) *Table {
	return &Table{Name: name}
}

// AddColumns appends columns to the table.
func (t *Table) AddColumns(cols ...*Column) *Table {
	t.Columns = append(t.Columns, cols...)
	return t
}

// AddForeignKeys appends foreign keys to the table and sets their owner.
func (t *Table) AddForeignKeys(fks ...*ForeignKey) *Table {
	for _, fk := range fks {
		fk.Table = t.Name
	}
	t.ForeignKeys = append(t.ForeignKeys, fks...)
	return t
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// PrimaryKey returns the primary key columns in column order.
func (t *Table) PrimaryKey() []*Column {
	var pks []*Column
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pks = append(pks, c)
		}
	}
	return pks
}
