package gen

import (
	"context"

	"github.com/syssam/scaffold/schema"
)

// SchemaFacts answers the schema questions the generator asks about a
// database. Lookups of unknown tables fail with a *scaffold.SchemaLookupError.
// *schema.Database implements it.
type SchemaFacts interface {
	// TableNames returns all table names in a stable order.
	TableNames() []string
	// Columns returns the columns of a table in table order.
	Columns(table string) ([]*schema.Column, error)
	// PrimaryKeys returns the primary key columns of a table.
	PrimaryKeys(table string) ([]*schema.Column, error)
	// ForeignKeysFrom returns the foreign keys declared on a table.
	ForeignKeysFrom(table string) ([]*schema.ForeignKey, error)
	// ForeignKeysTo returns the foreign keys of other tables referencing
	// a table, in a stable order.
	ForeignKeysTo(table string) ([]*schema.ForeignKey, error)
}

// DDLSource is implemented by schema sources able to produce the CREATE
// TABLE statements of their tables. Models generation dumps it next to
// the models.
type DDLSource interface {
	CreateTablesDDL(context.Context) (string, error)
}

// ConnectionInfo is optionally implemented by schema sources to describe
// the connection they were loaded from.
type ConnectionInfo interface {
	ConnectionName() string
	DBName() string
	DialectName() string
}

var _ SchemaFacts = (*schema.Database)(nil)
