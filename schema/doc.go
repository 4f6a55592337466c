// Package schema holds the read-only structural view of a relational schema
// that the generator derives its parameters from.
//
// A [Database] is an ordered list of [Table] values. Each table carries its
// columns in declaration order and the foreign keys it owns. Incoming foreign
// keys (referrers) are not stored; they are computed from the owning tables
// in declaration order, which keeps every lookup deterministic:
//
//	db := schema.New("app", "sqlite").AddTables(
//	    schema.NewTable("user").AddColumns(
//	        schema.NewColumn("id", "integer").SetPrimaryKey().SetAutoIncrement(),
//	        schema.NewColumn("name", "text"),
//	    ),
//	    schema.NewTable("post").AddColumns(
//	        schema.NewColumn("id", "integer").SetPrimaryKey().SetAutoIncrement(),
//	        schema.NewColumn("user_id", "integer"),
//	    ).AddForeignKeys(
//	        schema.NewForeignKey("post_user_id").AddColumns("user_id").SetRefTable("user").AddRefColumns("id"),
//	    ),
//	)
//
// # Lookups
//
// Every accessor that takes a table name fails with a
// [scaffold.SchemaLookupError] when the table is absent:
//
//	cols, err := db.Columns("user")
//	pks, err := db.PrimaryKeys("user")
//	out, err := db.ForeignKeysFrom("post")
//	in, err := db.ForeignKeysTo("user")
//
// # Snapshots
//
// A Database can be written to and read from a msgpack snapshot, which lets
// generation run without a live connection:
//
//	err := schema.SaveSnapshot("app.schema.msgpack", db)
//	db, err := schema.LoadSnapshot("app.schema.msgpack")
package schema
