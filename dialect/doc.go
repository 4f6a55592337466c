// Package dialect names the database dialects the generator can inspect.
//
// # Supported Dialects
//
//   - Postgres: PostgreSQL database
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database
//
// Each dialect is identified by a constant string which is also the name of
// the database/sql driver registered for it:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Sub-packages
//
//   - dialect/sql: opening connections for a dialect
//   - dialect/sql/schema: schema inspection and DDL generation
package dialect
