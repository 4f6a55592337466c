// Package sql opens database connections for the supported dialects.
//
// Importing this package registers the database/sql drivers used by the
// generator: github.com/go-sql-driver/mysql, github.com/lib/pq and
// modernc.org/sqlite.
//
//	drv, err := sql.Open(dialect.SQLite, "file:app.db?_pragma=foreign_keys(1)")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//
//	name, err := drv.DBName(ctx)
package sql
