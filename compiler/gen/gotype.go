package gen

import (
	"slices"
	"strings"

	"github.com/syssam/scaffold/schema"
)

// goTypes maps base SQL types to their Go type and the nullable form.
var goTypes = func() map[string][2]string {
	m := make(map[string][2]string)
	add := func(typ [2]string, names ...string) {
		for _, n := range names {
			m[n] = typ
		}
	}
	add([2]string{"int64", "sql.NullInt64"},
		"tinyint", "smallint", "mediumint", "int", "integer", "bigint",
		"int2", "int4", "int8", "serial", "smallserial", "bigserial", "year")
	add([2]string{"float64", "sql.NullFloat64"},
		"real", "float", "float4", "float8", "double", "decimal", "numeric", "money")
	add([2]string{"bool", "sql.NullBool"}, "bool", "boolean")
	add([2]string{"time.Time", "sql.NullTime"},
		"date", "datetime", "timestamp", "timestamptz", "time", "timetz")
	add([2]string{"[]byte", "[]byte"},
		"blob", "tinyblob", "mediumblob", "longblob", "bytea", "binary", "varbinary")
	return m
}()

// goType returns the Go type holding values of the column.
func goType(c *schema.Column) string {
	typ, ok := goTypes[c.BaseType()]
	if !ok {
		typ = [2]string{"string", "sql.NullString"}
	}
	if c.Nullable {
		return typ[1]
	}
	return typ[0]
}

// columnImports returns the sorted imports needed by the Go types of the
// columns, merged with the given fixed imports.
func columnImports(cols []*schema.Column, fixed ...string) []string {
	imports := slices.Clone(fixed)
	for _, c := range cols {
		switch t := goType(c); {
		case strings.HasPrefix(t, "sql."):
			imports = append(imports, "database/sql")
		case strings.HasPrefix(t, "time."):
			imports = append(imports, "time")
		}
	}
	slices.Sort(imports)
	return slices.Compact(imports)
}
