package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/scaffold/schema"
)

func TestGoType(t *testing.T) {
	tests := []struct {
		typ      string
		nullable bool
		want     string
	}{
		{"INTEGER", false, "int64"},
		{"bigint unsigned", false, "int64"},
		{"int(11)", true, "sql.NullInt64"},
		{"varchar(255)", false, "string"},
		{"character varying(64)", true, "sql.NullString"},
		{"text", false, "string"},
		{"", false, "string"},
		{"decimal(10,2)", false, "float64"},
		{"double precision", true, "sql.NullFloat64"},
		{"boolean", false, "bool"},
		{"timestamp with time zone", false, "time.Time"},
		{"datetime", true, "sql.NullTime"},
		{"blob", true, "[]byte"},
		{"bytea", false, "[]byte"},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			c := schema.NewColumn("c", tt.typ).SetNull(tt.nullable)
			assert.Equal(t, tt.want, goType(c))
		})
	}
}

func TestColumnImports(t *testing.T) {
	cols := []*schema.Column{
		schema.NewColumn("id", "integer"),
		schema.NewColumn("title", "text").SetNull(true),
		schema.NewColumn("created_at", "datetime"),
		schema.NewColumn("deleted_at", "datetime").SetNull(true),
	}
	assert.Equal(t, []string{"context", "database/sql", "time"}, columnImports(cols, "context", "database/sql"))
	assert.Equal(t, []string{"strings"}, columnImports(cols[:1], "strings"))
	assert.Empty(t, columnImports(nil))
}
