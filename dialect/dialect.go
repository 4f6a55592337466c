package dialect

import (
	"fmt"
	"strings"
)

// Database dialects.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Parse returns the canonical dialect name for the given name, accepting
// common aliases such as "sqlite3" or "postgresql".
func Parse(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case MySQL, "mariadb":
		return MySQL, nil
	case SQLite, "sqlite3":
		return SQLite, nil
	case Postgres, "postgresql", "pg":
		return Postgres, nil
	default:
		return "", fmt.Errorf("dialect: unsupported dialect %q", name)
	}
}
