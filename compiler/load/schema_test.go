package load

import (
	"bytes"
	"context"
	stdsql "database/sql"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/scaffold/schema"
)

func TestConfig_LoadLive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.db")
	db, err := stdsql.Open("sqlite", path)
	require.NoError(t, err)
	for _, stmt := range []string{
		"CREATE TABLE `user` (`id` integer NOT NULL, `name` text NOT NULL, PRIMARY KEY (`id`))",
		"CREATE TABLE `post` (`id` integer NOT NULL, `author_id` integer NULL, PRIMARY KEY (`id`), CONSTRAINT `post_author` FOREIGN KEY (`author_id`) REFERENCES `user` (`id`))",
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := &Config{Connection: "blog", Dialect: "sqlite3", DSN: path, Logger: log}
	s, err := cfg.Load(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "msg=inspected")
	assert.Contains(t, buf.String(), "tables=2")
	assert.Contains(t, buf.String(), "stats.queries=")
	assert.Equal(t, "blog", s.ConnectionName())
	assert.Equal(t, "main", s.DBName())
	assert.Equal(t, "sqlite", s.DialectName())
	assert.ElementsMatch(t, []string{"post", "user"}, s.TableNames())

	refs, err := s.ForeignKeysTo("user")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "post", refs[0].Table)

	ddl, err := s.CreateTablesDDL(context.Background())
	require.NoError(t, err)
	assert.Contains(t, ddl, "CREATE TABLE `user`")
	assert.Contains(t, ddl, "CREATE TABLE `post`")
}

func TestConfig_LoadSnapshot(t *testing.T) {
	db := schema.New("shop", "mysql").AddTables(
		schema.NewTable("product").AddColumns(
			schema.NewColumn("id", "int").SetPrimaryKey().SetAutoIncrement(),
			schema.NewColumn("title", "varchar(255)"),
		),
	)
	path := filepath.Join(t.TempDir(), "shop.msgpack")
	require.NoError(t, schema.SaveSnapshot(path, db))

	cfg := &Config{Connection: "shop", Snapshot: path}
	s, err := cfg.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "shop", s.DBName())
	assert.Equal(t, "mysql", s.DialectName())
	cols, err := s.Columns("product")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.True(t, cols[0].IsAutoIncrement())
}

func TestConfig_LoadErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "no connection", cfg: Config{DSN: "x"}, want: "connection name is required"},
		{name: "no source", cfg: Config{Connection: "c"}, want: "neither a dsn nor a snapshot"},
		{name: "bad dialect", cfg: Config{Connection: "c", Dialect: "oracle", DSN: "x"}, want: "oracle"},
		{name: "missing snapshot", cfg: Config{Connection: "c", Snapshot: filepath.Join(t.TempDir(), "none")}, want: `connection "c"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Load(ctx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_LoadValidates(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	bad := schema.New("app", "sqlite").AddTables(
		schema.NewTable("post").AddColumns(
			schema.NewColumn("id", "integer").SetPrimaryKey(),
		).AddForeignKeys(
			schema.NewForeignKey("post_user").AddColumns("user_id").SetRefTable("user").AddRefColumns("id"),
		),
	)
	path := filepath.Join(dir, "bad.msgpack")
	require.NoError(t, schema.SaveSnapshot(path, bad))
	_, err := (&Config{Connection: "app", Snapshot: path}).Load(ctx)
	assert.ErrorContains(t, err, `non-existent column "user_id"`)

	keyless := schema.New("app", "sqlite").AddTables(
		schema.NewTable("log").AddColumns(schema.NewColumn("message", "text")),
	)
	path = filepath.Join(dir, "keyless.msgpack")
	require.NoError(t, schema.SaveSnapshot(path, keyless))
	var buf bytes.Buffer
	_, err = (&Config{Connection: "app", Snapshot: path, Logger: slog.New(slog.NewTextHandler(&buf, nil))}).Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "schema warning")
	assert.Contains(t, buf.String(), "table=log")
}
