package schema

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/scaffold/dialect"
	"github.com/syssam/scaffold/dialect/sql"
	dbschema "github.com/syssam/scaffold/schema"
)

func openBlog(t *testing.T, name string) *sql.Driver {
	t.Helper()
	drv, err := sql.Open(context.Background(), dialect.SQLite, "file:"+name+"?mode=memory&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { drv.Close() })
	// Keep the in-memory database alive for the lifetime of the test.
	drv.DB().SetMaxOpenConns(1)
	for _, stmt := range []string{
		"CREATE TABLE `user` (`id` INTEGER, `name` text NOT NULL, PRIMARY KEY(`id` ASC))",
		"CREATE TABLE `post` (`id` INTEGER, `user_id` INTEGER, `content` text, PRIMARY KEY(`id` ASC), FOREIGN KEY(`user_id`) REFERENCES `user`(`id`))",
		"CREATE TABLE `tag_post` (`tag_id` INTEGER NOT NULL, `post_id` INTEGER NOT NULL, PRIMARY KEY(`tag_id`, `post_id`))",
	} {
		_, err := drv.DB().ExecContext(context.Background(), stmt)
		require.NoError(t, err)
	}
	return drv
}

func TestInspect_SQLite(t *testing.T) {
	drv := openBlog(t, "inspect_sqlite")

	db, err := Inspect(context.Background(), drv)
	require.NoError(t, err)
	assert.Equal(t, dialect.SQLite, db.Dialect)
	assert.ElementsMatch(t, []string{"user", "post", "tag_post"}, db.TableNames())

	cols, err := db.Columns("post")
	require.NoError(t, err)
	var names []string
	for _, c := range cols {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"id", "user_id", "content"}, names)

	pks, err := db.PrimaryKeys("user")
	require.NoError(t, err)
	require.Len(t, pks, 1)
	assert.Equal(t, "id", pks[0].Name)
	assert.True(t, pks[0].IsAutoIncrement(), "INTEGER PRIMARY KEY is a rowid alias")

	pks, err = db.PrimaryKeys("tag_post")
	require.NoError(t, err)
	require.Len(t, pks, 2)
	for _, pk := range pks {
		assert.False(t, pk.IsAutoIncrement())
	}

	refs, err := db.ForeignKeysTo("user")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "post", refs[0].Table)
	assert.Equal(t, "user_id", refs[0].FirstLocalColumn())
}

func TestInspect_Tables(t *testing.T) {
	drv := openBlog(t, "inspect_tables")

	db, err := Inspect(context.Background(), drv, WithTables("user"))
	require.NoError(t, err)
	assert.Equal(t, []string{"user"}, db.TableNames())
}

func TestCreateTablesDDL(t *testing.T) {
	blog := func(d string) *dbschema.Database {
		return dbschema.New("blog", d).AddTables(
			dbschema.NewTable("user").AddColumns(
				dbschema.NewColumn("id", "integer").SetPrimaryKey().SetAutoIncrement(),
				dbschema.NewColumn("name", "varchar(255)"),
			),
			dbschema.NewTable("post").AddColumns(
				dbschema.NewColumn("id", "integer").SetPrimaryKey().SetAutoIncrement(),
				dbschema.NewColumn("user_id", "integer").SetNull(true),
				dbschema.NewColumn("content", "text"),
			).AddForeignKeys(
				dbschema.NewForeignKey("post_user").AddColumns("user_id").SetRefTable("user").AddRefColumns("id"),
			),
		)
	}

	for _, d := range []string{dialect.SQLite, dialect.MySQL, dialect.Postgres} {
		t.Run(d, func(t *testing.T) {
			ddl, err := CreateTablesDDL(context.Background(), blog(d))
			require.NoError(t, err)
			assert.Equal(t, 2, strings.Count(ddl, "CREATE TABLE"))
			assert.Contains(t, ddl, "user")
			assert.Contains(t, ddl, "post")

			again, err := CreateTablesDDL(context.Background(), blog(d))
			require.NoError(t, err)
			assert.Equal(t, ddl, again)
		})
	}

	t.Run("empty", func(t *testing.T) {
		ddl, err := CreateTablesDDL(context.Background(), dbschema.New("empty", dialect.SQLite))
		require.NoError(t, err)
		assert.Empty(t, ddl)
	})

	t.Run("unsupported dialect", func(t *testing.T) {
		_, err := CreateTablesDDL(context.Background(), dbschema.New("x", "oracle"))
		require.Error(t, err)
	})

	t.Run("inspected schema", func(t *testing.T) {
		db, err := Inspect(context.Background(), openBlog(t, "ddl_inspected"))
		require.NoError(t, err)
		ddl, err := CreateTablesDDL(context.Background(), db)
		require.NoError(t, err)
		assert.Equal(t, 3, strings.Count(ddl, "CREATE TABLE"))
	})
}
