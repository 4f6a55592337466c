package sql

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/scaffold/dialect"
)

func TestDriver_DBName(t *testing.T) {
	tests := []struct {
		dialect string
		query   string
		name    string
	}{
		{dialect.MySQL, "SELECT DATABASE()", "shop"},
		{dialect.Postgres, "SELECT current_database()", "blog"},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			mock.ExpectQuery(regexp.QuoteMeta(tt.query)).
				WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow(tt.name))

			drv := OpenDB(tt.dialect, db)
			name, err := drv.DBName(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.dialect, drv.Dialect())
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("sqlite", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		name, err := OpenDB(dialect.SQLite, db).DBName(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "main", name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT DATABASE()")).WillReturnError(errors.New("gone"))
		_, err = OpenDB(dialect.MySQL, db).DBName(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gone")
	})
}

func TestDriver_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()
	drv := OpenDB(dialect.Postgres, db)
	assert.Same(t, db, drv.DB())
	require.NoError(t, drv.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen(t *testing.T) {
	t.Run("unsupported dialect", func(t *testing.T) {
		_, err := Open(context.Background(), "oracle", "")
		require.Error(t, err)
	})

	t.Run("sqlite memory", func(t *testing.T) {
		drv, err := Open(context.Background(), "sqlite3", "file:open_test?mode=memory")
		require.NoError(t, err)
		defer drv.Close()
		assert.Equal(t, dialect.SQLite, drv.Dialect())
	})
}
