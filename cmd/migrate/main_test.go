package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMigrationPart(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE orders (id uuid);
ALTER TABLE orders ADD COLUMN version int;

-- +migrate Down
DROP TABLE orders;
`
	t.Run("Extract Up", func(t *testing.T) {
		up := extractMigrationPart(content, "Up")
		assert.Contains(t, up, "CREATE TABLE orders")
		assert.Contains(t, up, "ALTER TABLE orders")
		assert.NotContains(t, up, "DROP TABLE orders")
		assert.NotContains(t, up, "-- +migrate Up")
	})

	t.Run("Extract Down", func(t *testing.T) {
		down := extractMigrationPart(content, "Down")
		assert.Contains(t, down, "DROP TABLE orders")
		assert.NotContains(t, down, "CREATE TABLE orders")
	})
}

func writeMigration(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunMigrationsUp(t *testing.T) {
	ctx := context.Background()

	t.Run("AppliesPendingInTx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		file := writeMigration(t, t.TempDir(), "0001_init.sql", "-- +migrate Up\nCREATE TABLE test (id int);\n-- +migrate Down\nDROP TABLE test;")

		mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
			WithArgs("0001_init.sql").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE test").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO schema_migrations").
			WithArgs("0001_init.sql").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, runMigrationsUp(ctx, db, []string{file}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SkipsApplied", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		file := writeMigration(t, t.TempDir(), "0001_init.sql", "-- +migrate Up\nCREATE TABLE test (id int);")

		mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
			WithArgs("0001_init.sql").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		require.NoError(t, runMigrationsUp(ctx, db, []string{file}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollsBackOnFailure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		file := writeMigration(t, t.TempDir(), "0002_bad.sql", "-- +migrate Up\nCREATE TABLE broken (;")

		mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE broken").WillReturnError(errors.New("syntax error"))
		mock.ExpectRollback()

		err = runMigrationsUp(ctx, db, []string{file})

		assert.ErrorContains(t, err, "0002_bad.sql")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRunMigrationsDown(t *testing.T) {
	ctx := context.Background()

	t.Run("RollsBackLatest", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		file := writeMigration(t, t.TempDir(), "0001_init.sql", "-- +migrate Up\nCREATE TABLE test (id int);\n-- +migrate Down\nDROP TABLE test;")

		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0001_init.sql"))
		mock.ExpectBegin()
		mock.ExpectExec("DROP TABLE test").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM schema_migrations").
			WithArgs("0001_init.sql").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, runMigrationsDown(ctx, db, []string{file}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NothingApplied", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}))

		require.NoError(t, runMigrationsDown(ctx, db, nil))
	})

	t.Run("MissingFile", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0009_gone.sql"))

		err = runMigrationsDown(ctx, db, nil)

		assert.ErrorContains(t, err, "0009_gone.sql")
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("SortsFilesAndRejectsUnknownMode", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = run(ctx, db, "sideways", t.TempDir())

		assert.ErrorContains(t, err, "unknown mode")
	})

	t.Run("AppliesInFilenameOrder", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		dir := t.TempDir()
		writeMigration(t, dir, "0002_b.sql", "-- +migrate Up\nCREATE TABLE b (id int);")
		writeMigration(t, dir, "0001_a.sql", "-- +migrate Up\nCREATE TABLE a (id int);")

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))
		for _, name := range []string{"0001_a.sql", "0002_b.sql"} {
			mock.ExpectQuery("SELECT EXISTS").WithArgs(name).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		}

		require.NoError(t, run(ctx, db, "up", dir))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestShippedMigrationsHaveBothSections(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "migrations", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		content, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.NotEmpty(t, extractMigrationPart(string(content), "Up"), f)
		assert.NotEmpty(t, extractMigrationPart(string(content), "Down"), f)
	}
}
