package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/reservation-provisioner/internal/schema"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		setup       func(t *testing.T) string // returns path to load
		wantErr     error
		errContains string
		check       func(t *testing.T, stmts []schema.Statement)
	}{
		{
			name: "single file",
			setup: func(t *testing.T) string {
				t.Helper()
				dir := t.TempDir()
				writeFile(t, dir, "schema.sql", "CREATE TABLE a (id INT);\nCREATE TABLE b (id INT);\n")

				return filepath.Join(dir, "schema.sql")
			},
			check: func(t *testing.T, stmts []schema.Statement) {
				t.Helper()
				require.Len(t, stmts, 2)
				assert.Equal(t, "schema.sql", stmts[0].Source)
				assert.Equal(t, 2, stmts[1].Ordinal)
			},
		},
		{
			name: "directory in filename order with continuous ordinals",
			setup: func(t *testing.T) string {
				t.Helper()
				dir := t.TempDir()
				writeFile(t, dir, "002_reservations.sql", "CREATE TABLE reservations (id INT);")
				writeFile(t, dir, "001_users.sql", "CREATE TABLE users (id INT); CREATE TABLE devices (id INT);")

				return dir
			},
			check: func(t *testing.T, stmts []schema.Statement) {
				t.Helper()
				require.Len(t, stmts, 3)
				assert.Equal(t, "001_users.sql", stmts[0].Source)
				assert.Equal(t, "CREATE TABLE devices (id INT)", stmts[1].SQL)
				assert.Equal(t, "002_reservations.sql", stmts[2].Source)
				assert.Equal(t, 3, stmts[2].Ordinal)
			},
		},
		{
			name: "down files and other extensions are skipped",
			setup: func(t *testing.T) string {
				t.Helper()
				dir := t.TempDir()
				writeFile(t, dir, "V001_users.up.sql", "CREATE TABLE users (id INT);")
				writeFile(t, dir, "V001_users.down.sql", "DROP TABLE users;")
				writeFile(t, dir, "README.md", "# notes")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.sql"), 0o755))

				return dir
			},
			check: func(t *testing.T, stmts []schema.Statement) {
				t.Helper()
				require.Len(t, stmts, 1)
				assert.Equal(t, "CREATE TABLE users (id INT)", stmts[0].SQL)
			},
		},
		{
			name: "directory without sql files",
			setup: func(t *testing.T) string {
				t.Helper()
				dir := t.TempDir()
				writeFile(t, dir, "notes.txt", "nothing here")

				return dir
			},
			wantErr: schema.ErrNoSQLFiles,
		},
		{
			name: "missing path",
			setup: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "nonexistent.sql")
			},
			errContains: "reading schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stmts, err := schema.Load(tt.setup(t))

			if tt.wantErr != nil || tt.errContains != "" {
				require.Error(t, err)

				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}

				return
			}

			require.NoError(t, err)
			tt.check(t, stmts)
		})
	}
}

func TestDefault_embeddedSchema(t *testing.T) {
	t.Parallel()

	stmts, err := schema.Default()

	require.NoError(t, err)
	require.NotEmpty(t, stmts)
	assert.Equal(t, "001_extensions_and_functions.sql", stmts[0].Source)
	assert.Contains(t, stmts[0].SQL, "CREATE EXTENSION IF NOT EXISTS pgcrypto")

	for i, s := range stmts {
		assert.Equal(t, i+1, s.Ordinal, "ordinals must be continuous")
		assert.NotEmpty(t, s.SQL)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
