package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eric6923/finTrack-sub000/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add ledger index", "add_ledger_index"},
		{"Add-Ledger-Index", "add_ledger_index"},
		{"ADD__LEDGER__INDEX", "add_ledger_index"},
		{"Backfill 2024", "backfill_2024"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add ledger index", "Speeds up monthly profit queries")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_ledger_index.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_ledger_index.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add ledger index")
	assert.Contains(t, string(up), "Speeds up monthly profit queries")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback of add ledger index")

	second, err := CreateMigration(dir, "drop old column", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)

	t.Run("rejects empty names", func(t *testing.T) {
		_, err := CreateMigration(dir, "!!!", "")
		assert.Error(t, err)
	})

	t.Run("creates the directory", func(t *testing.T) {
		nested := filepath.Join(dir, "nested", "migrations")
		mf, err := CreateMigration(nested, "init", "")
		require.NoError(t, err)
		assert.Equal(t, "000001", mf.Version)
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("sorted base names", func(t *testing.T) {
		dir := t.TempDir()
		for _, f := range []string{
			"000002_b.up.sql", "000002_b.down.sql",
			"000001_a.up.sql", "000001_a.down.sql",
			"README.md",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql.d"), 0o755))

		names, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_a", "000002_b"}, names)
	})

	t.Run("embedded schema", func(t *testing.T) {
		names, err := ListEmbedded(migrations.FS)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init_ledger", "000002_ledger_events"}, names)
	})
}
