package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/furnitureops/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add showrooms table", "add_showrooms_table"},
		{"Add-Showrooms-Table", "add_showrooms_table"},
		{"add__showrooms", "add_showrooms"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersSequentially(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add showrooms", "Showroom locations")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, "000001_add_showrooms.up.sql", filepath.Base(first.UpPath))

	content, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Showroom locations")

	second, err := CreateMigration(dir, "add fabric swatches", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)
	assert.True(t, strings.HasSuffix(second.DownPath, "000002_add_fabric_swatches.down.sql"))
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations_MissingDir(t *testing.T) {
	list, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	list, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	for i, m := range list {
		assert.Equal(t, i+1, m.Version, "versions must be contiguous")
		assert.True(t, m.HasDown, "migration %d has no down file", m.Version)
	}
}

func TestEmbeddedSource(t *testing.T) {
	src, err := embeddedSource(migrations.FS)
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
}
