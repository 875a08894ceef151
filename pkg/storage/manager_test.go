package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	require.NoError(t, err)
	manager.now = func() time.Time { return time.Date(2017, 7, 14, 2, 40, 0, 0, time.UTC) }

	assert.Equal(t, 0, manager.GetExportedCount())
	assert.False(t, manager.IsExported("followers_bob"))

	require.NoError(t, manager.Export("followers_bob", []string{"u1", "u2"}))

	content, err := os.ReadFile(filepath.Join(tempDir, "followers_bob.json"))
	require.NoError(t, err)

	var export struct {
		Name       string    `json:"name"`
		ExportedAt time.Time `json:"exported_at"`
		Data       []string  `json:"data"`
	}
	require.NoError(t, json.Unmarshal(content, &export))
	assert.Equal(t, "followers_bob", export.Name)
	assert.Equal(t, []string{"u1", "u2"}, export.Data)
	assert.Equal(t, 2017, export.ExportedAt.Year())

	assert.True(t, manager.IsExported("followers_bob"))
	assert.Equal(t, 1, manager.GetExportedCount())

	_, err = os.Stat(filepath.Join(tempDir, "followers_bob.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestManagerScansExistingExports(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "manual.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("x"), 0644))

	manager, err := NewManager(tempDir)
	require.NoError(t, err)

	assert.Equal(t, 1, manager.GetExportedCount())
	assert.True(t, manager.IsExported("manual"))
	assert.False(t, manager.IsExported("notes"))
}

func TestManagerDetectsExportsWrittenLater(t *testing.T) {
	tempDir := t.TempDir()
	manager, err := NewManager(tempDir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "late.json"), []byte("{}"), 0644))
	assert.True(t, manager.IsExported("late"))
}

func TestExportRejectsPaths(t *testing.T) {
	manager, err := NewManager(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, manager.Export(name, nil), "name %q", name)
	}
}
