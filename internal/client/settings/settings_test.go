package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "settings.json"))

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, "light", cfg.Theme)
	assert.False(t, cfg.PasswordProtectionEnabled)
	assert.Zero(t, cfg.AutoLockMinutes)
}

func TestSaveThenLoad_RoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "settings.json"))

	want := Settings{
		Theme:                     "dark",
		TextSize:                  "large",
		PasswordProtectionEnabled: true,
		AutoLockMinutes:           5,
		PublicSharingEnabled:      true,
	}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSave_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "settings.json")
	store := NewStore(path)

	require.NoError(t, store.Save(Defaults()))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "settings.json"))
	require.NoError(t, store.Save(Defaults()))
	require.NoError(t, store.Save(Settings{Theme: "dark"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "settings.json", entries[0].Name())
}

func TestLoad_PartialFileKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark"}`), 0o600))

	cfg, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, "medium", cfg.TextSize)
}

func TestLoad_CorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := NewStore(path).Load()
	require.Error(t, err)
}
