package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultWhenMissing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cmdpal", "config.toml")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "code", cfg.PreferredIDE)
	assert.Equal(t, 3000, cfg.DefaultPort)
	assert.Equal(t, 10, cfg.MaxSuggestions)

	// The default file was written for next time
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := &Config{
		Version:        1,
		PreferredIDE:   "goland",
		DefaultPort:    4000,
		ChatEndpoint:   "http://localhost:9000/chat",
		MaxSuggestions: 5,
		Projects: []Project{
			{Nickname: "blog", Path: "/home/me/blog", StartCommand: "npm run dev", Port: 8080},
		},
	}
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadRejectsInvalidTOML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadBackfillsMaxSuggestions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 1\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MaxSuggestions)
}

func TestStoreServesSettings(t *testing.T) {
	t.Parallel()

	store := NewStore(&Config{
		PreferredIDE: "goland",
		DefaultPort:  4000,
		Projects: []Project{
			{Nickname: "blog", Path: "/b", StartCommand: "make dev", Port: 8080},
		},
	}, "/tmp/config.toml")

	assert.Equal(t, "goland", store.PreferredIDE())
	assert.Equal(t, 4000, store.DefaultPort())

	projects := store.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, "blog", projects[0].Nickname)
	assert.Equal(t, "/b", projects[0].Path)
	assert.Equal(t, "make dev", projects[0].StartCommand)
	assert.Equal(t, 8080, projects[0].Port)
}

func TestStoreFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	store := NewStore(&Config{}, "/tmp/config.toml")
	assert.Equal(t, "code", store.PreferredIDE())
	assert.Equal(t, 3000, store.DefaultPort())
	assert.Empty(t, store.Projects())
}

func TestStoreReplaceSwapsLiveConfig(t *testing.T) {
	t.Parallel()

	store := NewStore(&Config{PreferredIDE: "code"}, "/tmp/config.toml")
	store.Replace(&Config{PreferredIDE: "zed"})
	assert.Equal(t, "zed", store.PreferredIDE())
}
