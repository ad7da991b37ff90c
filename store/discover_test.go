package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratoctl/properties"
	"github.com/stratoctl/properties/store"
)

func TestDiscover(t *testing.T) {
	t.Run("Explicit Override Wins", func(t *testing.T) {
		t.Setenv(store.EnvConfigDir, "/etc/strato-conf")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")

		dir, err := store.Discover()
		require.NoError(t, err)
		assert.Equal(t, "/etc/strato-conf", dir)
	})

	t.Run("XDG Config Home", func(t *testing.T) {
		t.Setenv(store.EnvConfigDir, "")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")

		dir, err := store.Discover()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/xdg", "stratoctl"), dir)
	})

	t.Run("Home Fallback", func(t *testing.T) {
		t.Setenv(store.EnvConfigDir, "")
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", "/home/dev")

		dir, err := store.Discover()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/home/dev", ".config", "stratoctl"), dir)
	})
}

func TestDiscoverInstallationRoot(t *testing.T) {
	t.Setenv(store.EnvInstallRoot, "")
	_, ok := store.DiscoverInstallationRoot()
	assert.False(t, ok)

	t.Setenv(store.EnvInstallRoot, "/opt/stratoctl")
	dir, ok := store.DiscoverInstallationRoot()
	require.True(t, ok)
	assert.Equal(t, "/opt/stratoctl", dir)
}

func TestOpen(t *testing.T) {
	userRoot := t.TempDir()
	installRoot := t.TempDir()
	t.Setenv(store.EnvConfigDir, userRoot)
	t.Setenv(store.EnvInstallRoot, installRoot)

	f, err := store.Open()
	require.NoError(t, err)

	// Both scopes are writable, proving both roots were wired.
	require.NoError(t, f.Set("core", "project", "u", properties.ScopeUser))
	require.NoError(t, f.Set("core", "project", "i", properties.ScopeInstallation))

	v, ok := f.Get("core", "project")
	require.True(t, ok)
	assert.Equal(t, "u", v)
}
