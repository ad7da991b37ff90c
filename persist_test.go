package properties_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratoctl/properties"
	"github.com/stratoctl/properties/store"
)

func TestPersist(t *testing.T) {
	t.Run("Write And Read Back", func(t *testing.T) {
		reg, mem := newBareRegistry(t)
		sec := reg.AddSection("test")
		prop := sec.Add("value")

		require.NoError(t, reg.Persist(prop, "durable", properties.ScopeUser))

		v, err := prop.Require()
		require.NoError(t, err)
		assert.Equal(t, "durable", v)
		assert.Equal(t, properties.OriginStore, prop.Resolve().Origin)
		assert.Equal(t, []string{"set test/value=durable@user"}, mem.Attempts())
	})

	t.Run("Validation Failure Never Reaches The Store", func(t *testing.T) {
		reg, mem := newBareRegistry(t)
		sec := reg.AddSection("test")
		prop := sec.Add("level", properties.WithChoices("debug", "info"))

		err := reg.Persist(prop, "chatty", properties.ScopeUser)
		var invErr *properties.InvalidValueError
		require.ErrorAs(t, err, &invErr)
		assert.Empty(t, mem.Attempts(), "a rejected value must leave no write attempt")
	})

	t.Run("Installation Scope Requires Installation Config", func(t *testing.T) {
		reg, mem := newBareRegistry(t)
		sec := reg.AddSection("test")
		prop := sec.Add("value")

		err := reg.Persist(prop, "v", properties.ScopeInstallation)
		assert.ErrorIs(t, err, properties.ErrMissingInstallationConfig)

		mem.InstallationWritable = true
		require.NoError(t, reg.Persist(prop, "v", properties.ScopeInstallation))
	})

	t.Run("Shadow Warning When Environment Overrides", func(t *testing.T) {
		var logBuf bytes.Buffer
		mem := store.NewMemory()
		reg := properties.NewRegistry(
			properties.WithoutCatalog(),
			properties.WithStore(mem),
			properties.WithLogger(slog.New(slog.NewTextHandler(&logBuf, nil))),
		)
		sec := reg.AddSection("test")
		prop := sec.Add("value")

		// Persist with no environment override: silent.
		require.NoError(t, reg.Persist(prop, "quiet", properties.ScopeUser))
		assert.Empty(t, logBuf.String())

		// Persist while the environment shadows the result: warn, but
		// the write still lands.
		t.Setenv("STRATO_TEST_VALUE", "loud")
		require.NoError(t, reg.Persist(prop, "stored", properties.ScopeUser))
		assert.Contains(t, logBuf.String(), "shadows")
		assert.Contains(t, logBuf.String(), "STRATO_TEST_VALUE")

		got, ok := mem.Get("test", "value")
		require.True(t, ok)
		assert.Equal(t, "stored", got)

		// Resolution still reports the environment value.
		v, err := prop.Require()
		require.NoError(t, err)
		assert.Equal(t, "loud", v)
	})

	t.Run("Shadow Warning Follows Default Logger", func(t *testing.T) {
		reg, _ := newBareRegistry(t)
		sec := reg.AddSection("test")
		prop := sec.Add("value")

		// Swap the process logger after the registry exists, the way the
		// CLI re-levels once flags are parsed. The warning must land on
		// the new logger, not a default captured at construction.
		var logBuf bytes.Buffer
		prev := slog.Default()
		slog.SetDefault(slog.New(slog.NewTextHandler(&logBuf, nil)))
		t.Cleanup(func() { slog.SetDefault(prev) })

		t.Setenv("STRATO_TEST_VALUE", "loud")
		require.NoError(t, reg.Persist(prop, "stored", properties.ScopeUser))
		assert.Contains(t, logBuf.String(), "shadows")
		assert.Contains(t, logBuf.String(), "STRATO_TEST_VALUE")
	})

	t.Run("Delete", func(t *testing.T) {
		reg, mem := newBareRegistry(t)
		sec := reg.AddSection("test")
		prop := sec.Add("value")

		require.NoError(t, reg.Persist(prop, "v", properties.ScopeUser))
		require.NoError(t, reg.PersistDelete(prop, properties.ScopeUser))

		_, ok, err := prop.Get()
		require.NoError(t, err)
		assert.False(t, ok)

		// Deleting an absent value is a no-op, not an error, and it still
		// reaches the store.
		require.NoError(t, reg.PersistDelete(prop, properties.ScopeUser))
		assert.Equal(t, []string{
			"set test/value=v@user",
			"delete test/value@user",
			"delete test/value@user",
		}, mem.Attempts())
	})
}

func TestParseScope(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want properties.Scope
	}{
		{"", properties.ScopeUser},
		{"user", properties.ScopeUser},
		{"User", properties.ScopeUser},
		{"installation", properties.ScopeInstallation},
		{"INSTALLATION", properties.ScopeInstallation},
	} {
		got, err := properties.ParseScope(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}

	_, err := properties.ParseScope("global")
	assert.Error(t, err)

	assert.Equal(t, "user", properties.ScopeUser.String())
	assert.Equal(t, "installation", properties.ScopeInstallation.String())
}
