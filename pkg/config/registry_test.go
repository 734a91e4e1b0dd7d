package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	t.Run("indexes_servers_by_name", func(t *testing.T) {
		registry, err := NewRegistry(&Settings{
			Servers: []ServerProfile{
				{Name: "build1", Host: "10.0.0.5", RootDirectory: "proj"},
				{Name: "build2", Host: "10.0.0.6", RootDirectory: "other"},
			},
		})
		require.NoError(t, err)

		profile, ok := registry.Lookup("build2")
		require.True(t, ok)
		assert.Equal(t, "10.0.0.6", profile.Host)

		_, ok = registry.Lookup("missing")
		assert.False(t, ok)

		assert.Equal(t, []string{"build1", "build2"}, registry.Names())
	})

	t.Run("duplicate_names_rejected", func(t *testing.T) {
		_, err := NewRegistry(&Settings{
			Servers: []ServerProfile{
				{Name: "build1", Host: "a", RootDirectory: "p"},
				{Name: "build1", Host: "b", RootDirectory: "q"},
			},
		})
		require.Error(t, err)

		var configErr *Error
		assert.ErrorAs(t, err, &configErr)
	})

	t.Run("missing_required_fields_rejected", func(t *testing.T) {
		_, err := NewRegistry(&Settings{
			Servers: []ServerProfile{{Name: "build1", Host: "a"}},
		})
		assert.Error(t, err)
	})

	t.Run("no_servers_is_fine", func(t *testing.T) {
		registry, err := NewRegistry(&Settings{})
		require.NoError(t, err)
		assert.Empty(t, registry.Names())
	})
}

func TestStore(t *testing.T) {
	t.Run("swap_replaces_snapshot_for_new_readers_only", func(t *testing.T) {
		first, err := NewRegistry(&Settings{
			Servers: []ServerProfile{{Name: "build1", Host: "a", RootDirectory: "p"}},
		})
		require.NoError(t, err)

		store := NewStore(first)
		captured := store.Snapshot()

		second, err := NewRegistry(&Settings{
			Servers: []ServerProfile{{Name: "build2", Host: "b", RootDirectory: "q"}},
		})
		require.NoError(t, err)
		store.Swap(second)

		// The snapshot captured before the swap is untouched
		_, ok := captured.Lookup("build1")
		assert.True(t, ok)
		_, ok = captured.Lookup("build2")
		assert.False(t, ok)

		// New readers see the swapped registry
		_, ok = store.Snapshot().Lookup("build2")
		assert.True(t, ok)
	})
}
