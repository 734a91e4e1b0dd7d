package config

import (
	"os/user"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T, settings *Settings) *Registry {
	t.Helper()
	registry, err := NewRegistry(settings)
	require.NoError(t, err)
	return registry
}

func TestResolve(t *testing.T) {
	t.Run("defaults_for_unset_optional_fields", func(t *testing.T) {
		registry := testRegistry(t, &Settings{
			SSHOptions: []string{"-o", "BatchMode=yes"},
			Servers: []ServerProfile{
				{Name: "build1", Host: "10.0.0.5", RootDirectory: "proj"},
			},
		})

		resolved, err := registry.Resolve("build1", "")
		require.NoError(t, err)

		assert.Equal(t, 22, resolved.Port)
		assert.Equal(t, "ssh", resolved.SSHPath)
		assert.Equal(t, "rsync", resolved.RsyncPath)
		assert.Equal(t, []string{"-o", "BatchMode=yes"}, resolved.SSHOptions)
		assert.Equal(t, []string{"-a", "-v", "-r"}, resolved.RsyncOptions)
		assert.True(t, resolved.NormalizePermissions)

		current, err := user.Current()
		require.NoError(t, err)
		assert.Equal(t, current.Username, resolved.User)
	})

	t.Run("per_server_options_replace_globals_entirely", func(t *testing.T) {
		registry := testRegistry(t, &Settings{
			SSHOptions:   []string{"-o", "BatchMode=yes"},
			RsyncOptions: []string{"-a", "-v"},
			Servers: []ServerProfile{
				{
					Name:          "build1",
					Host:          "10.0.0.5",
					RootDirectory: "proj",
					SSHOptions:    []string{"-C"},
					RsyncOptions:  []string{"-z"},
				},
			},
		})

		resolved, err := registry.Resolve("build1", "")
		require.NoError(t, err)

		assert.Equal(t, []string{"-C"}, resolved.SSHOptions)
		assert.Equal(t, []string{"-z"}, resolved.RsyncOptions)
	})

	t.Run("present_but_empty_override_clears_globals", func(t *testing.T) {
		registry := testRegistry(t, &Settings{
			SSHOptions: []string{"-o", "BatchMode=yes"},
			Servers: []ServerProfile{
				{
					Name:          "build1",
					Host:          "10.0.0.5",
					RootDirectory: "proj",
					SSHOptions:    []string{},
				},
			},
		})

		resolved, err := registry.Resolve("build1", "")
		require.NoError(t, err)
		assert.Empty(t, resolved.SSHOptions)
	})

	t.Run("explicit_profile_fields_win", func(t *testing.T) {
		registry := testRegistry(t, &Settings{
			Servers: []ServerProfile{
				{
					Name:          "build1",
					Host:          "10.0.0.5",
					Port:          2222,
					User:          "builder",
					RootDirectory: "/srv/proj",
					PrivateKey:    "/home/builder/.ssh/id_ed25519",
				},
			},
		})

		resolved, err := registry.Resolve("build1", "")
		require.NoError(t, err)

		assert.Equal(t, 2222, resolved.Port)
		assert.Equal(t, "builder", resolved.User)
		assert.Equal(t, "/srv/proj", resolved.RootDirectory)
		assert.Equal(t, "builder@10.0.0.5", resolved.Destination())
		assert.Equal(t, []string{"-p", "2222", "-i", "/home/builder/.ssh/id_ed25519"}, resolved.SSHArgs())
	})

	t.Run("root_override_replaces_root_directory", func(t *testing.T) {
		registry := testRegistry(t, &Settings{
			Servers: []ServerProfile{
				{Name: "build1", Host: "10.0.0.5", RootDirectory: "proj"},
			},
		})

		resolved, err := registry.Resolve("build1", "elsewhere/proj")
		require.NoError(t, err)
		assert.Equal(t, "elsewhere/proj", resolved.RootDirectory)
	})

	t.Run("unknown_server_is_a_config_error", func(t *testing.T) {
		registry := testRegistry(t, &Settings{})

		_, err := registry.Resolve("nope", "")
		require.Error(t, err)

		var configErr *Error
		assert.ErrorAs(t, err, &configErr)
	})
}
