package config

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// Registry is an immutable view of the configured server profiles plus the
// global settings they resolve against. Builds capture one registry each and
// keep it for their whole lifetime; a settings reload produces a fresh
// registry rather than mutating an existing one.
type Registry struct {
	settings *Settings
	servers  map[string]ServerProfile
}

// NewRegistry indexes the server profiles of a settings snapshot.
// Server names must be unique.
func NewRegistry(settings *Settings) (*Registry, error) {
	servers := make(map[string]ServerProfile, len(settings.Servers))
	for _, profile := range settings.Servers {
		if profile.Name == "" {
			return nil, &Error{Reason: "server name must not be empty"}
		}
		if profile.Host == "" || profile.RootDirectory == "" {
			return nil, &Error{Reason: fmt.Sprintf("server %q: host and root_directory are required", profile.Name)}
		}
		if _, exists := servers[profile.Name]; exists {
			return nil, &Error{Reason: fmt.Sprintf("duplicate server %q", profile.Name)}
		}
		servers[profile.Name] = profile
	}

	return &Registry{settings: settings, servers: servers}, nil
}

// Settings returns the global settings this registry was built from
func (r *Registry) Settings() *Settings {
	return r.settings
}

// Lookup returns the profile registered under name
func (r *Registry) Lookup(name string) (ServerProfile, bool) {
	profile, ok := r.servers[name]
	return profile, ok
}

// Names returns the registered server names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.servers))
	for name := range r.servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store holds the current registry and swaps it atomically on reload.
// Concurrent readers always observe a complete snapshot; builds already in
// flight are unaffected by a swap.
type Store struct {
	current atomic.Pointer[Registry]
}

// NewStore creates a store seeded with an initial registry
func NewStore(registry *Registry) *Store {
	store := &Store{}
	store.current.Store(registry)
	return store
}

// LoadStore validates and parses a settings file and returns a store seeded
// with the resulting registry
func LoadStore(path string) (*Store, error) {
	registry, err := LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	return NewStore(registry), nil
}

// LoadRegistry validates and parses a settings file into a registry
func LoadRegistry(path string) (*Registry, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	settings, err := ParseSettings(path)
	if err != nil {
		return nil, err
	}
	return NewRegistry(settings)
}

// Snapshot returns the current registry
func (s *Store) Snapshot() *Registry {
	return s.current.Load()
}

// Swap replaces the current registry
func (s *Store) Swap(registry *Registry) {
	s.current.Store(registry)
}
