package config

import (
	"fmt"
	"os/user"
	"slices"
	"strconv"
)

// Resolved is the immutable per-build snapshot of the global settings merged
// with one server profile. It is produced once per build request; later
// settings reloads never touch it.
type Resolved struct {
	SSHPath   string
	RsyncPath string

	SSHOptions   []string
	RsyncOptions []string

	Host          string
	Port          int
	User          string
	RootDirectory string
	PrivateKey    string

	NormalizePermissions bool
}

// Resolve merges the registry's global settings with the named server
// profile. Unset optional fields receive defaults: port 22, user = current
// OS user, options = global values. Per-server option lists, when present,
// replace the global value entirely. rootOverride, when non-empty, replaces
// the profile's root_directory.
func (r *Registry) Resolve(serverName, rootOverride string) (*Resolved, error) {
	profile, ok := r.Lookup(serverName)
	if !ok {
		return nil, &Error{Reason: fmt.Sprintf("unknown remote server %q", serverName)}
	}

	settings := r.settings

	resolved := &Resolved{
		SSHPath:              settings.GetSSHPath(),
		RsyncPath:            settings.GetRsyncPath(),
		SSHOptions:           slices.Clone(settings.SSHOptions),
		RsyncOptions:         slices.Clone(settings.GetRsyncOptions()),
		Host:                 profile.Host,
		Port:                 profile.Port,
		User:                 profile.User,
		RootDirectory:        profile.RootDirectory,
		PrivateKey:           profile.PrivateKey,
		NormalizePermissions: settings.GetNormalizePermissions(),
	}

	// Presence, not length, decides replacement: an explicitly empty list
	// clears the global options.
	if profile.SSHOptions != nil {
		resolved.SSHOptions = slices.Clone(profile.SSHOptions)
	}
	if profile.RsyncOptions != nil {
		resolved.RsyncOptions = slices.Clone(profile.RsyncOptions)
	}

	if resolved.Port == 0 {
		resolved.Port = 22
	}
	if resolved.User == "" {
		if current, err := user.Current(); err == nil {
			resolved.User = current.Username
		}
	}
	if rootOverride != "" {
		resolved.RootDirectory = rootOverride
	}

	if resolved.Host == "" || resolved.RootDirectory == "" {
		return nil, &Error{Reason: fmt.Sprintf("server %q: host and root_directory are required", serverName)}
	}

	return resolved, nil
}

// Destination returns the user@host pair consumed by both external tools.
// With no resolvable user the bare host is used.
func (c *Resolved) Destination() string {
	if c.User == "" {
		return c.Host
	}
	return c.User + "@" + c.Host
}

// SSHArgs returns the argument vector prefix for the remote-shell tool:
// resolved options plus port and identity file.
func (c *Resolved) SSHArgs() []string {
	args := slices.Clone(c.SSHOptions)
	args = append(args, "-p", strconv.Itoa(c.Port))
	if c.PrivateKey != "" {
		args = append(args, "-i", c.PrivateKey)
	}
	return args
}
