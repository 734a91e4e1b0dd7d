package build

import "github.com/google/uuid"

// Request describes one build: what to run, where, and what to leave behind.
// RemoteServer empty selects compatibility mode, in which the command runs
// locally and the remote-only fields are accepted but ignored.
type Request struct {
	ID               uuid.UUID
	WorkingDirectory string
	RemoteServer     string
	RemoteCmd        string
	RemoteRsyncRoot  string // overrides the profile's root_directory
	Excludes         []string
}
