package config

// ServerProfile defines a named remote build target
type ServerProfile struct {
	Name          string   `json:"name"`
	Host          string   `json:"host"`
	Port          int      `json:"port,omitempty"`          // optional, defaults to 22
	User          string   `json:"user,omitempty"`          // optional, defaults to the current OS user
	RootDirectory string   `json:"root_directory"`          // remote project root, home-relative unless absolute
	PrivateKey    string   `json:"private_key,omitempty"`   // optional identity file
	SSHOptions    []string `json:"ssh_options,omitempty"`   // optional, replaces the global value entirely
	RsyncOptions  []string `json:"rsync_options,omitempty"` // optional, replaces the global value entirely
}

// Settings is the root configuration structure
type Settings struct {
	SSHPath              string          `json:"ssh_path,omitempty"`
	RsyncPath            string          `json:"rsync_path,omitempty"`
	SSHOptions           []string        `json:"ssh_options,omitempty"`
	RsyncOptions         []string        `json:"rsync_options,omitempty"`
	NormalizePermissions *bool           `json:"normalize_permissions,omitempty"` // default: true
	Servers              []ServerProfile `json:"servers,omitempty"`
}

// GetSSHPath returns the remote-shell executable (defaults to "ssh" on PATH)
func (s *Settings) GetSSHPath() string {
	if s.SSHPath != "" {
		return s.SSHPath
	}
	return "ssh"
}

// GetRsyncPath returns the synchronization executable (defaults to "rsync" on PATH)
func (s *Settings) GetRsyncPath() string {
	if s.RsyncPath != "" {
		return s.RsyncPath
	}
	return "rsync"
}

// GetRsyncOptions returns the global rsync options, defaulting to
// archive/verbose/recurse transfers
func (s *Settings) GetRsyncOptions() []string {
	if s.RsyncOptions != nil {
		return s.RsyncOptions
	}
	return []string{"-a", "-v", "-r"}
}

// GetNormalizePermissions reports whether the post-transfer permission pass
// is enabled (defaults to true)
func (s *Settings) GetNormalizePermissions() bool {
	if s.NormalizePermissions != nil {
		return *s.NormalizePermissions
	}
	return true
}
