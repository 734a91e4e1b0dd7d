package mirror

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mkoval/remexec/pkg/config"
)

// CommandRunner executes one external tool invocation, relaying its output,
// and returns the exit code. A non-nil error means the tool could not be
// spawned at all.
type CommandRunner interface {
	Run(ctx context.Context, cmd *exec.Cmd) (int, error)
}

// Executor mirrors the local project tree to the resolved remote root by
// invoking the external synchronization tool. The tool is consumed purely
// through its argument vector, output streams and exit code.
type Executor struct {
	cfg  *config.Resolved
	log  zerolog.Logger
	dial func(*config.Resolved) (RemoteFS, error)

	// needsNormalization marks synchronization backends that widen
	// permissions on some platforms and therefore require the corrective
	// chmod pass after every transfer.
	needsNormalization bool
}

// NewExecutor creates a sync executor for one resolved configuration
func NewExecutor(cfg *config.Resolved, logger zerolog.Logger) *Executor {
	return &Executor{
		cfg:                cfg,
		log:                logger.With().Str("host", cfg.Host).Logger(),
		dial:               dialSFTP,
		needsNormalization: cfg.NormalizePermissions,
	}
}

// NeedsPermissionNormalization reports whether the corrective permission
// pass runs after a successful transfer
func (e *Executor) NeedsPermissionNormalization() bool {
	return e.needsNormalization
}

// Sync mirrors src to the remote root: prepare the destination directory,
// transfer the tree, then normalize permissions when required. Any failure
// is surfaced immediately as a *SyncError; partial transfers are not retried.
func (e *Executor) Sync(ctx context.Context, src string, excludes []string, run CommandRunner) error {
	for _, cmd := range []*exec.Cmd{e.MkdirCommand(ctx), e.SyncCommand(ctx, src, excludes)} {
		e.log.Debug().Strs("argv", cmd.Args).Msg("invoking sync tool")

		code, err := run.Run(ctx, cmd)
		if err != nil {
			return &SyncError{ExitCode: -1, Err: err}
		}
		if code != 0 {
			return &SyncError{ExitCode: code, Err: fmt.Errorf("%s exited with code %d", cmd.Args[0], code)}
		}
	}

	if e.needsNormalization {
		if err := e.Normalize(ctx); err != nil {
			return &SyncError{ExitCode: -1, Err: fmt.Errorf("permission normalization: %w", err)}
		}
	}

	return nil
}

// MkdirCommand builds the preparatory invocation that creates the remote
// root before the first transfer
func (e *Executor) MkdirCommand(ctx context.Context) *exec.Cmd {
	args := e.cfg.SSHArgs()
	args = append(args, e.cfg.Destination(), "mkdir", "-p", e.cfg.RootDirectory)
	return exec.CommandContext(ctx, e.cfg.SSHPath, args...)
}

// SyncCommand builds the transfer invocation: resolved options, translated
// exclude patterns, the remote shell as transport, then source and
// destination. The source carries a trailing slash so the directory's
// contents land in the remote root rather than one level below it.
func (e *Executor) SyncCommand(ctx context.Context, src string, excludes []string) *exec.Cmd {
	args := append([]string{}, e.cfg.RsyncOptions...)
	for _, pattern := range excludes {
		args = append(args, "--exclude="+pattern)
	}

	transport := e.cfg.SSHPath
	if sshArgs := e.cfg.SSHArgs(); len(sshArgs) > 0 {
		transport += " " + strings.Join(sshArgs, " ")
	}
	args = append(args, "-e", transport)

	args = append(args,
		strings.TrimSuffix(src, "/")+"/",
		e.cfg.Destination()+":"+e.cfg.RootDirectory,
	)
	return exec.CommandContext(ctx, e.cfg.RsyncPath, args...)
}
