package remote

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/mkoval/remexec/pkg/config"
)

// ToolFailureExit is the exit code the remote-shell tool reserves for its
// own connection and launch failures, as opposed to the remote command's
// exit code, which it passes through verbatim.
const ToolFailureExit = 255

// Runner builds invocations of the external remote-shell tool that execute a
// build command inside the resolved remote project directory.
type Runner struct {
	cfg *config.Resolved
	log zerolog.Logger
}

// NewRunner creates a runner for one resolved configuration
func NewRunner(cfg *config.Resolved, logger zerolog.Logger) *Runner {
	return &Runner{
		cfg: cfg,
		log: logger.With().Str("host", cfg.Host).Logger(),
	}
}

// Command builds the remote invocation. The command string is passed as one
// argument and interpreted only by the remote shell; no local shell ever
// sees it.
func (r *Runner) Command(ctx context.Context, remoteCmd string) *exec.Cmd {
	args := r.cfg.SSHArgs()
	args = append(args,
		r.cfg.Destination(),
		fmt.Sprintf("cd %s && %s", r.cfg.RootDirectory, remoteCmd),
	)

	r.log.Debug().Strs("argv", append([]string{r.cfg.SSHPath}, args...)).Msg("invoking remote shell")
	return exec.CommandContext(ctx, r.cfg.SSHPath, args...)
}
