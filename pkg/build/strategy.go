package build

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/mkoval/remexec/pkg/config"
	"github.com/mkoval/remexec/pkg/mirror"
	"github.com/mkoval/remexec/pkg/remote"
)

// Strategy is the per-request execution plan, chosen once at resolution time
// rather than re-deciding remote-ness at every step of the pipeline.
type Strategy interface {
	Name() string

	// RequiresSync reports whether the sync stage runs at all
	RequiresSync() bool

	// Sync mirrors the project tree ahead of execution
	Sync(ctx context.Context, run mirror.CommandRunner) error

	// Command builds the invocation for the execute stage. A nil command
	// with a nil error means there is nothing to execute.
	Command(ctx context.Context) (*exec.Cmd, error)

	// Interpret classifies the execute stage's outcome. launchErr is set
	// when the tool never spawned; exitCode is authoritative otherwise.
	Interpret(exitCode int, launchErr error) error
}

// SelectStrategy resolves a request against a registry snapshot. Requests
// without a remote server fall back to plain local execution.
func SelectStrategy(req Request, registry *config.Registry, logger zerolog.Logger) (Strategy, error) {
	if req.RemoteServer == "" {
		return &LocalStrategy{req: req}, nil
	}

	resolved, err := registry.Resolve(req.RemoteServer, req.RemoteRsyncRoot)
	if err != nil {
		return nil, err
	}

	return &RemoteStrategy{
		req:    req,
		cfg:    resolved,
		mirror: mirror.NewExecutor(resolved, logger),
		runner: remote.NewRunner(resolved, logger),
	}, nil
}

// LocalStrategy runs the build command directly in the local working
// directory. It exists so callers get behavior identical to plain local
// command execution when no server is configured.
type LocalStrategy struct {
	req Request
}

func (s *LocalStrategy) Name() string { return "local" }

func (s *LocalStrategy) RequiresSync() bool { return false }

func (s *LocalStrategy) Sync(ctx context.Context, run mirror.CommandRunner) error {
	return nil
}

func (s *LocalStrategy) Command(ctx context.Context) (*exec.Cmd, error) {
	if s.req.RemoteCmd == "" {
		return nil, nil
	}
	cmd := exec.CommandContext(ctx, "/bin/bash", "-c", s.req.RemoteCmd)
	cmd.Dir = s.req.WorkingDirectory
	return cmd, nil
}

func (s *LocalStrategy) Interpret(exitCode int, launchErr error) error {
	if launchErr != nil {
		return fmt.Errorf("failed to launch build command: %w", launchErr)
	}
	if exitCode != 0 {
		return &Failure{ExitCode: exitCode}
	}
	return nil
}

// RemoteStrategy mirrors the project tree to the resolved server and runs
// the build command there through the remote-shell tool.
type RemoteStrategy struct {
	req    Request
	cfg    *config.Resolved
	mirror *mirror.Executor
	runner *remote.Runner
}

func (s *RemoteStrategy) Name() string { return "remote" }

func (s *RemoteStrategy) RequiresSync() bool { return true }

func (s *RemoteStrategy) Sync(ctx context.Context, run mirror.CommandRunner) error {
	return s.mirror.Sync(ctx, s.req.WorkingDirectory, s.req.Excludes, run)
}

func (s *RemoteStrategy) Command(ctx context.Context) (*exec.Cmd, error) {
	if s.req.RemoteCmd == "" {
		// Sync-only request; nothing to execute remotely
		return nil, nil
	}
	return s.runner.Command(ctx, s.req.RemoteCmd), nil
}

func (s *RemoteStrategy) Interpret(exitCode int, launchErr error) error {
	if launchErr != nil {
		return &remote.ExecError{Err: launchErr}
	}
	if exitCode == remote.ToolFailureExit {
		return &remote.ExecError{Err: fmt.Errorf("remote shell exited with code %d", exitCode)}
	}
	if exitCode != 0 {
		return &Failure{ExitCode: exitCode}
	}
	return nil
}
