package build

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mkoval/remexec/pkg/config"
	"github.com/mkoval/remexec/pkg/proc"
	"github.com/mkoval/remexec/pkg/report"
)

// State is the orchestrator's position in the build pipeline
type State int

const (
	StateIdle State = iota
	StateSyncing
	StateExecuting
	StateCompleted
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSyncing:
		return "syncing"
	case StateExecuting:
		return "executing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// DefaultGrace bounds how long a cancelled child process gets between
// SIGTERM and SIGKILL
const DefaultGrace = 5 * time.Second

// Outcome is the terminal result of one build request
type Outcome struct {
	Status   report.Status
	ExitCode int
	Err      error
}

// Orchestrator sequences one build request: resolve, sync, execute, report.
// It owns at most one active child process at a time; distinct requests use
// distinct orchestrators and share nothing but the registry snapshot they
// resolved against.
type Orchestrator struct {
	id       uuid.UUID
	req      Request
	registry *config.Registry
	rep      report.Reporter
	streamer *proc.Streamer
	log      zerolog.Logger
	grace    time.Duration

	mu        sync.Mutex
	state     State
	handle    *proc.Handle
	cancelled bool
}

// New creates an orchestrator for one request against one registry snapshot.
// The snapshot stays fixed for the build's lifetime regardless of settings
// reloads.
func New(req Request, registry *config.Registry, rep report.Reporter, logger zerolog.Logger) *Orchestrator {
	id := req.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Orchestrator{
		id:       id,
		req:      req,
		registry: registry,
		rep:      rep,
		streamer: proc.NewStreamer(rep),
		log:      logger.With().Str("build_id", id.String()).Logger(),
		grace:    DefaultGrace,
	}
}

// ID returns the build's identifier
func (o *Orchestrator) ID() uuid.UUID {
	return o.id
}

// State returns the current pipeline state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Run drives the build to a terminal state. Exactly one terminal status
// reaches the reporting sink, whatever happens. Failures are never retried;
// re-issuing the request is the caller's decision.
func (o *Orchestrator) Run(ctx context.Context) Outcome {
	o.log.Info().
		Str("server", o.req.RemoteServer).
		Str("cmd", o.req.RemoteCmd).
		Str("dir", o.req.WorkingDirectory).
		Msg("starting build")

	// Context cancellation is an external cancellation request: it must
	// terminate the owned process group, not just the direct child, and
	// the build must report cancelled rather than failed.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			o.Cancel()
		case <-watchDone:
		}
	}()

	strategy, err := SelectStrategy(o.req, o.registry, o.log)
	if err != nil {
		return o.finish(report.StatusFailure, -1, err)
	}

	if strategy.RequiresSync() {
		if !o.transition(StateSyncing) {
			return o.finish(report.StatusCancelled, -1, nil)
		}
		if err := strategy.Sync(ctx, runnerFunc(o.runCommand)); err != nil {
			if o.isCancelled() || ctx.Err() != nil {
				return o.finish(report.StatusCancelled, -1, nil)
			}
			// Strict ordering: the remote stage is never attempted
			// after a failed transfer.
			return o.finish(report.StatusFailure, -1, err)
		}
	}

	cmd, err := strategy.Command(ctx)
	if err != nil {
		return o.finish(report.StatusFailure, -1, err)
	}
	if cmd == nil {
		return o.finish(report.StatusSuccess, 0, nil)
	}

	if !o.transition(StateExecuting) {
		return o.finish(report.StatusCancelled, -1, nil)
	}

	exitCode, launchErr := o.runCommand(ctx, cmd)
	if o.isCancelled() || ctx.Err() != nil {
		return o.finish(report.StatusCancelled, exitCode, nil)
	}
	if err := strategy.Interpret(exitCode, launchErr); err != nil {
		return o.finish(report.StatusFailure, exitCode, err)
	}

	return o.finish(report.StatusSuccess, exitCode, nil)
}

// Cancel terminates the active process group and drives the build to the
// cancelled state. Issuing cancellation twice is a no-op.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	if o.cancelled || o.state == StateCompleted || o.state == StateFailed {
		o.mu.Unlock()
		return
	}
	o.cancelled = true
	handle := o.handle
	o.mu.Unlock()

	o.log.Info().Msg("cancelling build")
	if handle != nil {
		handle.Terminate(o.grace)
	}
}

// runCommand spawns one external tool invocation, owning its handle for the
// duration so cancellation can reach it, and drains both output streams to
// the reporting sink.
func (o *Orchestrator) runCommand(ctx context.Context, cmd *exec.Cmd) (int, error) {
	handle, err := proc.Start(cmd)
	if err != nil {
		return -1, err
	}

	o.mu.Lock()
	o.handle = handle
	cancelled := o.cancelled
	o.mu.Unlock()

	if cancelled {
		// Cancel raced with the spawn; the new process dies immediately
		handle.Terminate(o.grace)
	}

	drainErr := o.streamer.Drain(handle)
	waitErr := handle.Wait()

	o.mu.Lock()
	o.handle = nil
	o.mu.Unlock()

	if drainErr != nil && !o.isCancelled() {
		o.log.Warn().Err(drainErr).Msg("output stream closed abnormally")
	}
	if waitErr != nil && handle.ExitCode() < 0 && !o.isCancelled() {
		o.log.Warn().Err(waitErr).Msg("process did not exit cleanly")
	}

	return handle.ExitCode(), nil
}

// transition advances to the given state unless cancellation already won
func (o *Orchestrator) transition(to State) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancelled {
		return false
	}
	o.state = to
	return true
}

func (o *Orchestrator) isCancelled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cancelled
}

func (o *Orchestrator) finish(status report.Status, exitCode int, err error) Outcome {
	o.mu.Lock()
	switch status {
	case report.StatusSuccess:
		o.state = StateCompleted
	case report.StatusCancelled:
		o.state = StateCancelled
	default:
		o.state = StateFailed
	}
	o.mu.Unlock()

	event := o.log.Info()
	if status == report.StatusFailure {
		event = o.log.Error().Err(err)
	}
	event.
		Str("status", string(status)).
		Int("exit_code", exitCode).
		Msg("build finished")

	o.rep.Done(status, exitCode)
	return Outcome{Status: status, ExitCode: exitCode, Err: err}
}

// runnerFunc adapts a function to the mirror.CommandRunner interface
type runnerFunc func(ctx context.Context, cmd *exec.Cmd) (int, error)

func (f runnerFunc) Run(ctx context.Context, cmd *exec.Cmd) (int, error) {
	return f(ctx, cmd)
}
