package proc

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// Handle owns a spawned child process together with its output pipes and
// process-group identity. Exactly one orchestrator owns a handle; Terminate
// kills the whole group so pipelines spawned by a shell die with it.
type Handle struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser

	done     chan struct{}
	waitOnce sync.Once
	killOnce sync.Once
	waitErr  error
}

// Start spawns cmd in its own process group and returns a handle owning it
func Start(cmd *exec.Cmd) (*Handle, error) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}

	return &Handle{
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
		done:   make(chan struct{}),
	}, nil
}

// Stdout returns the child's stdout pipe
func (h *Handle) Stdout() io.Reader { return h.stdout }

// Stderr returns the child's stderr pipe
func (h *Handle) Stderr() io.Reader { return h.stderr }

// Wait reaps the child. Both output pipes must be fully drained first.
// Safe to call from multiple goroutines.
func (h *Handle) Wait() error {
	h.waitOnce.Do(func() {
		h.waitErr = h.cmd.Wait()
		close(h.done)
	})
	<-h.done
	return h.waitErr
}

// ExitCode returns the child's exit code once Wait has returned, or -1 when
// the process was killed before exiting on its own
func (h *Handle) ExitCode() int {
	if h.cmd.ProcessState == nil {
		return -1
	}
	return h.cmd.ProcessState.ExitCode()
}

// Signal delivers sig to the whole process group
func (h *Handle) Signal(sig syscall.Signal) error {
	return syscall.Kill(-h.cmd.Process.Pid, sig)
}

// Terminate sends SIGTERM to the process group and escalates to SIGKILL if
// the child has not exited within the grace period. Idempotent.
func (h *Handle) Terminate(grace time.Duration) {
	h.killOnce.Do(func() {
		pgid := h.cmd.Process.Pid
		syscall.Kill(-pgid, syscall.SIGTERM) //nolint:errcheck

		go func() {
			select {
			case <-h.done:
			case <-time.After(grace):
				syscall.Kill(-pgid, syscall.SIGKILL) //nolint:errcheck
			}
		}()
	})
}
