package build

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkoval/remexec/pkg/config"
	"github.com/mkoval/remexec/pkg/mirror"
	"github.com/mkoval/remexec/pkg/remote"
)

func TestIsToolFault(t *testing.T) {
	t.Run("config_sync_and_remote_errors_are_tool_faults", func(t *testing.T) {
		assert.True(t, IsToolFault(&config.Error{Reason: "unknown server"}))
		assert.True(t, IsToolFault(&mirror.SyncError{ExitCode: 12, Err: errors.New("boom")}))
		assert.True(t, IsToolFault(&remote.ExecError{Err: errors.New("refused")}))
	})

	t.Run("wrapped_errors_are_still_recognized", func(t *testing.T) {
		err := fmt.Errorf("stage failed: %w", &mirror.SyncError{ExitCode: 1, Err: errors.New("unreachable")})
		assert.True(t, IsToolFault(err))
	})

	t.Run("build_failures_are_not_tool_faults", func(t *testing.T) {
		assert.False(t, IsToolFault(&Failure{ExitCode: 2}))
		assert.False(t, IsToolFault(errors.New("something else")))
		assert.False(t, IsToolFault(nil))
	})
}

func TestIsBuildFailure(t *testing.T) {
	assert.True(t, IsBuildFailure(&Failure{ExitCode: 1}))
	assert.True(t, IsBuildFailure(fmt.Errorf("wrapped: %w", &Failure{ExitCode: 1})))
	assert.False(t, IsBuildFailure(&remote.ExecError{Err: errors.New("no route")}))
	assert.False(t, IsBuildFailure(nil))
}
