package build

import (
	"errors"
	"fmt"

	"github.com/mkoval/remexec/pkg/config"
	"github.com/mkoval/remexec/pkg/mirror"
	"github.com/mkoval/remexec/pkg/remote"
)

// Failure reports that the build command executed and exited nonzero.
// Unlike config.Error, mirror.SyncError and remote.ExecError it is not a
// system fault: the build was attempted and the result is authoritative.
type Failure struct {
	ExitCode int
}

func (e *Failure) Error() string {
	return fmt.Sprintf("build exited with code %d", e.ExitCode)
}

// IsToolFault reports whether the build could not be attempted at all:
// unresolved configuration, a failed transfer, or a remote shell that never
// launched. A plain nonzero build exit is not a tool fault.
func IsToolFault(err error) bool {
	var configErr *config.Error
	var syncErr *mirror.SyncError
	var execErr *remote.ExecError
	return errors.As(err, &configErr) || errors.As(err, &syncErr) || errors.As(err, &execErr)
}

// IsBuildFailure reports whether the command ran and exited nonzero
func IsBuildFailure(err error) bool {
	var failure *Failure
	return errors.As(err, &failure)
}
