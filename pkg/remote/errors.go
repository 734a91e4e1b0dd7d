package remote

import "fmt"

// ExecError reports that the remote-shell invocation itself failed to launch
// or connect. It is deliberately distinct from a nonzero exit of the remote
// command, which is an ordinary build failure rather than a tool fault.
type ExecError struct {
	Err error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("remote exec: %v", e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
