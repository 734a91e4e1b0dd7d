package mirror

import "fmt"

// SyncError reports a transfer-tool failure or connectivity issue during the
// sync stage. The remote stage is never attempted after one of these.
// ExitCode is -1 when the tool could not be spawned.
type SyncError struct {
	ExitCode int
	Err      error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync: %v", e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
