package report

// Stream identifies which output descriptor a chunk arrived on
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Status is the terminal outcome of a build
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailure   Status = "failure"
	StatusCancelled Status = "cancelled"
)

// Reporter receives incremental build output plus exactly one terminal
// status. Chunks for a single stream arrive in order; no ordering is
// guaranteed between the two streams. Implementations must tolerate Chunk
// being called from two goroutines concurrently.
type Reporter interface {
	Chunk(stream Stream, data []byte)
	Done(status Status, exitCode int)
}
