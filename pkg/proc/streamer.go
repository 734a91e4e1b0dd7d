package proc

import (
	"errors"
	"io"
	"io/fs"

	"golang.org/x/sync/errgroup"

	"github.com/mkoval/remexec/pkg/report"
)

// chunkSize matches a pipe's worth of output per read; small enough to keep
// progress visible, large enough to stay out of the way.
const chunkSize = 32 * 1024

// Streamer drains a process's two output streams concurrently, forwarding
// chunks to the reporting sink as they arrive. Each stream is delivered in
// arrival order; interleaving between the streams is unspecified.
type Streamer struct {
	rep report.Reporter
}

// NewStreamer creates a streamer bound to a reporting sink
func NewStreamer(rep report.Reporter) *Streamer {
	return &Streamer{rep: rep}
}

// Drain reads both streams to completion. Killing the process closes the
// pipes, which unblocks the readers with end-of-stream.
func (s *Streamer) Drain(h *Handle) error {
	var g errgroup.Group
	g.Go(func() error { return s.relay(report.Stdout, h.Stdout()) })
	g.Go(func() error { return s.relay(report.Stderr, h.Stderr()) })
	return g.Wait()
}

func (s *Streamer) relay(stream report.Stream, r io.Reader) error {
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.rep.Chunk(stream, chunk)
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, fs.ErrClosed) {
				return nil
			}
			return err
		}
	}
}
