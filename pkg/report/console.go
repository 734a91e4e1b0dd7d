package report

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Console relays chunks to a writer as they arrive and logs a summary line
// on completion, the way a local build would look in a terminal.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	log   zerolog.Logger
	start time.Time
}

// NewConsole creates a console reporter writing relayed output to out
func NewConsole(out io.Writer, logger zerolog.Logger) *Console {
	return &Console{
		out:   out,
		log:   logger,
		start: time.Now(),
	}
}

// Chunk writes one incremental piece of build output. Carriage returns are
// normalized so remote tools emitting CRLF read cleanly.
func (c *Console) Chunk(stream Stream, data []byte) {
	normalized := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	normalized = bytes.ReplaceAll(normalized, []byte("\r"), []byte("\n"))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.out.Write(normalized) //nolint:errcheck
}

// Done records the terminal status with the elapsed time and exit code
func (c *Console) Done(status Status, exitCode int) {
	elapsed := time.Since(c.start)

	event := c.log.Info()
	if status != StatusSuccess {
		event = c.log.Error()
	}
	event.
		Str("status", string(status)).
		Int("exit_code", exitCode).
		Dur("elapsed", elapsed).
		Msg("build finished")
}
