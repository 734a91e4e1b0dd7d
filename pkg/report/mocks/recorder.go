package mocks

import (
	"sync"

	"github.com/mkoval/remexec/pkg/report"
)

// Recorder is a test double that captures everything sent to the sink
type Recorder struct {
	mu       sync.Mutex
	chunks   map[report.Stream][]byte
	statuses []report.Status
	codes    []int
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{chunks: make(map[report.Stream][]byte)}
}

// Chunk appends data to the per-stream transcript
func (r *Recorder) Chunk(stream report.Stream, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks[stream] = append(r.chunks[stream], data...)
}

// Done records a terminal status
func (r *Recorder) Done(status report.Status, exitCode int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
	r.codes = append(r.codes, exitCode)
}

// Output returns the accumulated transcript for one stream
func (r *Recorder) Output(stream report.Stream) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return string(r.chunks[stream])
}

// Statuses returns every terminal status received
func (r *Recorder) Statuses() []report.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]report.Status(nil), r.statuses...)
}

// ExitCodes returns every exit code received
func (r *Recorder) ExitCodes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.codes...)
}
