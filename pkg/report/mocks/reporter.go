// Code generated manually. DO NOT EDIT.

package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/mkoval/remexec/pkg/report"
)

// MockReporter is a mock implementation of the report.Reporter interface
type MockReporter struct {
	mock.Mock
}

// Chunk provides a mock function with given fields: stream, data
func (m *MockReporter) Chunk(stream report.Stream, data []byte) {
	m.Called(stream, data)
}

// Done provides a mock function with given fields: status, exitCode
func (m *MockReporter) Done(status report.Status, exitCode int) {
	m.Called(status, exitCode)
}
