// --- START OF FINAL REVISED FILE internal/testutil/mocks.go ---
// Package testutil provides mock implementations for interfaces defined in the
// pydflatex core library (pkg/compile and subpackages). These mocks
// facilitate unit testing by isolating components.
package testutil

import (
	"context"
	"time"

	"github.com/olivierverdier/pydflatex/pkg/compile"
	"github.com/olivierverdier/pydflatex/pkg/latexlog"
	"github.com/olivierverdier/pydflatex/pkg/util"
	"github.com/stretchr/testify/mock"
)

// MockEngine provides a mock implementation of the compile.Engine interface.
// Configure expectations using testify/mock methods (e.g., .On("Invoke", ...).Return(0, nil)).
// Use .Run to write a log file at inv.LogPath as a side effect.
type MockEngine struct {
	mock.Mock
}

// Invoke mocks the Invoke method.
func (m *MockEngine) Invoke(ctx context.Context, inv compile.Invocation) (exitCode int, err error) {
	args := m.Called(ctx, inv)
	exitCode, _ = args.Get(0).(int) // Use zero value if assertion fails (implies test setup issue)
	err = args.Error(1)
	return
}

// MockOutputHandler provides a mock implementation of the compile.OutputHandler interface.
type MockOutputHandler struct {
	mock.Mock
}

// ResolveLogPath mocks the ResolveLogPath method.
func (m *MockOutputHandler) ResolveLogPath(paths util.TeXPaths) string {
	args := m.Called(paths)
	return args.String(0)
}

// FinalizeOutputs mocks the FinalizeOutputs method.
func (m *MockOutputHandler) FinalizeOutputs(ctx context.Context, paths util.TeXPaths) error {
	args := m.Called(ctx, paths)
	return args.Error(0)
}

// MockOpener provides a mock implementation of the compile.Opener interface.
type MockOpener struct {
	mock.Mock
}

// Open mocks the Open method.
func (m *MockOpener) Open(ctx context.Context, pdfPath string) error {
	args := m.Called(ctx, pdfPath)
	return args.Error(0)
}

// MockEncodingHandler provides a mock implementation of the encoding.EncodingHandler interface.
// Configure expectations using testify/mock methods (e.g., .On("DetectAndDecode", ...).Return(...)).
type MockEncodingHandler struct {
	mock.Mock
}

// DetectAndDecode mocks the DetectAndDecode method.
func (m *MockEncodingHandler) DetectAndDecode(content []byte) (utf8Content []byte, detectedEncoding string, certainty bool, err error) {
	args := m.Called(content)
	utf8Content, _ = args.Get(0).([]byte)
	detectedEncoding, _ = args.Get(1).(string)
	certainty, _ = args.Get(2).(bool)
	err = args.Error(3)
	return
}

// IsBinary mocks the IsBinary method.
func (m *MockEncodingHandler) IsBinary(content []byte) bool {
	args := m.Called(content)
	isBinary, _ := args.Get(0).(bool)
	return isBinary
}

// MockHooks provides a mock implementation of the compile.Hooks interface.
// Configure expectations using testify/mock methods (e.g., .On("OnDiagnostic", ...).Return(nil)).
// For asserting on the order of calls, RecordingHooks is usually simpler.
type MockHooks struct {
	mock.Mock
}

// OnSessionStart mocks the OnSessionStart method.
func (m *MockHooks) OnSessionStart(source string) error {
	args := m.Called(source)
	return args.Error(0)
}

// OnPassStatusUpdate mocks the OnPassStatusUpdate method.
func (m *MockHooks) OnPassStatusUpdate(source string, pass int, status compile.Status, message string, duration time.Duration) error {
	args := m.Called(source, pass, status, message, duration)
	return args.Error(0)
}

// OnDiagnostic mocks the OnDiagnostic method.
func (m *MockHooks) OnDiagnostic(source string, pass int, diag latexlog.Diagnostic) error {
	args := m.Called(source, pass, diag)
	return args.Error(0)
}

// OnSessionComplete mocks the OnSessionComplete method.
func (m *MockHooks) OnSessionComplete(session compile.Session) error {
	args := m.Called(session)
	return args.Error(0)
}

// OnRunComplete mocks the OnRunComplete method.
func (m *MockHooks) OnRunComplete(report compile.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

// --- END OF FINAL REVISED FILE internal/testutil/mocks.go ---
