// --- START OF FINAL REVISED FILE internal/testutil/helpers.go ---
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/olivierverdier/pydflatex/pkg/compile"
	"github.com/olivierverdier/pydflatex/pkg/latexlog"
	"github.com/olivierverdier/pydflatex/pkg/util"
	"github.com/stretchr/testify/require"
)

// CreateDummyFile creates a dummy file with specified content at the given path,
// ensuring parent directories exist. It uses require assertions for test setup.
func CreateDummyFile(t *testing.T, path string, content string) {
	t.Helper()
	fullPath := filepath.Clean(path)
	dir := filepath.Dir(fullPath)
	err := os.MkdirAll(dir, 0755)
	require.NoError(t, err, "Failed to create directory %s for dummy file", dir)
	err = os.WriteFile(fullPath, []byte(content), 0644)
	require.NoError(t, err, "Failed to write dummy file %s", fullPath)
}

// CreateDummyDir ensures a directory exists at the given path, creating parents if needed.
func CreateDummyDir(t *testing.T, path string) {
	t.Helper()
	err := os.MkdirAll(filepath.Clean(path), 0755)
	require.NoError(t, err, "Failed to create dummy directory %s", path)
}

// CreateTeXSource writes a minimal document named name+".tex" in dir and
// returns its resolved paths.
func CreateTeXSource(t *testing.T, dir, name string) util.TeXPaths {
	t.Helper()
	CreateDummyFile(t, filepath.Join(dir, name+".tex"), "\\documentclass{article}\n\\begin{document}\nx\n\\end{document}\n")
	paths, err := util.ResolveTeXPath(filepath.Join(dir, name+".tex"))
	require.NoError(t, err)
	return paths
}

// LogScriptEngine is a compile.Engine that writes a scripted log per pass
// instead of running TeX. Pass N writes Logs[N-1]; passes beyond the script
// repeat the last log. A nil entry writes no log at all.
type LogScriptEngine struct {
	Logs []*string

	mu    sync.Mutex
	calls []compile.Invocation
}

// Log returns a pointer to s, for building LogScriptEngine scripts.
func Log(s string) *string { return &s }

// Invoke implements compile.Engine.
func (e *LogScriptEngine) Invoke(ctx context.Context, inv compile.Invocation) (int, error) {
	e.mu.Lock()
	e.calls = append(e.calls, inv)
	e.mu.Unlock()

	if len(e.Logs) == 0 {
		return 0, nil
	}
	idx := min(inv.Pass, len(e.Logs)) - 1
	content := e.Logs[idx]
	if content == nil {
		_ = os.Remove(inv.LogPath)
		return 1, nil
	}
	if err := os.MkdirAll(filepath.Dir(inv.LogPath), 0755); err != nil {
		return 0, fmt.Errorf("log dir: %w", err)
	}
	if err := os.WriteFile(inv.LogPath, []byte(*content), 0644); err != nil {
		return 0, fmt.Errorf("write log: %w", err)
	}
	return 0, nil
}

// Calls returns the invocations received so far.
func (e *LogScriptEngine) Calls() []compile.Invocation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]compile.Invocation(nil), e.calls...)
}

// HookEvent is one call recorded by RecordingHooks.
type HookEvent struct {
	Method     string
	Source     string
	Pass       int
	Status     compile.Status
	Diagnostic latexlog.Diagnostic
}

// RecordingHooks is a compile.Hooks that records every call in order.
type RecordingHooks struct {
	mu       sync.Mutex
	Events   []HookEvent
	Sessions []compile.Session
	Reports  []compile.Report
}

func (h *RecordingHooks) record(ev HookEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, ev)
}

// OnSessionStart implements compile.Hooks.
func (h *RecordingHooks) OnSessionStart(source string) error {
	h.record(HookEvent{Method: "OnSessionStart", Source: source})
	return nil
}

// OnPassStatusUpdate implements compile.Hooks.
func (h *RecordingHooks) OnPassStatusUpdate(source string, pass int, status compile.Status, message string, duration time.Duration) error {
	h.record(HookEvent{Method: "OnPassStatusUpdate", Source: source, Pass: pass, Status: status})
	return nil
}

// OnDiagnostic implements compile.Hooks.
func (h *RecordingHooks) OnDiagnostic(source string, pass int, diag latexlog.Diagnostic) error {
	h.record(HookEvent{Method: "OnDiagnostic", Source: source, Pass: pass, Diagnostic: diag})
	return nil
}

// OnSessionComplete implements compile.Hooks.
func (h *RecordingHooks) OnSessionComplete(session compile.Session) error {
	h.record(HookEvent{Method: "OnSessionComplete", Source: session.Source, Status: session.Status})
	h.mu.Lock()
	h.Sessions = append(h.Sessions, session)
	h.mu.Unlock()
	return nil
}

// OnRunComplete implements compile.Hooks.
func (h *RecordingHooks) OnRunComplete(report compile.Report) error {
	h.record(HookEvent{Method: "OnRunComplete"})
	h.mu.Lock()
	h.Reports = append(h.Reports, report)
	h.mu.Unlock()
	return nil
}

// Diagnostics returns the diagnostics received for pass (0 for all passes).
func (h *RecordingHooks) Diagnostics(pass int) []latexlog.Diagnostic {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []latexlog.Diagnostic
	for _, ev := range h.Events {
		if ev.Method == "OnDiagnostic" && (pass == 0 || ev.Pass == pass) {
			out = append(out, ev.Diagnostic)
		}
	}
	return out
}

// Methods returns the recorded method names in call order.
func (h *RecordingHooks) Methods() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.Events))
	for _, ev := range h.Events {
		out = append(out, ev.Method)
	}
	return out
}

// --- END OF FINAL REVISED FILE internal/testutil/helpers.go ---
