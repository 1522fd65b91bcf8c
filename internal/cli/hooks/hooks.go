// --- START OF FINAL REVISED FILE internal/cli/hooks/hooks.go ---
package hooks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/olivierverdier/pydflatex/pkg/compile"
	"github.com/olivierverdier/pydflatex/pkg/latexlog"
)

// --- TUI Message Structs ---

// SessionStartMsg signals that compilation of a source file has begun.
type SessionStartMsg struct{ Source string }

// PassStatusMsg signals a change in a source's pass status.
type PassStatusMsg struct {
	Source   string
	Pass     int
	Status   compile.Status
	Message  string
	Duration time.Duration
}

// DiagnosticMsg carries one reported diagnostic of a pass.
type DiagnosticMsg struct {
	Source     string
	Pass       int
	Diagnostic latexlog.Diagnostic
}

// SessionCompleteMsg signals that a source's session is sealed.
type SessionCompleteMsg struct{ Session compile.Session }

// RunCompleteMsg signals the completion of the entire run.
type RunCompleteMsg struct{ Report compile.Report }

// --- Hook Implementation ---

// CLIHooks implements the compile.Hooks interface, bridging library events
// to the CLI's presentation layer (TUI, console, logger).
type CLIHooks struct {
	logger         *slog.Logger
	tuiEnabled     bool
	verboseEnabled bool
	tuiProgram     TUIProgram // Decoupled TUI program interface
	console        io.Writer
	formatter      *Formatter
	now            func() time.Time

	mu sync.Mutex
	// pending holds the diagnostics of the pass in progress per source; the
	// console only shows the last pass of a session.
	pending map[string][]latexlog.Diagnostic
}

// TUIProgram defines the interface needed to interact with the Bubble Tea program.
type TUIProgram interface {
	Send(msg interface{})
}

// NoOpTUIProgram provides a default null implementation.
type NoOpTUIProgram struct{}

// Send implements TUIProgram.
func (n *NoOpTUIProgram) Send(msg interface{}) {}

// --- Constructor ---

// NewCLIHooks creates a new CLIHooks instance.
// Pass nil for tuiProgram if not applicable. console defaults to os.Stderr and
// formatter to an uncoloured one.
func NewCLIHooks(logger *slog.Logger, tuiEnabled, verboseEnabled bool, tuiProg TUIProgram, console io.Writer, formatter *Formatter) compile.Hooks {
	if tuiProg == nil {
		tuiProg = &NoOpTUIProgram{}
	}
	if console == nil {
		console = os.Stderr
	}
	if formatter == nil {
		formatter = NewFormatter("", false, 0)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CLIHooks{
		logger:         logger,
		tuiEnabled:     tuiEnabled,
		verboseEnabled: verboseEnabled,
		tuiProgram:     tuiProg,
		console:        console,
		formatter:      formatter,
		now:            time.Now,
		pending:        make(map[string][]latexlog.Diagnostic),
	}
}

// --- Interface Method Implementations ---

// OnSessionStart handles the start of a source's session.
func (h *CLIHooks) OnSessionStart(source string) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(SessionStartMsg{Source: source})
	} else if h.verboseEnabled {
		h.logger.Debug("Session started", "source", source)
	}
	return nil // Library ignores hook errors
}

// OnPassStatusUpdate handles pass status changes. Starting a pass prints the
// engine line on the console and discards the previous pass's diagnostics.
func (h *CLIHooks) OnPassStatusUpdate(source string, pass int, status compile.Status, message string, duration time.Duration) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(PassStatusMsg{
			Source:   source,
			Pass:     pass,
			Status:   status,
			Message:  message,
			Duration: duration,
		})
		return nil
	}

	if h.verboseEnabled {
		attrs := []any{
			slog.String("source", source),
			slog.Int("pass", pass),
			slog.String("status", string(status)),
		}
		if duration > 0 {
			attrs = append(attrs, slog.Duration("duration", duration))
		}
		if message != "" {
			attrs = append(attrs, slog.String("message", message))
		}
		h.logger.Debug("Pass status updated", attrs...)
	}

	if status == compile.StatusTypesetting {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.pending, source)
		h.println(h.formatter.PassStart(source, pass, h.now()))
	}
	return nil
}

// OnDiagnostic receives every reported diagnostic in log order.
func (h *CLIHooks) OnDiagnostic(source string, pass int, diag latexlog.Diagnostic) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(DiagnosticMsg{Source: source, Pass: pass, Diagnostic: diag})
		return nil
	}
	if h.verboseEnabled {
		h.logger.Debug("Diagnostic",
			slog.String("source", source),
			slog.Int("pass", pass),
			slog.String("kind", diag.Kind().String()),
			slog.String("text", diag.String()),
		)
	}
	h.mu.Lock()
	h.pending[source] = append(h.pending[source], diag)
	h.mu.Unlock()
	return nil
}

// OnSessionComplete prints the last pass's diagnostics and the outcome line.
func (h *CLIHooks) OnSessionComplete(session compile.Session) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(SessionCompleteMsg{Session: session})
		return nil
	}

	h.mu.Lock()
	diags := h.pending[session.Source]
	delete(h.pending, session.Source)
	for _, d := range diags {
		for _, line := range h.formatter.Diagnostic(d) {
			h.println(line)
		}
	}
	for _, line := range h.formatter.Outcome(session) {
		h.println(line)
	}
	h.mu.Unlock()

	if h.verboseEnabled {
		level := slog.LevelInfo
		if !session.Status.Succeeded() && session.Status != compile.StatusCancelled {
			level = slog.LevelError
		}
		h.logger.Log(context.Background(), level, "Session complete",
			slog.String("source", session.Source),
			slog.String("status", string(session.Status)),
			slog.Int("passes", session.Passes()),
			slog.Duration("duration", session.Duration),
		)
	}
	return nil
}

// OnRunComplete hands the final report to the TUI. The text summary is
// printed by the CLI once Run returns.
func (h *CLIHooks) OnRunComplete(report compile.Report) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(RunCompleteMsg{Report: report})
	}
	return nil
}

// println must be called with h.mu held.
func (h *CLIHooks) println(line string) {
	_, _ = fmt.Fprintln(h.console, line)
}

// --- END OF FINAL REVISED FILE internal/cli/hooks/hooks.go ---
