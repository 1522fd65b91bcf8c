// --- START OF FINAL REVISED FILE internal/cli/cli.go ---
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/olivierverdier/pydflatex/internal/cli/hooks"
	"github.com/olivierverdier/pydflatex/internal/cli/outputs"
	"github.com/olivierverdier/pydflatex/internal/cli/runner"
	"github.com/olivierverdier/pydflatex/internal/cli/ui"
	"github.com/olivierverdier/pydflatex/pkg/compile"
)

// ExitError reports a completed run whose worst session maps to a non-zero
// process exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// streams are the process outputs: the report goes to stdout, progress and
// diagnostics to stderr.
type streams struct {
	stdout io.Writer
	stderr io.Writer
}

// Run orchestrates the main application logic after configuration loading.
// It receives the application context, validated options, and the logger.
func Run(ctx context.Context, opts compile.Options, logger *slog.Logger) error {
	return run(ctx, opts, logger, streams{stdout: os.Stdout, stderr: os.Stderr})
}

func run(ctx context.Context, opts compile.Options, logger *slog.Logger, out streams) error {
	if err := wireDefaults(&opts); err != nil {
		logger.Error("Cannot prepare run", slog.Any("error", err))
		return err
	}

	isTTY, width := terminal(out.stderr)
	useTUI := opts.TuiEnabled && !opts.Verbose && isTTY

	var report compile.Report
	var err error
	if useTUI {
		report, err = runWithTUI(ctx, opts, logger, out)
	} else {
		if opts.EventHooks == nil {
			formatter := hooks.NewFormatter(string(opts.EngineName), opts.Colour && isTTY, width)
			opts.EventHooks = hooks.NewCLIHooks(logger, false, opts.Verbose, nil, out.stderr, formatter)
		}
		report, err = compile.Run(ctx, opts)
	}
	if err != nil {
		return err
	}

	if writeErr := writeReport(out.stdout, report, opts.OutputFormat); writeErr != nil {
		logger.Error("Failed to write report", slog.Any("error", writeErr))
		return writeErr
	}

	logger.Debug("Run finished",
		slog.String("worstStatus", string(report.Summary.WorstStatus)),
		slog.Int("exitCode", report.ExitCode()),
	)
	if code := report.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// wireDefaults fills in the production implementations of the injected
// dependencies the caller left empty.
func wireDefaults(opts *compile.Options) error {
	if opts.Outputs == nil {
		h, err := outputs.NewHandler(opts.OutputMode, opts.TmpDirName, outputs.DefaultHider(), opts.Logger)
		if err != nil {
			return err
		}
		opts.Outputs = h
	}
	if opts.Engine == nil {
		opts.Engine = runner.NewExecEngine(opts.EngineName, opts.EngineCommand, opts.HaltOnError, opts.Logger)
	}
	if opts.OpenAfter && opts.Opener == nil {
		opts.Opener = outputs.NewOpener(nil, opts.Logger)
	}
	return nil
}

// teaProgram adapts *tea.Program to hooks.TUIProgram.
type teaProgram struct{ p *tea.Program }

func (t teaProgram) Send(msg interface{}) { t.p.Send(msg) }

// runWithTUI runs the compile loop in the background while the Bubble Tea
// program owns the terminal. Quitting the TUI cancels the remaining work.
func runWithTUI(ctx context.Context, opts compile.Options, logger *slog.Logger, out streams) (compile.Report, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel(opts.AppVersion, opts.Sources)
	p := tea.NewProgram(model, tea.WithOutput(out.stderr), tea.WithContext(runCtx))
	opts.EventHooks = hooks.NewCLIHooks(logger, true, false, teaProgram{p}, nil, nil)

	type result struct {
		report compile.Report
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := compile.Run(runCtx, opts)
		done <- result{report: report, err: err}
		if err != nil {
			p.Quit() // no RunCompleteMsg will arrive
		}
	}()

	if _, err := p.Run(); err != nil {
		logger.Debug("TUI stopped", slog.Any("error", err))
	}
	cancel()
	res := <-done
	return res.report, res.err
}

// writeReport prints the final summary in the requested format.
func writeReport(w io.Writer, report compile.Report, format compile.OutputFormat) error {
	switch format {
	case compile.OutputFormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case compile.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		return enc.Close()
	}

	sum := report.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "%d source(s), %d pass(es) in %s: %d ok, %d with warnings, %d failed, %d aborted, %d cancelled\n",
		sum.SourceCount,
		sum.TotalPasses,
		(time.Duration(sum.DurationSeconds * float64(time.Second))).Round(time.Millisecond),
		sum.SuccessCount,
		sum.WarningCount,
		sum.FailedCount,
		sum.AbortedCount,
		sum.CancelledCount,
	)
	for _, e := range report.Errors {
		label := "warning"
		if e.IsFatal {
			label = "error"
		}
		fmt.Fprintf(&b, "  %s: %s: %s\n", label, e.Path, e.Error)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// terminal reports whether w is a terminal and, if so, its width.
func terminal(w io.Writer) (bool, int) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return true, 0
	}
	return true, width
}

// --- END OF FINAL REVISED FILE internal/cli/cli.go ---
