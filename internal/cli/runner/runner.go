// --- START OF FINAL REVISED FILE internal/cli/runner/runner.go ---
package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/olivierverdier/pydflatex/pkg/compile"
)

const (
	// maxLogOutputBytes limits the size of engine output captured in logs.
	maxLogOutputBytes = 1024
	// maxEngineReadBytes caps how much stdout/stderr is buffered per pass.
	// The engine writes its transcript to the .log file; the console copy is
	// only kept for diagnostics.
	maxEngineReadBytes = 1024 * 1024
)

// ExecEngine implements compile.Engine by running pdflatex or xelatex as an
// external process.
type ExecEngine struct {
	name        compile.EngineName
	binary      string
	haltOnError bool
	logger      *slog.Logger
}

// NewExecEngine creates an engine runner. binary defaults to the engine name.
func NewExecEngine(name compile.EngineName, binary string, haltOnError bool, loggerHandler slog.Handler) *ExecEngine { // minimal comment
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	if binary == "" {
		binary = string(name)
	}
	logger := slog.New(loggerHandler).With(slog.String("component", "engineRunner"))
	return &ExecEngine{name: name, binary: binary, haltOnError: haltOnError, logger: logger}
}

// Args returns the command-line arguments (without the binary) for inv.
func (e *ExecEngine) Args(inv compile.Invocation) []string {
	args := []string{
		"-8bit",
		"-no-mktex=pk",
		"-interaction=batchmode",
	}
	if e.haltOnError {
		args = append(args, "-halt-on-error")
	}
	args = append(args, "-recorder")
	if inv.OutputDir != "" {
		args = append(args, "-output-directory="+inv.OutputDir)
	}
	return append(args, inv.Paths.FullPath)
}

// Invoke runs one engine pass. A non-zero exit status is returned as the
// exit code with a nil error; only failures to run the engine at all are
// errors (wrapping compile.ErrEngineExecution).
func (e *ExecEngine) Invoke(ctx context.Context, inv compile.Invocation) (int, error) {
	logArgs := []any{
		slog.String("engine", string(e.name)),
		slog.String("path", inv.Paths.FullPath),
		slog.Int("pass", inv.Pass),
	}

	if inv.OutputDir != "" {
		if err := os.MkdirAll(inv.OutputDir, 0755); err != nil {
			e.logger.Error("Cannot create output directory", append(logArgs, slog.String("dir", inv.OutputDir), slog.Any("error", err))...)
			return -1, compile.WrapEngineError(e.name, fmt.Errorf("output directory '%s': %w", inv.OutputDir, err))
		}
	}

	args := e.Args(inv)
	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Dir = inv.Paths.Base
	cmd.Env = append(os.Environ(), "TEXINPUTS="+inv.Paths.Base+string(os.PathListSeparator))

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		e.logger.Error("Failed to create stdout pipe for engine", append(logArgs, slog.Any("error", err))...)
		return -1, compile.EngineErrorf(e.name, "failed to create stdout pipe: %v", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		e.logger.Error("Failed to create stderr pipe for engine", append(logArgs, slog.Any("error", err))...)
		return -1, compile.EngineErrorf(e.name, "failed to create stderr pipe: %v", err)
	}

	e.logger.Debug("Starting engine", append(logArgs, slog.String("command", e.binary+" "+strings.Join(args, " ")))...)
	if startErr := cmd.Start(); startErr != nil {
		e.logger.Error("Failed to start engine process", append(logArgs, slog.String("binary", e.binary), slog.Any("error", startErr))...)
		return -1, compile.WrapEngineError(e.name, fmt.Errorf("cannot start '%s': %w", e.binary, startErr))
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error { return drain(&stdoutBuf, stdoutPipe) })
	g.Go(func() error { return drain(&stderrBuf, stderrPipe) })
	readErr := g.Wait()
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		e.logger.Info("Engine pass interrupted", append(logArgs, slog.Any("error", ctx.Err()))...)
		return -1, ctx.Err()
	}
	if readErr != nil {
		e.logger.Warn("Error reading engine output", append(logArgs, slog.Any("error", readErr))...)
	}

	if first := firstLine(stdoutBuf.Bytes()); first != "" {
		e.logger.Info(first, logArgs...)
	}
	if stderr := strings.TrimSpace(stderrBuf.String()); stderr != "" {
		e.logger.Debug("Engine stderr", append(logArgs, slog.String("stderr", truncate(stderr)))...)
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) && exitErr.ExitCode() >= 0 {
			e.logger.Debug("Engine exited with non-zero status", append(logArgs, slog.Int("exitCode", exitErr.ExitCode()))...)
			return exitErr.ExitCode(), nil
		}
		e.logger.Error("Engine execution failed", append(logArgs, slog.Any("error", waitErr))...)
		return -1, compile.WrapEngineError(e.name, waitErr)
	}
	return 0, nil
}

// drain copies at most maxEngineReadBytes from r into buf and discards the
// rest so that the process never blocks on a full pipe.
func drain(buf *bytes.Buffer, r io.Reader) error {
	if _, err := io.Copy(buf, io.LimitReader(r, maxEngineReadBytes)); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	_, err := io.Copy(io.Discard, r)
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}

func firstLine(b []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line
		}
	}
	return ""
}

func truncate(s string) string {
	if len(s) > maxLogOutputBytes {
		return s[:maxLogOutputBytes] + "... (truncated)"
	}
	return s
}

// --- END OF FINAL REVISED FILE internal/cli/runner/runner.go ---
