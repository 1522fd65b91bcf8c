// --- START OF NEW FILE internal/cli/cli_test.go ---
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/olivierverdier/pydflatex/internal/cli/outputs"
	"github.com/olivierverdier/pydflatex/internal/cli/runner"
	"github.com/olivierverdier/pydflatex/internal/testutil"
	"github.com/olivierverdier/pydflatex/pkg/compile"
)

const (
	cleanLog = "This is pdfTeX\n(./doc.tex [1] )\nOutput written on doc.pdf (1 page, 999 bytes).\n"
	fatalLog = "(./doc.tex\n! Undefined control sequence.\nl.3 \\nonexistingmacro\n                     \n\n)\n"
)

type runFixture struct {
	opts   compile.Options
	logger *slog.Logger
	logBuf *bytes.Buffer
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newRunFixture(t *testing.T, log string) *runFixture {
	t.Helper()
	paths := testutil.CreateTeXSource(t, t.TempDir(), "doc")
	logBuf := &bytes.Buffer{}
	handler := slog.NewTextHandler(logBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
	inPlace, err := outputs.NewHandler(compile.OutputModeInPlace, "", nil, handler)
	require.NoError(t, err)

	return &runFixture{
		opts: compile.Options{
			Sources:      []string{paths.FullPath},
			AppVersion:   "test",
			LoopConfig:   compile.LoopConfig{MaxPasses: 3, HaltOnError: true},
			EngineName:   compile.EnginePDFLaTeX,
			OutputMode:   compile.OutputModeInPlace,
			OutputFormat: compile.OutputFormatText,
			TuiEnabled:   true, // ignored: stderr is not a terminal
			Logger:       handler,
			Engine:       &testutil.LogScriptEngine{Logs: []*string{testutil.Log(log)}},
			Outputs:      inPlace,
		},
		logger: slog.New(handler),
		logBuf: logBuf,
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
}

func (f *runFixture) run(ctx context.Context) error {
	return run(ctx, f.opts, f.logger, streams{stdout: f.stdout, stderr: f.stderr})
}

func TestRun_CleanSourceTextReport(t *testing.T) {
	f := newRunFixture(t, cleanLog)

	require.NoError(t, f.run(context.Background()))

	assert.Contains(t, f.stderr.String(), "pdflatex "+f.opts.Sources[0], "the console shows the engine line")
	assert.Contains(t, f.stderr.String(), "completed in")
	assert.NotContains(t, f.stderr.String(), "\x1b[", "no colour when stderr is not a terminal")
	assert.Contains(t, f.stdout.String(), "1 source(s), 1 pass(es) in ")
	assert.Contains(t, f.stdout.String(), "1 ok, 0 with warnings, 0 failed, 0 aborted, 0 cancelled")
}

func TestRun_FailedSourceReturnsExitError(t *testing.T) {
	f := newRunFixture(t, fatalLog)

	err := f.run(context.Background())

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Equal(t, "exit status 1", err.Error())
	assert.Contains(t, f.stderr.String(), "./doc.tex:3: Undefined control sequence.")
	assert.Contains(t, f.stdout.String(), "error: "+f.opts.Sources[0]+": ./doc.tex:3: Undefined control sequence.")
}

func TestRun_CancelledReturns130(t *testing.T) {
	f := newRunFixture(t, cleanLog)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.run(ctx)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 130, exitErr.Code)
}

func TestRun_JSONReport(t *testing.T) {
	f := newRunFixture(t, cleanLog)
	f.opts.OutputFormat = compile.OutputFormatJSON

	require.NoError(t, f.run(context.Background()))

	var report compile.Report
	require.NoError(t, json.Unmarshal(f.stdout.Bytes(), &report))
	assert.Equal(t, 1, report.Summary.SourceCount)
	assert.Equal(t, compile.StatusSuccess, report.Summary.WorstStatus)
	require.Len(t, report.Sessions, 1)
	assert.Equal(t, 1, report.Sessions[0].Passes)
}

func TestRun_YAMLReport(t *testing.T) {
	f := newRunFixture(t, fatalLog)
	f.opts.OutputFormat = compile.OutputFormatYAML

	err := f.run(context.Background())

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	var report compile.Report
	require.NoError(t, yaml.Unmarshal(f.stdout.Bytes(), &report))
	assert.Equal(t, compile.StatusFailed, report.Summary.WorstStatus)
	require.Len(t, report.Sessions, 1)
	require.NotNil(t, report.Sessions[0].FirstError)
	assert.Equal(t, 3, report.Sessions[0].FirstError.Line)
	assert.Contains(t, f.stdout.String(), "worstStatus: failed")
}

func TestRun_InvalidOptions(t *testing.T) {
	f := newRunFixture(t, cleanLog)
	f.opts.Sources = nil

	err := f.run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, compile.ErrConfigValidation)
	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))
	assert.Empty(t, f.stdout.String(), "no report for a run that never started")
}

func TestWireDefaults(t *testing.T) {
	t.Run("InPlace", func(t *testing.T) {
		opts := compile.Options{EngineName: compile.EngineXeLaTeX, OutputMode: compile.OutputModeInPlace}
		require.NoError(t, wireDefaults(&opts))
		assert.IsType(t, &outputs.InPlace{}, opts.Outputs)
		assert.IsType(t, &runner.ExecEngine{}, opts.Engine)
		assert.Nil(t, opts.Opener, "no opener unless requested")
	})

	t.Run("IsolatedWithOpener", func(t *testing.T) {
		opts := compile.Options{EngineName: compile.EnginePDFLaTeX, OutputMode: compile.OutputModeIsolated, TmpDirName: "build", OpenAfter: true}
		require.NoError(t, wireDefaults(&opts))
		isolated, ok := opts.Outputs.(*outputs.Isolated)
		require.True(t, ok)
		assert.Equal(t, "build", isolated.TmpDirName)
		assert.IsType(t, &outputs.SystemOpener{}, opts.Opener)
	})

	t.Run("KeepsInjected", func(t *testing.T) {
		engine := &testutil.LogScriptEngine{}
		opts := compile.Options{Engine: engine, OutputMode: compile.OutputModeInPlace}
		require.NoError(t, wireDefaults(&opts))
		assert.Same(t, engine, opts.Engine)
	})

	t.Run("UnknownOutputMode", func(t *testing.T) {
		opts := compile.Options{OutputMode: "elsewhere"}
		err := wireDefaults(&opts)
		assert.ErrorIs(t, err, compile.ErrConfigValidation)
	})
}

func TestWriteReport_Text(t *testing.T) {
	report := compile.Report{
		Summary: compile.ReportSummary{
			SourceCount:     2,
			TotalPasses:     4,
			SuccessCount:    1,
			AbortedCount:    1,
			DurationSeconds: 1.25,
		},
		Errors: []compile.ErrorInfo{
			{Path: "b.tex", Error: "log not found", IsFatal: true},
			{Path: "a.tex", Error: "no viewer"},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, report, compile.OutputFormatText))

	assert.Equal(t,
		"2 source(s), 4 pass(es) in 1.25s: 1 ok, 0 with warnings, 0 failed, 1 aborted, 0 cancelled\n"+
			"  error: b.tex: log not found\n"+
			"  warning: a.tex: no viewer\n",
		buf.String())
}

func TestTerminal_NonFile(t *testing.T) {
	isTTY, width := terminal(&bytes.Buffer{})
	assert.False(t, isTTY)
	assert.Zero(t, width)
}

// --- END OF NEW FILE internal/cli/cli_test.go ---
