// --- START OF NEW FILE pkg/compile/compile.go ---
package compile

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/olivierverdier/pydflatex/pkg/util"
)

// Run is the main entry point of the library: it compiles every source in
// opts.Sources, strictly one after the other, and reports the outcome of
// each. A failing source never prevents the next one from being compiled.
// The returned error is non-nil only for invalid options.
func Run(ctx context.Context, opts Options) (Report, error) {
	// --- Initial Validation ---
	if opts.Logger == nil {
		return Report{}, fmt.Errorf("%w: Logger implementation cannot be nil", ErrConfigValidation)
	}
	logger := slog.New(opts.Logger).With(slog.String("component", "compile"))

	if err := validate(opts); err != nil {
		logger.Error(err.Error())
		return Report{}, err
	}
	hooks := opts.EventHooks
	if hooks == nil {
		hooks = &NoOpHooks{}
	}
	if opts.OpenAfter && opts.Opener == nil {
		logger.Warn("openAfter requested but no Opener provided; documents will not be opened.")
	}

	logger.Info("Starting pydflatex run",
		slog.String("version", opts.AppVersion),
		slog.Int("sources", len(opts.Sources)),
		slog.String("engine", string(opts.EngineName)),
	)

	start := time.Now()
	report := Report{
		Summary: ReportSummary{
			Engine:         opts.EngineName,
			OutputMode:     opts.OutputMode,
			ProfileUsed:    opts.ProfileName,
			ConfigFilePath: opts.ConfigFilePath,
			Timestamp:      start,
			SchemaVersion:  ReportSchemaVersion,
		},
		Sessions: []SessionInfo{},
		Errors:   []ErrorInfo{},
	}

	loop := NewLoop(opts.Engine, opts.Outputs, hooks, opts.EncodingHandler, opts.LoopConfig, opts.Logger)

	for _, source := range opts.Sources {
		paths, err := util.ResolveTeXPath(source)
		if err != nil {
			logger.Error("Source rejected", slog.String("path", source), slog.Any("error", err))
			s := Session{Source: source, Status: StatusAborted, Reason: err.Error(), sealed: true}
			report.add(s)
			if hookErr := hooks.OnSessionComplete(s); hookErr != nil {
				logger.Warn("Error reported by OnSessionComplete hook", slog.Any("error", hookErr))
			}
			continue
		}

		session := loop.Run(ctx, paths)
		report.add(session)

		if opts.OpenAfter && opts.Opener != nil && session.Status.Succeeded() {
			pdf := paths.WithExt(".pdf")
			if err := opts.Opener.Open(ctx, pdf); err != nil {
				logger.Warn("Could not open document", slog.String("pdf", pdf), slog.Any("error", err))
				report.Errors = append(report.Errors, ErrorInfo{Path: source, Error: err.Error()})
			}
		}
	}

	report.Summary.DurationSeconds = time.Since(start).Seconds()

	if hookErr := hooks.OnRunComplete(report); hookErr != nil {
		logger.Warn("Error reported by OnRunComplete hook", slog.String("hookError", hookErr.Error()))
	}
	logger.Info("pydflatex run finished",
		slog.String("worstStatus", string(report.Summary.WorstStatus)),
		slog.Float64("durationSeconds", report.Summary.DurationSeconds),
	)
	return report, nil
}

func validate(opts Options) error {
	if len(opts.Sources) == 0 {
		return fmt.Errorf("%w: at least one source file is required", ErrConfigValidation)
	}
	if opts.Engine == nil {
		return fmt.Errorf("%w: Engine implementation cannot be nil", ErrConfigValidation)
	}
	if opts.Outputs == nil {
		return fmt.Errorf("%w: Outputs implementation cannot be nil", ErrConfigValidation)
	}
	if opts.MaxPasses < 0 {
		return fmt.Errorf("%w: maxPasses cannot be negative (got %d)", ErrConfigValidation, opts.MaxPasses)
	}
	if opts.ExtraPasses < 0 {
		return fmt.Errorf("%w: extraPasses cannot be negative (got %d)", ErrConfigValidation, opts.ExtraPasses)
	}
	if opts.EngineName != "" && !slices.Contains([]EngineName{EnginePDFLaTeX, EngineXeLaTeX}, opts.EngineName) {
		return fmt.Errorf("%w: unknown engine %q", ErrConfigValidation, opts.EngineName)
	}
	if opts.OutputMode != "" && !slices.Contains([]OutputMode{OutputModeInPlace, OutputModeIsolated}, opts.OutputMode) {
		return fmt.Errorf("%w: unknown output mode %q", ErrConfigValidation, opts.OutputMode)
	}
	return nil
}

// --- END OF NEW FILE pkg/compile/compile.go ---
