// --- START OF NEW FILE pkg/compile/loop.go ---
package compile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/olivierverdier/pydflatex/pkg/latexlog"
	"github.com/olivierverdier/pydflatex/pkg/latexlog/encoding"
	"github.com/olivierverdier/pydflatex/pkg/util"
)

// Loop drives one source file through Invoking, Parsing and Deciding until
// the rerun policy stops it. A Loop is reusable across sources but not safe
// for concurrent use.
type Loop struct {
	engine     Engine
	outputs    OutputHandler
	hooks      Hooks
	encHandler encoding.EncodingHandler
	cfg        LoopConfig
	logger     *slog.Logger
}

// NewLoop creates a Loop. hooks and encHandler may be nil.
func NewLoop(engine Engine, outputs OutputHandler, hooks Hooks, encHandler encoding.EncodingHandler, cfg LoopConfig, loggerHandler slog.Handler) *Loop {
	if hooks == nil {
		hooks = &NoOpHooks{}
	}
	if cfg.MaxPasses <= 0 {
		cfg.MaxPasses = DefaultMaxPasses
	}
	if loggerHandler == nil {
		loggerHandler = slog.DiscardHandler
	}
	return &Loop{
		engine:     engine,
		outputs:    outputs,
		hooks:      hooks,
		encHandler: encHandler,
		cfg:        cfg,
		logger:     slog.New(loggerHandler).With(slog.String("component", "compileLoop")),
	}
}

// Run compiles one source until a terminal status is reached and returns
// the sealed session. Every outcome, including cancellation, is expressed
// as a status; Run never fails.
func (l *Loop) Run(ctx context.Context, paths util.TeXPaths) Session {
	start := time.Now()
	source := paths.FullPath
	session := newSession(source)
	logger := l.logger.With(slog.String("path", source))

	if err := l.hooks.OnSessionStart(source); err != nil {
		logger.Warn("Error reported by OnSessionStart hook", slog.Any("error", err))
	}

	extra := l.cfg.ExtraPasses
	for pass := 1; !session.sealed; pass++ {
		// --- Invoking ---
		if ctx.Err() != nil {
			session.seal(StatusCancelled, fmt.Sprintf("interrupted before pass %d", pass))
			break
		}
		l.status(source, pass, StatusTypesetting, "", 0)
		logPath := l.outputs.ResolveLogPath(paths)
		inv := Invocation{Paths: paths, Pass: pass, OutputDir: filepath.Dir(logPath), LogPath: logPath}

		passStart := time.Now()
		exitCode, err := l.engine.Invoke(ctx, inv)
		elapsed := time.Since(passStart)
		if ctx.Err() != nil {
			session.seal(StatusCancelled, "interrupted while typesetting")
			break
		}
		if err != nil {
			logger.Error("Engine invocation failed", slog.Int("pass", pass), slog.Any("error", err))
			session.seal(StatusAborted, "engine failed: "+err.Error())
			break
		}
		logger.Debug("Engine pass finished", slog.Int("pass", pass), slog.Int("exitCode", exitCode), slog.Duration("elapsed", elapsed))

		// --- Parsing ---
		l.status(source, pass, StatusParsing, "", elapsed)
		result, err := l.parse(ctx, source, pass, logPath)
		if ctx.Err() != nil {
			session.seal(StatusCancelled, "interrupted while parsing")
			break
		}
		if err != nil {
			reason := AbortMalformedLog
			if errors.Is(err, latexlog.ErrMissingLogFile) {
				reason = AbortLogNotFound
			}
			logger.Error("Log could not be parsed", slog.Int("pass", pass), slog.String("log", logPath), slog.Any("error", err))
			_ = session.append(Attempt{Pass: pass, Result: latexlog.NewParseResult(nil), Elapsed: elapsed, ExitCode: exitCode})
			session.seal(StatusAborted, reason)
			break
		}
		if err := session.append(Attempt{Pass: pass, Result: result, Elapsed: elapsed, ExitCode: exitCode}); err != nil {
			session.seal(StatusAborted, err.Error())
			break
		}

		// --- Deciding ---
		decision := Decide(session.Attempts, l.cfg.MaxPasses, extra, l.cfg.HaltOnError)
		logger.Debug("Rerun decision",
			slog.Int("pass", pass),
			slog.String("verdict", decision.Verdict.String()),
			slog.String("reason", decision.Reason),
		)
		if decision.Verdict == VerdictContinue {
			if decision.ExtraPassConsumed {
				extra--
			}
			continue
		}
		if decision.Status == StatusFailed {
			if first, ok := result.FirstError(); ok {
				session.FirstError = &first
			}
		}
		session.seal(decision.Status, decision.Reason)
	}

	if session.Status.Succeeded() {
		if err := l.outputs.FinalizeOutputs(ctx, paths); err != nil {
			session.FinalizeErr = err
			logger.Error("Finalizing outputs failed", slog.Any("error", err))
		}
	}

	session.Duration = time.Since(start)
	l.status(source, session.Passes(), session.Status, session.Reason, session.Duration)
	logger.Info("Session finished",
		slog.String("status", string(session.Status)),
		slog.Int("passes", session.Passes()),
		slog.Duration("duration", session.Duration),
	)

	snapshot := session.snapshot()
	if err := l.hooks.OnSessionComplete(snapshot); err != nil {
		logger.Warn("Error reported by OnSessionComplete hook", slog.Any("error", err))
	}
	return snapshot
}

// parse reads the log of one pass, sending each reported diagnostic to the
// hooks as soon as it is classified.
func (l *Loop) parse(ctx context.Context, source string, pass int, logPath string) (latexlog.ParseResult, error) {
	text, err := latexlog.ReadLog(logPath, l.encHandler)
	if err != nil {
		return latexlog.ParseResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return latexlog.ParseResult{}, err
	}

	opts := latexlog.ParseOptions{
		Scanner: latexlog.ScannerOptions{WrapWidth: l.cfg.WrapWidth},
		Classifier: latexlog.ClassifierOptions{
			SuppressBoxWarnings: l.cfg.SuppressBoxWarnings,
			WarningDenyList:     l.cfg.WarningDenyList,
			DefaultFile:         filepath.Base(source),
		},
	}
	return latexlog.Walk(ctx, text, opts, func(e latexlog.Entry) error {
		if err := l.hooks.OnDiagnostic(source, pass, e.Diagnostic); err != nil {
			l.logger.Warn("Error reported by OnDiagnostic hook", slog.String("path", source), slog.Any("error", err))
		}
		return nil
	})
}

func (l *Loop) status(source string, pass int, status Status, message string, d time.Duration) {
	if err := l.hooks.OnPassStatusUpdate(source, pass, status, message, d); err != nil {
		l.logger.Warn("Error reported by OnPassStatusUpdate hook", slog.String("path", source), slog.Any("error", err))
	}
}

// --- END OF NEW FILE pkg/compile/loop.go ---
