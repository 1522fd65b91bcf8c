// --- START OF FINAL REVISED FILE pkg/compile/options.go ---
package compile

import (
	"context"
	"log/slog"
	"time"

	"github.com/olivierverdier/pydflatex/pkg/latexlog"
	"github.com/olivierverdier/pydflatex/pkg/latexlog/encoding"
	"github.com/olivierverdier/pydflatex/pkg/util"
)

// Hooks receives progress and diagnostics while Run works through the
// sources. Calls are made synchronously from the goroutine running Run, in
// order; a hook error is logged and otherwise ignored.
type Hooks interface {
	OnSessionStart(source string) error
	OnPassStatusUpdate(source string, pass int, status Status, message string, duration time.Duration) error
	// OnDiagnostic is the diagnostic sink: every reported diagnostic of every
	// pass arrives here, in log order, before that pass's rerun decision.
	OnDiagnostic(source string, pass int, diag latexlog.Diagnostic) error
	OnSessionComplete(session Session) error
	OnRunComplete(report Report) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks interface.
type NoOpHooks struct{}

// OnSessionStart implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnSessionStart(source string) error { return nil }

// OnPassStatusUpdate implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnPassStatusUpdate(source string, pass int, status Status, message string, duration time.Duration) error { // minimal comment
	return nil
}

// OnDiagnostic implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnDiagnostic(source string, pass int, diag latexlog.Diagnostic) error {
	return nil
}

// OnSessionComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnSessionComplete(session Session) error { return nil }

// OnRunComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnRunComplete(report Report) error { return nil }

// Invocation describes one engine pass.
type Invocation struct {
	Paths util.TeXPaths
	Pass  int
	// OutputDir is where the engine must write its outputs (-output-directory).
	OutputDir string
	// LogPath is where the loop will look for the transcript afterwards.
	LogPath string
}

// Engine runs the TeX engine once. The returned exit code is informational;
// err is non-nil only when the engine could not be run (ErrEngineExecution)
// or ctx was cancelled.
type Engine interface {
	Invoke(ctx context.Context, inv Invocation) (exitCode int, err error)
}

// OutputHandler decides where the engine writes its outputs and tidies them
// up after a successful session.
type OutputHandler interface {
	ResolveLogPath(paths util.TeXPaths) string
	FinalizeOutputs(ctx context.Context, paths util.TeXPaths) error
}

// Opener shows a finished document to the user.
type Opener interface {
	Open(ctx context.Context, pdfPath string) error
}

// LoopConfig is the closed set of options the compile loop consumes.
type LoopConfig struct {
	MaxPasses           int      `mapstructure:"maxPasses"`
	ExtraPasses         int      `mapstructure:"extraPasses"`
	HaltOnError         bool     `mapstructure:"haltOnError"`
	SuppressBoxWarnings bool     `mapstructure:"suppressBoxWarnings"`
	WarningDenyList     []string `mapstructure:"warningDenyList"`
	WrapWidth           int      `mapstructure:"wrapWidth"`
}

// Options holds all configuration for a Run.
type Options struct {
	// --- Sources ---
	Sources []string `mapstructure:"-"` // Required: .tex paths, processed in order

	// --- Application Info ---
	AppVersion     string `mapstructure:"-"` // Application version, used in logs and reports
	ConfigFilePath string `mapstructure:"-"` // Path to the loaded config file (for reporting)
	ProfileName    string `mapstructure:"-"` // Name of the profile used (for reporting)

	// --- Compile Loop ---
	LoopConfig `mapstructure:",squash"`

	// --- Engine & Outputs ---
	EngineName    EngineName `mapstructure:"engine"`        // ("pdflatex", "xelatex")
	EngineCommand string     `mapstructure:"engineCommand"` // Binary override; defaults to EngineName
	OutputMode    OutputMode `mapstructure:"outputMode"`    // ("inplace", "isolated")
	TmpDirName    string     `mapstructure:"tmpDir"`        // Isolated output directory name
	OpenAfter     bool       `mapstructure:"openAfter"`     // Open the PDF after a successful session

	// --- Presentation ---
	Verbose         bool         `mapstructure:"verbose"`         // Enable debug logging
	Colour          bool         `mapstructure:"colour"`          // Coloured console diagnostics
	TuiEnabled      bool         `mapstructure:"tuiEnabled"`      // Hint for CLI to use TUI (ignored if Verbose)
	OutputFormat    OutputFormat `mapstructure:"outputFormat"`    // ("text", "json", "yaml") for final report
	DefaultEncoding string       `mapstructure:"defaultEncoding"` // Fallback log encoding

	// Profiles is consumed by the configuration loader; listed so that a
	// config file carrying profiles passes strict decoding.
	Profiles map[string]interface{} `mapstructure:"profiles"`

	// --- Injected Dependencies ---
	EventHooks      Hooks                    `mapstructure:"-"` // Optional: defaults to NoOpHooks
	Logger          slog.Handler             `mapstructure:"-"` // Required: Logging backend
	Engine          Engine                   `mapstructure:"-"` // Required: Engine invocation
	Outputs         OutputHandler            `mapstructure:"-"` // Required: Output placement/finalisation
	Opener          Opener                   `mapstructure:"-"` // Optional: needed when OpenAfter is set
	EncodingHandler encoding.EncodingHandler `mapstructure:"-"` // Optional: log decoding
}

// --- END OF FINAL REVISED FILE pkg/compile/options.go ---
