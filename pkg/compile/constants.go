// --- START OF FINAL REVISED FILE pkg/compile/constants.go ---
package compile

// Constants defining default values for configuration options.
// These are used when setting up Viper defaults in the configuration loading process.
const (
	// DefaultMaxPasses bounds the number of engine invocations per source file.
	DefaultMaxPasses = 5
	// DefaultExtraPasses is the number of unconditional passes after the log is clean.
	DefaultExtraPasses = 0
	// DefaultHaltOnError stops a session at the first pass whose log holds an error.
	DefaultHaltOnError = true
	// DefaultSuppressBoxWarnings hides overfull/underfull box warnings.
	DefaultSuppressBoxWarnings = true
	// DefaultWrapWidth is the engine's max_print_line.
	DefaultWrapWidth = 79
	// DefaultEngine is the TeX engine used when none is configured.
	DefaultEngine = EnginePDFLaTeX
	// DefaultOutputMode writes engine outputs next to the source.
	DefaultOutputMode = OutputModeInPlace
	// DefaultTmpDirName is the isolated output directory, relative to the source directory.
	DefaultTmpDirName = ".latex_tmp"
	// DefaultOpenAfter opens the PDF after a successful session.
	DefaultOpenAfter = false
	// DefaultColour enables coloured console output.
	DefaultColour = true
	// DefaultTuiEnabled is the default state for the Terminal UI.
	DefaultTuiEnabled = false
	// DefaultOutputFormat is the default format for the final summary report.
	DefaultOutputFormat = OutputFormatText
)

// DefaultWarningDenyList returns the package warnings that are noise in
// practically every document.
func DefaultWarningDenyList() []string {
	return []string{
		"[hyperref] Token",
		`Command \centerline is TeX.  Use \centering or center environment instead.`,
	}
}

// Abort reasons recorded on aborted sessions.
const (
	AbortLogNotFound  = "log not found"
	AbortMalformedLog = "malformed log"
)

// ReportSchemaVersion identifies the JSON report layout.
const ReportSchemaVersion = "1.0"

// --- END OF FINAL REVISED FILE pkg/compile/constants.go ---
