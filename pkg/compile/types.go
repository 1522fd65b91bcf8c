// --- START OF FINAL REVISED FILE pkg/compile/types.go ---
package compile

// Status describes where a source file is in its compile session. The first
// three values are transient pass states reported through Hooks; the rest
// are terminal and seal a Session.
type Status string

// Constants representing the defined session and pass statuses.
const (
	StatusPending     Status = "pending"
	StatusTypesetting Status = "typesetting"
	StatusParsing     Status = "parsing"

	StatusSuccess             Status = "success"
	StatusSuccessWithWarnings Status = "warnings"
	StatusFailed              Status = "failed"
	StatusCancelled           Status = "cancelled"
	StatusAborted             Status = "aborted"
)

// IsTerminal reports whether s ends a session.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSuccess, StatusSuccessWithWarnings, StatusFailed, StatusCancelled, StatusAborted:
		return true
	}
	return false
}

// Succeeded reports whether the session produced its document.
func (s Status) Succeeded() bool {
	return s == StatusSuccess || s == StatusSuccessWithWarnings
}

// severity orders terminal statuses from best to worst for the run-level
// exit status.
func (s Status) severity() int {
	switch s {
	case StatusSuccess:
		return 1
	case StatusSuccessWithWarnings:
		return 2
	case StatusAborted:
		return 3
	case StatusFailed:
		return 4
	case StatusCancelled:
		return 5
	}
	return 0
}

// Worse returns whichever of a and b is the worse outcome.
func Worse(a, b Status) Status {
	if b.severity() > a.severity() {
		return b
	}
	return a
}

// EngineName selects the TeX engine binary.
type EngineName string

const (
	EnginePDFLaTeX EngineName = "pdflatex"
	EngineXeLaTeX  EngineName = "xelatex"
)

// OutputMode selects where the engine writes its outputs.
type OutputMode string

const (
	// OutputModeInPlace writes every output next to the source file.
	OutputModeInPlace OutputMode = "inplace"
	// OutputModeIsolated writes into a temporary directory and moves the
	// relevant outputs back afterwards.
	OutputModeIsolated OutputMode = "isolated"
)

// OutputFormat defines the format for the final summary report printed to standard output.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// Verdict is the RerunPolicy answer after an attempt.
type Verdict int

const (
	VerdictStop Verdict = iota
	VerdictContinue
)

func (v Verdict) String() string {
	if v == VerdictContinue {
		return "continue"
	}
	return "stop"
}

// --- END OF FINAL REVISED FILE pkg/compile/types.go ---
