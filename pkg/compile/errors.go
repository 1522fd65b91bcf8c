// --- START OF FINAL REVISED FILE pkg/compile/errors.go ---
package compile

import (
	"errors"
	"fmt"
)

// --- Exported Error Variables ---
// These errors represent the categories of issues Run and the collaborators
// it drives can report. Library users check against them using errors.Is.

var (
	// ErrConfigValidation indicates invalid Options (missing collaborators,
	// negative pass counts, unknown enum values). Returned directly by Run.
	ErrConfigValidation = errors.New("configuration validation failed")

	// ErrEngineExecution indicates that the TeX engine could not be run at all
	// (binary missing, not executable, killed). A non-zero exit code is NOT an
	// engine execution error: TeX exits non-zero whenever the log holds errors.
	ErrEngineExecution = errors.New("engine execution failed")

	// ErrFinalizeOutputs indicates that outputs could not be moved back or
	// post-processed after a successful session. Recorded on the Session and
	// in Report.Errors; never changes the session status.
	ErrFinalizeOutputs = errors.New("failed to finalize outputs")

	// ErrSessionSealed indicates an attempt was appended to a sealed Session.
	ErrSessionSealed = errors.New("session already sealed")
)

// EngineErrorf creates an error wrapping ErrEngineExecution with the engine
// name and a formatted message.
func EngineErrorf(engine EngineName, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", ErrEngineExecution, engine, fmt.Sprintf(format, args...))
}

// WrapEngineError wraps an underlying error as an ErrEngineExecution.
func WrapEngineError(engine EngineName, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrEngineExecution, engine, err)
}

// --- END OF FINAL REVISED FILE pkg/compile/errors.go ---
