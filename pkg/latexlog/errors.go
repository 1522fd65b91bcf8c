// --- START OF FINAL REVISED FILE pkg/latexlog/errors.go ---
package latexlog

import "errors"

// --- Exported Error Variables ---
// Reading and scanning a transcript can fail in exactly two ways. Callers
// check against these using errors.Is; returned errors are wrapped with the
// offending path or line.

var (
	// ErrMissingLogFile indicates that the log file does not exist or could not be read.
	// The engine may have crashed before writing it, or the log path was resolved wrongly.
	ErrMissingLogFile = errors.New("log file not found")

	// ErrMalformedLog indicates that a record was opened (an error, a warning) but the log
	// ended before its terminator, or that the log content is not a text transcript at all.
	ErrMalformedLog = errors.New("malformed log")
)

// --- END OF FINAL REVISED FILE pkg/latexlog/errors.go ---
