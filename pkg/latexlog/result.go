// --- START OF NEW FILE pkg/latexlog/result.go ---
package latexlog

import (
	"slices"
	"strings"
)

// rerunHints mark package warnings asking for another pass because forward
// references (labels, citations, outlines) changed during this one.
var rerunHints = []string{"Rerun to get", "Please rerun LaTeX"}

// ParseResult is the immutable, ordered outcome of parsing one log.
type ParseResult struct {
	entries     []Entry
	hasError    bool
	rerunNeeded bool
}

// NewParseResult builds a ParseResult from entries in log order. The flags
// are computed over every entry, suppressed or not.
func NewParseResult(entries []Entry) ParseResult {
	r := ParseResult{entries: slices.Clone(entries)}
	for _, e := range r.entries {
		switch d := e.Diagnostic.(type) {
		case LaTeXError:
			r.hasError = true
		case MetaSignal:
			if d.Meta == MetaRerunNeeded {
				r.rerunNeeded = true
			}
		case PackageWarning:
			for _, hint := range rerunHints {
				if strings.Contains(d.Text, hint) {
					r.rerunNeeded = true
				}
			}
		}
	}
	return r
}

// HasError reports whether any LaTeXError was found.
func (r ParseResult) HasError() bool { return r.hasError }

// RerunNeeded reports whether the log asks for another pass.
func (r ParseResult) RerunNeeded() bool { return r.rerunNeeded }

// Entries returns every classified entry, including suppressed ones.
func (r ParseResult) Entries() []Entry { return slices.Clone(r.entries) }

// Diagnostics returns the reported (non-suppressed) diagnostics in log order.
func (r ParseResult) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, 0, len(r.entries))
	for _, e := range r.entries {
		if !e.Suppressed {
			out = append(out, e.Diagnostic)
		}
	}
	return out
}

// Count returns the number of reported diagnostics of the given kind.
func (r ParseResult) Count(kind Kind) int {
	n := 0
	for _, e := range r.entries {
		if !e.Suppressed && e.Diagnostic.Kind() == kind {
			n++
		}
	}
	return n
}

// SuppressedCount returns how many entries were dropped by suppression.
func (r ParseResult) SuppressedCount() int {
	n := 0
	for _, e := range r.entries {
		if e.Suppressed {
			n++
		}
	}
	return n
}

// FirstError returns the first LaTeXError in log order.
func (r ParseResult) FirstError() (LaTeXError, bool) {
	for _, e := range r.entries {
		if le, ok := e.Diagnostic.(LaTeXError); ok {
			return le, true
		}
	}
	return LaTeXError{}, false
}

// --- END OF NEW FILE pkg/latexlog/result.go ---
