// --- START OF NEW FILE pkg/compile/session.go ---
package compile

import (
	"fmt"
	"slices"
	"time"

	"github.com/olivierverdier/pydflatex/pkg/latexlog"
)

// Attempt is one engine pass and its parsed log.
type Attempt struct {
	Pass     int // 1-based
	Result   latexlog.ParseResult
	Elapsed  time.Duration
	ExitCode int
}

// Session is the full history of compiling one source file. Attempts only
// grow; once a terminal status is set the session is sealed.
type Session struct {
	Source   string
	Attempts []Attempt
	Status   Status
	Reason   string
	// FirstError is set when the session failed on a LaTeX error.
	FirstError *latexlog.LaTeXError
	Duration   time.Duration
	// FinalizeErr records a failure to finalize outputs after success.
	FinalizeErr error

	sealed bool
}

func newSession(source string) *Session {
	return &Session{Source: source, Status: StatusPending}
}

func (s *Session) append(a Attempt) error {
	if s.sealed {
		return fmt.Errorf("%w: %s", ErrSessionSealed, s.Source)
	}
	s.Attempts = append(s.Attempts, a)
	return nil
}

func (s *Session) seal(status Status, reason string) {
	if s.sealed {
		return
	}
	s.Status = status
	s.Reason = reason
	s.sealed = true
}

// Sealed reports whether the session reached a terminal status.
func (s Session) Sealed() bool { return s.sealed }

// Passes returns the number of recorded attempts.
func (s Session) Passes() int { return len(s.Attempts) }

// FinalAttempt returns the last recorded attempt.
func (s Session) FinalAttempt() (Attempt, bool) {
	if len(s.Attempts) == 0 {
		return Attempt{}, false
	}
	return s.Attempts[len(s.Attempts)-1], true
}

// FinalDiagnostics returns the reported diagnostics of the last attempt.
func (s Session) FinalDiagnostics() []latexlog.Diagnostic {
	a, ok := s.FinalAttempt()
	if !ok {
		return nil
	}
	return a.Result.Diagnostics()
}

// snapshot copies the session for hooks and reports.
func (s *Session) snapshot() Session {
	c := *s
	c.Attempts = slices.Clone(s.Attempts)
	return c
}

// --- END OF NEW FILE pkg/compile/session.go ---
