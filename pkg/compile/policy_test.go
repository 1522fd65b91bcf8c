// --- START OF NEW FILE pkg/compile/policy_test.go ---
package compile_test

import (
	"fmt"
	"testing"

	"github.com/olivierverdier/pydflatex/pkg/compile"
	"github.com/olivierverdier/pydflatex/pkg/latexlog"
	"github.com/stretchr/testify/assert"
)

var (
	cleanResult = latexlog.NewParseResult(nil)
	rerunResult = latexlog.NewParseResult([]latexlog.Entry{
		{Diagnostic: latexlog.MetaSignal{Meta: latexlog.MetaRerunNeeded}},
	})
	errorResult = latexlog.NewParseResult([]latexlog.Entry{
		{Diagnostic: latexlog.LaTeXError{File: "doc.tex", Line: 3, Text: "Undefined control sequence."}},
		{Diagnostic: latexlog.MetaSignal{Meta: latexlog.MetaRerunNeeded}},
	})
	warningResult = latexlog.NewParseResult([]latexlog.Entry{
		{Diagnostic: latexlog.PackageWarning{Package: "babel", Text: "No hyphenation patterns."}},
	})
	suppressedOnlyResult = latexlog.NewParseResult([]latexlog.Entry{
		{Diagnostic: latexlog.BoxWarning{Box: latexlog.BoxOverfull, Extent: latexlog.ExtentHBox}, Suppressed: true},
	})
)

// attempts builds a history whose last attempt carries last.
func attempts(n int, last latexlog.ParseResult) []compile.Attempt {
	out := make([]compile.Attempt, 0, n)
	for i := 1; i < n; i++ {
		out = append(out, compile.Attempt{Pass: i, Result: rerunResult})
	}
	return append(out, compile.Attempt{Pass: n, Result: last})
}

func TestDecide(t *testing.T) {
	testCases := []struct {
		name        string
		attempts    []compile.Attempt
		maxPasses   int
		extraPasses int
		haltOnError bool
		verdict     compile.Verdict
		status      compile.Status
		consumed    bool
	}{
		{name: "NoAttemptYet", attempts: nil, maxPasses: 5, verdict: compile.VerdictContinue},
		{name: "CleanFirstPass", attempts: attempts(1, cleanResult), maxPasses: 5, verdict: compile.VerdictStop, status: compile.StatusSuccess},
		{name: "WarningsOnly", attempts: attempts(1, warningResult), maxPasses: 5, verdict: compile.VerdictStop, status: compile.StatusSuccessWithWarnings},
		{name: "SuppressedOnlyIsSuccess", attempts: attempts(1, suppressedOnlyResult), maxPasses: 5, verdict: compile.VerdictStop, status: compile.StatusSuccess},
		{name: "HaltOnError", attempts: attempts(1, errorResult), maxPasses: 5, haltOnError: true, verdict: compile.VerdictStop, status: compile.StatusFailed},
		{name: "ErrorWithoutHaltFollowsRerun", attempts: attempts(1, errorResult), maxPasses: 5, verdict: compile.VerdictContinue},
		{name: "ErrorWithoutHaltAtBound", attempts: attempts(5, errorResult), maxPasses: 5, verdict: compile.VerdictStop, status: compile.StatusSuccessWithWarnings},
		{name: "RerunBelowBound", attempts: attempts(4, rerunResult), maxPasses: 5, verdict: compile.VerdictContinue},
		{name: "RerunAtBound", attempts: attempts(5, rerunResult), maxPasses: 5, verdict: compile.VerdictStop, status: compile.StatusSuccessWithWarnings},
		{name: "DefaultBound", attempts: attempts(5, rerunResult), maxPasses: 0, verdict: compile.VerdictStop, status: compile.StatusSuccessWithWarnings},
		{name: "DefaultBoundContinues", attempts: attempts(4, rerunResult), maxPasses: 0, verdict: compile.VerdictContinue},
		{name: "ExtraPass", attempts: attempts(1, cleanResult), maxPasses: 5, extraPasses: 2, verdict: compile.VerdictContinue, consumed: true},
		{name: "ExtraPassCappedByBound", attempts: attempts(2, cleanResult), maxPasses: 2, extraPasses: 1, verdict: compile.VerdictStop, status: compile.StatusSuccess},
		{name: "RerunBeforeExtra", attempts: attempts(1, rerunResult), maxPasses: 5, extraPasses: 1, verdict: compile.VerdictContinue, consumed: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := compile.Decide(tc.attempts, tc.maxPasses, tc.extraPasses, tc.haltOnError)
			assert.Equal(t, tc.verdict, d.Verdict)
			assert.Equal(t, tc.consumed, d.ExtraPassConsumed)
			if tc.verdict == compile.VerdictStop {
				assert.Equal(t, tc.status, d.Status)
			}
		})
	}
}

func TestDecide_FailedReasonNamesFirstError(t *testing.T) {
	d := compile.Decide(attempts(1, errorResult), 5, 0, true)
	assert.Equal(t, "doc.tex:3: Undefined control sequence.", d.Reason)
}

func TestDecide_Properties(t *testing.T) {
	results := []latexlog.ParseResult{cleanResult, rerunResult, errorResult, warningResult, suppressedOnlyResult}

	for maxPasses := 1; maxPasses <= 4; maxPasses++ {
		for n := maxPasses; n <= maxPasses+2; n++ {
			for i, r := range results {
				for _, halt := range []bool{true, false} {
					for extra := 0; extra <= 2; extra++ {
						name := fmt.Sprintf("max=%d/n=%d/result=%d/halt=%v/extra=%d", maxPasses, n, i, halt, extra)
						history := attempts(n, r)

						first := compile.Decide(history, maxPasses, extra, halt)
						second := compile.Decide(history, maxPasses, extra, halt)
						assert.Equal(t, first, second, "deterministic: %s", name)
						assert.Equal(t, compile.VerdictStop, first.Verdict, "bound reached stops: %s", name)
						assert.True(t, first.Status.IsTerminal(), name)
					}
				}
			}
		}
	}
}

// --- END OF NEW FILE pkg/compile/policy_test.go ---
