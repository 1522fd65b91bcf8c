// --- START OF NEW FILE pkg/compile/policy.go ---
package compile

import "fmt"

// Decision is the RerunPolicy outcome for the latest attempt.
type Decision struct {
	Verdict Verdict
	// Status is the terminal status when Verdict is VerdictStop.
	Status Status
	Reason string
	// ExtraPassConsumed tells the caller to decrement its extra-pass budget.
	ExtraPassConsumed bool
}

// Decide applies the rerun rules to the attempts made so far, in order:
//
//  1. halt on error and the latest log has an error: stop, failed;
//  2. the latest log requests a rerun: continue while fewer than maxPasses
//     attempts were made, otherwise stop with warnings;
//  3. extra passes remain (and maxPasses is not reached): continue, consuming one;
//  4. stop, success or success with warnings when anything was reported.
//
// Decide is pure: identical arguments give identical decisions. maxPasses <= 0
// means DefaultMaxPasses.
func Decide(attempts []Attempt, maxPasses, extraPasses int, haltOnError bool) Decision {
	if len(attempts) == 0 {
		return Decision{Verdict: VerdictContinue, Reason: "no attempt yet"}
	}
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	made := len(attempts)
	latest := attempts[made-1].Result

	if haltOnError && latest.HasError() {
		reason := "log contains an error"
		if first, ok := latest.FirstError(); ok {
			reason = first.String()
		}
		return Decision{Verdict: VerdictStop, Status: StatusFailed, Reason: reason}
	}

	if latest.RerunNeeded() {
		if made < maxPasses {
			return Decision{Verdict: VerdictContinue, Reason: "rerun requested"}
		}
		return Decision{
			Verdict: VerdictStop,
			Status:  StatusSuccessWithWarnings,
			Reason:  fmt.Sprintf("rerun still requested after %d passes", made),
		}
	}

	if extraPasses > 0 && made < maxPasses {
		return Decision{Verdict: VerdictContinue, Reason: "extra pass", ExtraPassConsumed: true}
	}

	if len(latest.Diagnostics()) > 0 {
		return Decision{Verdict: VerdictStop, Status: StatusSuccessWithWarnings}
	}
	return Decision{Verdict: VerdictStop, Status: StatusSuccess}
}

// --- END OF NEW FILE pkg/compile/policy.go ---
