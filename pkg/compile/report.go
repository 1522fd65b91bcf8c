// --- START OF FINAL REVISED FILE pkg/compile/report.go ---
package compile

import (
	"time"

	"github.com/olivierverdier/pydflatex/pkg/latexlog"
)

// Report summarizes the result of a single Run.
type Report struct {
	Summary  ReportSummary `json:"summary" yaml:"summary"`
	Sessions []SessionInfo `json:"sessions" yaml:"sessions"`
	Errors   []ErrorInfo   `json:"errors" yaml:"errors"`
}

// ReportSummary contains aggregated statistics for a Run.
type ReportSummary struct {
	Engine          EngineName `json:"engine" yaml:"engine"`
	OutputMode      OutputMode `json:"outputMode" yaml:"outputMode"`
	ProfileUsed     string     `json:"profileUsed,omitempty" yaml:"profileUsed,omitempty"`
	ConfigFilePath  string     `json:"configFilePath,omitempty" yaml:"configFilePath,omitempty"`
	SourceCount     int        `json:"sourceCount" yaml:"sourceCount"`
	SuccessCount    int        `json:"successCount" yaml:"successCount"`
	WarningCount    int        `json:"warningCount" yaml:"warningCount"`
	FailedCount     int        `json:"failedCount" yaml:"failedCount"`
	AbortedCount    int        `json:"abortedCount" yaml:"abortedCount"`
	CancelledCount  int        `json:"cancelledCount" yaml:"cancelledCount"`
	TotalPasses     int        `json:"totalPasses" yaml:"totalPasses"`
	WorstStatus     Status     `json:"worstStatus" yaml:"worstStatus"`
	DurationSeconds float64    `json:"durationSeconds" yaml:"durationSeconds"`
	Timestamp       time.Time  `json:"timestamp" yaml:"timestamp"`
	SchemaVersion   string     `json:"schemaVersion,omitempty" yaml:"schemaVersion,omitempty"`
}

// SessionInfo details the outcome of one source file.
type SessionInfo struct {
	Path            string               `json:"path" yaml:"path"`
	Status          Status               `json:"status" yaml:"status"`
	Reason          string               `json:"reason,omitempty" yaml:"reason,omitempty"`
	Passes          int                  `json:"passes" yaml:"passes"`
	DiagnosticCount int                  `json:"diagnosticCount" yaml:"diagnosticCount"`
	SuppressedCount int                  `json:"suppressedCount" yaml:"suppressedCount"`
	FirstError      *latexlog.LaTeXError `json:"firstError,omitempty" yaml:"firstError,omitempty"`
	DurationMs      int64                `json:"durationMs" yaml:"durationMs"`
}

// ErrorInfo details an error encountered while processing a specific source.
// IsFatal is true when the error ended the session without a document.
type ErrorInfo struct {
	Path    string `json:"path" yaml:"path"`
	Error   string `json:"error" yaml:"error"`
	IsFatal bool   `json:"isFatal" yaml:"isFatal"`
}

// ExitCode maps the worst session status to a process exit code.
func (r Report) ExitCode() int {
	switch r.Summary.WorstStatus {
	case StatusSuccess, StatusSuccessWithWarnings, "":
		return 0
	case StatusCancelled:
		return 130
	default:
		return 1
	}
}

// add folds a finished session into the report.
func (r *Report) add(s Session) {
	info := SessionInfo{
		Path:       s.Source,
		Status:     s.Status,
		Reason:     s.Reason,
		Passes:     s.Passes(),
		FirstError: s.FirstError,
		DurationMs: s.Duration.Milliseconds(),
	}
	if a, ok := s.FinalAttempt(); ok {
		info.DiagnosticCount = len(a.Result.Diagnostics())
		info.SuppressedCount = a.Result.SuppressedCount()
	}
	r.Sessions = append(r.Sessions, info)

	sum := &r.Summary
	sum.SourceCount++
	sum.TotalPasses += info.Passes
	sum.WorstStatus = Worse(sum.WorstStatus, s.Status)
	switch s.Status {
	case StatusSuccess:
		sum.SuccessCount++
	case StatusSuccessWithWarnings:
		sum.WarningCount++
	case StatusFailed:
		sum.FailedCount++
		r.Errors = append(r.Errors, ErrorInfo{Path: s.Source, Error: s.Reason, IsFatal: true})
	case StatusAborted:
		sum.AbortedCount++
		r.Errors = append(r.Errors, ErrorInfo{Path: s.Source, Error: s.Reason, IsFatal: true})
	case StatusCancelled:
		sum.CancelledCount++
	}
	if s.FinalizeErr != nil {
		r.Errors = append(r.Errors, ErrorInfo{Path: s.Source, Error: s.FinalizeErr.Error()})
	}
}

// --- END OF FINAL REVISED FILE pkg/compile/report.go ---
