// --- START OF FINAL REVISED FILE pkg/latexlog/diagnostic.go ---
package latexlog

import (
	"fmt"
	"strconv"
)

// Kind identifies the variant of a Diagnostic.
type Kind int

const (
	KindBox Kind = iota + 1
	KindReference
	KindPackageWarning
	KindError
	KindMeta
)

// String returns a short lowercase name, used in structured logs and reports.
func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindReference:
		return "reference"
	case KindPackageWarning:
		return "warning"
	case KindError:
		return "error"
	case KindMeta:
		return "meta"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// BoxKind distinguishes overfull from underfull boxes.
type BoxKind string

const (
	BoxOverfull  BoxKind = "overfull"
	BoxUnderfull BoxKind = "underfull"
)

// Extent is the box direction reported by TeX.
type Extent string

const (
	ExtentHBox Extent = "hbox"
	ExtentVBox Extent = "vbox"
)

// RefKind is the problem reported for a cross-reference.
type RefKind string

const (
	RefUndefined       RefKind = "undefined"
	RefMultiplyDefined RefKind = "multiply-defined"
)

// Subject is what a ReferenceWarning is about.
type Subject string

const (
	SubjectReference Subject = "reference"
	SubjectCitation  Subject = "citation"
	SubjectLabel     Subject = "label"
)

// MetaKind enumerates the summary lines LaTeX prints at the end of a run.
type MetaKind string

const (
	MetaRerunNeeded           MetaKind = "rerun-needed"
	MetaUndefinedReferences   MetaKind = "undefined-references"
	MetaMultiplyDefinedLabels MetaKind = "multiply-defined-labels"
)

// Exact log literals for the meta signals.
const (
	RerunLiteral                 = "Rerun to get cross-references right."
	UndefinedReferencesLiteral   = "There were undefined references."
	MultiplyDefinedLabelsLiteral = "There were multiply-defined labels."
)

// Diagnostic is one classified finding from a log. The concrete types are
// BoxWarning, ReferenceWarning, PackageWarning, LaTeXError and MetaSignal;
// callers switch on the type (or on Kind) to handle each.
//
// Integer fields use 0 for "absent": TeX pages and source lines start at 1.
type Diagnostic interface {
	Kind() Kind
	String() string

	diagnostic()
}

// BoxWarning is an overfull or underfull \hbox or \vbox.
type BoxWarning struct {
	Box         BoxKind `json:"box" yaml:"box"`
	DimensionPt float64 `json:"dimensionPt,omitempty" yaml:"dimensionPt,omitempty"`
	// Badness is set for underfull boxes, which TeX reports as "(badness N)"
	// rather than as a dimension.
	Badness  int    `json:"badness,omitempty" yaml:"badness,omitempty"`
	Extent   Extent `json:"extent" yaml:"extent"`
	Page     int    `json:"page,omitempty" yaml:"page,omitempty"`
	FromLine int    `json:"fromLine,omitempty" yaml:"fromLine,omitempty"`
	ToLine   int    `json:"toLine,omitempty" yaml:"toLine,omitempty"`
	Context  string `json:"context,omitempty" yaml:"context,omitempty"`
}

// ReferenceWarning is an undefined or multiply defined reference, citation or label.
type ReferenceWarning struct {
	RefKind RefKind `json:"refKind" yaml:"refKind"`
	Subject Subject `json:"subject" yaml:"subject"`
	Name    string  `json:"name" yaml:"name"`
	Page    int     `json:"page,omitempty" yaml:"page,omitempty"`
	Line    int     `json:"line,omitempty" yaml:"line,omitempty"`
	// Package is set when the warning came from a package (natbib, biblatex)
	// rather than from the LaTeX kernel.
	Package string `json:"package,omitempty" yaml:"package,omitempty"`
}

// PackageWarning is any other LaTeX, class or package warning.
type PackageWarning struct {
	Package string `json:"package,omitempty" yaml:"package,omitempty"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Page    int    `json:"page,omitempty" yaml:"page,omitempty"`
	Text    string `json:"text" yaml:"text"`
}

// LaTeXError is a "!"-prefixed error record.
type LaTeXError struct {
	File        string `json:"file" yaml:"file"`
	Line        int    `json:"line,omitempty" yaml:"line,omitempty"`
	Text        string `json:"text" yaml:"text"`
	CodeContext string `json:"codeContext,omitempty" yaml:"codeContext,omitempty"`
}

// MetaSignal is one of the end-of-run summary lines.
type MetaSignal struct {
	Meta MetaKind `json:"meta" yaml:"meta"`
}

func (BoxWarning) Kind() Kind       { return KindBox }
func (ReferenceWarning) Kind() Kind { return KindReference }
func (PackageWarning) Kind() Kind   { return KindPackageWarning }
func (LaTeXError) Kind() Kind       { return KindError }
func (MetaSignal) Kind() Kind       { return KindMeta }

func (BoxWarning) diagnostic()       {}
func (ReferenceWarning) diagnostic() {}
func (PackageWarning) diagnostic()   {}
func (LaTeXError) diagnostic()       {}
func (MetaSignal) diagnostic()       {}

// String renders the box warning the way TeX words it.
func (b BoxWarning) String() string {
	if b.Context != "" {
		return b.Context
	}
	measure := fmt.Sprintf("%gpt", b.DimensionPt)
	if b.Badness > 0 {
		measure = fmt.Sprintf("badness %d", b.Badness)
	}
	return fmt.Sprintf("%s \\%s (%s)", b.Box, b.Extent, measure)
}

func (r ReferenceWarning) String() string {
	verb := "undefined"
	if r.RefKind == RefMultiplyDefined {
		verb = "multiply defined"
	}
	return fmt.Sprintf("%s `%s' %s", r.Subject, r.Name, verb)
}

func (p PackageWarning) String() string {
	if p.Package == "" {
		return p.Text
	}
	return "[" + p.Package + "] " + p.Text
}

func (e LaTeXError) String() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Text)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Text)
}

// String returns the exact log literal of the signal.
func (m MetaSignal) String() string {
	switch m.Meta {
	case MetaRerunNeeded:
		return RerunLiteral
	case MetaUndefinedReferences:
		return UndefinedReferencesLiteral
	case MetaMultiplyDefinedLabels:
		return MultiplyDefinedLabelsLiteral
	default:
		return string(m.Meta)
	}
}

// --- END OF FINAL REVISED FILE pkg/latexlog/diagnostic.go ---
