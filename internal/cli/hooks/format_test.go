// --- START OF NEW FILE internal/cli/hooks/format_test.go ---
package hooks

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/olivierverdier/pydflatex/pkg/compile"
	"github.com/olivierverdier/pydflatex/pkg/latexlog"
)

func TestFormatter_Head(t *testing.T) {
	f := NewFormatter("pdflatex", false, 0)

	assert.Equal(t, "p.3   L   12: ", f.Head("", 3, 12))
	assert.Equal(t, "[hyperref]p.    L     : ", f.Head("hyperref", 0, 0))
	assert.Equal(t, "p.1234L    1: ", f.Head("", 1234, 1))
}

func TestFormatter_Diagnostic(t *testing.T) {
	f := NewFormatter("pdflatex", false, 0)

	testCases := []struct {
		name string
		diag latexlog.Diagnostic
		want []string
	}{
		{
			name: "BoxWarning",
			diag: latexlog.BoxWarning{Box: latexlog.BoxOverfull, Page: 1, FromLine: 4, ToLine: 5, Context: "Overfull \\hbox (2.5pt too wide) in paragraph at lines 4--5"},
			want: []string{"p.1   L    4: Overfull \\hbox (2.5pt too wide) in paragraph at lines 4--5"},
		},
		{
			name: "UndefinedReference",
			diag: latexlog.ReferenceWarning{RefKind: latexlog.RefUndefined, Subject: latexlog.SubjectReference, Name: "fig:1", Page: 2, Line: 7},
			want: []string{"p.2   L    7: 'fig:1' undefined"},
		},
		{
			name: "UndefinedCitation",
			diag: latexlog.ReferenceWarning{RefKind: latexlog.RefUndefined, Subject: latexlog.SubjectCitation, Name: "knuth84", Page: 1, Line: 20},
			want: []string{"p.1   L   20: [knuth84] undefined"},
		},
		{
			name: "MultiplyDefinedLabel",
			diag: latexlog.ReferenceWarning{RefKind: latexlog.RefMultiplyDefined, Subject: latexlog.SubjectLabel, Name: "eq:1"},
			want: []string{"p.    L     : label `eq:1' multiply defined"},
		},
		{
			name: "PackageWarning",
			diag: latexlog.PackageWarning{Package: "hyperref", Line: 9, Text: "Option `pdfauthor' has already been used"},
			want: []string{"[hyperref]p.    L    9: Option `pdfauthor' has already been used"},
		},
		{
			name: "LaTeXErrorWithCode",
			diag: latexlog.LaTeXError{File: "./doc.tex", Line: 3, Text: "Undefined control sequence.", CodeContext: "\\nonexistingmacro"},
			want: []string{"./doc.tex:3: Undefined control sequence.", "L    3:\t \\nonexistingmacro"},
		},
		{
			name: "LaTeXErrorWithoutLine",
			diag: latexlog.LaTeXError{File: "./doc.tex", Text: "Emergency stop."},
			want: []string{"./doc.tex:: Emergency stop."},
		},
		{
			name: "MetaUndefinedReferences",
			diag: latexlog.MetaSignal{Meta: latexlog.MetaUndefinedReferences},
			want: []string{latexlog.UndefinedReferencesLiteral},
		},
		{
			name: "MetaRerun",
			diag: latexlog.MetaSignal{Meta: latexlog.MetaRerunNeeded},
			want: []string{latexlog.RerunLiteral},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.Diagnostic(tc.diag))
		})
	}
}

func TestFormatter_Colour(t *testing.T) {
	plain := NewFormatter("pdflatex", false, 0)
	coloured := NewFormatter("pdflatex", true, 0)
	diag := latexlog.LaTeXError{File: "./doc.tex", Line: 3, Text: "Undefined control sequence."}

	assert.NotContains(t, plain.Diagnostic(diag)[0], "\x1b[")
	assert.Contains(t, coloured.Diagnostic(diag)[0], "\x1b[")
	assert.Contains(t, coloured.Diagnostic(diag)[0], "Undefined control sequence.")
}

func TestFormatter_TruncatesCodeContext(t *testing.T) {
	f := NewFormatter("pdflatex", false, 10)
	lines := f.Diagnostic(latexlog.LaTeXError{File: "a.tex", Line: 1, Text: "x", CodeContext: "abcdefghijklmnop"})
	assert.Equal(t, "L    1:\t abcdefg...", lines[1])

	assert.Equal(t, "abc", f.truncate("abc"))
}

func TestFormatter_PassStart(t *testing.T) {
	f := NewFormatter("xelatex", false, 0)
	now := time.Date(2026, 10, 18, 9, 5, 3, 0, time.UTC)

	assert.Equal(t, "\t[2026-10-18 09.05.03] xelatex /tmp/doc.tex", f.PassStart("/tmp/doc.tex", 1, now))
	assert.Equal(t, "\t[2026-10-18 09.05.03] xelatex /tmp/doc.tex (pass 2)", f.PassStart("/tmp/doc.tex", 2, now))
}

func TestFormatter_Outcome(t *testing.T) {
	f := NewFormatter("pdflatex", false, 0)

	testCases := []struct {
		name    string
		session compile.Session
		want    []string
	}{
		{
			name:    "Success",
			session: compile.Session{Source: "doc.tex", Status: compile.StatusSuccess, Duration: 1500 * time.Millisecond},
			want:    []string{`Typesetting of "doc.tex" completed in 1.5s.`},
		},
		{
			name:    "Warnings",
			session: compile.Session{Source: "doc.tex", Status: compile.StatusSuccessWithWarnings, Duration: 300 * time.Millisecond},
			want:    []string{`Typesetting of "doc.tex" completed in 0.3s.`},
		},
		{
			name:    "Failed",
			session: compile.Session{Source: "doc.tex", Status: compile.StatusFailed, Reason: "./doc.tex:3: Undefined control sequence."},
			want:    []string{`Typesetting of "doc.tex" failed: ./doc.tex:3: Undefined control sequence.`},
		},
		{
			name:    "Aborted",
			session: compile.Session{Source: "doc.tex", Status: compile.StatusAborted, Reason: "log not found"},
			want:    []string{`Typesetting of "doc.tex" aborted: log not found`},
		},
		{
			name:    "Cancelled",
			session: compile.Session{Source: "doc.tex", Status: compile.StatusCancelled},
			want:    []string{`Typesetting of "doc.tex" interrupted.`},
		},
		{
			name:    "FinalizeError",
			session: compile.Session{Source: "doc.tex", Status: compile.StatusSuccess, FinalizeErr: errors.New("pdf file \"doc.pdf\" not found")},
			want:    []string{`Typesetting of "doc.tex" completed in 0.0s.`, `pdf file "doc.pdf" not found`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.Outcome(tc.session))
		})
	}
}

// --- END OF NEW FILE internal/cli/hooks/format_test.go ---
