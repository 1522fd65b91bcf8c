// --- START OF NEW FILE pkg/latexlog/classifier_test.go ---
package latexlog_test

import (
	"testing"

	"github.com/olivierverdier/pydflatex/pkg/latexlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boxRecord(line string, page int) latexlog.RawRecord {
	return latexlog.RawRecord{Kind: latexlog.RecordBox, Lines: []string{line}, Page: page}
}

func warningRecord(page int, lines ...string) latexlog.RawRecord {
	return latexlog.RawRecord{Kind: latexlog.RecordWarning, Lines: lines, Page: page}
}

func TestClassify_Box(t *testing.T) {
	c := latexlog.NewClassifier(latexlog.ClassifierOptions{})

	testCases := []struct {
		name     string
		record   latexlog.RawRecord
		expected latexlog.BoxWarning
	}{
		{
			name:   "OverfullParagraph",
			record: boxRecord(`Overfull \hbox (12.0pt too wide) in paragraph at lines 10--12`, 2),
			expected: latexlog.BoxWarning{
				Box: latexlog.BoxOverfull, DimensionPt: 12.0, Extent: latexlog.ExtentHBox,
				Page: 2, FromLine: 10, ToLine: 12,
				Context: `Overfull \hbox (12.0pt too wide) in paragraph at lines 10--12`,
			},
		},
		{
			name:   "OverfullVboxNoLines",
			record: boxRecord(`Overfull \vbox (3.5pt too high)`, 0),
			expected: latexlog.BoxWarning{
				Box: latexlog.BoxOverfull, DimensionPt: 3.5, Extent: latexlog.ExtentVBox,
				Context: `Overfull \vbox (3.5pt too high)`,
			},
		},
		{
			name:   "UnderfullBadnessSingleLine",
			record: boxRecord(`Underfull \hbox (badness 10000) detected at line 40`, 3),
			expected: latexlog.BoxWarning{
				Box: latexlog.BoxUnderfull, Badness: 10000, Extent: latexlog.ExtentHBox,
				Page: 3, FromLine: 40, ToLine: 40,
				Context: `Underfull \hbox (badness 10000) detected at line 40`,
			},
		},
		{
			name:   "UnparsableDetails",
			record: boxRecord(`Underfull \vbox something odd`, 1),
			expected: latexlog.BoxWarning{
				Box: latexlog.BoxUnderfull, Extent: latexlog.ExtentVBox, Page: 1,
				Context: `Underfull \vbox something odd`,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry := c.Classify(tc.record)
			assert.False(t, entry.Suppressed)
			assert.Equal(t, tc.expected, entry.Diagnostic)
		})
	}
}

func TestClassify_References(t *testing.T) {
	c := latexlog.NewClassifier(latexlog.ClassifierOptions{})

	testCases := []struct {
		name     string
		record   latexlog.RawRecord
		expected latexlog.ReferenceWarning
	}{
		{
			name:   "UndefinedReference",
			record: warningRecord(1, "LaTeX Warning: Reference `fig:x' on page 2 undefined on input line 17."),
			expected: latexlog.ReferenceWarning{
				RefKind: latexlog.RefUndefined, Subject: latexlog.SubjectReference,
				Name: "fig:x", Page: 2, Line: 17,
			},
		},
		{
			name:   "UndefinedCitationFromPackage",
			record: warningRecord(1, "Package natbib Warning: Citation `knuth84' on page 1 undefined on input line 3."),
			expected: latexlog.ReferenceWarning{
				RefKind: latexlog.RefUndefined, Subject: latexlog.SubjectCitation,
				Name: "knuth84", Page: 1, Line: 3, Package: "natbib",
			},
		},
		{
			name:   "MultiplyDefinedLabel",
			record: warningRecord(0, "LaTeX Warning: Label `sec:intro' multiply defined."),
			expected: latexlog.ReferenceWarning{
				RefKind: latexlog.RefMultiplyDefined, Subject: latexlog.SubjectLabel, Name: "sec:intro",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, c.Classify(tc.record).Diagnostic)
		})
	}
}

func TestClassify_PackageWarnings(t *testing.T) {
	record := warningRecord(4,
		"Package hyperref Warning: Token not allowed in a PDF string (Unicode):",
		"(hyperref)                removing `\\\\' on input line 10.",
	)

	t.Run("Folded", func(t *testing.T) {
		c := latexlog.NewClassifier(latexlog.ClassifierOptions{})
		entry := c.Classify(record)
		assert.False(t, entry.Suppressed)
		assert.Equal(t, latexlog.PackageWarning{
			Package: "hyperref",
			Line:    10,
			Page:    4,
			Text:    "Token not allowed in a PDF string (Unicode): removing `\\\\' on input line 10.",
		}, entry.Diagnostic)
	})

	t.Run("KernelWarningHasNoPackage", func(t *testing.T) {
		c := latexlog.NewClassifier(latexlog.ClassifierOptions{})
		entry := c.Classify(warningRecord(0, "LaTeX Warning: Command \\centerline is TeX.  Use \\centering or center environment instead."))
		pw, ok := entry.Diagnostic.(latexlog.PackageWarning)
		require.True(t, ok)
		assert.Empty(t, pw.Package)
		assert.Equal(t, "Command \\centerline is TeX.  Use \\centering or center environment instead.", pw.Text)
	})

	t.Run("DenyList", func(t *testing.T) {
		c := latexlog.NewClassifier(latexlog.ClassifierOptions{
			WarningDenyList: []string{"", "[hyperref] Token", "Command \\centerline is TeX."},
		})
		assert.True(t, c.Classify(record).Suppressed)
		assert.True(t, c.Classify(warningRecord(0, "LaTeX Warning: Command \\centerline is TeX.  Use \\centering or center environment instead.")).Suppressed)
		assert.False(t, c.Classify(warningRecord(0, "Package babel Warning: No hyphenation patterns were preloaded.")).Suppressed)
	})

	t.Run("DenyListNeverTouchesReferences", func(t *testing.T) {
		c := latexlog.NewClassifier(latexlog.ClassifierOptions{WarningDenyList: []string{"Reference"}})
		assert.False(t, c.Classify(warningRecord(0, "LaTeX Warning: Reference `a' on page 1 undefined on input line 2.")).Suppressed)
	})
}

func TestClassify_Errors(t *testing.T) {
	c := latexlog.NewClassifier(latexlog.ClassifierOptions{DefaultFile: "main.tex"})

	t.Run("WithCodeLine", func(t *testing.T) {
		entry := c.Classify(latexlog.RawRecord{
			Kind:  latexlog.RecordError,
			Lines: []string{"! Undefined control sequence.", "l.3 \\nonexistingmacro", "                     "},
			File:  "./fatal.tex",
		})
		assert.Equal(t, latexlog.LaTeXError{
			File: "./fatal.tex", Line: 3, Text: "Undefined control sequence.", CodeContext: "\\nonexistingmacro",
		}, entry.Diagnostic)
	})

	t.Run("CodeRemainderConcatenated", func(t *testing.T) {
		entry := c.Classify(latexlog.RawRecord{
			Kind:  latexlog.RecordError,
			Lines: []string{"! Undefined control sequence.", "<argument> \\foo", "               ", "l.5 \\section{\\foo", "                 bar}"},
		})
		le, ok := entry.Diagnostic.(latexlog.LaTeXError)
		require.True(t, ok)
		assert.Equal(t, "main.tex", le.File, "default file applies when none is open")
		assert.Equal(t, 5, le.Line)
		assert.Equal(t, "\\section{\\foo bar}", le.CodeContext)
	})

	t.Run("NoCodeLine", func(t *testing.T) {
		entry := c.Classify(latexlog.RawRecord{
			Kind:  latexlog.RecordError,
			Lines: []string{"! Emergency stop.", "<*> test.tex"},
		})
		assert.Equal(t, latexlog.LaTeXError{File: "main.tex", Text: "Emergency stop."}, entry.Diagnostic)
	})
}

func TestClassify_MetaAndSuppression(t *testing.T) {
	c := latexlog.NewClassifier(latexlog.ClassifierOptions{SuppressBoxWarnings: true})

	entry := c.Classify(latexlog.RawRecord{Kind: latexlog.RecordMeta, Lines: []string{"There were undefined references."}})
	assert.Equal(t, latexlog.MetaSignal{Meta: latexlog.MetaUndefinedReferences}, entry.Diagnostic)
	assert.False(t, entry.Suppressed)

	boxEntry := c.Classify(boxRecord(`Overfull \hbox (1.0pt too wide) in paragraph at lines 1--2`, 1))
	assert.True(t, boxEntry.Suppressed)
	assert.Equal(t, latexlog.KindBox, boxEntry.Diagnostic.Kind())
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	c := latexlog.NewClassifier(latexlog.ClassifierOptions{})
	records := []latexlog.RawRecord{
		boxRecord(`Overfull \hbox (1.0pt too wide) in paragraph at lines 1--2`, 1),
		{Kind: latexlog.RecordError, Lines: []string{"! Missing number."}},
		warningRecord(1, "LaTeX Warning: Label `a' multiply defined."),
		{Kind: latexlog.RecordMeta, Lines: []string{"Rerun to get cross-references right."}},
	}

	entries := c.ClassifyAll(records)
	require.Len(t, entries, 4)
	kinds := make([]latexlog.Kind, 0, len(entries))
	for _, e := range entries {
		kinds = append(kinds, e.Diagnostic.Kind())
	}
	assert.Equal(t, []latexlog.Kind{latexlog.KindBox, latexlog.KindError, latexlog.KindReference, latexlog.KindMeta}, kinds)

	assert.Equal(t, entries, c.ClassifyAll(records), "classification is deterministic")
}

// --- END OF NEW FILE pkg/latexlog/classifier_test.go ---
