// --- START OF NEW FILE pkg/latexlog/classifier.go ---
package latexlog

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// ClassifierOptions configures suppression and defaults for NewClassifier.
type ClassifierOptions struct {
	// SuppressBoxWarnings drops every BoxWarning from the reported output.
	SuppressBoxWarnings bool
	// WarningDenyList drops a PackageWarning whose "[package] text" rendering
	// contains any of the entries (plain substring match).
	WarningDenyList []string
	// DefaultFile is used for errors raised before any input file was opened.
	DefaultFile string
}

// Entry is one classified record. Suppressed entries still count towards
// the ParseResult flags but are not reported.
type Entry struct {
	Diagnostic Diagnostic
	Suppressed bool
}

// Classifier maps RawRecords to Diagnostics. It holds no state besides its
// options, so the same record always yields the same Entry.
type Classifier struct {
	opts ClassifierOptions
}

// NewClassifier creates a Classifier.
func NewClassifier(opts ClassifierOptions) *Classifier {
	opts.WarningDenyList = slices.DeleteFunc(slices.Clone(opts.WarningDenyList), func(s string) bool { return s == "" })
	return &Classifier{opts: opts}
}

var (
	boxDetailRe   = regexp.MustCompile(`^(Overfull|Underfull) \\([hv]box) \(([^)]*)\)(.*)$`)
	boxDimRe      = regexp.MustCompile(`^(-?[\d.]+)pt too (?:wide|high)$`)
	boxBadnessRe  = regexp.MustCompile(`^badness (\d+)$`)
	boxLinesRe    = regexp.MustCompile(`at lines? (\d+)(?:--(\d+))?`)
	warningHeadRe = regexp.MustCompile(`^(?:Package (\S+)|Class (\S+)|LaTeX(?: (\S+))?) Warning: ?(.*)$`)
	referenceRe   = regexp.MustCompile("^(Reference|Citation|Label) [`']([^']*)' (?:on page (\\d+) )?(undefined|multiply defined)(?: on input line (\\d+))?\\.?$")
	inputLineRe   = regexp.MustCompile(`on input line (\d+)\.?$`)
	errorCodeRe   = regexp.MustCompile(`^l\.(\d+) ?(.*)$`)
)

// Classify turns one record into an Entry.
func (c *Classifier) Classify(rec RawRecord) Entry {
	switch rec.Kind {
	case RecordError:
		return Entry{Diagnostic: c.classifyError(rec)}
	case RecordBox:
		return Entry{Diagnostic: classifyBox(rec), Suppressed: c.opts.SuppressBoxWarnings}
	case RecordWarning:
		d := classifyWarning(rec)
		if pw, ok := d.(PackageWarning); ok {
			return Entry{Diagnostic: pw, Suppressed: c.denied(pw)}
		}
		return Entry{Diagnostic: d}
	case RecordMeta:
		if kind, ok := metaLiteral(rec.first()); ok {
			return Entry{Diagnostic: MetaSignal{Meta: kind}}
		}
	}
	// Hand-built records of unknown shape are kept as plain warnings.
	return Entry{Diagnostic: PackageWarning{Text: strings.TrimSpace(rec.Text()), Page: rec.Page}}
}

// ClassifyAll classifies records in order.
func (c *Classifier) ClassifyAll(records []RawRecord) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, c.Classify(rec))
	}
	return entries
}

func (c *Classifier) denied(pw PackageWarning) bool {
	rendered := pw.String()
	for _, entry := range c.opts.WarningDenyList {
		if strings.Contains(rendered, entry) {
			return true
		}
	}
	return false
}

func classifyBox(rec RawRecord) BoxWarning {
	text := strings.TrimSpace(rec.first())
	b := BoxWarning{Box: BoxOverfull, Extent: ExtentHBox, Page: rec.Page, Context: text}

	m := boxDetailRe.FindStringSubmatch(text)
	if m == nil {
		if strings.Contains(text, "Underfull") {
			b.Box = BoxUnderfull
		}
		if strings.Contains(text, `\vbox`) {
			b.Extent = ExtentVBox
		}
		return b
	}

	b.Box = BoxKind(strings.ToLower(m[1]))
	b.Extent = Extent(m[2])
	if d := boxDimRe.FindStringSubmatch(m[3]); d != nil {
		b.DimensionPt, _ = strconv.ParseFloat(d[1], 64)
	} else if bd := boxBadnessRe.FindStringSubmatch(m[3]); bd != nil {
		b.Badness, _ = strconv.Atoi(bd[1])
	}
	if l := boxLinesRe.FindStringSubmatch(m[4]); l != nil {
		b.FromLine, _ = strconv.Atoi(l[1])
		b.ToLine = b.FromLine
		if l[2] != "" {
			b.ToLine, _ = strconv.Atoi(l[2])
		}
	}
	return b
}

func classifyWarning(rec RawRecord) Diagnostic {
	pkg, text := warningText(rec)

	if m := referenceRe.FindStringSubmatch(text); m != nil {
		rw := ReferenceWarning{
			RefKind: RefUndefined,
			Subject: Subject(strings.ToLower(m[1])),
			Name:    m[2],
			Package: pkg,
		}
		if m[4] == "multiply defined" {
			rw.RefKind = RefMultiplyDefined
		}
		rw.Page, _ = strconv.Atoi(m[3])
		rw.Line, _ = strconv.Atoi(m[5])
		return rw
	}

	pw := PackageWarning{Package: pkg, Page: rec.Page, Text: text}
	if m := inputLineRe.FindStringSubmatch(text); m != nil {
		pw.Line, _ = strconv.Atoi(m[1])
	}
	return pw
}

// warningText returns the emitting package (empty for the LaTeX kernel) and
// the warning body with continuation lines folded in.
func warningText(rec RawRecord) (string, string) {
	head := rec.first()
	pkg, body := "", head
	if m := warningHeadRe.FindStringSubmatch(head); m != nil {
		pkg = firstNonEmpty(m[1], m[2], m[3])
		body = m[4]
	}

	parts := []string{strings.TrimSpace(body)}
	for _, line := range rec.Lines[1:] {
		if pkg != "" {
			line = strings.TrimPrefix(line, "("+pkg+")")
		}
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return pkg, strings.Join(parts, " ")
}

func (c *Classifier) classifyError(rec RawRecord) LaTeXError {
	e := LaTeXError{
		File: rec.File,
		Text: strings.TrimSpace(strings.TrimPrefix(rec.first(), "!")),
	}
	if e.File == "" {
		e.File = c.opts.DefaultFile
	}

	for i := 1; i < len(rec.Lines); i++ {
		m := errorCodeRe.FindStringSubmatch(rec.Lines[i])
		if m == nil {
			continue
		}
		e.Line, _ = strconv.Atoi(m[1])
		code := strings.TrimSpace(m[2])
		for _, more := range rec.Lines[i+1:] {
			if more = strings.TrimSpace(more); more != "" {
				code = strings.TrimSpace(code + " " + more)
			}
		}
		e.CodeContext = code
		break
	}
	return e
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// --- END OF NEW FILE pkg/latexlog/classifier.go ---
