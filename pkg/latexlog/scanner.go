// --- START OF NEW FILE pkg/latexlog/scanner.go ---
package latexlog

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultWrapWidth is TeX's default max_print_line: the engine hard-wraps
// every transcript line at this many bytes.
const DefaultWrapWidth = 79

// RecordKind tells the classifier which grammar a RawRecord follows.
type RecordKind int

const (
	RecordError RecordKind = iota + 1
	RecordBox
	RecordWarning
	RecordMeta
)

// RawRecord is a contiguous span of log text forming one candidate diagnostic.
type RawRecord struct {
	Kind RecordKind
	// Lines holds the logical (unwrapped) lines of the record; Lines[0] is the
	// opening line.
	Lines []string
	// LogLine is the 1-based physical line where the record starts.
	LogLine int
	// Offset is the byte offset of the opening line in the decoded log.
	Offset int
	// Page is the most recent page marker seen before the record, 0 when none.
	Page int
	// File is the innermost input file open when the record started.
	File string
}

// Text returns the record lines joined by newlines.
func (r RawRecord) Text() string { return strings.Join(r.Lines, "\n") }

func (r RawRecord) first() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return r.Lines[0]
}

// ScannerOptions configures NewScanner.
type ScannerOptions struct {
	// WrapWidth is the engine's line wrap column. 0 selects DefaultWrapWidth;
	// a negative value disables rejoining of wrapped lines.
	WrapWidth int
}

var (
	boxLineRe      = regexp.MustCompile(`(?:Overfull|Underfull) \\[hv]box`)
	warningStartRe = regexp.MustCompile(`^(?:Package \S+|Class \S+|LaTeX(?: \S+)?) Warning: `)
	continuationRe = regexp.MustCompile(`^(?:Package|Class|LaTeX) (\S+) Warning: `)
	codeLineRe     = regexp.MustCompile(`^l\.\d+`)
	pageMarkerRe   = regexp.MustCompile(`\[(\d+)(?:\]|\{|\s*$)`)
)

const (
	outputActiveClause = ` has occurred while \output is active`
	// TeX closes a halted run with this line; it restates an error already
	// reported and is never terminated.
	fatalTrailer = "!  ==> Fatal error occurred"
)

var metaLiterals = []struct {
	literal string
	kind    MetaKind
}{
	{RerunLiteral, MetaRerunNeeded},
	{UndefinedReferencesLiteral, MetaUndefinedReferences},
	{MultiplyDefinedLabelsLiteral, MetaMultiplyDefinedLabels},
}

// metaLiteral reports which summary literal, if any, the line contains.
func metaLiteral(line string) (MetaKind, bool) {
	for _, m := range metaLiterals {
		if strings.Contains(line, m.literal) {
			return m.kind, true
		}
	}
	return "", false
}

// startsRecord reports whether line opens a record (or an error's code line)
// and so can never be the wrapped tail of the previous line.
func startsRecord(line string) bool {
	if strings.HasPrefix(line, "!") || codeLineRe.MatchString(line) {
		return true
	}
	if _, ok := metaLiteral(line); ok {
		return true
	}
	return boxLineRe.MatchString(line) || warningStartRe.MatchString(line)
}

type logicalLine struct {
	text   string
	line   int
	offset int
}

// Scanner splits decoded log text into RawRecords. It follows the
// bufio.Scanner pattern: call Scan until it returns false, then check Err.
// A Scanner is single-use.
type Scanner struct {
	src    string
	pos    int
	lineNo int
	wrap   int

	pending []logicalLine

	page  int
	files []string

	rec  RawRecord
	err  error
	done bool
}

// NewScanner returns a Scanner reading from text.
func NewScanner(text string, opts ScannerOptions) *Scanner {
	wrap := opts.WrapWidth
	if wrap == 0 {
		wrap = DefaultWrapWidth
	}
	return &Scanner{src: text, wrap: wrap}
}

// Record returns the record produced by the last successful call to Scan.
func (s *Scanner) Record() RawRecord { return s.rec }

// Err returns the error that stopped the scan, wrapping ErrMalformedLog, or
// nil if the log was read to the end.
func (s *Scanner) Err() error { return s.err }

// Scan advances to the next record.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}
	for {
		l, ok := s.nextLogical()
		if !ok {
			s.done = true
			return false
		}

		switch {
		case strings.HasPrefix(l.text, "!"):
			if strings.HasPrefix(l.text, fatalTrailer) {
				continue
			}
			return s.scanError(l)

		case isMeta(l.text):
			s.emit(RecordMeta, l, []string{strings.TrimSpace(l.text)})
			return true

		case boxLineRe.MatchString(l.text):
			loc := boxLineRe.FindStringIndex(l.text)
			s.track(l.text[:loc[0]])
			text, rest := l.text[loc[0]:], ""
			if i := strings.Index(text, outputActiveClause); i >= 0 {
				text, rest = text[:i], text[i+len(outputActiveClause):]
			}
			s.emit(RecordBox, l, []string{strings.TrimSpace(text)})
			s.track(rest)
			return true

		case warningStartRe.MatchString(l.text):
			return s.scanWarning(l)

		default:
			s.track(l.text)
		}
	}
}

func isMeta(line string) bool {
	_, ok := metaLiteral(line)
	return ok
}

// scanError collects a "!" record. It ends after the l.<N> line (and the
// indented remainder line TeX prints under it), at an empty line, or just
// before the next "!" line or summary literal.
func (s *Scanner) scanError(first logicalLine) bool {
	lines := []string{first.text}
	for {
		l, ok := s.nextLogical()
		if !ok {
			return s.fail(first, "error")
		}
		if l.text == "" {
			break
		}
		if strings.HasPrefix(l.text, "!") || isMeta(l.text) {
			s.unread(l)
			break
		}
		lines = append(lines, l.text)
		if codeLineRe.MatchString(l.text) {
			if next, ok := s.nextLogical(); ok {
				if strings.HasPrefix(next.text, " ") || strings.HasPrefix(next.text, "\t") {
					lines = append(lines, next.text)
				} else {
					s.unread(next)
				}
			}
			break
		}
	}
	s.emit(RecordError, first, lines)
	return true
}

// scanWarning collects a warning up to its terminating period. Lines carrying
// the "(<package>)" continuation prefix always belong to the warning.
func (s *Scanner) scanWarning(first logicalLine) bool {
	lines := []string{first.text}
	prefix := ""
	if m := continuationRe.FindStringSubmatch(first.text); m != nil {
		prefix = "(" + m[1] + ")"
	}
	terminated := endsSentence(first.text)
	for {
		l, ok := s.nextLogical()
		if !ok {
			if terminated {
				break
			}
			return s.fail(first, "warning")
		}
		if prefix != "" && strings.HasPrefix(l.text, prefix) {
			lines = append(lines, l.text)
			terminated = endsSentence(l.text)
			continue
		}
		if strings.TrimSpace(l.text) == "" {
			break
		}
		if terminated || startsRecord(l.text) {
			s.unread(l)
			break
		}
		lines = append(lines, l.text)
		terminated = endsSentence(l.text)
	}
	s.emit(RecordWarning, first, lines)
	return true
}

func endsSentence(line string) bool {
	return strings.HasSuffix(strings.TrimSpace(line), ".")
}

func (s *Scanner) emit(kind RecordKind, first logicalLine, lines []string) {
	s.rec = RawRecord{
		Kind:    kind,
		Lines:   lines,
		LogLine: first.line,
		Offset:  first.offset,
		Page:    s.page,
		File:    s.currentFile(),
	}
}

func (s *Scanner) fail(first logicalLine, what string) bool {
	s.err = fmt.Errorf("%w: unterminated %s record opened at line %d", ErrMalformedLog, what, first.line)
	s.done = true
	return false
}

// --- Line handling ---

// nextLogical returns the next logical line, rejoining physical lines the
// engine split at the wrap column.
func (s *Scanner) nextLogical() (logicalLine, bool) {
	if n := len(s.pending); n > 0 {
		l := s.pending[n-1]
		s.pending = s.pending[:n-1]
		return l, true
	}
	text, line, offset, ok := s.readPhysical()
	if !ok {
		return logicalLine{}, false
	}
	l := logicalLine{text: text, line: line, offset: offset}
	piece := text
	for s.atWrapColumn(piece) {
		next, ok := s.peekPhysical()
		if !ok || strings.TrimSpace(next) == "" || startsRecord(next) {
			break
		}
		piece, _, _, _ = s.readPhysical()
		l.text += piece
	}
	return l, true
}

// atWrapColumn reports whether piece fills the wrap column. pdfTeX counts
// bytes of its 8-bit output, which decode to one rune each; xelatex counts
// characters.
func (s *Scanner) atWrapColumn(piece string) bool {
	if s.wrap <= 0 {
		return false
	}
	return len(piece) == s.wrap || utf8.RuneCountInString(piece) == s.wrap
}

func (s *Scanner) unread(l logicalLine) {
	s.pending = append(s.pending, l)
}

func (s *Scanner) readPhysical() (string, int, int, bool) {
	text, ok := s.peekPhysical()
	if !ok {
		return "", 0, 0, false
	}
	offset := s.pos
	s.pos += len(text)
	if s.pos < len(s.src) && s.src[s.pos] == '\r' {
		s.pos++
	}
	if s.pos < len(s.src) && s.src[s.pos] == '\n' {
		s.pos++
	}
	s.lineNo++
	return text, s.lineNo, offset, true
}

func (s *Scanner) peekPhysical() (string, bool) {
	if s.pos >= len(s.src) {
		return "", false
	}
	rest := s.src[s.pos:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimSuffix(rest, "\r"), true
}

// --- Context tracking ---

// track updates the page counter and the input file stack from a line that
// is not part of any record.
func (s *Scanner) track(text string) {
	if ms := pageMarkerRe.FindAllStringSubmatch(text, -1); len(ms) > 0 {
		if n, err := strconv.Atoi(ms[len(ms)-1][1]); err == nil {
			s.page = n
		}
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			j := i + 1
			for j < len(text) && !strings.ContainsRune(" \t()", rune(text[j])) {
				j++
			}
			name := text[i+1 : j]
			if !looksLikeFile(name) {
				name = ""
			}
			s.files = append(s.files, name)
		case ')':
			if len(s.files) > 0 {
				s.files = s.files[:len(s.files)-1]
			}
		}
	}
}

func (s *Scanner) currentFile() string {
	for i := len(s.files) - 1; i >= 0; i-- {
		if s.files[i] != "" {
			return s.files[i]
		}
	}
	return ""
}

func looksLikeFile(name string) bool {
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return false
	}
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") {
		return true
	}
	ext := path.Ext(name)
	return len(ext) > 1 && len(ext) <= 5
}

// --- END OF NEW FILE pkg/latexlog/scanner.go ---
