// --- START OF NEW FILE internal/cli/hooks/format.go ---
package hooks

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/olivierverdier/pydflatex/pkg/compile"
	"github.com/olivierverdier/pydflatex/pkg/latexlog"
)

// Formatter renders diagnostics and session outcomes as console lines in the
// classic pydflatex layout:
//
//	[pkg]p.3   L   12: text
//	./doc.tex:3: Undefined control sequence.
//	L    3:	 \nonexistingmacro
type Formatter struct {
	engine string
	width  int

	success *color.Color
	err     *color.Color
	ref     *color.Color
	warning *color.Color
	box     *color.Color
	info    *color.Color
}

// NewFormatter creates a Formatter. When colour is false every style prints
// plain text. width > 0 truncates long code excerpts to that many columns.
func NewFormatter(engine string, colour bool, width int) *Formatter {
	f := &Formatter{
		engine:  engine,
		width:   width,
		success: color.New(color.FgGreen, color.Bold),
		err:     color.New(color.FgRed, color.Bold),
		ref:     color.New(color.FgRed, color.Bold),
		warning: color.New(color.FgMagenta),
		box:     color.New(color.FgCyan),
		info:    color.New(color.Bold),
	}
	for _, c := range []*color.Color{f.success, f.err, f.ref, f.warning, f.box, f.info} {
		if colour {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Head returns the "[pkg]p.N   L    N: " prefix for a located diagnostic.
func (f *Formatter) Head(pkg string, page, line int) string {
	var b strings.Builder
	if pkg != "" {
		b.WriteString("[" + pkg + "]")
	}
	fmt.Fprintf(&b, "p.%-4s", optionalInt(page))
	fmt.Fprintf(&b, "L%5s", optionalInt(line))
	b.WriteString(": ")
	return b.String()
}

// Diagnostic renders d as one or more console lines.
func (f *Formatter) Diagnostic(d latexlog.Diagnostic) []string {
	switch v := d.(type) {
	case latexlog.BoxWarning:
		return []string{f.Head("", v.Page, v.FromLine) + f.box.Sprint(v.String())}
	case latexlog.ReferenceWarning:
		head := f.Head(v.Package, v.Page, v.Line)
		if v.RefKind == latexlog.RefMultiplyDefined {
			return []string{head + f.warning.Sprint(v.String())}
		}
		if v.Subject == latexlog.SubjectCitation {
			return []string{head + "[" + f.ref.Sprint(v.Name) + "] undefined"}
		}
		return []string{head + "'" + f.ref.Sprint(v.Name) + "' undefined"}
	case latexlog.PackageWarning:
		return []string{f.Head(v.Package, v.Page, v.Line) + f.warning.Sprint(v.Text)}
	case latexlog.LaTeXError:
		lines := []string{fmt.Sprintf("%s:%s: %s", v.File, optionalInt(v.Line), f.err.Sprint(v.Text))}
		if v.CodeContext != "" {
			lines = append(lines, f.info.Sprint(fmt.Sprintf("L%5s:\t %s", optionalInt(v.Line), f.truncate(v.CodeContext))))
		}
		return lines
	case latexlog.MetaSignal:
		if v.Meta == latexlog.MetaRerunNeeded {
			return []string{f.warning.Sprint(v.String())}
		}
		return []string{f.err.Sprint(v.String())}
	}
	return []string{d.String()}
}

// PassStart is the line printed when the engine is launched.
func (f *Formatter) PassStart(source string, pass int, now time.Time) string {
	line := fmt.Sprintf("\t[%s] %s %s", now.Format("2006-01-02 15.04.05"), f.engine, source)
	if pass > 1 {
		line += fmt.Sprintf(" (pass %d)", pass)
	}
	return f.info.Sprint(line)
}

// Outcome returns the closing line(s) of a session.
func (f *Formatter) Outcome(s compile.Session) []string {
	var lines []string
	switch s.Status {
	case compile.StatusSuccess, compile.StatusSuccessWithWarnings:
		lines = append(lines, f.success.Sprintf("Typesetting of %q completed in %.1fs.", s.Source, s.Duration.Seconds()))
	case compile.StatusCancelled:
		lines = append(lines, f.warning.Sprintf("Typesetting of %q interrupted.", s.Source))
	default:
		lines = append(lines, f.err.Sprintf("Typesetting of %q %s: %s", s.Source, s.Status, s.Reason))
	}
	if s.FinalizeErr != nil {
		lines = append(lines, f.warning.Sprint(s.FinalizeErr.Error()))
	}
	return lines
}

func (f *Formatter) truncate(s string) string {
	if f.width <= 0 || runewidth.StringWidth(s) <= f.width {
		return s
	}
	if f.width <= 3 {
		return runewidth.Truncate(s, f.width, "")
	}
	return runewidth.Truncate(s, f.width, "...")
}

func optionalInt(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprint(n)
}

// --- END OF NEW FILE internal/cli/hooks/format.go ---
