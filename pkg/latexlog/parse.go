// --- START OF NEW FILE pkg/latexlog/parse.go ---
package latexlog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olivierverdier/pydflatex/pkg/latexlog/encoding"
)

// ParseOptions bundles scanner and classifier settings.
type ParseOptions struct {
	Scanner    ScannerOptions
	Classifier ClassifierOptions
}

// ReadLog reads and decodes the log at path. Undecodable bytes are replaced,
// never reported: only a missing file (ErrMissingLogFile) or binary content
// (ErrMalformedLog) fail. A nil handler uses charset detection without a
// fallback encoding.
func ReadLog(path string, handler encoding.EncodingHandler) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrMissingLogFile, path, err)
	}
	if handler == nil {
		handler = encoding.NewGoCharsetEncodingHandler("")
	}
	if handler.IsBinary(data) {
		return "", fmt.Errorf("%w: %s is not a text transcript", ErrMalformedLog, path)
	}
	decoded, _, _, _ := handler.DetectAndDecode(data)
	return strings.ToValidUTF8(string(decoded), "\uFFFD"), nil
}

// Walk scans and classifies text, calling fn for every reported entry as
// soon as it is classified. It stops at the first scan error, fn error or
// context cancellation and returns the entries gathered so far alongside
// the error.
func Walk(ctx context.Context, text string, opts ParseOptions, fn func(Entry) error) (ParseResult, error) {
	scanner := NewScanner(text, opts.Scanner)
	classifier := NewClassifier(opts.Classifier)

	var entries []Entry
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return NewParseResult(entries), err
		}
		entry := classifier.Classify(scanner.Record())
		entries = append(entries, entry)
		if fn != nil && !entry.Suppressed {
			if err := fn(entry); err != nil {
				return NewParseResult(entries), err
			}
		}
	}
	return NewParseResult(entries), scanner.Err()
}

// Parse classifies a whole log.
func Parse(text string, opts ParseOptions) (ParseResult, error) {
	return Walk(context.Background(), text, opts, nil)
}

// --- END OF NEW FILE pkg/latexlog/parse.go ---
