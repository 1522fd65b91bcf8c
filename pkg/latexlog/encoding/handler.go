// --- START OF FINAL REVISED FILE pkg/latexlog/encoding/handler.go ---
package encoding

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

const (
	// sniffLen is the number of bytes used by http.DetectContentType
	sniffLen = 512
	// checkLen is a buffer size used for null byte checks.
	checkLen = 1024
	// Null byte threshold percentage to consider a log binary.
	nullThreshold = 0.15 // 15%

	// replacementChar substitutes any byte sequence that cannot be decoded.
	replacementChar = "\uFFFD"
)

// EncodingHandler turns raw engine log bytes into UTF-8 text.
//
// TeX engines write their transcript in whatever encoding the input files use
// (pdfTeX in -8bit mode copies bytes through unchanged), so a log is frequently
// a mix of ASCII and Latin-1 or UTF-8 fragments. Decoding must therefore never
// fail hard: undecodable bytes become U+FFFD.
type EncodingHandler interface {
	// DetectAndDecode converts content to valid UTF-8. It returns the decoded
	// bytes, the IANA name of the encoding that was applied, whether that
	// choice was certain, and a non-nil error only when the transform itself
	// failed (the returned content is still valid UTF-8 in that case).
	DetectAndDecode(content []byte) (utf8Content []byte, detectedEncoding string, certainty bool, err error)

	// IsBinary reports whether content looks like binary data rather than a
	// text transcript (MIME sniffing on the first 512 bytes plus a null byte
	// ratio over the first 1024 bytes).
	IsBinary(content []byte) bool
}

// goCharsetEncodingHandler implements EncodingHandler using
// golang.org/x/net/html/charset.
type goCharsetEncodingHandler struct {
	defaultEncoding string
}

// NewGoCharsetEncodingHandler creates a new encoding handler. defaultEncoding
// is used when the content is not valid UTF-8 and detection is uncertain.
func NewGoCharsetEncodingHandler(defaultEncoding string) EncodingHandler { // minimal comment
	return &goCharsetEncodingHandler{
		defaultEncoding: defaultEncoding,
	}
}

// DetectAndDecode implements the EncodingHandler interface.
func (h *goCharsetEncodingHandler) DetectAndDecode(content []byte) ([]byte, string, bool, error) {
	// Whole-content UTF-8 check first: charset.DetermineEncoding only sniffs
	// the first 1024 bytes, and a log header is nearly always plain ASCII.
	if utf8.Valid(content) {
		return content, "utf-8", true, nil
	}

	detectedEncodingImpl, name, certain := charset.DetermineEncoding(content, "")

	// Apply fallback if detection was uncertain and a default is provided
	if !certain && h.defaultEncoding != "" {
		if encodingLookup, lookupName := charset.Lookup(h.defaultEncoding); encodingLookup != nil {
			detectedEncodingImpl = encodingLookup
			name = lookupName
			certain = true // Treat specified default as certain
		}
	}

	if name == "" {
		name = "unknown"
	}
	if detectedEncodingImpl == nil {
		return toValidUTF8(content), name, certain, nil
	}

	transformer := transform.NewReader(bytes.NewReader(content), detectedEncodingImpl.NewDecoder())
	utf8Content, err := io.ReadAll(transformer)
	if err != nil {
		// Keep whatever is salvageable rather than losing the transcript.
		return toValidUTF8(content), name, certain, fmt.Errorf("failed to convert from '%s': %w", name, err)
	}

	return toValidUTF8(utf8Content), name, certain, nil
}

// IsBinary implements the EncodingHandler interface.
func (h *goCharsetEncodingHandler) IsBinary(content []byte) bool {
	contentLen := len(content)
	if contentLen == 0 {
		return false
	}

	// 1. MIME type check
	contentType := http.DetectContentType(content[:min(contentLen, sniffLen)])
	if !isMIMETextBased(contentType) {
		return true
	}

	// 2. Null byte check
	checkLimitNull := min(contentLen, checkLen)
	nullCount := bytes.Count(content[:checkLimitNull], []byte{0x00})

	return float64(nullCount)/float64(checkLimitNull) > nullThreshold
}

// isMIMETextBased checks if a detected MIME type could be a transcript.
// http.DetectContentType reports text/plain for readable logs and
// application/octet-stream for undecidable ones; the latter is left to the
// null byte check.
func isMIMETextBased(contentType string) bool { // minimal comment
	mimeType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	return strings.HasPrefix(mimeType, "text/") || mimeType == "application/octet-stream"
}

func toValidUTF8(b []byte) []byte {
	if utf8.Valid(b) {
		return b
	}
	return bytes.ToValidUTF8(b, []byte(replacementChar))
}

// --- END OF FINAL REVISED FILE pkg/latexlog/encoding/handler.go ---
