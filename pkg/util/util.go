// --- START OF FINAL REVISED FILE pkg/util/util.go ---
package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TeXExtension is the only source extension accepted.
const TeXExtension = ".tex"

var (
	// ErrWrongExtension indicates a source path with an extension other than .tex.
	ErrWrongExtension = errors.New("wrong extension")
	// ErrSourceNotFound indicates that the resolved .tex file does not exist.
	ErrSourceNotFound = errors.New("file not found")
)

// TeXPaths holds the paths derived from a source argument.
type TeXPaths struct {
	// Base is the absolute directory containing the source file.
	Base string `json:"base"`
	// FileBase is the file name without extension ("thesis" for /a/thesis.tex).
	FileBase string `json:"fileBase"`
	// Root is the absolute path without extension; engine outputs sit next to it.
	Root string `json:"root"`
	// FullPath is the absolute path of the .tex file.
	FullPath string `json:"fullPath"`
}

// ResolveTeXPath normalises a user supplied source path. "doc", "doc." and
// "doc.tex" all resolve to doc.tex; any other extension is rejected, and the
// resolved file must exist.
func ResolveTeXPath(texPath string) (TeXPaths, error) {
	ext := filepath.Ext(texPath)
	root := strings.TrimSuffix(texPath, ext)

	fullPath := texPath
	switch ext {
	case TeXExtension:
	case "", ".":
		fullPath = root + TeXExtension
	default:
		return TeXPaths{}, fmt.Errorf("%w for %s", ErrWrongExtension, texPath)
	}

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return TeXPaths{}, fmt.Errorf("%w: %s: %w", ErrSourceNotFound, fullPath, err)
	}
	info, err := os.Stat(absPath)
	if err != nil || info.IsDir() {
		return TeXPaths{}, fmt.Errorf("%w: %s", ErrSourceNotFound, fullPath)
	}

	base, fileName := filepath.Split(absPath)
	return TeXPaths{
		Base:     filepath.Clean(base),
		FileBase: strings.TrimSuffix(fileName, TeXExtension),
		Root:     strings.TrimSuffix(absPath, TeXExtension),
		FullPath: absPath,
	}, nil
}

// WithExt returns the path of the sibling file sharing the source root,
// e.g. WithExt(".pdf").
func (p TeXPaths) WithExt(ext string) string {
	return p.Root + ext
}

// --- END OF FINAL REVISED FILE pkg/util/util.go ---
