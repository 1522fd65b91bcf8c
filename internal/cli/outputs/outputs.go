// --- START OF NEW FILE internal/cli/outputs/outputs.go ---
// Package outputs places the engine outputs for the compile loop and tidies
// them up after a successful session.
package outputs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/olivierverdier/pydflatex/pkg/compile"
	"github.com/olivierverdier/pydflatex/pkg/util"
)

// movedBackExts are the auxiliary files pulled back next to the source in
// isolated mode, so that editors and viewers find them.
var movedBackExts = []string{".pdfsync", ".aux", ".idx"}

// NewHandler returns the OutputHandler for mode. hider may be nil.
func NewHandler(mode compile.OutputMode, tmpDirName string, hider Hider, loggerHandler slog.Handler) (compile.OutputHandler, error) {
	if loggerHandler == nil {
		loggerHandler = slog.DiscardHandler
	}
	logger := slog.New(loggerHandler).With(slog.String("component", "outputs"))
	switch mode {
	case compile.OutputModeInPlace, "":
		return &InPlace{hider: hider, logger: logger}, nil
	case compile.OutputModeIsolated:
		if tmpDirName == "" {
			tmpDirName = compile.DefaultTmpDirName
		}
		return &Isolated{TmpDirName: tmpDirName, hider: hider, logger: logger}, nil
	default:
		return nil, fmt.Errorf("%w: unknown output mode %q", compile.ErrConfigValidation, mode)
	}
}

// --- In place ---

// InPlace lets the engine write every output next to the source file.
type InPlace struct {
	hider  Hider
	logger *slog.Logger
}

// ResolveLogPath implements compile.OutputHandler.
func (h *InPlace) ResolveLogPath(paths util.TeXPaths) string {
	return paths.WithExt(".log")
}

// FinalizeOutputs hides the auxiliary files recorded in the .fls file when
// a hider is available. The PDF stays visible.
func (h *InPlace) FinalizeOutputs(ctx context.Context, paths util.TeXPaths) error {
	if h.hider == nil {
		return nil
	}
	hideRecorded(ctx, h.hider, h.logger, paths.Base, paths.WithExt(".fls"))
	return nil
}

// --- Isolated ---

// Isolated sends every output to a directory below the source directory and
// moves the relevant ones back once the session succeeded.
type Isolated struct {
	TmpDirName string
	hider      Hider
	logger     *slog.Logger
}

// Dir returns the isolated output directory for paths.
func (h *Isolated) Dir(paths util.TeXPaths) string {
	return filepath.Join(paths.Base, h.TmpDirName)
}

// ResolveLogPath implements compile.OutputHandler.
func (h *Isolated) ResolveLogPath(paths util.TeXPaths) string {
	return filepath.Join(h.Dir(paths), paths.FileBase+".log")
}

// FinalizeOutputs moves the synchronisation and auxiliary files back next to
// the source and copies the PDF over the existing one. A missing PDF is an
// error wrapping compile.ErrFinalizeOutputs; missing auxiliary files are not.
func (h *Isolated) FinalizeOutputs(ctx context.Context, paths util.TeXPaths) error {
	dir := h.Dir(paths)
	logger := h.logger.With(slog.String("path", paths.FullPath))

	var moved []string
	for _, ext := range movedBackExts {
		name := paths.FileBase + ext
		src, dst := filepath.Join(dir, name), filepath.Join(paths.Base, name)
		if err := os.Rename(src, dst); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("Could not move auxiliary file back", slog.String("file", name), slog.Any("error", err))
			}
			continue
		}
		moved = append(moved, dst)
	}

	pdfName := paths.FileBase + ".pdf"
	if err := copyFile(filepath.Join(dir, pdfName), filepath.Join(paths.Base, pdfName)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: pdf file %q not found", compile.ErrFinalizeOutputs, pdfName)
		}
		return fmt.Errorf("%w: %w", compile.ErrFinalizeOutputs, err)
	}
	logger.Debug("Outputs moved back", slog.Int("auxFiles", len(moved)), slog.String("pdf", pdfName))

	if h.hider != nil {
		for _, f := range moved {
			if err := h.hider.Hide(ctx, f); err != nil {
				logger.Info("Could not hide auxiliary file", slog.String("file", f), slog.Any("error", err))
			}
		}
	}
	return nil
}

// copyFile overwrites dst with the content of src, keeping dst's inode so
// that viewers watching the file reload it.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// hideRecorded hides every non-PDF output listed in the recorder file.
// Problems are logged; hiding never fails a session.
func hideRecorded(ctx context.Context, hider Hider, logger *slog.Logger, base, flsPath string) {
	files, err := ReadRecorderOutputs(flsPath)
	if err != nil {
		logger.Debug("No recorder file to hide outputs from", slog.String("fls", flsPath), slog.Any("error", err))
		return
	}
	for _, f := range append([]string{flsPath}, files...) {
		if filepath.Ext(f) == ".pdf" {
			continue
		}
		if !filepath.IsAbs(f) {
			f = filepath.Join(base, f)
		}
		if err := hider.Hide(ctx, f); err != nil {
			logger.Info("Could not hide auxiliary file", slog.String("file", f), slog.Any("error", err))
			return
		}
	}
}

// --- END OF NEW FILE internal/cli/outputs/outputs.go ---
