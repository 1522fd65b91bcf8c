// --- START OF NEW FILE internal/cli/outputs/open.go ---
package outputs

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// SystemOpener opens documents with the desktop's default viewer.
type SystemOpener struct {
	command []string
	logger  *slog.Logger
}

// NewOpener returns an opener running command followed by the PDF path.
// An empty command selects the platform default (open, xdg-open, start).
func NewOpener(command []string, loggerHandler slog.Handler) *SystemOpener {
	if len(command) == 0 {
		command = defaultOpenCommand(runtime.GOOS)
	}
	if loggerHandler == nil {
		loggerHandler = slog.DiscardHandler
	}
	return &SystemOpener{command: command, logger: slog.New(loggerHandler).With(slog.String("component", "opener"))}
}

func defaultOpenCommand(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"cmd", "/c", "start", ""}
	default:
		return []string{"xdg-open"}
	}
}

// Open implements compile.Opener.
func (o *SystemOpener) Open(ctx context.Context, pdfPath string) error {
	o.logger.Info(fmt.Sprintf("Opening %q...", pdfPath))
	args := append(append([]string(nil), o.command[1:]...), pdfPath)
	if out, err := exec.CommandContext(ctx, o.command[0], args...).CombinedOutput(); err != nil {
		return fmt.Errorf("open %s: %w (%s)", pdfPath, err, out)
	}
	return nil
}

// --- END OF NEW FILE internal/cli/outputs/open.go ---
