// --- START OF NEW FILE internal/cli/outputs/hider_darwin.go ---
//go:build darwin

package outputs

import (
	"context"
	"fmt"
	"os/exec"
)

// DefaultHider uses SetFile from the Xcode command line tools.
func DefaultHider() Hider {
	return HiderFunc(func(ctx context.Context, path string) error {
		if out, err := exec.CommandContext(ctx, "SetFile", "-a", "V", path).CombinedOutput(); err != nil {
			return fmt.Errorf("SetFile %s: %w (%s); install the developer tools to hide auxiliary files", path, err, out)
		}
		return nil
	})
}

// --- END OF NEW FILE internal/cli/outputs/hider_darwin.go ---
