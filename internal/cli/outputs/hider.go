// --- START OF NEW FILE internal/cli/outputs/hider.go ---
package outputs

import "context"

// Hider makes a file invisible in the platform's file browser. Only some
// platforms have one; DefaultHider returns nil elsewhere.
type Hider interface {
	Hide(ctx context.Context, path string) error
}

// HiderFunc adapts a function to the Hider interface.
type HiderFunc func(ctx context.Context, path string) error

// Hide implements Hider.
func (f HiderFunc) Hide(ctx context.Context, path string) error { return f(ctx, path) }

// --- END OF NEW FILE internal/cli/outputs/hider.go ---
