// --- START OF NEW FILE internal/cli/outputs/hider_other.go ---
//go:build !darwin

package outputs

// DefaultHider returns nil: files cannot be hidden on this platform.
func DefaultHider() Hider { return nil }

// --- END OF NEW FILE internal/cli/outputs/hider_other.go ---
