// --- START OF FINAL REVISED FILE cmd/pydflatex/main.go ---
package main

import "os"

// Build-time variables 'version', 'commit', and 'date' are declared in
// root.go and populated via -ldflags.

// main is the entry point for the pydflatex application. The exit code is 0
// when every document was typeset (possibly with warnings), 130 when the run
// was interrupted, and 1 otherwise.
func main() {
	os.Exit(Execute())
}

// --- END OF FINAL REVISED FILE cmd/pydflatex/main.go ---
