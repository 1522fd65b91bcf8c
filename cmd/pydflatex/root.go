// --- START OF FINAL REVISED FILE cmd/pydflatex/root.go ---
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/olivierverdier/pydflatex/internal/cli"
	"github.com/olivierverdier/pydflatex/internal/cli/config"
	"github.com/olivierverdier/pydflatex/pkg/compile"
)

var (
	// These are set during build time using -ldflags
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Flags persistent across commands
	cfgFile     string
	profileName string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pydflatex [flags] <file.tex>...",
	Short: "Typesets LaTeX documents and prints a readable digest of the log.",
	Long: `pydflatex runs pdflatex (or xelatex) on each given document, as many
times as the log asks for, and prints only what matters from the log:
errors with their source line, undefined references, and package warnings.

It features:
  - Automatic reruns until cross-references settle (bounded by --max-passes).
  - Box warnings and known-noise package warnings filtered out.
  - An isolated mode keeping auxiliary files out of the source directory.
  - Coloured console output or an interactive Terminal UI (TUI).
  - A JSON or YAML report for editor and CI integration.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true, // Printed by Execute, which also maps exit codes
	RunE: func(cmd *cobra.Command, args []string) error { // minimal comment
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		opts, logger, err := config.LoadAndValidate(cfgFile, profileName, version, args, cmd.Flags())
		if err != nil {
			return err
		}
		return cli.Run(ctx, opts, logger)
	},
}

// Execute runs the root command and returns the process exit code.
func Execute() int { // minimal comment
	rootCmd.SetVersionTemplate(`{{.Use}} version {{.Version}}` + "\n")
	return exitCode(rootCmd.ErrOrStderr(), rootCmd.Execute())
}

// exitCode maps the error returned by the command onto a process exit code,
// printing it unless it only carries a run's outcome.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintln(w, "Error:", err)
	return 1
}

// defineFlags registers the flags consumed by config.LoadAndValidate.
// Flag names map onto configuration keys there.
func defineFlags(flags *pflag.FlagSet) {
	// Compile loop
	flags.Int("max-passes", compile.DefaultMaxPasses, "Maximum number of engine passes per document")
	flags.Int("extra-passes", compile.DefaultExtraPasses, "Additional passes after the log stops asking for a rerun")
	flags.Bool("halt-on-error", compile.DefaultHaltOnError, "Stop a document at its first LaTeX error")
	flags.Bool("suppress-box-warnings", compile.DefaultSuppressBoxWarnings, "Hide overfull and underfull box warnings")
	flags.StringArray("deny", nil, "Hide package warnings containing this text (repeatable, added to the configured list)")
	flags.Int("wrap-width", compile.DefaultWrapWidth, "Column at which the engine wraps log lines (max_print_line)")

	// Engine & outputs
	flags.String("engine", string(compile.DefaultEngine), `TeX engine ("pdflatex", "xelatex")`)
	flags.String("engine-command", "", "Engine binary to run (default is the engine name)")
	flags.String("output-mode", string(compile.DefaultOutputMode), `Where outputs are written ("inplace", "isolated")`)
	flags.BoolP("isolated", "k", false, `Shorthand for --output-mode=isolated`)
	flags.String("tmp-dir", compile.DefaultTmpDirName, "Isolated output directory, relative to the document")
	flags.BoolP("open", "o", compile.DefaultOpenAfter, "Open the PDF after a successful run")

	// Presentation
	flags.Bool("colour", compile.DefaultColour, "Colour console output when writing to a terminal")
	flags.Bool("no-colour", false, "Disable coloured console output")
	flags.Bool("tui", compile.DefaultTuiEnabled, "Show the interactive Terminal UI when running in a terminal")
	flags.Bool("no-tui", false, "Disable the interactive Terminal UI")
	flags.String("output-format", string(compile.DefaultOutputFormat), `Final report format ("text", "json", "yaml")`)
	flags.String("default-encoding", "", "Encoding assumed for logs that are not valid UTF-8 (e.g. latin1)")
}

// init registers persistent flags for the root command.
func init() { // minimal comment
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default is search standard locations like ., $HOME/.config/pydflatex/)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Name of configuration profile to use")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging output (disables TUI)")

	defineFlags(rootCmd.Flags())
}

// --- END OF FINAL REVISED FILE cmd/pydflatex/root.go ---
