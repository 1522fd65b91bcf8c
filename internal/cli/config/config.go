// --- START OF FINAL REVISED FILE internal/cli/config/config.go ---
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/olivierverdier/pydflatex/pkg/compile"
	"github.com/olivierverdier/pydflatex/pkg/latexlog/encoding"
)

const (
	EnvPrefix         = "PYDFLATEX"
	DefaultConfigName = "pydflatex"
)

// flagKeys maps command-line flag names to the configuration keys they
// override. Flags missing from the FlagSet are skipped.
var flagKeys = map[string]string{
	"max-passes":            "maxPasses",
	"extra-passes":          "extraPasses",
	"halt-on-error":         "haltOnError",
	"suppress-box-warnings": "suppressBoxWarnings",
	"wrap-width":            "wrapWidth",
	"engine":                "engine",
	"engine-command":        "engineCommand",
	"output-mode":           "outputMode",
	"tmp-dir":               "tmpDir",
	"open":                  "openAfter",
	"colour":                "colour",
	"verbose":               "verbose",
	"tui":                   "tuiEnabled",
	"output-format":         "outputFormat",
	"default-encoding":      "defaultEncoding",
}

// LoadAndValidate loads configuration from all sources (defaults, file,
// profile, env, flags), validates the merged configuration, sets up the
// logger and injects the default encoding handler. sources are the
// positional .tex arguments. Collaborators that run processes (engine,
// outputs, opener, hooks) are left for the caller to inject.
func LoadAndValidate(cfgFile, profileName, appVersion string, sources []string, flags *pflag.FlagSet) (compile.Options, *slog.Logger, error) {
	var opts compile.Options
	v := viper.New()

	// Initialize a temporary basic logger for early loading errors
	tempLogHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	tempLogger := slog.New(tempLogHandler)

	setDefaults(v)

	// --- Load Config File ---
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
			v.AddConfigPath(filepath.Join(home, "."+DefaultConfigName))
		} else {
			tempLogger.Debug("No home directory; searching the working directory only", slog.Any("error", err))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) && cfgFile == "" {
			tempLogger.Debug("No configuration file found, using defaults/env/flags.")
		} else {
			configFileUsed := cfgFile
			if configFileUsed == "" {
				configFileUsed = fmt.Sprintf("searched locations for %s.yaml/json/toml", DefaultConfigName)
			}
			tempLogger.Error("Error reading configuration file", slog.String("path", configFileUsed), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error reading config file '%s': %w", configFileUsed, err)
		}
	} else {
		opts.ConfigFilePath = v.ConfigFileUsed()
		tempLogger.Debug("Using configuration file", slog.String("path", opts.ConfigFilePath))
	}

	// --- Apply Profile ---
	if profileName != "" {
		profileKey := "profiles." + profileName
		if !v.IsSet(profileKey) {
			configPath := v.ConfigFileUsed()
			if configPath == "" {
				configPath = "(no config file found)"
			}
			err := fmt.Errorf("%w: profile '%s' not found in config file '%s'", compile.ErrConfigValidation, profileName, configPath)
			tempLogger.Error(err.Error())
			return opts, tempLogger, err
		}
		profileSettings := v.Sub(profileKey)
		if profileSettings == nil {
			err := fmt.Errorf("%w: profile '%s' is not a table of settings", compile.ErrConfigValidation, profileName)
			tempLogger.Error(err.Error())
			return opts, tempLogger, err
		}
		if err := v.MergeConfigMap(profileSettings.AllSettings()); err != nil {
			tempLogger.Error("Error merging profile", slog.String("profile", profileName), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error merging profile '%s': %w", profileName, err)
		}
		tempLogger.Debug("Applied configuration profile", slog.String("profile", profileName))
	}

	// --- Bind Environment Variables ---
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// --- Bind Flags (Highest Priority) ---
	if flags != nil {
		for flagName, key := range flagKeys {
			flag := flags.Lookup(flagName)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				tempLogger.Error("Error binding flag", slog.String("flag", flagName), slog.Any("error", err))
				return opts, tempLogger, fmt.Errorf("error binding flag '--%s': %w", flagName, err)
			}
		}
	}

	// --- Unmarshal Final Configuration ---
	// UnmarshalExact rejects keys that no option consumes.
	if err := v.UnmarshalExact(&opts); err != nil {
		tempLogger.Error("Error unmarshalling configuration", slog.Any("error", err))
		return opts, tempLogger, fmt.Errorf("%w: %w", compile.ErrConfigValidation, err)
	}
	opts.AppVersion = appVersion
	opts.ProfileName = profileName
	opts.Sources = slices.Clone(sources)

	applyFlagOverrides(&opts, flags)

	// --- Setup Final Logger ---
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logHandler)
	opts.Logger = logHandler

	if err := validateAndDeriveOptions(&opts, logger); err != nil {
		return opts, logger, err
	}

	logger.Debug("Configuration loading and validation complete",
		slog.String("configFile", opts.ConfigFilePath),
		slog.String("profile", opts.ProfileName),
		slog.Bool("verbose", opts.Verbose),
		slog.String("logLevel", logLevel.String()),
	)
	return opts, logger, nil
}

// setDefaults establishes the default values for configuration options in Viper.
func setDefaults(v *viper.Viper) {
	// --- Compile Loop ---
	v.SetDefault("maxPasses", compile.DefaultMaxPasses)
	v.SetDefault("extraPasses", compile.DefaultExtraPasses)
	v.SetDefault("haltOnError", compile.DefaultHaltOnError)
	v.SetDefault("suppressBoxWarnings", compile.DefaultSuppressBoxWarnings)
	v.SetDefault("warningDenyList", compile.DefaultWarningDenyList())
	v.SetDefault("wrapWidth", compile.DefaultWrapWidth)

	// --- Engine & Outputs ---
	v.SetDefault("engine", string(compile.DefaultEngine))
	v.SetDefault("engineCommand", "")
	v.SetDefault("outputMode", string(compile.DefaultOutputMode))
	v.SetDefault("tmpDir", compile.DefaultTmpDirName)
	v.SetDefault("openAfter", compile.DefaultOpenAfter)

	// --- Presentation ---
	v.SetDefault("verbose", false)
	v.SetDefault("colour", compile.DefaultColour)
	v.SetDefault("tuiEnabled", compile.DefaultTuiEnabled)
	v.SetDefault("outputFormat", string(compile.DefaultOutputFormat))
	v.SetDefault("defaultEncoding", "")

	v.SetDefault("profiles", map[string]interface{}{})
}

// applyFlagOverrides handles flags that do not map one-to-one onto a key.
func applyFlagOverrides(opts *compile.Options, flags *pflag.FlagSet) {
	if flags == nil {
		return
	}
	if flags.Changed("deny") {
		extra, _ := flags.GetStringArray("deny")
		opts.WarningDenyList = append(opts.WarningDenyList, extra...)
	}
	if flags.Changed("isolated") {
		if isolated, _ := flags.GetBool("isolated"); isolated {
			opts.OutputMode = compile.OutputModeIsolated
		}
	}
	if flags.Changed("no-colour") {
		if noColour, _ := flags.GetBool("no-colour"); noColour {
			opts.Colour = false
		}
	}
	if flags.Changed("no-tui") {
		if noTui, _ := flags.GetBool("no-tui"); noTui {
			opts.TuiEnabled = false
		}
	}
}

// isValidEnumValue checks if a given string value is present in a slice of allowed enum values.
// Case-sensitive comparison.
func isValidEnumValue[T ~string](value T, allowedValues []T) bool {
	return slices.Contains(allowedValues, value)
}

// validateAndDeriveOptions performs semantic validation on the populated
// Options and fills in derived values. Errors wrap compile.ErrConfigValidation.
func validateAndDeriveOptions(opts *compile.Options, logger *slog.Logger) error {
	// === Sources ===
	if len(opts.Sources) == 0 {
		err := fmt.Errorf("%w: at least one .tex source is required", compile.ErrConfigValidation)
		logger.Error(err.Error())
		return err
	}

	// === Enum String Validations ===
	allowedEngines := []compile.EngineName{compile.EnginePDFLaTeX, compile.EngineXeLaTeX}
	if !isValidEnumValue(opts.EngineName, allowedEngines) {
		err := fmt.Errorf("%w: invalid value '%s' for key 'engine' (flag --engine). Allowed: %v", compile.ErrConfigValidation, opts.EngineName, allowedEngines)
		logger.Error(err.Error(), slog.String("key", "engine"), slog.String("value", string(opts.EngineName)))
		return err
	}
	allowedOutputModes := []compile.OutputMode{compile.OutputModeInPlace, compile.OutputModeIsolated}
	if !isValidEnumValue(opts.OutputMode, allowedOutputModes) {
		err := fmt.Errorf("%w: invalid value '%s' for key 'outputMode' (flag --output-mode). Allowed: %v", compile.ErrConfigValidation, opts.OutputMode, allowedOutputModes)
		logger.Error(err.Error(), slog.String("key", "outputMode"), slog.String("value", string(opts.OutputMode)))
		return err
	}
	allowedOutputFormat := []compile.OutputFormat{compile.OutputFormatText, compile.OutputFormatJSON, compile.OutputFormatYAML}
	if !isValidEnumValue(opts.OutputFormat, allowedOutputFormat) {
		err := fmt.Errorf("%w: invalid value '%s' for key 'outputFormat' (flag --output-format). Allowed: %v", compile.ErrConfigValidation, opts.OutputFormat, allowedOutputFormat)
		logger.Error(err.Error(), slog.String("key", "outputFormat"), slog.String("value", string(opts.OutputFormat)))
		return err
	}

	// === Numeric Range Validations ===
	if opts.MaxPasses < 1 {
		err := fmt.Errorf("%w: invalid value '%d' for key 'maxPasses' (flag --max-passes). Must be >= 1", compile.ErrConfigValidation, opts.MaxPasses)
		logger.Error(err.Error(), slog.String("key", "maxPasses"), slog.Int("value", opts.MaxPasses))
		return err
	}
	if opts.ExtraPasses < 0 {
		err := fmt.Errorf("%w: invalid value '%d' for key 'extraPasses' (flag --extra-passes). Must be >= 0", compile.ErrConfigValidation, opts.ExtraPasses)
		logger.Error(err.Error(), slog.String("key", "extraPasses"), slog.Int("value", opts.ExtraPasses))
		return err
	}
	if opts.ExtraPasses >= opts.MaxPasses {
		logger.Warn("extraPasses cannot be honoured beyond maxPasses",
			slog.Int("extraPasses", opts.ExtraPasses),
			slog.Int("maxPasses", opts.MaxPasses),
		)
	}

	// === Outputs ===
	if opts.OutputMode == compile.OutputModeIsolated {
		clean := filepath.Clean(opts.TmpDirName)
		if opts.TmpDirName == "" || filepath.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, "..") {
			err := fmt.Errorf("%w: invalid value '%s' for key 'tmpDir' (flag --tmp-dir). Must be a relative directory name below the source directory", compile.ErrConfigValidation, opts.TmpDirName)
			logger.Error(err.Error(), slog.String("key", "tmpDir"), slog.String("value", opts.TmpDirName))
			return err
		}
		opts.TmpDirName = clean
	}
	if opts.EngineCommand == "" {
		opts.EngineCommand = string(opts.EngineName)
	}

	// === Deny List ===
	opts.WarningDenyList = slices.DeleteFunc(opts.WarningDenyList, func(s string) bool { return strings.TrimSpace(s) == "" })

	// === Encoding ===
	if opts.DefaultEncoding != "" {
		if _, err := htmlindex.Get(opts.DefaultEncoding); err != nil {
			err = fmt.Errorf("%w: invalid value '%s' for key 'defaultEncoding' (flag --default-encoding): %w", compile.ErrConfigValidation, opts.DefaultEncoding, err)
			logger.Error(err.Error(), slog.String("key", "defaultEncoding"))
			return err
		}
	}
	if opts.EncodingHandler == nil {
		opts.EncodingHandler = encoding.NewGoCharsetEncodingHandler(opts.DefaultEncoding)
		logger.Debug("EncodingHandler not provided, using default (GoCharsetEncodingHandler).")
	}

	// Verbose logging and the TUI share the terminal; logs win.
	if opts.Verbose && opts.TuiEnabled {
		logger.Debug("Verbose mode enabled, TUI disabled")
		opts.TuiEnabled = false
	}

	logger.Debug("Final derived settings validated",
		slog.Int("sources", len(opts.Sources)),
		slog.String("engine", string(opts.EngineName)),
		slog.String("engineCommand", opts.EngineCommand),
		slog.String("outputMode", string(opts.OutputMode)),
		slog.Int("maxPasses", opts.MaxPasses),
		slog.Int("extraPasses", opts.ExtraPasses),
		slog.Int("denyListSize", len(opts.WarningDenyList)),
		slog.Bool("tuiEnabledEffective", opts.TuiEnabled),
	)
	return nil
}

// --- END OF FINAL REVISED FILE internal/cli/config/config.go ---
