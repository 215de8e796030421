// Package config handles pipconverge configuration: the YAML tool settings
// (pipconverge.yml) and the JSON package config store holding the blacklist
// and operator-pinned versions.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ajxudir/pipconverge/pkg/errors"
	"github.com/ajxudir/pipconverge/pkg/verbose"
)

// DefaultSettingsFile is the tool settings file looked up in the working
// directory when no --config flag is given.
const DefaultSettingsFile = "pipconverge.yml"

// Settings is the tool configuration controlling how the engine talks to pip
// and how far the convergence loop is allowed to run.
//
// Fields:
//   - Python: Interpreter used for "python -m pip" invocations
//   - TimeoutSeconds: Per-command timeout; zero disables timeouts
//   - MaxRounds: Hard bound on convergence retry rounds
//   - LogsDir: Directory for run logs and conflict-history files
//   - PackageConfig: Path to the JSON package config store
type Settings struct {
	Python         string `yaml:"python"`
	TimeoutSeconds int    `yaml:"timeout"`
	MaxRounds      int    `yaml:"max_rounds"`
	LogsDir        string `yaml:"logs_dir"`
	PackageConfig  string `yaml:"package_config"`
}

// DefaultSettings returns the built-in tool configuration.
//
// Returns:
//   - Settings: Defaults (python3 interpreter, 600s timeout, 10 rounds,
//     logs/ directory, package_config.json store)
func DefaultSettings() Settings {
	return Settings{
		Python:         "python3",
		TimeoutSeconds: 600,
		MaxRounds:      10,
		LogsDir:        "logs",
		PackageConfig:  "package_config.json",
	}
}

// LoadSettings loads the tool settings from the given path or defaults.
//
// It performs the following operations:
//   - With an explicit path, the file must exist and parse
//   - With no path, pipconverge.yml in workDir is used when present
//   - Missing fields fall back to the built-in defaults
//
// Parameters:
//   - path: Explicit settings file path, or empty for discovery
//   - workDir: Directory searched for the default settings file
//
// Returns:
//   - Settings: Effective settings
//   - error: *errors.ConfigError when an explicit or discovered file is
//     unreadable or malformed; nil otherwise
func LoadSettings(path, workDir string) (Settings, error) {
	defaults := DefaultSettings()

	if path == "" {
		candidate := filepath.Join(workDir, DefaultSettingsFile)
		if _, err := os.Stat(candidate); err != nil {
			verbose.Infof("No %s found, using built-in settings", DefaultSettingsFile)
			return defaults, nil
		}
		path = candidate
	}

	verbose.Infof("Loading settings from: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, &errors.ConfigError{Path: path, Err: err}
	}

	var loaded Settings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return defaults, &errors.ConfigError{Path: path, Err: fmt.Errorf("invalid YAML: %w", err)}
	}

	return mergeSettings(defaults, loaded), nil
}

// mergeSettings overlays loaded values onto the defaults, keeping defaults
// for zero-valued fields.
//
// Parameters:
//   - base: Default settings
//   - loaded: Settings parsed from the file
//
// Returns:
//   - Settings: Merged settings
func mergeSettings(base, loaded Settings) Settings {
	if strings.TrimSpace(loaded.Python) != "" {
		base.Python = strings.TrimSpace(loaded.Python)
	}
	if loaded.TimeoutSeconds > 0 {
		base.TimeoutSeconds = loaded.TimeoutSeconds
	}
	if loaded.MaxRounds > 0 {
		base.MaxRounds = loaded.MaxRounds
	}
	if strings.TrimSpace(loaded.LogsDir) != "" {
		base.LogsDir = loaded.LogsDir
	}
	if strings.TrimSpace(loaded.PackageConfig) != "" {
		base.PackageConfig = loaded.PackageConfig
	}
	return base
}

// Timeout converts the configured timeout to a duration.
//
// Returns:
//   - time.Duration: Per-command timeout; zero means no timeout
func (s Settings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Validate checks the settings for values the engine cannot work with.
//
// Returns:
//   - error: Description of the first invalid field; nil when usable
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Python) == "" {
		return fmt.Errorf("python interpreter must not be empty")
	}
	if s.MaxRounds < 1 {
		return fmt.Errorf("max_rounds must be at least 1, got %d", s.MaxRounds)
	}
	if s.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", s.TimeoutSeconds)
	}
	return nil
}
