package cmd

import (
	"path/filepath"

	"github.com/ajxudir/pipconverge/pkg/config"
	"github.com/ajxudir/pipconverge/pkg/errors"
	"github.com/ajxudir/pipconverge/pkg/warnings"
)

// loadSettings loads the tool configuration, downgrading a malformed file to
// a warning so commands keep running on defaults. A settings set that fails
// validation is fatal because no meaningful run is possible.
//
// Returns:
//   - config.Settings: Effective settings
//   - error: *errors.ExitError with ExitConfigError when validation fails
func loadSettings() (config.Settings, error) {
	settings, err := config.LoadSettings(configFlag, directoryFlag)
	if err != nil {
		warnings.Warnf("using default settings: %v\n", err)
	}

	if err := settings.Validate(); err != nil {
		return settings, errors.NewExitError(errors.ExitConfigError, err)
	}
	return settings, nil
}

// loadStore loads the package config store, creating the default file when
// absent and downgrading a malformed file to a warning plus defaults.
//
// Parameters:
//   - path: Resolved package config path
//
// Returns:
//   - *config.PackageConfig: Loaded or default store
func loadStore(path string) *config.PackageConfig {
	store, created, err := config.LoadPackageConfig(path)
	if err != nil {
		warnings.Warnf("using empty package config: %v\n", err)
	}
	if created {
		warnings.Warnf("created default package config at %s\n", path)
	}
	return store
}

// resolvePath anchors a relative path at the --directory flag.
//
// Parameters:
//   - path: Possibly relative path from flags or settings
//
// Returns:
//   - string: Path joined onto the working directory when relative
func resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || directoryFlag == "" {
		return path
	}
	return filepath.Join(directoryFlag, path)
}
