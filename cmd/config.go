package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ajxudir/pipconverge/pkg/config"
	"github.com/ajxudir/pipconverge/pkg/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective tool settings (flags, pipconverge.yml, and defaults
merged) and the contents of the package config store.`,
	RunE: runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration files",
	Long: `Create pipconverge.yml and the package config store with default
contents in the working directory. Existing files are left untouched.`,
	RunE: runConfigInit,
}

// runConfig executes the config command.
//
// Parameters:
//   - cmd: The cobra command being executed
//   - args: Positional arguments (unused)
//
// Returns:
//   - error: Configuration validation failure
func runConfig(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	fmt.Println("Settings:")
	fmt.Printf("  python:         %s\n", settings.Python)
	fmt.Printf("  timeout:        %ds\n", settings.TimeoutSeconds)
	fmt.Printf("  max_rounds:     %d\n", settings.MaxRounds)
	fmt.Printf("  logs_dir:       %s\n", settings.LogsDir)
	fmt.Printf("  package_config: %s\n", settings.PackageConfig)

	store := loadStore(resolvePath(settings.PackageConfig))

	fmt.Println("\nBlacklist:")
	if len(store.Blacklist) == 0 {
		fmt.Println("  (empty)")
	}
	for _, name := range store.Blacklist {
		fmt.Printf("  - %s\n", name)
	}

	fmt.Println("\nPinned versions:")
	if len(store.SpecificVersions) == 0 {
		fmt.Println("  (none)")
	}
	pinned := make([]string, 0, len(store.SpecificVersions))
	for name := range store.SpecificVersions {
		pinned = append(pinned, name)
	}
	sort.Strings(pinned)
	for _, name := range pinned {
		fmt.Printf("  %s == %s\n", name, store.SpecificVersions[name])
	}

	return nil
}

// runConfigInit executes the config init command.
//
// It performs the following operations:
//   - Writes a default pipconverge.yml unless one exists
//   - Creates the default package config store unless one exists
//
// Parameters:
//   - cmd: The cobra command being executed
//   - args: Positional arguments (unused)
//
// Returns:
//   - error: *errors.ExitError with ExitConfigError when a file cannot be
//     written
func runConfigInit(cmd *cobra.Command, args []string) error {
	dir := directoryFlag
	if dir == "" {
		dir = "."
	}

	settingsPath := filepath.Join(dir, config.DefaultSettingsFile)
	if _, err := os.Stat(settingsPath); err == nil {
		fmt.Printf("%s already exists, skipping\n", settingsPath)
	} else {
		defaults := config.DefaultSettings()
		content := fmt.Sprintf("python: %s\ntimeout: %d\nmax_rounds: %d\nlogs_dir: %s\npackage_config: %s\n",
			defaults.Python, defaults.TimeoutSeconds, defaults.MaxRounds, defaults.LogsDir, defaults.PackageConfig)
		if err := os.WriteFile(settingsPath, []byte(content), 0o644); err != nil {
			return errors.NewExitError(errors.ExitConfigError, err)
		}
		fmt.Printf("Created %s\n", settingsPath)
	}

	storePath := filepath.Join(dir, config.DefaultSettings().PackageConfig)
	if _, err := os.Stat(storePath); err == nil {
		fmt.Printf("%s already exists, skipping\n", storePath)
		return nil
	}
	_, created, err := config.LoadPackageConfig(storePath)
	if err != nil {
		return errors.NewExitError(errors.ExitConfigError, err)
	}
	if created {
		fmt.Printf("Created %s\n", storePath)
	}

	return nil
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
