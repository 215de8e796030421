package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/iancoleman/orderedmap"

	"github.com/ajxudir/pipconverge/pkg/errors"
	"github.com/ajxudir/pipconverge/pkg/verbose"
)

// PackageConfig is the JSON package config store: packages the operator has
// excluded from updates and packages pinned to an exact version.
//
// Fields:
//   - Blacklist: Package names excluded from update attempts
//   - SpecificVersions: Package name -> exact version to install
type PackageConfig struct {
	Blacklist        []string          `json:"blacklist"`
	SpecificVersions map[string]string `json:"specific_versions"`
}

// DefaultPackageConfig returns an empty package config.
//
// Returns:
//   - *PackageConfig: Empty blacklist and pinned-version map
func DefaultPackageConfig() *PackageConfig {
	return &PackageConfig{
		Blacklist:        []string{},
		SpecificVersions: map[string]string{},
	}
}

// LoadPackageConfig reads the package config store from path.
//
// It performs the following operations:
//   - An absent file is created with empty defaults and the run proceeds
//   - Missing keys are tolerated and filled with empty values
//   - A malformed file falls back to empty defaults with a ConfigError so
//     the caller can log it and continue
//
// Parameters:
//   - path: Package config file path
//
// Returns:
//   - *PackageConfig: Loaded config, or defaults on any failure
//   - bool: true when the file was absent and a default one was created
//   - error: *errors.ConfigError on malformed content or IO failure; nil
//     on success
func LoadPackageConfig(path string) (*PackageConfig, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		verbose.Infof("Package config %s not found, creating defaults", path)
		cfg := DefaultPackageConfig()
		if saveErr := cfg.Save(path); saveErr != nil {
			return cfg, false, &errors.ConfigError{Path: path, Err: saveErr}
		}
		return cfg, true, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultPackageConfig(), false, &errors.ConfigError{Path: path, Err: err}
	}

	var cfg PackageConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultPackageConfig(), false, &errors.ConfigError{Path: path, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	if cfg.Blacklist == nil {
		cfg.Blacklist = []string{}
	}
	if cfg.SpecificVersions == nil {
		cfg.SpecificVersions = map[string]string{}
	}

	return &cfg, false, nil
}

// Save writes the package config to path as ordered, indented JSON.
//
// The blacklist keeps its stored order; pinned versions are written with
// sorted keys so successive saves do not reshuffle the file.
//
// Parameters:
//   - path: Destination file path
//
// Returns:
//   - error: *errors.PersistError on write failure; nil on success
func (c *PackageConfig) Save(path string) error {
	pinned := orderedmap.New()
	pinned.SetEscapeHTML(false)
	names := make([]string, 0, len(c.SpecificVersions))
	for name := range c.SpecificVersions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pinned.Set(name, c.SpecificVersions[name])
	}

	data := orderedmap.New()
	data.SetEscapeHTML(false)
	data.Set("blacklist", c.Blacklist)
	data.Set("specific_versions", pinned)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(data); err != nil {
		return &errors.PersistError{Path: path, Err: err}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &errors.PersistError{Path: path, Err: err}
	}

	return nil
}

// MergeBlacklist appends names not already present in the stored blacklist.
//
// Parameters:
//   - names: Package names to merge in stored order
//
// Returns:
//   - int: Number of names that were new
func (c *PackageConfig) MergeBlacklist(names []string) int {
	existing := make(map[string]struct{}, len(c.Blacklist))
	for _, name := range c.Blacklist {
		existing[name] = struct{}{}
	}

	added := 0
	for _, name := range names {
		if _, ok := existing[name]; ok {
			continue
		}
		existing[name] = struct{}{}
		c.Blacklist = append(c.Blacklist, name)
		added++
	}

	return added
}
