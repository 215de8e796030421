package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfigInitCreatesFiles tests the behavior of config init.
//
// It verifies:
//   - Default settings and package config files are created
//   - A second run leaves the existing files untouched
func TestConfigInitCreatesFiles(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()

	rootCmd.SetArgs([]string{"config", "init", "--directory", dir})
	require.NoError(t, ExecuteTest())

	settingsPath := filepath.Join(dir, "pipconverge.yml")
	storePath := filepath.Join(dir, "package_config.json")

	settings, err := os.ReadFile(settingsPath)
	require.NoError(t, err)
	assert.Contains(t, string(settings), "python: python3")
	assert.Contains(t, string(settings), "max_rounds: 10")

	store, err := os.ReadFile(storePath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"blacklist": [], "specific_versions": {}}`, string(store))

	// Mutate, then re-init: content must survive.
	require.NoError(t, os.WriteFile(storePath, []byte(`{"blacklist": ["awscli"], "specific_versions": {}}`), 0o644))

	rootCmd.SetArgs([]string{"config", "init", "--directory", dir})
	require.NoError(t, ExecuteTest())

	store, err = os.ReadFile(storePath)
	require.NoError(t, err)
	assert.Contains(t, string(store), `"awscli"`)
}

// TestConfigShow tests the behavior of the config command.
//
// It verifies:
//   - The command runs cleanly against a populated working directory
func TestConfigShow(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "package_config.json"),
		[]byte(`{"blacklist": ["awscli"], "specific_versions": {"numpy": "1.26.4"}}`),
		0o644,
	))

	rootCmd.SetArgs([]string{"config", "--directory", dir})
	assert.NoError(t, ExecuteTest())
}
