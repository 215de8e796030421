package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ajxudir/pipconverge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadSettingsDefaults tests the behavior of LoadSettings discovery.
//
// It verifies:
//   - With no file present the built-in defaults are returned without error
func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := LoadSettings("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultSettings(), settings)
	assert.Equal(t, "python3", settings.Python)
	assert.Equal(t, 10, settings.MaxRounds)
	assert.Equal(t, 600*time.Second, settings.Timeout())
}

// TestLoadSettingsMergesPartialFile tests the behavior of LoadSettings with
// a file that sets only some fields.
//
// It verifies:
//   - Set fields override the defaults
//   - Unset fields keep their default values
func TestLoadSettingsMergesPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultSettingsFile)
	require.NoError(t, os.WriteFile(path, []byte("python: python3.12\nmax_rounds: 3\n"), 0o644))

	settings, err := LoadSettings("", dir)
	require.NoError(t, err)

	assert.Equal(t, "python3.12", settings.Python)
	assert.Equal(t, 3, settings.MaxRounds)
	assert.Equal(t, "logs", settings.LogsDir)
	assert.Equal(t, 600, settings.TimeoutSeconds)
}

// TestLoadSettingsMalformedYAML tests the behavior of LoadSettings on a
// broken file.
//
// It verifies:
//   - A ConfigError is returned alongside usable defaults
func TestLoadSettingsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("python: [unclosed"), 0o644))

	settings, err := LoadSettings(path, "")
	require.Error(t, err)

	var ce *errors.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, path, ce.Path)
	assert.Equal(t, DefaultSettings(), settings)
}

// TestSettingsValidate tests the behavior of Validate.
//
// It verifies:
//   - Defaults validate cleanly
//   - Empty interpreter, non-positive rounds, and negative timeouts are
//     rejected
func TestSettingsValidate(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{name: "empty python", mutate: func(s *Settings) { s.Python = "  " }},
		{name: "zero rounds", mutate: func(s *Settings) { s.MaxRounds = 0 }},
		{name: "negative timeout", mutate: func(s *Settings) { s.TimeoutSeconds = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

// TestTimeoutZeroDisables tests the behavior of Timeout.
//
// It verifies:
//   - A non-positive configured timeout disables the deadline
func TestTimeoutZeroDisables(t *testing.T) {
	s := DefaultSettings()
	s.TimeoutSeconds = 0
	assert.Equal(t, time.Duration(0), s.Timeout())
}
