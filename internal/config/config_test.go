package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 100, cfg.Download.MaxFileSizeMB)
	assert.Equal(t, 30, cfg.Download.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Download.RetryAttempts)
	assert.True(t, cfg.Download.VerifySSL)
	assert.NotEmpty(t, cfg.Download.UserAgent)

	assert.Equal(t, "./downloads", cfg.Output.DefaultDirectory)
	assert.True(t, cfg.Output.AutoCleanup)

	assert.Equal(t, 3, cfg.Performance.MaxConcurrentDownloads)
	assert.True(t, cfg.Performance.EnableCaching)

	assert.True(t, cfg.Security.ValidateExtensionID)
	assert.True(t, cfg.Security.CheckFileIntegrity)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.File.Enabled)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
  "download": {
    "retry_attempts": 5,
    "verify_ssl": false
  },
  "output": {
    "default_directory": "/tmp/ext"
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Overridden values.
	assert.Equal(t, 5, cfg.Download.RetryAttempts)
	assert.False(t, cfg.Download.VerifySSL)
	assert.Equal(t, "/tmp/ext", cfg.Output.DefaultDirectory)

	// Untouched sections keep defaults.
	assert.Equal(t, 100, cfg.Download.MaxFileSizeMB)
	assert.Equal(t, 3, cfg.Performance.MaxConcurrentDownloads)
	assert.True(t, cfg.Security.ValidateExtensionID)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestWriteSampleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.json")
	require.NoError(t, WriteSample(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDurationHelpers(t *testing.T) {
	d := DownloadConfig{TimeoutSeconds: 30, RetryDelaySeconds: 2, MaxFileSizeMB: 100}
	assert.Equal(t, "30s", d.Timeout().String())
	assert.Equal(t, "2s", d.RetryDelay().String())
	assert.Equal(t, int64(100*1024*1024), d.MaxFileSize())
}
