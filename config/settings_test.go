package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), *settings)
}

func TestLoadSettings_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `
listing:
  min_title_length: 10
  max_title_length: 40
listing_rules:
  guests_min_count: 2
cache:
  local_ttl: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, 10, settings.Listing.MinTitleLength)
	assert.Equal(t, 40, settings.Listing.MaxTitleLength)
	assert.Equal(t, 2, settings.ListingRules.GuestsMinCount)
	assert.Equal(t, time.Minute, settings.Cache.LocalTTL)
	// Los valores no presentes conservan el default
	assert.Equal(t, DefaultSettings().EmailSender, settings.EmailSender)
}

func TestLoadSettings_InvalidRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listing:\n  min_title_length: 50\n  max_title_length: 10\n"), 0o644))

	_, err := LoadSettings(path)

	assert.Error(t, err)
}

func TestLoadConfig_RejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE", "cassandra")
	t.Setenv("SETTINGS_FILE", filepath.Join(t.TempDir(), "none.yaml"))

	_, err := LoadConfig()

	assert.ErrorContains(t, err, "STORAGE")
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SETTINGS_FILE", filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("STORAGE", "file")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Storage)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "notification_requests", cfg.NotificationQueue)
}
