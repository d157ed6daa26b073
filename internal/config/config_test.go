package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "babylog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 18, cfg.Tracking.DayNightStartHour)
	assert.Equal(t, 6, cfg.Tracking.DayNightEndHour)
	assert.Equal(t, "2006-01-02 15:04", cfg.Tracking.DateFormat)
	assert.Equal(t, 15*time.Minute, cfg.Tracking.FeedSessionGap)
	assert.Equal(t, 2, cfg.Tracking.LongestN)
	assert.Equal(t, 7, cfg.Tracking.TimelineDays)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("BABYLOG_CONFIG", "")
	path := writeConfig(t, `
tracking:
  day_night_start_hour: 19
  birthdate: "2024-02-10"
  feed_session_gap: 20m
server:
  addr: "0.0.0.0:9090"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 19, cfg.Tracking.DayNightStartHour)
	assert.Equal(t, 6, cfg.Tracking.DayNightEndHour, "keys absent from the file keep their defaults")
	assert.Equal(t, "2024-02-10", cfg.Tracking.Birthdate)
	assert.Equal(t, 20*time.Minute, cfg.Tracking.FeedSessionGap)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
tracking:
  longest_n: 3
store:
  path: /tmp/from-file.db
`)
	t.Setenv("BABYLOG_TRACKING_LONGEST_N", "4")
	t.Setenv("BABYLOG_STORE_PATH", "/tmp/from-env.db")
	t.Setenv("BABYLOG_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Tracking.LongestN)
	assert.Equal(t, "/tmp/from-env.db", cfg.DBPath())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_ConfigFromEnvVar(t *testing.T) {
	path := writeConfig(t, "tracking:\n  timeline_days: 14\n")
	t.Setenv("BABYLOG_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.Tracking.TimelineDays)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("BABYLOG_CONFIG", "")

	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "tracking:\n  bogus: 1\n"},
		{"hour out of range", "tracking:\n  day_night_start_hour: 24\n"},
		{"equal boundaries", "tracking:\n  day_night_start_hour: 6\n"},
		{"night window does not wrap midnight", "tracking:\n  day_night_start_hour: 6\n  day_night_end_hour: 18\n"},
		{"bad birthdate", "tracking:\n  birthdate: \"10/02/2024\"\n"},
		{"bad log level", "logging:\n  level: verbose\n"},
		{"missing percentiles file", "tracking:\n  percentiles_file: /does/not/exist.csv\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("BABYLOG_CONFIG", "")
	t.Setenv("BABYLOG_TRACKING_FEED_SESSION_GAP", "soon")

	_, err := Load(writeConfig(t, ""))
	assert.Error(t, err)
}

func TestDBPath_Default(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	assert.Equal(t, filepath.Join(home, ".babylog", "babylog.db"), cfg.DBPath())
}
