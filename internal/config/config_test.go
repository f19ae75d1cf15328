package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{Backend: BackendBadger, DataPath: "/data"},
		Progression: ProgressionConfig{
			Timezone:        "UTC",
			Location:        time.UTC,
			MaxSaveAttempts: 5,
		},
		Leaderboard: LeaderboardConfig{DefaultLimit: 50, MaxLimit: 100},
		RateLimit:   RateLimitConfig{RequestsPerSecond: 20, Burst: 40},
	}
}

// noEnvFile points -env-file somewhere empty so a stray .env in the package dir can't leak in.
func noEnvFile(t *testing.T) string {
	t.Helper()
	return "-env-file=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "postgres" }, "invalid storage backend"},
		{"empty data path", func(c *Config) { c.Storage.DataPath = "" }, "data path"},
		{"zero save attempts", func(c *Config) { c.Progression.MaxSaveAttempts = 0 }, "max save attempts"},
		{"zero default limit", func(c *Config) { c.Leaderboard.DefaultLimit = 0 }, "leaderboard limits"},
		{"max below default", func(c *Config) { c.Leaderboard.MaxLimit = 10 }, "leaderboard limits"},
		{"zero rps", func(c *Config) { c.RateLimit.RequestsPerSecond = 0 }, "rate limit"},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }, "rate limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]string{noEnvFile(t)})
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, time.Duration(0), cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, BackendBadger, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(home, "LevelUp", "data"), cfg.Storage.DataPath)
	assert.Equal(t, time.UTC, cfg.Progression.Location)
	assert.Equal(t, 5, cfg.Progression.MaxSaveAttempts)
	assert.Empty(t, cfg.Progression.LevelsFile)
	assert.Empty(t, cfg.Progression.TasksFile)
	assert.Equal(t, 50, cfg.Leaderboard.DefaultLimit)
	assert.Equal(t, 100, cfg.Leaderboard.MaxLimit)
	assert.InDelta(t, 20.0, cfg.RateLimit.RequestsPerSecond, 0.001)
	assert.Equal(t, 40, cfg.RateLimit.Burst)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("STORAGE_BACKEND", "badger")
	t.Setenv("LEADERBOARD_MAX_LIMIT", "200")

	cfg, err := Load([]string{noEnvFile(t), "-port=7000", "-storage-backend=SQLite", "-data-path=/tmp/levelup"})
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/levelup", cfg.Storage.DataPath)
	assert.Equal(t, 200, cfg.Leaderboard.MaxLimit)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	content := "# comment\nLOG_LEVEL=debug\nCORS_ORIGINS=\"https://a.example, https://b.example\"\nMAX_SAVE_ATTEMPTS=9\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	// Registered empty so the file can fill them and t.Setenv restores them afterwards.
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("MAX_SAVE_ATTEMPTS", "")

	cfg, err := Load([]string{"-env-file=" + envPath})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 9, cfg.Progression.MaxSaveAttempts)
}

func TestLoad_EnvBeatsEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load([]string{"-env-file=" + envPath})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"timezone", []string{"-timezone=Not/AZone"}},
		{"duration", []string{"-read-timeout=soon"}},
		{"backend", []string{"-storage-backend=mongo"}},
		{"env", []string{"-env=qa"}},
		{"unknown flag", []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(append([]string{noEnvFile(t)}, tt.args...))
			assert.Error(t, err)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/levels.yaml", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "levels.yaml"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("relative/dir", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestGetIntConfigValue_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("TEST_INT_VALUE", "abc")
	assert.Equal(t, 7, getIntConfigValue("", "TEST_INT_VALUE", 7))
	assert.Equal(t, 3, getIntConfigValue("3", "TEST_INT_VALUE", 7))
}
