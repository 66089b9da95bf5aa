package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/some/path"},
		Metadata: MetadataConfig{
			MaxResults:        10,
			LookupConcurrency: 4,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validTestConfig()
	assert.NoError(t, cfg.Validate())
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
			cfg := validTestConfig()
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

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},  // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validTestConfig()
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

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validTestConfig()
	cfg.Data.BasePath = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_MetadataBounds(t *testing.T) {
	cfg := validTestConfig()
	cfg.Metadata.MaxResults = 0
	assert.Error(t, cfg.Validate())

	cfg = validTestConfig()
	cfg.Metadata.MaxResults = 41
	assert.Error(t, cfg.Validate())

	cfg = validTestConfig()
	cfg.Metadata.LookupConcurrency = 0
	assert.Error(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := expandPath("~/books", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "books"), expanded)

	expanded, err = expandPath("", "/fallback")
	require.NoError(t, err)
	assert.Equal(t, "/fallback", expanded)

	expanded, err = expandPath("/abs/path/../path", "")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", expanded)
}

func TestDerivedPaths(t *testing.T) {
	cfg := validTestConfig()
	cfg.Data.BasePath = "/data"

	assert.Equal(t, "/data/shelflog.db", cfg.DatabasePath())
	assert.Equal(t, "/data/search.bleve", cfg.SearchIndexPath())
	assert.Equal(t, filepath.Join("/data", "cache", "metadata"), cfg.MetadataCachePath())
}

func TestGetConfigValuePrecedence(t *testing.T) {
	t.Setenv("SHELFLOG_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "SHELFLOG_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "SHELFLOG_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "SHELFLOG_TEST_MISSING", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	assert.True(t, getBoolConfigValue("true", "X", false))
	assert.True(t, getBoolConfigValue("YES", "X", false))
	assert.True(t, getBoolConfigValue("1", "X", false))
	assert.False(t, getBoolConfigValue("no", "X", true))
	assert.True(t, getBoolConfigValue("", "X_UNSET", true))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nSHELFLOG_ENVFILE_KEY=hello\nQUOTED=\"quoted value\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("SHELFLOG_ENVFILE_KEY", "")
	os.Unsetenv("SHELFLOG_ENVFILE_KEY")
	t.Setenv("QUOTED", "")
	os.Unsetenv("QUOTED")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "hello", os.Getenv("SHELFLOG_ENVFILE_KEY"))
	assert.Equal(t, "quoted value", os.Getenv("QUOTED"))
}

func TestReadEnvValue(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("LOG_LEVEL=debug\n"), 0o600))

	val, ok := readEnvValue(envPath, "LOG_LEVEL")
	assert.True(t, ok)
	assert.Equal(t, "debug", val)

	_, ok = readEnvValue(envPath, "MISSING")
	assert.False(t, ok)
}
