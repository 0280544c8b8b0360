package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/config"
)

type serverSection struct {
	Port    int           `env:"TEST_SERVER_PORT"    yaml:"port"`
	Timeout time.Duration `env:"TEST_SERVER_TIMEOUT" yaml:"timeout"`
}

type sampleConfig struct {
	Name    string        `env:"TEST_APP_NAME" yaml:"name"`
	Debug   bool          `env:"TEST_DEBUG"    yaml:"debug"`
	Origins []string      `env:"TEST_ORIGINS"  yaml:"origins"`
	Server  serverSection `yaml:"server"`
}

func writeFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_YAMLWithEnvOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("TEST_SERVER_PORT", "9090")
	t.Setenv("TEST_DEBUG", "yes")
	t.Setenv("TEST_ORIGINS", "http://a.test, http://b.test")

	path := writeFile(t, "name: tracker\nserver:\n  port: 8080\n  timeout: 5s\n")

	cfg, err := config.Load[sampleConfig](path)
	require.NoError(t, err)

	assert.Equal(t, "tracker", cfg.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	_, err := config.Load[sampleConfig](filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfigNotFound))
}

func TestLoadWithDefaults_EnvWinsOverDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("TEST_SERVER_TIMEOUT", "45s")

	cfg, err := config.LoadWithDefaults(filepath.Join(t.TempDir(), "nope.yml"), func(c *sampleConfig) {
		if c.Server.Port == 0 {
			c.Server.Port = 8060
		}
		c.Server.Timeout = time.Second
	})
	require.NoError(t, err)

	assert.Equal(t, 8060, cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
}

func TestLoad_EnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("TEST_APP_NAME=from-env-file\n"), 0o600))
	t.Setenv("ENV_FILE", envPath)
	t.Setenv("TEST_APP_NAME", "")
	require.NoError(t, os.Unsetenv("TEST_APP_NAME"))

	cfg, err := config.Load[sampleConfig](writeFile(t, "name: from-yaml\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env-file", cfg.Name)
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "config.yml", config.GetConfigPath("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/tracker.yml")
	assert.Equal(t, "/etc/tracker.yml", config.GetConfigPath("config.yml"))
}

func TestValidators(t *testing.T) {
	t.Parallel()

	require.NoError(t, config.ValidatePort("server.port", 8080))

	var validationErr *config.ValidationError
	require.ErrorAs(t, config.ValidatePort("server.port", 0), &validationErr)
	assert.Equal(t, "server.port", validationErr.Field)

	require.Error(t, config.ValidateRequired("auth.jwt_secret", "  "))
	require.NoError(t, config.ValidateOneOf("storage.driver", "sqlite", "memory", "postgres", "sqlite"))
	require.EqualError(t, config.ValidateOneOf("storage.driver", "mongo", "memory", "postgres"),
		"storage.driver: must be one of: memory, postgres")
	require.Error(t, config.ValidateLogLevel("logging.level", "verbose"))
}
