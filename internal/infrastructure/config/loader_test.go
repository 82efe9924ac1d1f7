package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ruchi0214/Regexia/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Name    string        `yaml:"name"    env:"SAMPLE_NAME"`
	Port    int           `yaml:"port"    env:"SAMPLE_PORT"`
	Debug   bool          `yaml:"debug"   env:"SAMPLE_DEBUG"`
	TTL     time.Duration `yaml:"ttl"     env:"SAMPLE_TTL"`
	Origins []string      `yaml:"origins" env:"SAMPLE_ORIGINS"`
	Nested  struct {
		Level string `yaml:"level" env:"SAMPLE_LEVEL"`
	} `yaml:"nested"`
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_YAMLOnly(t *testing.T) {
	path := writeConfig(t, "name: regexia\nport: 8080\nnested:\n  level: info\n")

	cfg, err := config.Load[sampleConfig](path)
	require.NoError(t, err)
	assert.Equal(t, "regexia", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.Nested.Level)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, "name: regexia\nport: 8080\n")
	t.Setenv("SAMPLE_PORT", "9090")
	t.Setenv("SAMPLE_DEBUG", "yes")
	t.Setenv("SAMPLE_TTL", "90s")
	t.Setenv("SAMPLE_ORIGINS", "a, b")
	t.Setenv("SAMPLE_LEVEL", "debug")

	cfg, err := config.Load[sampleConfig](path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 90*time.Second, cfg.TTL)
	assert.Equal(t, []string{"a", "b"}, cfg.Origins)
	assert.Equal(t, "debug", cfg.Nested.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load[sampleConfig](filepath.Join(t.TempDir(), "nope.yml"))
	require.ErrorIs(t, err, config.ErrConfigNotFound)
}

func TestLoadWithDefaults_EnvWinsOverDefaults(t *testing.T) {
	path := writeConfig(t, "name: regexia\n")
	t.Setenv("SAMPLE_PORT", "7000")

	cfg, err := config.LoadWithDefaults(path, func(c *sampleConfig) {
		if c.Port == 0 {
			c.Port = 8070
		}
		c.Name = "overwritten"
	})
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "overwritten", cfg.Name)
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "config.yml", config.GetConfigPath("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/regexia.yml")
	assert.Equal(t, "/etc/regexia.yml", config.GetConfigPath("config.yml"))
}
