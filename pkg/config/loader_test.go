package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formx/pkg/config"
)

type defaultsConfig struct {
	Language string `env:"CONFIG_TEST_LANGUAGE" envDefault:"en"`
	Retries  int    `env:"CONFIG_TEST_RETRIES" envDefault:"3"`
	Verbose  bool   `env:"CONFIG_TEST_VERBOSE" envDefault:"true"`
}

type successConfig struct {
	Language string   `env:"CONFIG_TEST_SUCCESS_LANGUAGE"`
	Keys     []string `env:"CONFIG_TEST_SUCCESS_KEYS" envSeparator:","`
}

type cachedConfig struct {
	Value string `env:"CONFIG_TEST_CACHED" envDefault:"initial"`
}

type requiredConfig struct {
	Value string `env:"CONFIG_TEST_REQUIRED,required"`
}

type envFileConfig struct {
	Label    string `env:"CONFIG_TEST_FILE_LABEL"`
	Priority string `env:"CONFIG_TEST_FILE_PRIORITY"`
}

type prefixedConfig struct {
	Label string `env:"LABEL" envDefault:"This field"`
	Skip  bool   `env:"SKIP"`
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultValues(t *testing.T) {
	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, 3, cfg.Retries)
	assert.True(t, cfg.Verbose)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CONFIG_TEST_SUCCESS_LANGUAGE", "de")
	t.Setenv("CONFIG_TEST_SUCCESS_KEYS", "required,email")

	var cfg successConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, []string{"required", "email"}, cfg.Keys)
}

func TestLoad_Cached(t *testing.T) {
	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "initial", first.Value)

	t.Setenv("CONFIG_TEST_CACHED", "changed")

	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "initial", second.Value, "served from cache")

	var reloaded cachedConfig
	require.NoError(t, config.Reload(&reloaded))
	assert.Equal(t, "changed", reloaded.Value)
}

func TestLoad_MissingRequired(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.ErrorIs(t, err, config.ErrParsingConfig)

	t.Setenv("CONFIG_TEST_REQUIRED", "present")
	require.NoError(t, config.Load(&cfg), "a failed load can be retried")
	assert.Equal(t, "present", cfg.Value)
}

func TestLoad_NilPointer(t *testing.T) {
	assert.ErrorIs(t, config.Load[defaultsConfig](nil), config.ErrNilPointer)
	assert.ErrorIs(t, config.Parse[defaultsConfig](nil), config.ErrNilPointer)
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on failure", func(t *testing.T) {
		type mustConfig struct {
			Value string `env:"CONFIG_TEST_MUST,required"`
		}
		var cfg mustConfig
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})

	t.Run("loads valid config", func(t *testing.T) {
		var cfg defaultsConfig
		assert.NotPanics(t, func() { config.MustLoad(&cfg) })
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("prefix and explicit environment", func(t *testing.T) {
		t.Parallel()

		var cfg prefixedConfig
		err := config.Parse(&cfg,
			config.WithPrefix("FORMX_"),
			config.WithEnvironment(map[string]string{"FORMX_SKIP": "true", "SKIP": "false"}),
		)
		require.NoError(t, err)
		assert.Equal(t, "This field", cfg.Label)
		assert.True(t, cfg.Skip)
	})

	t.Run("required if no default", func(t *testing.T) {
		t.Parallel()

		var cfg prefixedConfig
		err := config.Parse(&cfg, config.WithEnvironment(map[string]string{}), config.WithRequiredIfNoDefault())
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestLoadEnv(t *testing.T) {
	t.Run("reads files without overriding", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_FILE_PRIORITY", "process")
		path := writeEnvFile(t, "CONFIG_TEST_FILE_LABEL=\"Full name\"\nCONFIG_TEST_FILE_PRIORITY=file\n")
		t.Cleanup(func() { os.Unsetenv("CONFIG_TEST_FILE_LABEL") })

		require.NoError(t, config.LoadEnv(path))

		var cfg envFileConfig
		require.NoError(t, config.Parse(&cfg))
		assert.Equal(t, "Full name", cfg.Label)
		assert.Equal(t, "process", cfg.Priority)
	})

	t.Run("overload replaces existing values", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_FILE_PRIORITY", "process")
		path := writeEnvFile(t, "CONFIG_TEST_FILE_PRIORITY=file\n")

		require.NoError(t, config.OverloadEnv(path))

		var cfg envFileConfig
		require.NoError(t, config.Parse(&cfg))
		assert.Equal(t, "file", cfg.Priority)
	})

	t.Run("missing file", func(t *testing.T) {
		err := config.LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
		assert.Panics(t, func() { config.MustLoadEnv(filepath.Join(t.TempDir(), "missing.env")) })
	})
}

func TestResetCache(t *testing.T) {
	type resetConfig struct {
		Value string `env:"CONFIG_TEST_RESET" envDefault:"before"`
	}

	var cfg resetConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "before", cfg.Value)

	t.Setenv("CONFIG_TEST_RESET", "after")
	config.ResetCache()

	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "after", cfg.Value)
}
