// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// load runs the same layering as the serve command: .env, environment, flags
func load(args []string) (Config, error) {
	cfg, err := LoadEnv(".env")
	if err != nil {
		return Config{}, err
	}

	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	BindFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := load([]string{})
	require.NoError(t, err)

	assert.Equal(t, 3318, cfg.Port)
	assert.Equal(t, "pollwidget.db", cfg.DatabaseURL)
	assert.Equal(t, DatabaseSQLite, cfg.DatabaseType)
	assert.Equal(t, 256, cfg.CacheSize)
	assert.Equal(t, "pollwidget.invalidate", cfg.NATSSubject)
	assert.Empty(t, cfg.NATSURL)
}

func TestLoad_EnvVars(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("CACHE_SIZE", "10")

	cfg, err := load([]string{})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://test", cfg.DatabaseURL)
	assert.Equal(t, DatabasePostgres, cfg.DatabaseType)
	assert.Equal(t, 10, cfg.CacheSize)
}

func TestLoad_CLIOverridesEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")

	cfg, err := load([]string{"-p", "8080", "-d", "file:test.db", "--log-format", "json"})
	require.NoError(t, err)

	// CLI should override env
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "file:test.db", cfg.DatabaseURL)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CACHE_SIZE=42\nNATS_URL=nats://localhost:4222\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("CACHE_SIZE")
		os.Unsetenv("NATS_URL")
	})

	cfg, err := load(nil)
	require.NoError(t, err)

	assert.Equal(t, 42, cfg.CacheSize)
	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())

	testCases := []struct {
		name string
		args []string
	}{
		{"UnknownDatabase", []string{"-t", "mysql"}},
		{"ZeroCache", []string{"--cache-size", "0"}},
		{"BadPort", []string{"-p", "70000"}},
		{"BadLogFormat", []string{"--log-format", "xml"}},
		{"EmptyDatabaseURL", []string{"-d", " "}},
		{"UnknownFlag", []string{"--admin-salt", "x"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(tc.args)
			assert.Error(t, err)
		})
	}
}

func TestLoadEnv_MissingFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadEnv("does-not-exist.env")
	require.NoError(t, err)
	assert.Equal(t, 3318, cfg.Port)
}

func TestConfig_Logger(t *testing.T) {
	cfg := Config{LogLevel: "debug", LogFormat: "json"}
	logger := cfg.Logger()
	require.NotNil(t, logger)
	assert.True(t, logger.Handler().Enabled(t.Context(), -4))
}
