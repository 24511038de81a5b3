package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("server", "", "")
	fs.String("storage", "", "")
	fs.String("db", "", "")
	fs.String("redis-addr", "", "")
	fs.String("log-level", "", "")
	fs.String("metrics-addr", "", "")
	return fs
}

func defaults() *Config {
	var c Config
	c.LoadDefaults()
	return &c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://localhost:5000/api", c.Server.URL)
	assert.Equal(t, 30*time.Second, c.Server.Timeout)
	assert.Equal(t, "sqlite", c.Storage.Backend)
	assert.Equal(t, "error", c.Log.Level)
	assert.Empty(t, c.Metrics.Addr)
}

func TestLoad_NoSourcesYieldsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", newFlagSet())
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoad_FileThenEnvThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  url: http://file.example/api
  timeout: 5s
storage:
  backend: redis
  redis_addr: file:6379
log:
  level: info
`), 0o600))

	t.Setenv("PETALERT_LOG_LEVEL", "debug")
	t.Setenv("PETALERT_STORAGE_REDIS_ADDR", "env:6379")

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--redis-addr", "flag:6379"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "http://file.example/api", cfg.Server.URL)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "debug", cfg.Log.Level, "env overrides file")
	assert.Equal(t, "flag:6379", cfg.Storage.RedisAddr, "flag overrides env")
	assert.Equal(t, "petalert.db", cfg.Storage.Path, "untouched keys keep defaults")
}

func TestLoad_JSONFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "petalert.json"),
		[]byte(`{"server":{"url":"http://json.example/api"}}`), 0o600))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://json.example/api", cfg.Server.URL)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yaml"), nil)
		require.Error(t, err)
	})

	t.Run("invalid file", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		_, err := Load(bad, nil)
		require.Error(t, err)
	})

	t.Run("empty server url", func(t *testing.T) {
		t.Chdir(dir)
		fs := newFlagSet()
		require.NoError(t, fs.Parse([]string{"--server="}))
		_, err := Load("", fs)
		require.Error(t, err)
	})
}
