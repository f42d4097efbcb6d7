package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "myday", "config.toml")

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "myday", DefaultDBName), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "myday", DefaultLogName), cfg.LogFile)
	assert.Equal(t, DefaultStorageKey, cfg.StorageKey)
	assert.Equal(t, "my-day", cfg.DefaultPage)
	assert.Equal(t, " ", cfg.Keys.Toggle)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadTOMLPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
backend = "redis"
default_page = "planned"
log_file = "stderr"

[redis]
addr = "cache:6379"
db = 2

[keys]
quit = "x"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "planned", cfg.DefaultPage)
	assert.Equal(t, "stderr", cfg.LogFile)
	assert.Equal(t, "x", cfg.Keys.Quit)
	assert.Equal(t, "a", cfg.Keys.Add)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, DefaultDBName), cfg.DBPath)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
backend: memory
db_path: /var/lib/myday/tasks.db
storage_key: tasks
keys:
  star: "*"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, "/var/lib/myday/tasks.db", cfg.DBPath)
	assert.Equal(t, "tasks", cfg.StorageKey)
	assert.Equal(t, "*", cfg.Keys.Star)
	assert.Equal(t, "q", cfg.Keys.Quit)
}

func TestCreateYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	_, err := LoadOrCreate(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("backend = ["), 0o644))

	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestResolveConfigPathFromEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/myday.toml")
	assert.Equal(t, "/etc/myday.toml", ResolveConfigPath())
}
