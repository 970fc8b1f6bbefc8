package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smolbox.yaml")
	content := `
root: /data/pipeline
store: redis
log_level: debug
redis:
  addr: cache:6379
  db: "2"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/pipeline", cfg.Root)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB, "weakly typed decode")
	assert.Equal(t, "smolbox:", cfg.Redis.Prefix, "unset fields keep defaults")
	assert.Equal(t, ":8080", cfg.Listen)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smolbox.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stroe: redis\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Store = "s3"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Store = StoreRedis
	cfg.Redis.Addr = ""
	assert.Error(t, cfg.Validate())

	assert.NoError(t, Default().Validate())
}

func TestDecode_EmptyDocument(t *testing.T) {
	cfg := Default()
	require.NoError(t, Decode([]byte(""), &cfg))
	assert.Equal(t, Default(), cfg)
}
