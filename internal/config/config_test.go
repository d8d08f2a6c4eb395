package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, "moderate", cfg.Optimizer.DefaultAggressiveness)
	assert.Equal(t, 3, cfg.Optimizer.MaxWordsAddedPerLine)
	assert.Equal(t, 5, cfg.Redis.DialTimeoutSeconds)
}

func TestLoadFromFile(t *testing.T) {
	content := `
server:
  address: ":9090"
cache:
  backend: redis
redis:
  address: "redis:6379"
  db: 2
optimizer:
  default_aggressiveness: aggressive
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "aggressive", cfg.Optimizer.DefaultAggressiveness)

	// 未覆盖的字段保留默认值
	assert.Equal(t, "resume-uploads", cfg.MinIO.UploadBucket)
}

func TestLoadExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("MINIO_ACCESS_KEY", "ak")
	t.Setenv("MINIO_SECRET_KEY", "sk")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("redis:\n  password: fromfile\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, "ak", cfg.MinIO.AccessKeyID)
	assert.Equal(t, "sk", cfg.MinIO.SecretAccessKey)
}
