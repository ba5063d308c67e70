package compiler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	want := Config{
		Convention: "logical",
		Cache: CacheConfig{
			InitialCapacity:  64,
			ConcurrencyLevel: 4,
			MaximumSize:      1024,
			ExpireAfterWrite: 10 * time.Minute,
		},
	}
	if diff := cmp.Diff(want, DefaultConfig()); diff != "" {
		t.Errorf("DefaultConfig() mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, want.Cache.Enabled())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compiler.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
convention: physical
cache:
  maximum_size: 0
  expire_after_write: 30s
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "physical", cfg.Convention)
	assert.Equal(t, int64(0), cfg.Cache.MaximumSize)
	assert.Equal(t, 30*time.Second, cfg.Cache.ExpireAfterWrite)
	assert.Equal(t, 64, cfg.Cache.InitialCapacity, "keys missing from the file keep their default")
	assert.False(t, cfg.Cache.Enabled())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCacheEnabled(t *testing.T) {
	base := DefaultConfig().Cache
	tests := map[string]func(c *CacheConfig){
		"initial capacity":   func(c *CacheConfig) { c.InitialCapacity = 0 },
		"concurrency level":  func(c *CacheConfig) { c.ConcurrencyLevel = -1 },
		"maximum size":       func(c *CacheConfig) { c.MaximumSize = 0 },
		"expire after write": func(c *CacheConfig) { c.ExpireAfterWrite = -time.Second },
	}
	for name, disable := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := base
			disable(&cfg)
			assert.False(t, cfg.Enabled())
		})
	}
}
