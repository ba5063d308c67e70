package compiler

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Config configures a Compiler. Zero fields are filled from the default tags.
type Config struct {
	// Convention is assigned to every node built: "logical" or "physical".
	// Empty means logical.
	Convention string      `yaml:"convention" default:"logical"`
	Cache      CacheConfig `yaml:"cache"`
}

// CacheConfig sizes the per-statement plan cache. The cache is off when any
// field is zero or negative.
//
// InitialCapacity and ConcurrencyLevel only take part in that check: the
// cache sizes its own shards and grows on demand.
type CacheConfig struct {
	InitialCapacity  int           `yaml:"initial_capacity" default:"64"`
	ConcurrencyLevel int           `yaml:"concurrency_level" default:"4"`
	MaximumSize      int64         `yaml:"maximum_size" default:"1024"`
	ExpireAfterWrite time.Duration `yaml:"expire_after_write" default:"10m"`
}

// Enabled reports whether the configuration asks for a cache.
func (c CacheConfig) Enabled() bool {
	return c.InitialCapacity > 0 && c.ConcurrencyLevel > 0 && c.MaximumSize > 0 && c.ExpireAfterWrite > 0
}

func DefaultConfig() Config {
	var cfg Config
	defaults.MustSet(&cfg)
	return cfg
}

// LoadConfig reads a YAML file on top of DefaultConfig. Keys present in the
// file win, including explicit zeros.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read compiler config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse compiler config %s: %w", path, err)
	}
	return cfg, nil
}
