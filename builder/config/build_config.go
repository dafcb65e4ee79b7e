package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Kush-Singh-26/texsvg/builder/utils"
)

// BuildConfigFile holds tunables that rarely change between projects.
const BuildConfigFile = "texsvg.build.yaml"

// BuildConfig contains all tunable build parameters
type BuildConfig struct {
	RenderWorkers int `yaml:"renderWorkers"` // Concurrent render tasks (default: CPU count, max 12)
	VMPoolSize    int `yaml:"vmPoolSize"`    // Engine VM instances (default: 4)

	CacheDBTimeout   time.Duration `yaml:"cacheDBTimeout"`   // BoltDB lock timeout (default: 10s)
	DebounceDuration time.Duration `yaml:"debounceDuration"` // File watcher debounce (default: 500ms)
	// RenderTimeout bounds the whole drain phase; zero waits forever.
	RenderTimeout time.Duration `yaml:"renderTimeout"`
}

// DefaultBuildConfig returns the default build configuration
func DefaultBuildConfig() *BuildConfig {
	return &BuildConfig{
		RenderWorkers:    utils.GetDefaultWorkerCount(),
		VMPoolSize:       4,
		CacheDBTimeout:   10 * time.Second,
		DebounceDuration: 500 * time.Millisecond,
	}
}

// LoadBuildConfig loads texsvg.build.yaml from the working directory.
// Returns defaults if the file doesn't exist or doesn't parse.
func LoadBuildConfig() *BuildConfig {
	cfg := DefaultBuildConfig()

	data, err := os.ReadFile(BuildConfigFile)
	if err != nil {
		return cfg
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultBuildConfig()
	}

	cfg.validate()
	return cfg
}

// validate clamps values into workable bounds
func (c *BuildConfig) validate() {
	if c.RenderWorkers < 1 {
		c.RenderWorkers = 1
	}
	if c.RenderWorkers > utils.MaxWorkers {
		c.RenderWorkers = utils.MaxWorkers
	}
	if c.VMPoolSize < 1 {
		c.VMPoolSize = 1
	}
	if c.VMPoolSize > 64 {
		c.VMPoolSize = 64
	}

	if c.CacheDBTimeout < 1*time.Second {
		c.CacheDBTimeout = 1 * time.Second
	}
	if c.DebounceDuration < 10*time.Millisecond {
		c.DebounceDuration = 10 * time.Millisecond
	}
	if c.DebounceDuration > 5*time.Second {
		c.DebounceDuration = 5 * time.Second
	}
	if c.RenderTimeout < 0 {
		c.RenderTimeout = 0
	}
}
