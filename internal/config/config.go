package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"cramomatic"
)

// Config holds the settings shared by the CLI, the HTTP server and the Lambda.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Buckets BucketConfig  `yaml:"buckets"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ShutdownTimeout string   `yaml:"shutdown_timeout"`
	AllowedOrigins  []string `yaml:"allowed_origins"` // empty allows any origin
}

// DataConfig points at replacement item and output tables. Both empty means the
// bundled tables.
type DataConfig struct {
	InputsPath  string `yaml:"inputs"`
	OutputsPath string `yaml:"outputs"`
}

// BucketConfig mirrors cramomatic.Config.
type BucketConfig struct {
	FirstMin           int `yaml:"first_min"`
	FirstMax           int `yaml:"first_max"`
	Width              int `yaml:"width"`
	Count              int `yaml:"count"`
	MaxIngredientScore int `yaml:"max_ingredient_score"`
}

// CacheConfig configures the option-list cache.
type CacheConfig struct {
	TTL             string `yaml:"ttl"`
	CleanupInterval string `yaml:"cleanup_interval"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	engine := cramomatic.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "5s",
		},
		Buckets: BucketConfig{
			FirstMin:           engine.FirstMin,
			FirstMax:           engine.FirstMax,
			Width:              engine.Width,
			Count:              engine.Count,
			MaxIngredientScore: engine.MaxIngredientScore,
		},
		Cache: CacheConfig{
			TTL:             "10m",
			CleanupInterval: "30m",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults and applies environment overrides.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies CRAMOMATIC_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if addr := os.Getenv("CRAMOMATIC_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if path := os.Getenv("CRAMOMATIC_INPUTS"); path != "" {
		c.Data.InputsPath = path
	}
	if path := os.Getenv("CRAMOMATIC_OUTPUTS"); path != "" {
		c.Data.OutputsPath = path
	}
	if level := os.Getenv("CRAMOMATIC_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if ttl := os.Getenv("CRAMOMATIC_CACHE_TTL"); ttl != "" {
		c.Cache.TTL = ttl
	}
	if v := os.Getenv("CRAMOMATIC_MAX_INGREDIENT_SCORE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CRAMOMATIC_MAX_INGREDIENT_SCORE: %w", err)
		}
		c.Buckets.MaxIngredientScore = n
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("server.shutdown_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		return fmt.Errorf("cache.ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.Cache.CleanupInterval); err != nil {
		return fmt.Errorf("cache.cleanup_interval: %w", err)
	}
	if (c.Data.InputsPath == "") != (c.Data.OutputsPath == "") {
		return errors.New("data.inputs and data.outputs must be set together")
	}
	b := c.Buckets
	if b.Count <= 0 || b.Width <= 0 || b.FirstMin > b.FirstMax || b.MaxIngredientScore < 0 {
		return fmt.Errorf("buckets: invalid scheme %+v", b)
	}
	if _, err := c.Logging.level(); err != nil {
		return err
	}
	return nil
}

// EngineConfig converts the bucket settings for the engine.
func (c *Config) EngineConfig() cramomatic.Config {
	return cramomatic.Config{
		FirstMin:           c.Buckets.FirstMin,
		FirstMax:           c.Buckets.FirstMax,
		Width:              c.Buckets.Width,
		Count:              c.Buckets.Count,
		MaxIngredientScore: c.Buckets.MaxIngredientScore,
	}
}

// Tables loads the configured tables, sharing the bundled ones when nothing is
// overridden.
func (c *Config) Tables() (*cramomatic.Tables, error) {
	engine := c.EngineConfig()
	if c.Data.InputsPath != "" {
		return cramomatic.LoadFiles(c.Data.InputsPath, c.Data.OutputsPath, engine)
	}
	if engine == cramomatic.DefaultConfig() {
		return cramomatic.Default(), nil
	}
	return cramomatic.LoadEmbedded(engine)
}

// GetShutdownTimeout returns the server shutdown timeout as a duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// GetCacheTTL returns how long option lists stay cached.
func (c *Config) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// GetCacheCleanupInterval returns how often expired option lists are purged.
func (c *Config) GetCacheCleanupInterval() time.Duration {
	d, err := time.ParseDuration(c.Cache.CleanupInterval)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}
