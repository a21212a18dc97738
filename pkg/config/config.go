// Package config loads engine settings from YAML files and GOCHURCH_*
// environment variables.
//
//	max_depth: 20000
//	max_peek_steps: 100000
//	strict_stack: false
//	require_main: false
//	caching: true
//	cache_size: 512
//	debug: false
//	timeout: 5s
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables read by FromEnv.
const (
	EnvMaxDepth     = "GOCHURCH_MAX_DEPTH"
	EnvMaxPeekSteps = "GOCHURCH_MAX_PEEK_STEPS"
	EnvStrictStack  = "GOCHURCH_STRICT_STACK"
	EnvRequireMain  = "GOCHURCH_REQUIRE_MAIN"
	EnvCaching      = "GOCHURCH_CACHING"
	EnvCacheSize    = "GOCHURCH_CACHE_SIZE"
	EnvDebug        = "GOCHURCH_DEBUG"
	EnvTimeout      = "GOCHURCH_TIMEOUT"
	EnvConfigFile   = "GOCHURCH_CONFIG"
)

// Config holds engine settings.
type Config struct {
	MaxDepth     int           `yaml:"max_depth"`
	MaxPeekSteps int           `yaml:"max_peek_steps"` // 0 scales with the peeked value
	StrictStack  bool          `yaml:"strict_stack"`
	RequireMain  bool          `yaml:"require_main"`
	Caching      bool          `yaml:"caching"`
	CacheSize    int           `yaml:"cache_size"`
	Debug        bool          `yaml:"debug"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxDepth:     10000,
		MaxPeekSteps: 0,
		CacheSize:    256,
	}
}

// Load reads a YAML file on top of Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return cfg, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return cfg, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	return cfg, cfg.Validate()
}

// FromEnv applies GOCHURCH_* overrides to base. Variables that are not set
// leave the corresponding field untouched. The process environment is
// re-read on every call.
func FromEnv(base Config) (Config, error) {
	env.Load()
	cfg := base
	cfg.MaxDepth = env.Int(EnvMaxDepth, cfg.MaxDepth)
	cfg.MaxPeekSteps = env.Int(EnvMaxPeekSteps, cfg.MaxPeekSteps)
	cfg.CacheSize = env.Int(EnvCacheSize, cfg.CacheSize)
	if env.Has(EnvStrictStack) {
		cfg.StrictStack = env.Bool(EnvStrictStack)
	}
	if env.Has(EnvRequireMain) {
		cfg.RequireMain = env.Bool(EnvRequireMain)
	}
	if env.Has(EnvCaching) {
		cfg.Caching = env.Bool(EnvCaching)
	}
	if env.Has(EnvDebug) {
		cfg.Debug = env.Bool(EnvDebug)
	}
	if s := strings.TrimSpace(env.Str(EnvTimeout)); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return base, fmt.Errorf("config: %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	return cfg, cfg.Validate()
}

// Resolve loads the file named by GOCHURCH_CONFIG, if any, and applies the
// environment overrides.
func Resolve() (Config, error) {
	env.Load()
	cfg := Default()
	if path := env.Str(EnvConfigFile); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	return FromEnv(cfg)
}

// Validate rejects negative limits.
func (c Config) Validate() error {
	switch {
	case c.MaxDepth < 0:
		return fmt.Errorf("config: max_depth must be >= 0, got %d", c.MaxDepth)
	case c.MaxPeekSteps < 0:
		return fmt.Errorf("config: max_peek_steps must be >= 0, got %d", c.MaxPeekSteps)
	case c.CacheSize < 0:
		return fmt.Errorf("config: cache_size must be >= 0, got %d", c.CacheSize)
	case c.Timeout < 0:
		return fmt.Errorf("config: timeout must be >= 0, got %s", c.Timeout)
	}
	return nil
}
