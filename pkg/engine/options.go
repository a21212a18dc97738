package engine

import (
	"io"
	"log/slog"
	"time"

	"github.com/sandrolain/gochurch/pkg/cache"
	"github.com/sandrolain/gochurch/pkg/config"
)

// Options configures an Engine.
type Options struct {
	// Caching enables caching of compiled programs by source text.
	Caching bool
	// CacheSize sets the maximum number of cached programs.
	// Only used when Caching is true and no explicit Cache is provided.
	// Defaults to 256.
	CacheSize int
	// Cache is a custom program cache. If non-nil, Caching is implicitly enabled.
	Cache *cache.Cache
	// MaxDepth limits the nesting of applications at run time.
	MaxDepth int
	// MaxPeekSteps bounds introspector readback work. Zero scales the
	// budget with the peeked value's size.
	MaxPeekSteps int
	// StrictStack rejects runs that leave values under the result.
	StrictStack bool
	// RequireMain rejects programs without a main expression.
	RequireMain bool
	// Timeout bounds a single run. Zero disables it.
	Timeout time.Duration
	// PeekOutput receives the lines printed by peeks. Defaults to os.Stdout.
	PeekOutput io.Writer
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// Option configures engine behavior.
type Option func(*Options)

// WithCaching enables or disables program caching.
// When enabled, a default LRU cache of 256 entries is created.
// To control the cache size use WithCacheSize; to supply your own cache use WithCache.
func WithCaching(enabled bool) Option {
	return func(opts *Options) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached programs.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) Option {
	return func(opts *Options) {
		opts.CacheSize = size
	}
}

// WithCache attaches an external program cache.
// The engine will use this cache regardless of the Caching flag.
func WithCache(c *cache.Cache) Option {
	return func(opts *Options) {
		opts.Cache = c
	}
}

// WithMaxDepth sets the maximum application depth.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}

// WithMaxPeekSteps sets the introspector's readback budget.
// Zero keeps the default, which grows with the size of the peeked value.
// A positive budget is a hard limit; values that need more steps print as
// "<not a number>" or "<not a boolean>".
func WithMaxPeekSteps(steps int) Option {
	return func(opts *Options) {
		opts.MaxPeekSteps = steps
	}
}

// WithStrictStack sets the end-of-run stack policy.
func WithStrictStack(enable bool) Option {
	return func(opts *Options) {
		opts.StrictStack = enable
	}
}

// WithRequireMain sets the empty-program policy.
func WithRequireMain(enable bool) Option {
	return func(opts *Options) {
		opts.RequireMain = enable
	}
}

// WithTimeout sets the run timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithPeekOutput sets the writer for peek output.
func WithPeekOutput(w io.Writer) Option {
	return func(opts *Options) {
		opts.PeekOutput = w
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) Option {
	return func(opts *Options) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithConfig applies every setting of cfg.
func WithConfig(cfg config.Config) Option {
	return func(opts *Options) {
		opts.MaxDepth = cfg.MaxDepth
		opts.MaxPeekSteps = cfg.MaxPeekSteps
		opts.StrictStack = cfg.StrictStack
		opts.RequireMain = cfg.RequireMain
		opts.Caching = cfg.Caching
		opts.CacheSize = cfg.CacheSize
		opts.Debug = cfg.Debug
		opts.Timeout = cfg.Timeout
	}
}
