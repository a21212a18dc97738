package gochurch

import "github.com/sandrolain/gochurch/pkg/engine"

// Option re-exports so that callers of the facade need a single import.
var (
	WithCaching      = engine.WithCaching
	WithCacheSize    = engine.WithCacheSize
	WithCache        = engine.WithCache
	WithMaxDepth     = engine.WithMaxDepth
	WithMaxPeekSteps = engine.WithMaxPeekSteps
	WithStrictStack  = engine.WithStrictStack
	WithRequireMain  = engine.WithRequireMain
	WithTimeout      = engine.WithTimeout
	WithPeekOutput   = engine.WithPeekOutput
	WithDebug        = engine.WithDebug
	WithLogger       = engine.WithLogger
	WithConfig       = engine.WithConfig
)
