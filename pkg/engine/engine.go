// Package engine ties the parser, compiler and VM together.
//
// An Engine is safe for concurrent use: compiled programs are immutable and
// every run gets its own VM.
//
// # Example
//
//	eng := engine.New(engine.WithCaching(true))
//	result, err := eng.Eval(ctx, "ADD (\\f.\\x.f (f x)) (\\f.\\x.f (f (f x)))")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(eng.Peek(result, types.PeekNumber)) // 5
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sandrolain/gochurch/pkg/cache"
	"github.com/sandrolain/gochurch/pkg/compiler"
	"github.com/sandrolain/gochurch/pkg/parser"
	"github.com/sandrolain/gochurch/pkg/types"
	"github.com/sandrolain/gochurch/pkg/vm"
)

// Engine compiles and runs gochurch programs.
type Engine struct {
	opts   Options
	logger *slog.Logger
	cache  *cache.Cache // non-nil when caching is enabled
	peek   vm.Introspector
}

// New creates an Engine with default options.
func New(opts ...Option) *Engine {
	options := Options{
		MaxDepth: 10000,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	var c *cache.Cache
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		c = cache.New(options.CacheSize)
	}

	return &Engine{
		opts:   options,
		logger: options.Logger,
		cache:  c,
		peek:   vm.Introspector{MaxSteps: options.MaxPeekSteps},
	}
}

// Cache returns the program cache, or nil if caching is disabled.
func (e *Engine) Cache() *cache.Cache {
	return e.cache
}

// Compile parses and compiles source, consulting the cache when enabled.
func (e *Engine) Compile(source string) (*types.Expression, error) {
	if e.cache == nil {
		return e.compileSource(source)
	}
	key := e.cacheKey(source)
	if expr, ok := e.cache.Get(key); ok {
		if e.opts.Debug {
			e.logger.Debug("cache hit", "bytes", len(source))
		}
		return expr, nil
	}
	if e.opts.Debug {
		e.logger.Debug("cache miss", "bytes", len(source))
	}
	expr, err := e.compileSource(source)
	if err != nil {
		return nil, err
	}
	e.cache.Set(key, expr)
	return expr, nil
}

// CompileProgram compiles an already parsed program. The result is not cached.
func (e *Engine) CompileProgram(program *types.Program) (*types.Expression, error) {
	c := e.newCompiler()
	code, err := c.Compile(program)
	if err != nil {
		return nil, err
	}
	return types.NewExpression(code, "", c.Bindings()), nil
}

// Run evaluates a compiled program on a fresh VM.
func (e *Engine) Run(ctx context.Context, expr *types.Expression) (*vm.Closure, error) {
	if expr == nil {
		return nil, fmt.Errorf("invalid expression")
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	m := vm.New(e.vmOptions()...)
	result, err := m.Run(ctx, expr.Code())
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Eval compiles and runs source.
func (e *Engine) Eval(ctx context.Context, source string) (*vm.Closure, error) {
	expr, err := e.Compile(source)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, expr)
}

// CompileAndRun compiles a parsed program and runs it.
func (e *Engine) CompileAndRun(ctx context.Context, program *types.Program) (*vm.Closure, error) {
	expr, err := e.CompileProgram(program)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, expr)
}

// Peek decodes a value with the engine's introspector settings.
func (e *Engine) Peek(c *vm.Closure, kind types.PeekKind) string {
	return e.peek.Render(c, kind)
}

func (e *Engine) compileSource(source string) (*types.Expression, error) {
	program, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	c := e.newCompiler()
	code, err := c.Compile(program)
	if err != nil {
		return nil, err
	}
	return types.NewExpression(code, source, c.Bindings()), nil
}

func (e *Engine) newCompiler() *compiler.Compiler {
	return compiler.New(
		compiler.WithRequireMain(e.opts.RequireMain),
		compiler.WithDebug(e.opts.Debug),
		compiler.WithLogger(e.logger),
	)
}

func (e *Engine) vmOptions() []vm.Option {
	opts := []vm.Option{
		vm.WithMaxDepth(e.opts.MaxDepth),
		vm.WithMaxPeekSteps(e.opts.MaxPeekSteps),
		vm.WithStrictStack(e.opts.StrictStack),
		vm.WithDebug(e.opts.Debug),
		vm.WithLogger(e.logger),
	}
	if e.opts.PeekOutput != nil {
		opts = append(opts, vm.WithOutput(e.opts.PeekOutput))
	}
	return opts
}

// cacheKey separates entries compiled under different empty-program
// policies when a cache is shared between engines.
func (e *Engine) cacheKey(source string) string {
	if e.opts.RequireMain {
		return "main!" + source
	}
	return source
}
