// Package compiler turns a lambda-calculus Program into a flat de Bruijn
// instruction sequence.
//
// Lambda parameters are resolved to positional indices counted outward from
// the innermost binder. Let-bindings do not take an index: each reference to
// a let name is replaced by an independent copy of the binding's compiled
// code.
//
// # Example
//
//	c := compiler.New()
//	code, err := c.Compile(program)
package compiler

import (
	"fmt"
	"log/slog"

	"github.com/sandrolain/gochurch/pkg/types"
)

// Compiler holds the state of one compilation: the lexical parameter stack
// and the let-binding table. A Compiler is not safe for concurrent use.
type Compiler struct {
	opts     Options
	logger   *slog.Logger
	vars     []string
	bindings map[string]types.Code
	order    []string
}

// Options configures the compiler.
type Options struct {
	// RequireMain makes a program without a main expression a compile error
	// instead of compiling to the identity function.
	RequireMain bool
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// Option configures compilation behavior.
type Option func(*Options)

// WithRequireMain sets the empty-program policy.
func WithRequireMain(enable bool) Option {
	return func(opts *Options) {
		opts.RequireMain = enable
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

// New creates a compiler with an empty binding table.
func New(opts ...Option) *Compiler {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Compiler{
		opts:     options,
		logger:   options.Logger,
		bindings: make(map[string]types.Code),
	}
}

// Compile compiles a whole program in a fresh compiler.
func Compile(program *types.Program, opts ...Option) (types.Code, error) {
	return New(opts...).Compile(program)
}

// Compile processes the statements in order and then the main expression.
//
// Peek statements are compiled into a prelude that runs before the main
// expression; each leaves the operand stack as it found it.
func (c *Compiler) Compile(program *types.Program) (types.Code, error) {
	if program == nil {
		program = &types.Program{}
	}

	var prelude types.Code
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *types.LetBinding:
			code, err := c.CompileExpr(s.Value)
			if err != nil {
				return nil, err
			}
			if _, seen := c.bindings[s.Name]; !seen {
				c.order = append(c.order, s.Name)
			}
			c.bindings[s.Name] = code
		case *types.PeekStatement:
			code, err := c.CompileExpr(s.Value)
			if err != nil {
				return nil, err
			}
			prelude = append(prelude, code...)
			prelude = append(prelude, types.IPeek(s.Kind))
		default:
			return nil, fmt.Errorf("compiler: unsupported statement %T", stmt)
		}
	}

	var main types.Code
	if program.Main != nil {
		code, err := c.CompileExpr(program.Main)
		if err != nil {
			return nil, err
		}
		main = code
	} else {
		if c.opts.RequireMain {
			return nil, types.NewError(types.ErrNoMainExpression, "program has no main expression", -1)
		}
		main = identity()
	}

	code := append(prelude, main...)
	if c.opts.Debug {
		c.logger.Debug("compiled program",
			"statements", len(program.Statements),
			"bindings", len(c.bindings),
			"instructions", code.Len())
	}
	return code, nil
}

// CompileExpr compiles one expression under the current lexical scope.
func (c *Compiler) CompileExpr(expr types.Expr) (types.Code, error) {
	switch e := expr.(type) {
	case *types.Var:
		if code, ok := c.bindings[e.Name]; ok {
			return code.Clone(), nil
		}
		for i := len(c.vars) - 1; i >= 0; i-- {
			if c.vars[i] == e.Name {
				return types.Code{types.IVar(len(c.vars) - 1 - i)}, nil
			}
		}
		return nil, types.NewError(types.ErrUnboundVariable,
			fmt.Sprintf("unbound variable: %s", e.Name), e.Position).WithToken(e.Name)

	case *types.Lambda:
		c.vars = append(c.vars, e.Param)
		body, err := c.CompileExpr(e.Body)
		c.vars = c.vars[:len(c.vars)-1]
		if err != nil {
			return nil, err
		}
		return types.Code{types.ILam(body...)}, nil

	case *types.App:
		fn, err := c.CompileExpr(e.Func)
		if err != nil {
			return nil, err
		}
		arg, err := c.CompileExpr(e.Arg)
		if err != nil {
			return nil, err
		}
		code := make(types.Code, 0, len(fn)+len(arg)+1)
		code = append(code, fn...)
		code = append(code, arg...)
		return append(code, types.IApp()), nil

	case *types.Builtin:
		code, err := ExpandBuiltin(e.Name)
		if err != nil {
			if te, ok := err.(*types.Error); ok {
				te.Position = e.Position
			}
			return nil, err
		}
		return code, nil

	case nil:
		return nil, fmt.Errorf("compiler: nil expression")
	}
	return nil, fmt.Errorf("compiler: unsupported expression %T", expr)
}

// Binding returns a copy of the compiled code bound to name.
func (c *Compiler) Binding(name string) (types.Code, bool) {
	code, ok := c.bindings[name]
	if !ok {
		return nil, false
	}
	return code.Clone(), true
}

// Bindings returns the bound let names in first-definition order.
func (c *Compiler) Bindings() []string {
	return append([]string(nil), c.order...)
}
