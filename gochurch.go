// Package gochurch is a small untyped lambda-calculus engine.
//
// Source text is parsed into a syntax tree, compiled into a flat sequence of
// de Bruijn indexed instructions and run by a closure machine that evaluates
// by call-by-value beta reduction. Church numerals and booleans can be
// printed back through the peek introspector.
//
// # Quick Start
//
//	// Simple evaluation
//	result, err := gochurch.Eval("ADD (\\f.\\x.f (f x)) (\\f.\\x.f (f (f x)))")
//	fmt.Println(gochurch.Peek(result, types.PeekNumber)) // 5
//
//	// Compile once, run many times
//	expr, err := gochurch.Compile("let two = \\f.\\x.f (f x); SUCC two")
//	eng := engine.New()
//	result1, _ := eng.Run(ctx, expr)
//	result2, _ := eng.Run(ctx, expr)
//
//	// With options
//	result, err := gochurch.Eval(source,
//	    gochurch.WithMaxDepth(500),
//	    gochurch.WithStrictStack(true),
//	)
//
// # More Information
//
//   - Parser: github.com/sandrolain/gochurch/pkg/parser
//   - Compiler: github.com/sandrolain/gochurch/pkg/compiler
//   - VM and introspector: github.com/sandrolain/gochurch/pkg/vm
//   - Engine and options: github.com/sandrolain/gochurch/pkg/engine
//   - Types: github.com/sandrolain/gochurch/pkg/types
package gochurch

import (
	"context"
	"fmt"

	"github.com/sandrolain/gochurch/pkg/engine"
	"github.com/sandrolain/gochurch/pkg/parser"
	"github.com/sandrolain/gochurch/pkg/types"
	"github.com/sandrolain/gochurch/pkg/vm"
)

// Version returns the current version of gochurch.
func Version() string {
	return "v0.1.0-dev"
}

// Parse parses source text into a Program.
func Parse(source string) (*types.Program, error) {
	return parser.Parse(source)
}

// Compile parses and compiles source for repeated runs.
//
// Example:
//
//	expr, err := gochurch.Compile("SUCC (\\f.\\x.x)")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(expr) // disassembly
func Compile(source string, opts ...engine.Option) (*types.Expression, error) {
	return engine.New(opts...).Compile(source)
}

// Eval compiles and runs source in a single call.
//
// For repeated runs of the same program, use Compile and an Engine.
func Eval(source string, opts ...engine.Option) (*vm.Closure, error) {
	return EvalWithContext(context.Background(), source, opts...)
}

// EvalWithContext compiles and runs source under ctx.
func EvalWithContext(ctx context.Context, source string, opts ...engine.Option) (*vm.Closure, error) {
	return engine.New(opts...).Eval(ctx, source)
}

// CompileAndRun compiles a parsed program and runs it.
func CompileAndRun(ctx context.Context, program *types.Program, opts ...engine.Option) (*vm.Closure, error) {
	return engine.New(opts...).CompileAndRun(ctx, program)
}

// Peek decodes a value as a Church numeral or boolean for display.
func Peek(c *vm.Closure, kind types.PeekKind) string {
	return vm.Peek(c, kind)
}

// MustCompile is like Compile but panics if the source cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(source string) *types.Expression {
	expr, err := Compile(source)
	if err != nil {
		panic(fmt.Sprintf("gochurch: Compile(%q): %v", source, err))
	}
	return expr
}
