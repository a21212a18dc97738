// Package parser turns gochurch source text into a Program.
//
// The parser is a hand-written recursive descent parser over a small Pike
// style lexer. It reports syntax errors as *types.Error values carrying the
// byte offset of the offending token.
//
// # Syntax
//
//	let id  = \x.x;
//	let two = λf x.f (f x);
//	peek_num SUCC two;
//	id two
//
// Lambdas are written with '\' or 'λ' and extend as far right as possible.
// Application is juxtaposition and associates to the left. Names written in
// capitals (SUCC, ADD, TRUE, FALSE, AS_NAT, AS_BOOL, AS_LIST) are builtins.
// peek_num, peek_bool and peek_list print a value while the program runs.
// Comments are enclosed in /* and */.
//
// # Example
//
//	program, err := parser.Parse("ADD (\\f.\\x.f x) (\\f.\\x.f (f x))")
//	if err != nil {
//	    log.Fatal(err)
//	}
package parser

import (
	"github.com/sandrolain/gochurch/pkg/types"
)

// Parse parses a whole program.
//
// Example:
//
//	program, err := parser.Parse("let two = \\f.\\x.f (f x); two")
//	if err != nil {
//	    var perr *types.Error
//	    if errors.As(err, &perr) {
//	        fmt.Printf("Parse error at position %d\n", perr.Position)
//	    }
//	    return
//	}
func Parse(source string, opts ...ParseOption) (*types.Program, error) {
	p := NewParser(source, opts...)
	return p.Parse()
}

// ParseOption configures parsing behavior.
type ParseOption func(*ParseOptions)

// ParseOptions holds parser configuration.
type ParseOptions struct {
	// MaxDepth limits expression nesting to prevent stack overflow.
	MaxDepth int
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) ParseOption {
	return func(opts *ParseOptions) {
		opts.MaxDepth = depth
	}
}
