// Package types defines the data model shared by the gochurch packages.
//
// This package contains type definitions for:
//   - Expr, Statement, Program: the lambda-calculus syntax tree
//   - Instruction, Code: the de Bruijn instruction set run by the VM
//   - Expression: a compiled, reusable program
//   - Error: structured errors with codes
package types

// Expression is a compiled program.
//
// An Expression is immutable and can be run any number of times, also
// concurrently, each run on its own VM.
type Expression struct {
	code   Code
	source string
	lets   []string
}

// NewExpression wraps compiled code. source may be empty for programs that
// were built without text.
func NewExpression(code Code, source string, lets []string) *Expression {
	return &Expression{
		code:   code,
		source: source,
		lets:   lets,
	}
}

// Code returns a copy of the compiled instruction sequence.
func (e *Expression) Code() Code {
	return e.code.Clone()
}

// Source returns the source text the expression was compiled from.
func (e *Expression) Source() string {
	return e.source
}

// Bindings returns the let names defined by the program, in definition
// order. A name bound twice appears once, at its first position.
func (e *Expression) Bindings() []string {
	return append([]string(nil), e.lets...)
}

// String returns the disassembled code.
func (e *Expression) String() string {
	return e.code.String()
}
