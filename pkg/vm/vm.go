// Package vm implements the closure machine that runs compiled gochurch code.
//
// The machine evaluates by call-by-value beta reduction. One operand stack is
// shared by every nested evaluation of a run: applying a closure evaluates its
// body on the same stack and pops the body's result before pushing it back
// for the caller.
//
// # Example
//
//	m := vm.New()
//	result, err := m.Run(ctx, code)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(vm.Peek(result, types.PeekNumber))
package vm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/sandrolain/gochurch/pkg/types"
)

// VM evaluates instruction sequences. A VM is not safe for concurrent use;
// create one per goroutine (they are cheap).
type VM struct {
	opts   Options
	logger *slog.Logger
	stack  []*Closure
	peek   Introspector
}

// Options configures the VM.
type Options struct {
	// MaxDepth limits the nesting of applications. Zero means unlimited, in
	// which case a divergent program exhausts the goroutine stack.
	MaxDepth int
	// MaxPeekSteps bounds the work the introspector may spend reading back
	// a value. Zero scales the budget with the value's size.
	MaxPeekSteps int
	// StrictStack makes Run fail when values remain under the result.
	StrictStack bool
	// Output receives the lines printed by Peek instructions.
	Output io.Writer
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// Option configures VM behavior.
type Option func(*Options)

// WithMaxDepth sets the maximum application depth.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}

// WithMaxPeekSteps sets the introspector's step budget.
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

// WithOutput sets the writer for Peek output.
func WithOutput(w io.Writer) Option {
	return func(opts *Options) {
		opts.Output = w
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

// New creates a VM with default options.
func New(opts ...Option) *VM {
	options := Options{
		MaxDepth: 10000,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Output == nil {
		options.Output = os.Stdout
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &VM{
		opts:   options,
		logger: options.Logger,
		peek:   Introspector{MaxSteps: options.MaxPeekSteps},
	}
}

// Run evaluates a whole program in an empty environment and returns the
// value left on top of the operand stack.
func (m *VM) Run(ctx context.Context, code types.Code) (*Closure, error) {
	m.stack = m.stack[:0]
	result, err := m.Eval(ctx, code, nil)
	if err != nil {
		return nil, err
	}
	if residue := len(m.stack); residue > 0 {
		if m.opts.StrictStack {
			return nil, types.NewError(types.ErrExtraOperands,
				fmt.Sprintf("%d values left on the operand stack", residue), -1)
		}
		if m.opts.Debug {
			m.logger.Debug("operand stack residue ignored", "values", residue)
		}
	}
	if m.opts.Debug {
		m.logger.Debug("run finished", "instructions", code.Len())
	}
	return result, nil
}

// Eval evaluates code under env on the VM's operand stack and pops the
// resulting value.
func (m *VM) Eval(ctx context.Context, code types.Code, env []*Closure) (*Closure, error) {
	return m.eval(ctx, code, env, 0)
}

// StackDepth returns the number of values currently on the operand stack.
func (m *VM) StackDepth() int {
	return len(m.stack)
}

func (m *VM) eval(ctx context.Context, code types.Code, env []*Closure, depth int) (*Closure, error) {
	for _, in := range code {
		switch in.Op {
		case types.OpVar:
			if in.Index < 0 || in.Index >= len(env) {
				return nil, types.NewError(types.ErrUnboundIndex,
					fmt.Sprintf("unbound variable: index %d in environment of %d", in.Index, len(env)), -1).
					WithToken(strconv.Itoa(in.Index))
			}
			m.push(env[len(env)-1-in.Index])

		case types.OpLam:
			m.push(&Closure{body: in.Body, env: env})

		case types.OpApp:
			if len(m.stack) < 2 {
				return nil, types.NewError(types.ErrInsufficientOperands,
					fmt.Sprintf("application needs 2 operands, stack has %d", len(m.stack)), -1)
			}
			if m.opts.MaxDepth > 0 && depth >= m.opts.MaxDepth {
				return nil, types.NewError(types.ErrDepthExceeded,
					fmt.Sprintf("application depth exceeded %d", m.opts.MaxDepth), -1)
			}
			if err := ctx.Err(); err != nil {
				return nil, types.NewError(types.ErrCancelled, "evaluation cancelled", -1).WithCause(err)
			}
			arg := m.pop()
			fn := m.pop()
			result, err := m.eval(ctx, fn.body, extend(fn.env, arg), depth+1)
			if err != nil {
				return nil, err
			}
			m.push(result)

		case types.OpPeek:
			if len(m.stack) == 0 {
				return nil, types.NewError(types.ErrMissingPeekTarget, "peek on an empty operand stack", -1)
			}
			target := m.pop()
			line := m.peek.Render(target, in.Peek)
			if m.opts.Debug {
				m.logger.Debug("peek", "kind", in.Peek.String(), "value", line)
			}
			fmt.Fprintln(m.opts.Output, line)

		default:
			return nil, fmt.Errorf("vm: unknown opcode %s", in.Op)
		}
	}

	if len(m.stack) == 0 {
		return nil, types.NewError(types.ErrEmptyResult, "no result on the operand stack", -1)
	}
	return m.pop(), nil
}

func (m *VM) push(c *Closure) {
	m.stack = append(m.stack, c)
}

func (m *VM) pop() *Closure {
	top := m.stack[len(m.stack)-1]
	m.stack[len(m.stack)-1] = nil
	m.stack = m.stack[:len(m.stack)-1]
	return top
}
