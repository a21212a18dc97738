package vm

import (
	"errors"

	"github.com/sandrolain/gochurch/pkg/types"
)

var (
	errBudget = errors.New("readback budget exhausted")
	errStuck  = errors.New("readback stuck")
)

// Probe heads.
const (
	probeFirst = iota
	probeSecond
)

// probeValue is a value of the readback machine: *probeClosure or *neutral.
type probeValue interface{}

type probeClosure struct {
	body types.Code
	env  []probeValue
}

// neutral is a probe applied to zero or more arguments.
type neutral struct {
	head int
	args []probeValue
}

type readback struct {
	steps  int
	max    int
	lifted map[*Closure]*probeClosure
}

func newReadback(max int) *readback {
	if max <= 0 {
		max = DefaultPeekSteps
	}
	return &readback{
		max:    max,
		lifted: make(map[*Closure]*probeClosure),
	}
}

// number applies c to probes f and x and counts the f applications around x.
func (r *readback) number(c *Closure) (int, bool) {
	v, err := r.applyProbes(c)
	if err != nil {
		return 0, false
	}
	n := 0
	for {
		nv, ok := v.(*neutral)
		if !ok {
			return 0, false
		}
		switch {
		case nv.head == probeSecond && len(nv.args) == 0:
			return n, true
		case nv.head == probeFirst && len(nv.args) == 1:
			n++
			v = nv.args[0]
		default:
			return 0, false
		}
	}
}

// boolean applies c to probes a and b and reports which one it selected.
func (r *readback) boolean(c *Closure) (bool, bool) {
	v, err := r.applyProbes(c)
	if err != nil {
		return false, false
	}
	nv, ok := v.(*neutral)
	if !ok || len(nv.args) != 0 {
		return false, false
	}
	return nv.head == probeFirst, true
}

func (r *readback) applyProbes(c *Closure) (probeValue, error) {
	v, err := r.apply(r.lift(c), &neutral{head: probeFirst})
	if err != nil {
		return nil, err
	}
	return r.apply(v, &neutral{head: probeSecond})
}

// lift converts a runtime closure, sharing converted environments.
func (r *readback) lift(c *Closure) *probeClosure {
	if p, ok := r.lifted[c]; ok {
		return p
	}
	p := &probeClosure{body: c.body, env: make([]probeValue, len(c.env))}
	r.lifted[c] = p
	for i, v := range c.env {
		p.env[i] = r.lift(v)
	}
	return p
}

func (r *readback) apply(fn, arg probeValue) (probeValue, error) {
	switch f := fn.(type) {
	case *probeClosure:
		env := make([]probeValue, len(f.env)+1)
		copy(env, f.env)
		env[len(f.env)] = arg
		return r.eval(f.body, env)
	case *neutral:
		args := make([]probeValue, len(f.args)+1)
		copy(args, f.args)
		args[len(f.args)] = arg
		return &neutral{head: f.head, args: args}, nil
	}
	return nil, errStuck
}

func (r *readback) eval(code types.Code, env []probeValue) (probeValue, error) {
	var stack []probeValue
	pop := func() probeValue {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}
	for _, in := range code {
		r.steps++
		if r.steps > r.max {
			return nil, errBudget
		}
		switch in.Op {
		case types.OpVar:
			if in.Index < 0 || in.Index >= len(env) {
				return nil, errStuck
			}
			stack = append(stack, env[len(env)-1-in.Index])
		case types.OpLam:
			stack = append(stack, &probeClosure{body: in.Body, env: env})
		case types.OpApp:
			if len(stack) < 2 {
				return nil, errStuck
			}
			arg := pop()
			fn := pop()
			v, err := r.apply(fn, arg)
			if err != nil {
				return nil, err
			}
			stack = append(stack, v)
		case types.OpPeek:
			if len(stack) == 0 {
				return nil, errStuck
			}
			pop()
		default:
			return nil, errStuck
		}
	}
	if len(stack) == 0 {
		return nil, errStuck
	}
	return stack[len(stack)-1], nil
}

// reachableSize counts the instructions of c and of every closure reachable
// through captured environments. Shared closures count once.
func reachableSize(c *Closure) int {
	seen := make(map[*Closure]bool)
	todo := []*Closure{c}
	size := 0
	for len(todo) > 0 {
		next := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if next == nil || seen[next] {
			continue
		}
		seen[next] = true
		size += next.body.Len()
		todo = append(todo, next.env...)
	}
	return size
}
