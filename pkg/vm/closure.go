package vm

import "github.com/sandrolain/gochurch/pkg/types"

// Closure is the only runtime value: a compiled lambda body together with
// the values bound when the lambda was evaluated, outermost first.
//
// Closures are immutable. Environments are never modified after creation,
// only extended into new slices, so a captured environment can be shared
// between closures without copying.
type Closure struct {
	body types.Code
	env  []*Closure
}

// NewClosure builds a closure from a body and an environment. The body is
// used as is and must not be modified afterwards.
func NewClosure(body types.Code, env []*Closure) *Closure {
	return &Closure{body: body, env: env}
}

// Body returns a copy of the closure's compiled body.
func (c *Closure) Body() types.Code {
	return c.body.Clone()
}

// Env returns a copy of the captured environment, outermost first.
func (c *Closure) Env() []*Closure {
	return append([]*Closure(nil), c.env...)
}

// String renders the closure as an opaque placeholder.
func (c *Closure) String() string {
	return "<function>"
}

// Equal reports whether two closures have the same body and structurally
// equal environments.
func (c *Closure) Equal(other *Closure) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	if len(c.env) != len(other.env) || !c.body.Equal(other.body) {
		return false
	}
	for i := range c.env {
		if !c.env[i].Equal(other.env[i]) {
			return false
		}
	}
	return true
}

// extend returns a new environment with v appended.
func extend(env []*Closure, v *Closure) []*Closure {
	out := make([]*Closure, len(env)+1)
	copy(out, env)
	out[len(env)] = v
	return out
}
