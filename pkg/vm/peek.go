package vm

import (
	"strconv"

	"github.com/sandrolain/gochurch/pkg/types"
)

// Sentinels printed when a value cannot be decoded.
const (
	NotANumber      = "<not a number>"
	NotABoolean     = "<not a boolean>"
	UnsupportedPeek = "<unsupported peek>"
)

// DefaultPeekSteps is the base readback budget, in instructions.
const DefaultPeekSteps = 100000

// stepsPerInstruction scales the default budget with the size of the value
// being read back, so that SUCC applied n times decodes for any n.
const stepsPerInstruction = 4

// Introspector decodes closures back into Church numerals and booleans for
// diagnostic output. It never fails: values it cannot decode produce a
// sentinel.
//
// Decoding first matches the closure's body against the canonical shapes
// λf.λx.f (f ... x), λx.λy.x and λx.λy.y. A closure with a single visible
// binder is decoded as a numeral by counting its applications. A closure
// with two binders whose body is not canonical, such as the result of
// SUCC n, is read back: it is applied to opaque probe values in an isolated
// machine and the shape of the result is inspected. Readback never touches
// the operand stack of a running VM.
type Introspector struct {
	// MaxSteps bounds readback work. Zero or less uses DefaultPeekSteps
	// plus four steps per instruction reachable from the decoded closure.
	// A positive value is a hard limit: a value whose readback needs more
	// steps decodes as a sentinel.
	MaxSteps int
}

// Peek renders c with the default introspector.
func Peek(c *Closure, kind types.PeekKind) string {
	return Introspector{}.Render(c, kind)
}

// Render decodes c according to kind.
func (i Introspector) Render(c *Closure, kind types.PeekKind) string {
	switch kind {
	case types.PeekNumber:
		if n, ok := i.Number(c); ok {
			return strconv.Itoa(n)
		}
		return NotANumber
	case types.PeekBool:
		if b, ok := i.Bool(c); ok {
			return strconv.FormatBool(b)
		}
		return NotABoolean
	default:
		return UnsupportedPeek
	}
}

// Number decodes c as a Church numeral.
func (i Introspector) Number(c *Closure) (int, bool) {
	if c == nil {
		return 0, false
	}
	inner, ok := twoBinders(c)
	if !ok {
		return countApps(c.body), true
	}
	if n, ok := canonicalNumeral(inner); ok {
		return n, true
	}
	return newReadback(i.budget(c)).number(c)
}

// Bool decodes c as a Church boolean.
func (i Introspector) Bool(c *Closure) (bool, bool) {
	if c == nil {
		return false, false
	}
	inner, ok := twoBinders(c)
	if !ok {
		return false, false
	}
	if len(inner) == 1 && inner[0].Op == types.OpVar {
		switch inner[0].Index {
		case 1:
			return true, true
		case 0:
			return false, true
		}
	}
	return newReadback(i.budget(c)).boolean(c)
}

func (i Introspector) budget(c *Closure) int {
	if i.MaxSteps > 0 {
		return i.MaxSteps
	}
	return DefaultPeekSteps + stepsPerInstruction*reachableSize(c)
}

// twoBinders returns the inner body when c is λ.λ.body, i.e. when the
// closure's own body is a single lambda.
func twoBinders(c *Closure) (types.Code, bool) {
	if len(c.body) != 1 || c.body[0].Op != types.OpLam {
		return nil, false
	}
	return c.body[0].Body, true
}

// canonicalNumeral matches n references to the outer binder, one reference
// to the inner binder and n applications.
func canonicalNumeral(body types.Code) (int, bool) {
	n := 0
	for n < len(body) && body[n].Op == types.OpVar && body[n].Index == 1 {
		n++
	}
	if len(body) != 2*n+1 {
		return 0, false
	}
	if body[n].Op != types.OpVar || body[n].Index != 0 {
		return 0, false
	}
	for _, in := range body[n+1:] {
		if in.Op != types.OpApp {
			return 0, false
		}
	}
	return n, true
}

func countApps(body types.Code) int {
	n := 0
	for _, in := range body {
		if in.Op == types.OpApp {
			n++
		}
	}
	return n
}
