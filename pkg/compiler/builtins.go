package compiler

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/sandrolain/gochurch/pkg/types"
)

// Builtin indices are relative to the innermost binder of the expansion:
// inside λn.λf.λx, x is 0, f is 1 and n is 2.
var builtins = map[string]func() types.Code{
	// λn.λf.λx. f (n f x)
	"SUCC": func() types.Code {
		return types.Code{types.ILam(types.ILam(types.ILam(
			types.IVar(1), // f
			types.IVar(2), // n
			types.IVar(1), // f
			types.IApp(),  // n f
			types.IVar(0), // x
			types.IApp(),  // n f x
			types.IApp(),  // f (n f x)
		)))}
	},

	// λm.λn.λf.λx. m f (n f x)
	"ADD": func() types.Code {
		return types.Code{types.ILam(types.ILam(types.ILam(types.ILam(
			types.IVar(3), // m
			types.IVar(1), // f
			types.IApp(),  // m f
			types.IVar(2), // n
			types.IVar(1), // f
			types.IApp(),  // n f
			types.IVar(0), // x
			types.IApp(),  // n f x
			types.IApp(),  // m f (n f x)
		))))}
	},

	// λx.λy.x
	"TRUE": func() types.Code {
		return types.Code{types.ILam(types.ILam(types.IVar(1)))}
	},

	// λx.λy.y
	"FALSE": func() types.Code {
		return types.Code{types.ILam(types.ILam(types.IVar(0)))}
	},

	// Type markers compile to λx.x.
	"AS_NAT":  identity,
	"AS_BOOL": identity,
	"AS_LIST": identity,
}

func identity() types.Code {
	return types.Code{types.ILam(types.IVar(0))}
}

// ExpandBuiltin returns a fresh copy of the expansion of a builtin name.
func ExpandBuiltin(name string) (types.Code, error) {
	expand, ok := builtins[name]
	if !ok {
		return nil, types.NewError(types.ErrUnknownBuiltin,
			fmt.Sprintf("unknown builtin: %s", name), -1).WithToken(name)
	}
	return expand(), nil
}

// Builtins lists the builtin vocabulary in sorted order.
func Builtins() []string {
	names := lo.Keys(builtins)
	slices.Sort(names)
	return names
}

// IsBuiltin reports whether name belongs to the builtin vocabulary.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}
