package compiler_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/sandrolain/gochurch/pkg/compiler"
	"github.com/sandrolain/gochurch/pkg/types"
)

var (
	V = types.V
	L = types.L
	A = types.A
)

// Each builtin must expand to exactly what its defining term compiles to.
func TestBuiltinExpansionsMatchTerms(t *testing.T) {
	tests := []struct {
		name string
		term types.Expr
	}{
		{"SUCC", L("n", L("f", L("x", A(V("f"), A(V("n"), V("f"), V("x"))))))},
		{"ADD", L("m", L("n", L("f", L("x", A(A(V("m"), V("f")), A(V("n"), V("f"), V("x")))))))},
		{"TRUE", L("x", L("y", V("x")))},
		{"FALSE", L("x", L("y", V("y")))},
		{"AS_NAT", L("x", V("x"))},
		{"AS_BOOL", L("x", V("x"))},
		{"AS_LIST", L("x", V("x"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compiler.ExpandBuiltin(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			want, err := compiler.New().CompileExpr(tt.term)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("%s expansion mismatch (-want +got):\n%s", tt.name, diff)
			}
		})
	}
}

func TestBuiltinLayouts(t *testing.T) {
	succ, _ := compiler.ExpandBuiltin("SUCC")
	if got, want := succ.String(), "λ(λ(λ(1 2 1 @ 0 @ @)))"; got != want {
		t.Errorf("SUCC = %s, want %s", got, want)
	}
	add, _ := compiler.ExpandBuiltin("ADD")
	if got, want := add.String(), "λ(λ(λ(λ(3 1 @ 2 1 @ 0 @ @))))"; got != want {
		t.Errorf("ADD = %s, want %s", got, want)
	}
}

func TestExpandBuiltinReturnsFreshCopies(t *testing.T) {
	a, _ := compiler.ExpandBuiltin("TRUE")
	b, _ := compiler.ExpandBuiltin("TRUE")
	a[0].Body[0].Body[0] = types.IVar(0)
	if b[0].Body[0].Body[0].Index != 1 {
		t.Fatal("expansions share storage")
	}
	c, _ := compiler.ExpandBuiltin("TRUE")
	if c[0].Body[0].Body[0].Index != 1 {
		t.Fatal("modifying an expansion changed the builtin table")
	}
}

func TestExpandUnknownBuiltin(t *testing.T) {
	_, err := compiler.ExpandBuiltin("MUL")
	if !types.IsCode(err, types.ErrUnknownBuiltin) {
		t.Fatalf("expected %s, got %v", types.ErrUnknownBuiltin, err)
	}
	if te := err.(*types.Error); te.Token != "MUL" {
		t.Errorf("expected token MUL, got %q", te.Token)
	}
}

func TestBuiltins(t *testing.T) {
	want := []string{"ADD", "AS_BOOL", "AS_LIST", "AS_NAT", "FALSE", "SUCC", "TRUE"}
	if diff := cmp.Diff(want, compiler.Builtins()); diff != "" {
		t.Errorf("builtin names mismatch (-want +got):\n%s", diff)
	}
	for _, name := range want {
		if !compiler.IsBuiltin(name) {
			t.Errorf("IsBuiltin(%q) = false", name)
		}
	}
	if compiler.IsBuiltin("succ") {
		t.Error("builtin names are case sensitive")
	}
}
