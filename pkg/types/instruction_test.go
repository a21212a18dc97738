package types_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sandrolain/gochurch/pkg/types"
)

func two() types.Code {
	return types.Code{types.ILam(types.ILam(
		types.IVar(1), types.IVar(1), types.IVar(0), types.IApp(), types.IApp(),
	))}
}

func TestCodeString(t *testing.T) {
	tests := []struct {
		name string
		code types.Code
		want string
	}{
		{"empty", types.Code{}, ""},
		{"identity", types.Code{types.ILam(types.IVar(0))}, "λ(0)"},
		{"two", two(), "λ(λ(1 1 0 @ @))"},
		{"peek", types.Code{types.ILam(types.IVar(0)), types.IPeek(types.PeekBool)}, "λ(0) peek:bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.code.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeCloneIsDeep(t *testing.T) {
	orig := two()
	clone := orig.Clone()
	if !orig.Equal(clone) {
		t.Fatal("clone differs from original")
	}

	clone[0].Body[0].Body[0] = types.IVar(0)
	if orig[0].Body[0].Body[0].Index != 1 {
		t.Fatal("modifying the clone changed the original")
	}
	if orig.Equal(clone) {
		t.Fatal("expected modified clone to differ")
	}
}

func TestCodeEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b types.Code
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil and empty", nil, types.Code{}, true},
		{"same var", types.Code{types.IVar(2)}, types.Code{types.IVar(2)}, true},
		{"different index", types.Code{types.IVar(2)}, types.Code{types.IVar(1)}, false},
		{"different op", types.Code{types.IApp()}, types.Code{types.IVar(0)}, false},
		{"different peek", types.Code{types.IPeek(types.PeekNumber)}, types.Code{types.IPeek(types.PeekBool)}, false},
		{"different length", two(), append(two(), types.IApp()), false},
		{"nested", two(), two(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodeLen(t *testing.T) {
	if got := two().Len(); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestParsePeekKind(t *testing.T) {
	tests := []struct {
		in   string
		want types.PeekKind
		ok   bool
	}{
		{"num", types.PeekNumber, true},
		{"peek_num", types.PeekNumber, true},
		{"PEEK_BOOL", types.PeekBool, true},
		{"bool", types.PeekBool, true},
		{" list ", types.PeekList, true},
		{"string", types.PeekNumber, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := types.ParsePeekKind(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("got (%v, %v), want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	err := types.NewError(types.ErrUnboundVariable, "unbound variable: x", 4).WithToken("x")
	if got, want := err.Error(), "C1001 at position 4: unbound variable: x"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	noPos := types.NewError(types.ErrEmptyResult, "no result", -1)
	if got, want := noPos.Error(), "R2004: no result"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIsCode(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", types.NewError(types.ErrCancelled, "cancelled", -1).WithCause(cause))

	if !types.IsCode(err, types.ErrCancelled) {
		t.Error("expected wrapped code to match")
	}
	if types.IsCode(err, types.ErrEmptyResult) {
		t.Error("unexpected code match")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable")
	}
	if !types.IsUnbound(types.NewError(types.ErrUnboundIndex, "", -1)) {
		t.Error("expected runtime unbound error to be recognized")
	}
}
