package types

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// OpCode identifies an instruction variant.
type OpCode uint8

const (
	// OpVar pushes the environment entry at Index (0 = innermost binder).
	OpVar OpCode = iota
	// OpLam pushes a closure over Body and the current environment.
	OpLam
	// OpApp pops an argument and a function and applies them.
	OpApp
	// OpPeek pops a value and prints it as Peek; pushes nothing.
	OpPeek
)

// String returns the mnemonic of the opcode.
func (op OpCode) String() string {
	switch op {
	case OpVar:
		return "var"
	case OpLam:
		return "lam"
	case OpApp:
		return "app"
	case OpPeek:
		return "peek"
	default:
		return "op(" + strconv.Itoa(int(op)) + ")"
	}
}

// PeekKind selects how a Peek instruction decodes its operand.
type PeekKind uint8

const (
	PeekNumber PeekKind = iota
	PeekBool
	PeekList
)

// String returns the source keyword suffix of the kind.
func (k PeekKind) String() string {
	switch k {
	case PeekNumber:
		return "num"
	case PeekBool:
		return "bool"
	case PeekList:
		return "list"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParsePeekKind maps "num", "bool" and "list" (also with a "peek_" prefix,
// case-insensitive) to a kind.
func ParsePeekKind(s string) (PeekKind, bool) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "peek_")
	switch s {
	case "num", "number", "nat":
		return PeekNumber, true
	case "bool", "boolean":
		return PeekBool, true
	case "list":
		return PeekList, true
	}
	return PeekNumber, false
}

// Instruction is one step of a compiled program. Only the fields of the
// active variant are meaningful.
type Instruction struct {
	Op    OpCode
	Index int      // OpVar
	Body  Code     // OpLam
	Peek  PeekKind // OpPeek
}

// Code is a flat instruction sequence. Lambda bodies nest as Code values
// inside OpLam instructions.
type Code []Instruction

// IVar returns a Var instruction.
func IVar(index int) Instruction { return Instruction{Op: OpVar, Index: index} }

// ILam returns a Lam instruction over body.
func ILam(body ...Instruction) Instruction { return Instruction{Op: OpLam, Body: Code(body)} }

// IApp returns an App instruction.
func IApp() Instruction { return Instruction{Op: OpApp} }

// IPeek returns a Peek instruction.
func IPeek(kind PeekKind) Instruction { return Instruction{Op: OpPeek, Peek: kind} }

// Clone returns a deep copy; nested lambda bodies are copied too.
func (c Code) Clone() Code {
	if c == nil {
		return nil
	}
	out := make(Code, len(c))
	for i, in := range c {
		out[i] = in
		if in.Op == OpLam {
			out[i].Body = in.Body.Clone()
		}
	}
	return out
}

// Equal reports whether two sequences are structurally identical.
func (c Code) Equal(other Code) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if !c[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether two instructions are structurally identical.
func (in Instruction) Equal(other Instruction) bool {
	if in.Op != other.Op {
		return false
	}
	switch in.Op {
	case OpVar:
		return in.Index == other.Index
	case OpLam:
		return in.Body.Equal(other.Body)
	case OpPeek:
		return in.Peek == other.Peek
	}
	return true
}

// Len returns the number of instructions including nested bodies.
func (c Code) Len() int {
	n := len(c)
	for _, in := range c {
		if in.Op == OpLam {
			n += in.Body.Len()
		}
	}
	return n
}

// String renders the instruction, e.g. "λ(1 0 @)".
func (in Instruction) String() string {
	switch in.Op {
	case OpVar:
		return strconv.Itoa(in.Index)
	case OpLam:
		return "λ(" + in.Body.String() + ")"
	case OpApp:
		return "@"
	case OpPeek:
		return "peek:" + in.Peek.String()
	}
	return in.Op.String()
}

// String renders the sequence as space separated instructions.
func (c Code) String() string {
	return strings.Join(lo.Map(c, func(in Instruction, _ int) string {
		return in.String()
	}), " ")
}
