package types

// NodeType identifies the kind of an expression node.
type NodeType string

// Expression node types.
const (
	NodeVar     NodeType = "var"     // x
	NodeLambda  NodeType = "lambda"  // \x.body
	NodeApp     NodeType = "app"     // f a
	NodeBuiltin NodeType = "builtin" // SUCC, ADD, ...
)

// Expr is a node of the lambda-calculus syntax tree.
//
// The tree is produced once by a parser (or built by hand) and consumed once
// by the compiler. The compiler never keeps a reference to it afterwards.
type Expr interface {
	Type() NodeType
	Pos() int
}

// Var references a lambda parameter or a let-binding by name.
type Var struct {
	Name     string
	Position int
}

// Lambda is a single-parameter function.
type Lambda struct {
	Param    string
	Body     Expr
	Position int
}

// App applies Func to Arg. Multi-argument applications are left nested:
// f a b is App{App{f, a}, b}.
type App struct {
	Func     Expr
	Arg      Expr
	Position int
}

// Builtin references an entry of the fixed builtin vocabulary.
type Builtin struct {
	Name     string
	Position int
}

func (*Var) Type() NodeType     { return NodeVar }
func (*Lambda) Type() NodeType  { return NodeLambda }
func (*App) Type() NodeType     { return NodeApp }
func (*Builtin) Type() NodeType { return NodeBuiltin }

func (v *Var) Pos() int     { return v.Position }
func (l *Lambda) Pos() int  { return l.Position }
func (a *App) Pos() int     { return a.Position }
func (b *Builtin) Pos() int { return b.Position }

// Statement is a top-level item processed in source order.
type Statement interface {
	statement()
}

// LetBinding names an expression for reuse by later statements and by the
// main expression.
type LetBinding struct {
	Name     string
	Value    Expr
	Position int
}

// PeekStatement evaluates Value and prints it through the introspector
// before the main expression runs.
type PeekStatement struct {
	Kind     PeekKind
	Value    Expr
	Position int
}

func (*LetBinding) statement()    {}
func (*PeekStatement) statement() {}

// Program is the parser's output: ordered statements plus an optional main
// expression (nil when absent).
type Program struct {
	Statements []Statement
	Main       Expr
}

// Convenience constructors, mostly used by tests and by hand-built programs.

// V returns a variable reference.
func V(name string) *Var { return &Var{Name: name, Position: -1} }

// L returns a lambda. L("f", L("x", body)) builds λf.λx.body.
func L(param string, body Expr) *Lambda {
	return &Lambda{Param: param, Body: body, Position: -1}
}

// A applies fn to one or more arguments, nesting to the left.
func A(fn Expr, args ...Expr) Expr {
	for _, arg := range args {
		fn = &App{Func: fn, Arg: arg, Position: -1}
	}
	return fn
}

// B returns a builtin reference.
func B(name string) *Builtin { return &Builtin{Name: name, Position: -1} }

// Let returns a let-binding statement.
func Let(name string, value Expr) *LetBinding {
	return &LetBinding{Name: name, Value: value, Position: -1}
}
