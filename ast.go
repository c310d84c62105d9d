package main

import (
	"fmt"
	"strings"
)

// AST for the FDL language. The same node types serve both the surface tree
// produced by the parser and the A-normal form produced by the normalizer;
// after normalization every operand position holds an immediate node.

// Pos is a source location (1-based line and column).
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Tag annotates every expression node with its source position and, after
// normalization, a unique integer used to mint assembly labels.
type Tag struct {
	Pos Pos
	ID  int
}

// Expr is the closed set of FDL expression nodes.
type Expr interface {
	String() string
	ExprTag() Tag
	exprNode()
}

// Prim1Op is a unary primitive operator.
type Prim1Op int

const (
	OpAdd1 Prim1Op = iota
	OpSub1
	OpIsNum
	OpIsBool
	OpPrint
)

func (op Prim1Op) String() string {
	switch op {
	case OpAdd1:
		return "add1"
	case OpSub1:
		return "sub1"
	case OpIsNum:
		return "isnum"
	case OpIsBool:
		return "isbool"
	case OpPrint:
		return "print"
	default:
		return "unknown"
	}
}

// Prim2Op is a binary primitive operator.
type Prim2Op int

const (
	OpPlus Prim2Op = iota
	OpMinus
	OpTimes
	OpLess
	OpGreater
	OpEqual
)

func (op Prim2Op) String() string {
	switch op {
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	case OpTimes:
		return "*"
	case OpLess:
		return "<"
	case OpGreater:
		return ">"
	case OpEqual:
		return "=="
	default:
		return "unknown"
	}
}

// Number is an integer literal.
type Number struct {
	Value int
	Tag   Tag
}

func (n *Number) String() string { return fmt.Sprintf("%d", n.Value) }
func (n *Number) ExprTag() Tag   { return n.Tag }
func (n *Number) exprNode()      {}

// Boolean is a true/false literal.
type Boolean struct {
	Value bool
	Tag   Tag
}

func (b *Boolean) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (b *Boolean) ExprTag() Tag { return b.Tag }
func (b *Boolean) exprNode()    {}

// Id is an identifier reference.
type Id struct {
	Name string
	Tag  Tag
}

func (i *Id) String() string { return i.Name }
func (i *Id) ExprTag() Tag   { return i.Tag }
func (i *Id) exprNode()      {}

// Let binds Name to Rhs within Body.
type Let struct {
	Name string
	Rhs  Expr
	Body Expr
	Tag  Tag
}

func (l *Let) String() string {
	return "let " + l.Name + " = " + l.Rhs.String() + " in " + l.Body.String()
}
func (l *Let) ExprTag() Tag { return l.Tag }
func (l *Let) exprNode()    {}

// If is a two-armed conditional. The test must be a boolean at runtime.
type If struct {
	Cond Expr
	Then Expr
	Else Expr
	Tag  Tag
}

func (i *If) String() string {
	return "if " + i.Cond.String() + ": " + i.Then.String() + " else: " + i.Else.String()
}
func (i *If) ExprTag() Tag { return i.Tag }
func (i *If) exprNode()    {}

// Prim1 applies a unary primitive.
type Prim1 struct {
	Op  Prim1Op
	Arg Expr
	Tag Tag
}

func (p *Prim1) String() string { return p.Op.String() + "(" + p.Arg.String() + ")" }
func (p *Prim1) ExprTag() Tag   { return p.Tag }
func (p *Prim1) exprNode()      {}

// Prim2 applies a binary primitive.
type Prim2 struct {
	Op    Prim2Op
	Left  Expr
	Right Expr
	Tag   Tag
}

func (p *Prim2) String() string {
	return "(" + p.Left.String() + " " + p.Op.String() + " " + p.Right.String() + ")"
}
func (p *Prim2) ExprTag() Tag { return p.Tag }
func (p *Prim2) exprNode()    {}

// Tuple is a fixed-width heterogeneous tuple constructor.
type Tuple struct {
	Elems []Expr
	Tag   Tag
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *Tuple) ExprTag() Tag { return t.Tag }
func (t *Tuple) exprNode()    {}

// GetItem indexes into a tuple.
type GetItem struct {
	Tuple Expr
	Index Expr
	Tag   Tag
}

func (g *GetItem) String() string { return g.Tuple.String() + "[" + g.Index.String() + "]" }
func (g *GetItem) ExprTag() Tag   { return g.Tag }
func (g *GetItem) exprNode()      {}

// Lambda is an anonymous function.
type Lambda struct {
	Params []string
	Body   Expr
	Tag    Tag
}

func (l *Lambda) String() string {
	return "lambda(" + strings.Join(l.Params, ", ") + "): " + l.Body.String()
}
func (l *Lambda) ExprTag() Tag { return l.Tag }
func (l *Lambda) exprNode()    {}

// Fun is a named function whose name is in scope inside its own body.
type Fun struct {
	Name   string
	Params []string
	Body   Expr
	Tag    Tag
}

func (f *Fun) String() string {
	return "def " + f.Name + "(" + strings.Join(f.Params, ", ") + "): " + f.Body.String()
}
func (f *Fun) ExprTag() Tag { return f.Tag }
func (f *Fun) exprNode()    {}

// App is a function application.
type App struct {
	Callee Expr
	Args   []Expr
	Tag    Tag
}

func (a *App) String() string {
	parts := make([]string, len(a.Args))
	for i, e := range a.Args {
		parts[i] = e.String()
	}
	return a.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}
func (a *App) ExprTag() Tag { return a.Tag }
func (a *App) exprNode()    {}

// isImm reports whether e is an immediate: a literal or an identifier.
func isImm(e Expr) bool {
	switch e.(type) {
	case *Number, *Boolean, *Id:
		return true
	}
	return false
}
