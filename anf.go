package main

import "fmt"

// A-normalization. The normalizer rewrites the surface tree so that every
// operand of a compound form is an immediate (literal or identifier),
// introducing let-bindings for intermediate results. It owns the
// unique-integer supply: every node of its output carries a fresh tag ID,
// which the code generator later uses to mint label names.

type normalizer struct {
	nextID int
}

// Normalize returns the ANF form of e with globally unique node tags.
func Normalize(e Expr) Expr {
	n := &normalizer{nextID: 1}
	out := n.expr(e)
	n.retag(out)
	return out
}

func (n *normalizer) fresh() int {
	id := n.nextID
	n.nextID++
	return id
}

func (n *normalizer) tempName() string {
	return fmt.Sprintf("anf$%d", n.fresh())
}

type anfBind struct {
	name string
	rhs  Expr
	pos  Pos
}

// expr normalizes e into a full ANF expression.
func (n *normalizer) expr(e Expr) Expr {
	switch t := e.(type) {
	case *Number, *Boolean, *Id:
		return e
	case *Let:
		return &Let{Name: t.Name, Rhs: n.expr(t.Rhs), Body: n.expr(t.Body), Tag: t.Tag}
	case *If:
		cond, binds := n.imm(t.Cond)
		return wrapBinds(binds, &If{Cond: cond, Then: n.expr(t.Then), Else: n.expr(t.Else), Tag: t.Tag})
	case *Prim1:
		arg, binds := n.imm(t.Arg)
		return wrapBinds(binds, &Prim1{Op: t.Op, Arg: arg, Tag: t.Tag})
	case *Prim2:
		left, lb := n.imm(t.Left)
		right, rb := n.imm(t.Right)
		return wrapBinds(append(lb, rb...), &Prim2{Op: t.Op, Left: left, Right: right, Tag: t.Tag})
	case *Tuple:
		elems := make([]Expr, len(t.Elems))
		var binds []anfBind
		for i, elem := range t.Elems {
			imm, bs := n.imm(elem)
			elems[i] = imm
			binds = append(binds, bs...)
		}
		return wrapBinds(binds, &Tuple{Elems: elems, Tag: t.Tag})
	case *GetItem:
		tup, tb := n.imm(t.Tuple)
		idx, ib := n.imm(t.Index)
		return wrapBinds(append(tb, ib...), &GetItem{Tuple: tup, Index: idx, Tag: t.Tag})
	case *Lambda:
		return &Lambda{Params: t.Params, Body: n.expr(t.Body), Tag: t.Tag}
	case *Fun:
		return &Fun{Name: t.Name, Params: t.Params, Body: n.expr(t.Body), Tag: t.Tag}
	case *App:
		callee, binds := n.imm(t.Callee)
		args := make([]Expr, len(t.Args))
		for i, arg := range t.Args {
			imm, bs := n.imm(arg)
			args[i] = imm
			binds = append(binds, bs...)
		}
		return wrapBinds(binds, &App{Callee: callee, Args: args, Tag: t.Tag})
	default:
		// The parser only produces the cases above.
		panic(fmt.Sprintf("normalize: unknown expression node %T", e))
	}
}

// imm normalizes e into an immediate plus the bindings needed to name any
// intermediate result.
func (n *normalizer) imm(e Expr) (Expr, []anfBind) {
	if isImm(e) {
		return e, nil
	}
	rhs := n.expr(e)
	name := n.tempName()
	pos := e.ExprTag().Pos
	return &Id{Name: name, Tag: Tag{Pos: pos}}, []anfBind{{name: name, rhs: rhs, pos: pos}}
}

func wrapBinds(binds []anfBind, body Expr) Expr {
	out := body
	for i := len(binds) - 1; i >= 0; i-- {
		b := binds[i]
		out = &Let{Name: b.name, Rhs: b.rhs, Body: out, Tag: Tag{Pos: b.pos}}
	}
	return out
}

// retag stamps a fresh unique ID onto every node of the normalized tree.
func (n *normalizer) retag(e Expr) {
	switch t := e.(type) {
	case *Number:
		t.Tag.ID = n.fresh()
	case *Boolean:
		t.Tag.ID = n.fresh()
	case *Id:
		t.Tag.ID = n.fresh()
	case *Let:
		t.Tag.ID = n.fresh()
		n.retag(t.Rhs)
		n.retag(t.Body)
	case *If:
		t.Tag.ID = n.fresh()
		n.retag(t.Cond)
		n.retag(t.Then)
		n.retag(t.Else)
	case *Prim1:
		t.Tag.ID = n.fresh()
		n.retag(t.Arg)
	case *Prim2:
		t.Tag.ID = n.fresh()
		n.retag(t.Left)
		n.retag(t.Right)
	case *Tuple:
		t.Tag.ID = n.fresh()
		for _, elem := range t.Elems {
			n.retag(elem)
		}
	case *GetItem:
		t.Tag.ID = n.fresh()
		n.retag(t.Tuple)
		n.retag(t.Index)
	case *Lambda:
		t.Tag.ID = n.fresh()
		n.retag(t.Body)
	case *Fun:
		t.Tag.ID = n.fresh()
		n.retag(t.Body)
	case *App:
		t.Tag.ID = n.fresh()
		n.retag(t.Callee)
		for _, arg := range t.Args {
			n.retag(arg)
		}
	}
}
