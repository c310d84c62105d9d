package main

import "fmt"

// Well-formedness checks that run on the surface tree before normalization:
// unbound identifiers, duplicate parameter names, and number literals that
// do not survive the tagged encoding.

// Number literals occupy 31 bits after the shift-left-by-one encoding.
const (
	maxLiteral = 1<<30 - 1
	minLiteral = -(1 << 30)
)

type scope struct {
	name string
	next *scope
}

func (s *scope) bound(name string) bool {
	for b := s; b != nil; b = b.next {
		if b.name == name {
			return true
		}
	}
	return false
}

func (s *scope) extend(names ...string) *scope {
	out := s
	for _, n := range names {
		out = &scope{name: n, next: out}
	}
	return out
}

// Check validates e and returns the first problem found, positioned at the
// offending node.
func Check(e Expr) error {
	return checkExpr(e, nil)
}

func checkExpr(e Expr, sc *scope) error {
	switch t := e.(type) {
	case *Number:
		if t.Value < minLiteral || t.Value > maxLiteral {
			return fmt.Errorf("%s: number %d does not fit in 31 bits", t.Tag.Pos, t.Value)
		}
		return nil
	case *Boolean:
		return nil
	case *Id:
		if !sc.bound(t.Name) {
			return fmt.Errorf("%s: unbound variable %q", t.Tag.Pos, t.Name)
		}
		return nil
	case *Let:
		if err := checkExpr(t.Rhs, sc); err != nil {
			return err
		}
		return checkExpr(t.Body, sc.extend(t.Name))
	case *If:
		if err := checkExpr(t.Cond, sc); err != nil {
			return err
		}
		if err := checkExpr(t.Then, sc); err != nil {
			return err
		}
		return checkExpr(t.Else, sc)
	case *Prim1:
		return checkExpr(t.Arg, sc)
	case *Prim2:
		if err := checkExpr(t.Left, sc); err != nil {
			return err
		}
		return checkExpr(t.Right, sc)
	case *Tuple:
		for _, elem := range t.Elems {
			if err := checkExpr(elem, sc); err != nil {
				return err
			}
		}
		return nil
	case *GetItem:
		if err := checkExpr(t.Tuple, sc); err != nil {
			return err
		}
		return checkExpr(t.Index, sc)
	case *Lambda:
		if err := checkParams(t.Params, t.Tag.Pos); err != nil {
			return err
		}
		return checkExpr(t.Body, sc.extend(t.Params...))
	case *Fun:
		if err := checkParams(t.Params, t.Tag.Pos); err != nil {
			return err
		}
		return checkExpr(t.Body, sc.extend(t.Params...).extend(t.Name))
	case *App:
		if err := checkExpr(t.Callee, sc); err != nil {
			return err
		}
		for _, arg := range t.Args {
			if err := checkExpr(arg, sc); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%s: unknown expression node %T", e.ExprTag().Pos, e)
	}
}

func checkParams(params []string, pos Pos) error {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p] {
			return fmt.Errorf("%s: duplicate parameter %q", pos, p)
		}
		seen[p] = true
	}
	return nil
}
