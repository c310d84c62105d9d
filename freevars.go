package main

import "sort"

// Free-variable analysis and the stack sizer. Capture layout depends on
// freeVars returning the same deterministic order at the closure allocation
// site and in the body prologue, so the result is always sorted.

// freeVars returns the identifiers referenced by e but not bound within it,
// sorted lexicographically.
func freeVars(e Expr) []string {
	acc := make(map[string]bool)
	collectFree(e, nil, acc)
	out := make([]string, 0, len(acc))
	for name := range acc {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectFree(e Expr, bound *scope, acc map[string]bool) {
	switch t := e.(type) {
	case *Number, *Boolean:
	case *Id:
		if !bound.bound(t.Name) {
			acc[t.Name] = true
		}
	case *Let:
		collectFree(t.Rhs, bound, acc)
		collectFree(t.Body, bound.extend(t.Name), acc)
	case *If:
		collectFree(t.Cond, bound, acc)
		collectFree(t.Then, bound, acc)
		collectFree(t.Else, bound, acc)
	case *Prim1:
		collectFree(t.Arg, bound, acc)
	case *Prim2:
		collectFree(t.Left, bound, acc)
		collectFree(t.Right, bound, acc)
	case *Tuple:
		for _, elem := range t.Elems {
			collectFree(elem, bound, acc)
		}
	case *GetItem:
		collectFree(t.Tuple, bound, acc)
		collectFree(t.Index, bound, acc)
	case *Lambda:
		collectFree(t.Body, bound.extend(t.Params...), acc)
	case *Fun:
		collectFree(t.Body, bound.extend(t.Params...).extend(t.Name), acc)
	case *App:
		collectFree(t.Callee, bound, acc)
		for _, arg := range t.Args {
			collectFree(arg, bound, acc)
		}
	}
}

// countVars is the maximum number of simultaneously live let-bindings in e,
// which sizes the local area of the enclosing frame. Function bodies get
// their own frame, so Lambda and Fun contribute nothing here.
func countVars(e Expr) int {
	switch t := e.(type) {
	case *Let:
		rhs := countVars(t.Rhs)
		body := 1 + countVars(t.Body)
		if rhs > body {
			return rhs
		}
		return body
	case *If:
		thenN := countVars(t.Then)
		elseN := countVars(t.Else)
		if thenN > elseN {
			return thenN
		}
		return elseN
	default:
		return 0
	}
}
