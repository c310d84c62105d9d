package main

import (
	"reflect"
	"testing"
)

// isANF reports whether every operand position of a compound node holds an
// immediate. Let right-hand sides may be any ANF expression.
func isANF(e Expr) bool {
	switch t := e.(type) {
	case *Number, *Boolean, *Id:
		return true
	case *Let:
		return isANF(t.Rhs) && isANF(t.Body)
	case *If:
		return isImm(t.Cond) && isANF(t.Then) && isANF(t.Else)
	case *Prim1:
		return isImm(t.Arg)
	case *Prim2:
		return isImm(t.Left) && isImm(t.Right)
	case *Tuple:
		for _, elem := range t.Elems {
			if !isImm(elem) {
				return false
			}
		}
		return true
	case *GetItem:
		return isImm(t.Tuple) && isImm(t.Index)
	case *Lambda:
		return isANF(t.Body)
	case *Fun:
		return isANF(t.Body)
	case *App:
		if !isImm(t.Callee) {
			return false
		}
		for _, arg := range t.Args {
			if !isImm(arg) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func collectTags(e Expr, acc *[]int) {
	*acc = append(*acc, e.ExprTag().ID)
	switch t := e.(type) {
	case *Let:
		collectTags(t.Rhs, acc)
		collectTags(t.Body, acc)
	case *If:
		collectTags(t.Cond, acc)
		collectTags(t.Then, acc)
		collectTags(t.Else, acc)
	case *Prim1:
		collectTags(t.Arg, acc)
	case *Prim2:
		collectTags(t.Left, acc)
		collectTags(t.Right, acc)
	case *Tuple:
		for _, elem := range t.Elems {
			collectTags(elem, acc)
		}
	case *GetItem:
		collectTags(t.Tuple, acc)
		collectTags(t.Index, acc)
	case *Lambda:
		collectTags(t.Body, acc)
	case *Fun:
		collectTags(t.Body, acc)
	case *App:
		collectTags(t.Callee, acc)
		for _, arg := range t.Args {
			collectTags(arg, acc)
		}
	}
}

// TestNormalizeProducesANF tests the central ANF property on a range of
// programs
func TestNormalizeProducesANF(t *testing.T) {
	sources := []string{
		"42",
		"1 + 2 * 3",
		"add1(sub1(add1(7)))",
		"if 1 < 2: 10 + 1 else: 20 * 2",
		"(1 + 2, 3 * 4, add1(5))",
		"(1, 2, 3)[1 + 1]",
		"let x = 1 + 2 in x * x",
		"(lambda(x): x + 1)(2 + 3)",
		"def f(x): if x < 1: 0 else: f(x - 1) in f(10)",
		"let adder = lambda(x): lambda(y): x + y in adder(10)(32)",
	}
	for _, src := range sources {
		anf := Normalize(mustParse(t, src))
		if !isANF(anf) {
			t.Errorf("Normalize of %q is not in ANF: %s", src, anf)
		}
	}
}

// TestNormalizeUniqueTags tests that every node carries a distinct tag ID
func TestNormalizeUniqueTags(t *testing.T) {
	anf := Normalize(mustParse(t, "if isnum(1 + 2): (3, 4 * 5) else: add1(6)"))
	var tags []int
	collectTags(anf, &tags)
	seen := make(map[int]bool)
	for _, id := range tags {
		if id == 0 {
			t.Error("Found a node with no tag ID")
		}
		if seen[id] {
			t.Errorf("Tag %d assigned twice", id)
		}
		seen[id] = true
	}
}

// TestNormalizeImmediatePassThrough tests that already-normal expressions
// keep their shape
func TestNormalizeImmediatePassThrough(t *testing.T) {
	anf := Normalize(mustParse(t, "let x = 1 in x + 2"))
	let, ok := anf.(*Let)
	if !ok {
		t.Fatalf("Expected a Let, got %T", anf)
	}
	if _, ok := let.Rhs.(*Number); !ok {
		t.Errorf("Expected an untouched number rhs, got %s", let.Rhs)
	}
	if _, ok := let.Body.(*Prim2); !ok {
		t.Errorf("Expected an untouched Prim2 body, got %s", let.Body)
	}
}

// TestNormalizeIntroducesBindings tests that nested operands get named
func TestNormalizeIntroducesBindings(t *testing.T) {
	anf := Normalize(mustParse(t, "(1 + 2) * 3"))
	let, ok := anf.(*Let)
	if !ok {
		t.Fatalf("Expected a Let wrapper, got %T: %s", anf, anf)
	}
	if _, ok := let.Rhs.(*Prim2); !ok {
		t.Errorf("Expected the inner sum as rhs, got %s", let.Rhs)
	}
	mul, ok := let.Body.(*Prim2)
	if !ok {
		t.Fatalf("Expected a product body, got %s", let.Body)
	}
	id, ok := mul.Left.(*Id)
	if !ok || id.Name != let.Name {
		t.Errorf("Expected the left operand to reference %q, got %s", let.Name, mul.Left)
	}
}

// TestNormalizeDeterministic tests that normalization is reproducible
func TestNormalizeDeterministic(t *testing.T) {
	src := "let t = (1 + 2, 3) in print(t[0]) + t[1] * 4"
	a := Normalize(mustParse(t, src))
	b := Normalize(mustParse(t, src))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Normalize is not deterministic:\n%s\n%s", a, b)
	}
}
