package main

import (
	"strings"
	"testing"
)

// TestCheckAccepts tests well-formed programs
func TestCheckAccepts(t *testing.T) {
	good := []string{
		"42",
		"let x = 1 in x",
		"let x = 1 in let x = x + 1 in x",
		"lambda(x, y): x + y",
		"def f(x): f(x) in f(1)",
		"let t = (1, 2, 3) in t[0]",
		"1073741823",
		"-1073741824",
	}
	for _, src := range good {
		if err := Check(mustParse(t, src)); err != nil {
			t.Errorf("Check of %q failed: %v", src, err)
		}
	}
}

// TestCheckUnboundVariable tests the unbound-identifier diagnostic
func TestCheckUnboundVariable(t *testing.T) {
	tests := []string{
		"x",
		"let x = y in x",
		"lambda(x): y",
		"def f(x): g(x) in f(1)",
	}
	for _, src := range tests {
		err := Check(mustParse(t, src))
		if err == nil {
			t.Errorf("Expected check of %q to fail", src)
			continue
		}
		if !strings.Contains(err.Error(), "unbound variable") {
			t.Errorf("Check of %q: unexpected message %q", src, err)
		}
	}
}

// TestCheckFunSelfReference tests that a function name is bound in its own
// body but not outside a def
func TestCheckFunSelfReference(t *testing.T) {
	if err := Check(mustParse(t, "def f(x): f(x) in 1")); err != nil {
		t.Errorf("Self-reference inside body should be allowed: %v", err)
	}
	if err := Check(mustParse(t, "let g = lambda(x): g(x) in 1")); err == nil {
		t.Error("A lambda must not see its own let binding")
	}
}

// TestCheckDuplicateParams tests the duplicate-parameter diagnostic
func TestCheckDuplicateParams(t *testing.T) {
	for _, src := range []string{"lambda(x, x): x", "def f(a, b, a): a in 1"} {
		err := Check(mustParse(t, src))
		if err == nil || !strings.Contains(err.Error(), "duplicate parameter") {
			t.Errorf("Check of %q: expected duplicate parameter error, got %v", src, err)
		}
	}
}

// TestCheckLiteralRange tests the 31-bit literal bound
func TestCheckLiteralRange(t *testing.T) {
	if err := Check(mustParse(t, "1073741824")); err == nil {
		t.Error("2^30 should be out of range")
	}
	if err := Check(mustParse(t, "-1073741825")); err == nil {
		t.Error("-(2^30)-1 should be out of range")
	}
}

// TestCheckErrorPosition tests that diagnostics carry source positions
func TestCheckErrorPosition(t *testing.T) {
	err := Check(mustParse(t, "let x = 1 in\n  y"))
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !strings.HasPrefix(err.Error(), "2:3:") {
		t.Errorf("Expected error at 2:3, got %q", err)
	}
}
