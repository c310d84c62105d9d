package main

import "testing"

// TestTokenizeBasic tests token types for a representative expression
func TestTokenizeBasic(t *testing.T) {
	tokens, err := NewLexer("let x = 41 in add1(x)").Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	want := []TokenType{
		TOKEN_LET, TOKEN_IDENT, TOKEN_EQUALS, TOKEN_NUMBER, TOKEN_IN,
		TOKEN_IDENT, TOKEN_LPAREN, TOKEN_IDENT, TOKEN_RPAREN, TOKEN_EOF,
	}
	if len(tokens) != len(want) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i, tt := range want {
		if tokens[i].Type != tt {
			t.Errorf("Token %d: expected %s, got %s (%q)", i, tt, tokens[i].Type, tokens[i].Value)
		}
	}
}

// TestTokenizeOperators tests all operator and punctuation tokens
func TestTokenizeOperators(t *testing.T) {
	tokens, err := NewLexer("+ - * < > == = ( ) [ ] , :").Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	want := []TokenType{
		TOKEN_PLUS, TOKEN_MINUS, TOKEN_STAR, TOKEN_LT, TOKEN_GT, TOKEN_EQ,
		TOKEN_EQUALS, TOKEN_LPAREN, TOKEN_RPAREN, TOKEN_LBRACKET,
		TOKEN_RBRACKET, TOKEN_COMMA, TOKEN_COLON, TOKEN_EOF,
	}
	for i, tt := range want {
		if tokens[i].Type != tt {
			t.Errorf("Token %d: expected %s, got %s", i, tt, tokens[i].Type)
		}
	}
}

// TestTokenizeKeywords tests that keywords are distinguished from identifiers
func TestTokenizeKeywords(t *testing.T) {
	tokens, err := NewLexer("let in if else def lambda true false letx").Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	want := []TokenType{
		TOKEN_LET, TOKEN_IN, TOKEN_IF, TOKEN_ELSE, TOKEN_DEF, TOKEN_LAMBDA,
		TOKEN_TRUE, TOKEN_FALSE, TOKEN_IDENT, TOKEN_EOF,
	}
	for i, tt := range want {
		if tokens[i].Type != tt {
			t.Errorf("Token %d: expected %s, got %s", i, tt, tokens[i].Type)
		}
	}
}

// TestTokenizePositions tests line and column tracking
func TestTokenizePositions(t *testing.T) {
	tokens, err := NewLexer("1 +\n  x").Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	checks := []struct {
		idx  int
		line int
		col  int
	}{
		{0, 1, 1}, // 1
		{1, 1, 3}, // +
		{2, 2, 3}, // x
	}
	for _, c := range checks {
		pos := tokens[c.idx].Pos
		if pos.Line != c.line || pos.Col != c.col {
			t.Errorf("Token %d: expected %d:%d, got %s", c.idx, c.line, c.col, pos)
		}
	}
}

// TestTokenizeComments tests that comments run to end of line
func TestTokenizeComments(t *testing.T) {
	tokens, err := NewLexer("1 # the rest is ignored\n2").Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	if len(tokens) != 3 {
		t.Fatalf("Expected 3 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[0].Value != "1" || tokens[1].Value != "2" {
		t.Errorf("Unexpected token values: %v", tokens)
	}
}

// TestTokenizeBadCharacter tests the error path
func TestTokenizeBadCharacter(t *testing.T) {
	_, err := NewLexer("1 ? 2").Tokenize()
	if err == nil {
		t.Fatal("Expected an error for '?', got none")
	}
}
