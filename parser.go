package main

import (
	"fmt"
	"strconv"
)

// Recursive-descent parser for FDL. Grammar, loosest binding first:
//
//	expr       := letExpr | ifExpr | defExpr | lambdaExpr | comparison
//	comparison := additive (('<' | '>' | '==') additive)?
//	additive   := multiplicative (('+' | '-') multiplicative)*
//	multiplicative := postfix ('*' postfix)*
//	postfix    := primary ('[' expr ']' | '(' args ')')*
//	primary    := number | 'true' | 'false' | ident | builtin '(' expr ')'
//	            | '(' expr (',' expr)* ')'
//
// Parenthesized lists of two or more expressions are tuples; a single
// parenthesized expression is grouping.

type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// builtin1 maps surface names of the unary primitives to their operators.
var builtin1 = map[string]Prim1Op{
	"add1":   OpAdd1,
	"sub1":   OpSub1,
	"isnum":  OpIsNum,
	"isbool": OpIsBool,
	"print":  OpPrint,
}

func (p *Parser) current() Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek() Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.current()
	if tok.Type != tt {
		return tok, fmt.Errorf("%s: expected %s, found %s", tok.Pos, tt, tok.Type)
	}
	return p.advance(), nil
}

// Parse parses a single top-level expression followed by end of input.
func (p *Parser) Parse() (Expr, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.current().Type != TOKEN_EOF {
		tok := p.current()
		return nil, fmt.Errorf("%s: unexpected %s after expression", tok.Pos, tok.Type)
	}
	return e, nil
}

func (p *Parser) parseExpr() (Expr, error) {
	switch p.current().Type {
	case TOKEN_LET:
		return p.parseLet()
	case TOKEN_IF:
		return p.parseIf()
	case TOKEN_DEF:
		return p.parseDef()
	case TOKEN_LAMBDA:
		return p.parseLambda()
	default:
		return p.parseComparison()
	}
}

func (p *Parser) parseLet() (Expr, error) {
	letTok := p.advance()
	nameTok, err := p.expect(TOKEN_IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TOKEN_EQUALS); err != nil {
		return nil, err
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TOKEN_IN); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Let{Name: nameTok.Value, Rhs: rhs, Body: body, Tag: Tag{Pos: letTok.Pos}}, nil
}

func (p *Parser) parseIf() (Expr, error) {
	ifTok := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TOKEN_COLON); err != nil {
		return nil, err
	}
	thenE, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TOKEN_ELSE); err != nil {
		return nil, err
	}
	if _, err := p.expect(TOKEN_COLON); err != nil {
		return nil, err
	}
	elseE, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &If{Cond: cond, Then: thenE, Else: elseE, Tag: Tag{Pos: ifTok.Pos}}, nil
}

// parseDef parses `def f(x, ...): body in rest`, which binds f both inside
// its own body (recursion) and in the trailing expression.
func (p *Parser) parseDef() (Expr, error) {
	defTok := p.advance()
	nameTok, err := p.expect(TOKEN_IDENT)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TOKEN_COLON); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TOKEN_IN); err != nil {
		return nil, err
	}
	rest, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	fn := &Fun{Name: nameTok.Value, Params: params, Body: body, Tag: Tag{Pos: defTok.Pos}}
	return &Let{Name: nameTok.Value, Rhs: fn, Body: rest, Tag: Tag{Pos: defTok.Pos}}, nil
}

func (p *Parser) parseLambda() (Expr, error) {
	lamTok := p.advance()
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TOKEN_COLON); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Lambda{Params: params, Body: body, Tag: Tag{Pos: lamTok.Pos}}, nil
}

func (p *Parser) parseParams() ([]string, error) {
	if _, err := p.expect(TOKEN_LPAREN); err != nil {
		return nil, err
	}
	params := []string{}
	if p.current().Type == TOKEN_RPAREN {
		p.advance()
		return params, nil
	}
	for {
		nameTok, err := p.expect(TOKEN_IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, nameTok.Value)
		if p.current().Type != TOKEN_COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TOKEN_RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	var op Prim2Op
	switch p.current().Type {
	case TOKEN_LT:
		op = OpLess
	case TOKEN_GT:
		op = OpGreater
	case TOKEN_EQ:
		op = OpEqual
	default:
		return left, nil
	}
	opTok := p.advance()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &Prim2{Op: op, Left: left, Right: right, Tag: Tag{Pos: opTok.Pos}}, nil
}

func (p *Parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op Prim2Op
		switch p.current().Type {
		case TOKEN_PLUS:
			op = OpPlus
		case TOKEN_MINUS:
			op = OpMinus
		default:
			return left, nil
		}
		opTok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Prim2{Op: op, Left: left, Right: right, Tag: Tag{Pos: opTok.Pos}}
	}
}

func (p *Parser) parseMultiplicative() (Expr, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TOKEN_STAR {
		opTok := p.advance()
		right, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		left = &Prim2{Op: OpTimes, Left: left, Right: right, Tag: Tag{Pos: opTok.Pos}}
	}
	return left, nil
}

func (p *Parser) parsePostfix() (Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.current().Type {
		case TOKEN_LBRACKET:
			openTok := p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TOKEN_RBRACKET); err != nil {
				return nil, err
			}
			e = &GetItem{Tuple: e, Index: idx, Tag: Tag{Pos: openTok.Pos}}
		case TOKEN_LPAREN:
			openTok := p.advance()
			args := []Expr{}
			if p.current().Type != TOKEN_RPAREN {
				for {
					arg, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if p.current().Type != TOKEN_COMMA {
						break
					}
					p.advance()
				}
			}
			if _, err := p.expect(TOKEN_RPAREN); err != nil {
				return nil, err
			}
			e = &App{Callee: e, Args: args, Tag: Tag{Pos: openTok.Pos}}
		default:
			return e, nil
		}
	}
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.current()
	switch tok.Type {
	case TOKEN_NUMBER:
		p.advance()
		n, err := strconv.Atoi(tok.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: bad number literal %q", tok.Pos, tok.Value)
		}
		return &Number{Value: n, Tag: Tag{Pos: tok.Pos}}, nil
	case TOKEN_TRUE:
		p.advance()
		return &Boolean{Value: true, Tag: Tag{Pos: tok.Pos}}, nil
	case TOKEN_FALSE:
		p.advance()
		return &Boolean{Value: false, Tag: Tag{Pos: tok.Pos}}, nil
	case TOKEN_MINUS:
		// Negative number literal
		p.advance()
		numTok, err := p.expect(TOKEN_NUMBER)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(numTok.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: bad number literal %q", numTok.Pos, numTok.Value)
		}
		return &Number{Value: -n, Tag: Tag{Pos: tok.Pos}}, nil
	case TOKEN_IDENT:
		if op, ok := builtin1[tok.Value]; ok && p.peek().Type == TOKEN_LPAREN {
			p.advance()
			p.advance()
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TOKEN_RPAREN); err != nil {
				return nil, err
			}
			return &Prim1{Op: op, Arg: arg, Tag: Tag{Pos: tok.Pos}}, nil
		}
		p.advance()
		return &Id{Name: tok.Value, Tag: Tag{Pos: tok.Pos}}, nil
	case TOKEN_LPAREN:
		p.advance()
		first, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.current().Type == TOKEN_COMMA {
			elems := []Expr{first}
			for p.current().Type == TOKEN_COMMA {
				p.advance()
				elem, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				elems = append(elems, elem)
			}
			if _, err := p.expect(TOKEN_RPAREN); err != nil {
				return nil, err
			}
			return &Tuple{Elems: elems, Tag: Tag{Pos: tok.Pos}}, nil
		}
		if _, err := p.expect(TOKEN_RPAREN); err != nil {
			return nil, err
		}
		return first, nil
	default:
		return nil, fmt.Errorf("%s: unexpected %s", tok.Pos, tok.Type)
	}
}

// ParseSource runs the lexer and parser over src.
func ParseSource(src string) (Expr, error) {
	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}
