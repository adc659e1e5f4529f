package tidy

import (
	"fmt"
	"math"
	"strconv"
)

// Parser reads s-expressions from a token slice. Running out of tokens
// inside an unbalanced form is UnexpectedEnd.
type Parser struct {
	toks []Token
	pos  int
}

func NewParser(toks []Token) *Parser {
	return &Parser{toks: toks}
}

// ParseString lexes and parses every expression in src.
func ParseString(src string) ([]Sexp, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return NewParser(toks).ParseTokens()
}

// ParseOne parses src and insists on exactly one expression.
func ParseOne(src string) (Sexp, error) {
	xs, err := ParseString(src)
	if err != nil {
		return nil, err
	}
	if len(xs) != 1 {
		return nil, fmt.Errorf("expected one expression, found %d", len(xs))
	}
	return xs[0], nil
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.toks) {
		return EndTk
	}
	return p.toks[p.pos]
}

func (p *Parser) next() Token {
	tok := p.peek()
	if tok.typ != TokenEnd {
		p.pos++
	}
	return tok
}

func (p *Parser) ParseTokens() ([]Sexp, error) {
	var xs []Sexp
	for p.peek().typ != TokenEnd {
		x, err := p.ParseExpression(0)
		if err != nil {
			return nil, err
		}
		xs = append(xs, x)
	}
	return xs, nil
}

// ParseExpression reads one expression, folding any trailing $name
// accessors into ($ x name) calls.
func (p *Parser) ParseExpression(depth int) (Sexp, error) {
	x, err := p.parsePrimary(depth)
	if err != nil {
		return nil, err
	}
	for p.peek().typ == TokenDollar && x != symDollar {
		p.next()
		rhs := p.next()
		switch rhs.typ {
		case TokenSymbol:
			x = MakeCall(symDollar, x, MakeSymbol(rhs.str))
		case TokenString:
			x = MakeCall(symDollar, x, &SexpStr{S: rhs.str})
		case TokenEnd:
			return nil, UnexpectedEnd
		default:
			return nil, fmt.Errorf("line %d: invalid subscript after $: %s", rhs.linenum, rhs)
		}
	}
	return x, nil
}

func (p *Parser) parsePrimary(depth int) (Sexp, error) {
	tok := p.next()
	switch tok.typ {
	case TokenEnd:
		return nil, UnexpectedEnd
	case TokenLParen:
		return p.ParseCall(depth+1, TokenRParen, nil)
	case TokenLSquare:
		return p.ParseCall(depth+1, TokenRSquare, symSquare)
	case TokenRParen, TokenRSquare:
		return nil, fmt.Errorf("line %d: unexpected %s", tok.linenum, tok)
	case TokenQuote:
		x, err := p.ParseExpression(depth)
		if err != nil {
			return nil, err
		}
		return MakeCall(symQuote, x), nil
	case TokenTilde:
		x, err := p.ParseExpression(depth)
		if err != nil {
			return nil, err
		}
		return MakeCall(symTilde, x), nil
	case TokenDollar:
		return symDollar, nil
	case TokenSymbolColon:
		return nil, fmt.Errorf("line %d: argument label %s outside of a call", tok.linenum, tok)
	}
	return p.parseAtom(tok)
}

func (p *Parser) parseAtom(tok Token) (Sexp, error) {
	switch tok.typ {
	case TokenSymbol:
		return MakeSymbol(tok.str), nil
	case TokenBool:
		return &SexpBool{Val: tok.str == "true"}, nil
	case TokenNull:
		return SexpNull, nil
	case TokenDecimal:
		i, err := strconv.ParseInt(tok.str, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", tok.linenum, err)
		}
		return &SexpInt{Val: i}, nil
	case TokenHex:
		i, err := strconv.ParseInt(tok.str, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", tok.linenum, err)
		}
		return &SexpInt{Val: i}, nil
	case TokenFloat:
		switch tok.str {
		case "NaN":
			return &SexpFloat{Val: math.NaN()}, nil
		case "Inf":
			return &SexpFloat{Val: math.Inf(1)}, nil
		case "-Inf":
			return &SexpFloat{Val: math.Inf(-1)}, nil
		}
		f, err := strconv.ParseFloat(tok.str, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", tok.linenum, err)
		}
		return &SexpFloat{Val: f}, nil
	case TokenString:
		return &SexpStr{S: tok.str}, nil
	}
	return nil, fmt.Errorf("line %d: unexpected token %s", tok.linenum, tok)
}

// ParseCall reads up to the closing token. With a nil head the first
// element is the head; square brackets pass symSquare.
func (p *Parser) ParseCall(depth int, end TokenType, head Sexp) (Sexp, error) {
	var args []Arg
	for {
		tok := p.peek()
		switch tok.typ {
		case TokenEnd:
			return nil, UnexpectedEnd
		case end:
			p.next()
			if head == nil {
				// ()
				return SexpNull, nil
			}
			return MakeNamedCall(head, args...), nil
		case TokenRParen, TokenRSquare:
			return nil, fmt.Errorf("line %d: mismatched %s", tok.linenum, tok)
		case TokenSymbolColon:
			if head == nil {
				return nil, fmt.Errorf("line %d: call head cannot be a label %s", tok.linenum, tok)
			}
			p.next()
			x, err := p.ParseExpression(depth)
			if err != nil {
				return nil, err
			}
			args = append(args, NamedArg(tok.str, x))
			continue
		}
		x, err := p.ParseExpression(depth)
		if err != nil {
			return nil, err
		}
		if head == nil {
			head = x
			continue
		}
		args = append(args, Arg{Expr: x})
	}
}
