package tidy

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

type TokenType int

const (
	TokenTypeEmpty TokenType = iota
	TokenLParen
	TokenRParen
	TokenLSquare
	TokenRSquare
	TokenQuote
	TokenTilde
	TokenDollar
	TokenSymbol
	TokenSymbolColon
	TokenBool
	TokenNull
	TokenDecimal
	TokenHex
	TokenFloat
	TokenString
	TokenEnd
)

type Token struct {
	typ     TokenType
	str     string
	linenum int
}

var EndTk = Token{typ: TokenEnd}

func (t Token) String() string {
	switch t.typ {
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLSquare:
		return "["
	case TokenRSquare:
		return "]"
	case TokenQuote:
		return "'"
	case TokenTilde:
		return "~"
	case TokenDollar:
		return "$"
	case TokenHex:
		return "0x" + t.str
	case TokenString:
		return strconv.Quote(t.str)
	case TokenSymbolColon:
		return t.str + ":"
	case TokenEnd:
		return "<end>"
	}
	return t.str
}

type LexerState int

const (
	LexerNormal      LexerState = iota
	LexerCommentLine            //
	LexerStrLit                 //
	LexerStrEscaped             //
	LexerFirstFwdSlash          // could be the start of a // comment
)

type Lexer struct {
	state   LexerState
	tokens  []Token
	buffer  *bytes.Buffer
	linenum int
}

func NewLexer() *Lexer {
	return &Lexer{
		tokens:  make([]Token, 0, 10),
		buffer:  new(bytes.Buffer),
		state:   LexerNormal,
		linenum: 1,
	}
}

func (lexer *Lexer) Linenum() int {
	return lexer.linenum
}

func (lexer *Lexer) Reset() {
	lexer.tokens = lexer.tokens[:0]
	lexer.state = LexerNormal
	lexer.linenum = 1
	lexer.buffer.Reset()
}

func (lexer *Lexer) Token(typ TokenType, str string) Token {
	return Token{typ: typ, str: str, linenum: lexer.linenum}
}

func (lexer *Lexer) AppendToken(tok Token) {
	lexer.tokens = append(lexer.tokens, tok)
}

var (
	BoolRegex    = regexp.MustCompile("^(true|false)$")
	DecimalRegex = regexp.MustCompile("^-?[0-9]+$")
	HexRegex     = regexp.MustCompile("^0x[0-9a-fA-F]+$")
	FloatRegex   = regexp.MustCompile("^-?([0-9]+\\.[0-9]*)$|^-?(\\.[0-9]+)$|^-?([0-9]+(\\.[0-9]*)?[eE](-?[0-9]+))$")

	// Symbols cannot start with a digit, nor contain whitespace or any
	// of ( ) [ ] ' " ~ $ ; : and a trailing colon makes an argument label.
	SymbolRegex = regexp.MustCompile(`^[^()\[\]'"~$;:0-9][^()\[\]'"~$;:]*$`)
)

func EscapeChar(char rune) (rune, error) {
	switch char {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case '\\':
		return '\\', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	}
	return ' ', errors.New("invalid escape sequence")
}

func (lexer *Lexer) DecodeAtom(atom string) (Token, error) {
	endColon := false
	n := len(atom)
	if n > 1 && atom[n-1] == ':' {
		endColon = true
		atom = atom[:n-1]
	}
	if endColon {
		if SymbolRegex.MatchString(atom) {
			return lexer.Token(TokenSymbolColon, atom), nil
		}
		return Token{}, fmt.Errorf("line %d: invalid argument label '%s:'", lexer.linenum, atom)
	}
	if BoolRegex.MatchString(atom) {
		return lexer.Token(TokenBool, atom), nil
	}
	if atom == "null" {
		return lexer.Token(TokenNull, atom), nil
	}
	if DecimalRegex.MatchString(atom) {
		return lexer.Token(TokenDecimal, atom), nil
	}
	if HexRegex.MatchString(atom) {
		return lexer.Token(TokenHex, atom[2:]), nil
	}
	if FloatRegex.MatchString(atom) {
		return lexer.Token(TokenFloat, atom), nil
	}
	if atom == "NaN" || atom == "Inf" || atom == "-Inf" {
		return lexer.Token(TokenFloat, atom), nil
	}
	if SymbolRegex.MatchString(atom) {
		return lexer.Token(TokenSymbol, atom), nil
	}
	return Token{}, fmt.Errorf("line %d: unrecognized atom: '%s'", lexer.linenum, atom)
}

func (lexer *Lexer) dumpBuffer() error {
	if lexer.buffer.Len() == 0 {
		return nil
	}
	tok, err := lexer.DecodeAtom(lexer.buffer.String())
	if err != nil {
		return err
	}
	lexer.buffer.Reset()
	lexer.AppendToken(tok)
	return nil
}

func (lexer *Lexer) dumpString() {
	str := lexer.buffer.String()
	lexer.buffer.Reset()
	lexer.AppendToken(lexer.Token(TokenString, str))
}

func (lexer *Lexer) LexNextRune(r rune) error {
top:
	switch lexer.state {

	case LexerFirstFwdSlash:
		lexer.state = LexerNormal
		if r == '/' {
			lexer.buffer.Reset()
			lexer.state = LexerCommentLine
			return nil
		}
		// a lone slash is the division symbol, or part of a name
		lexer.buffer.WriteRune('/')
		goto top

	case LexerCommentLine:
		if r == '\n' {
			lexer.linenum++
			lexer.state = LexerNormal
		}
		return nil

	case LexerStrLit:
		if r == '\\' {
			lexer.state = LexerStrEscaped
			return nil
		}
		if r == '"' {
			lexer.dumpString()
			lexer.state = LexerNormal
			return nil
		}
		if r == '\n' {
			lexer.linenum++
		}
		lexer.buffer.WriteRune(r)
		return nil

	case LexerStrEscaped:
		char, err := EscapeChar(r)
		if err != nil {
			return fmt.Errorf("line %d: %w", lexer.linenum, err)
		}
		lexer.buffer.WriteRune(char)
		lexer.state = LexerStrLit
		return nil

	case LexerNormal:
		switch r {
		case '/':
			if lexer.buffer.Len() == 0 {
				lexer.state = LexerFirstFwdSlash
				return nil
			}

		case '"':
			if lexer.buffer.Len() > 0 {
				return fmt.Errorf("line %d: unexpected quote", lexer.linenum)
			}
			lexer.state = LexerStrLit
			return nil

		case ';':
			err := lexer.dumpBuffer()
			if err != nil {
				return err
			}
			lexer.state = LexerCommentLine
			return nil

		case ':':
			// colon ends an argument label, e.g. `data: x`
			lexer.buffer.WriteRune(':')
			return lexer.dumpBuffer()

		case '\'':
			if lexer.buffer.Len() > 0 {
				return fmt.Errorf("line %d: unexpected quote", lexer.linenum)
			}
			lexer.AppendToken(lexer.Token(TokenQuote, ""))
			return nil

		case '~':
			if lexer.buffer.Len() > 0 {
				return fmt.Errorf("line %d: unexpected tilde", lexer.linenum)
			}
			lexer.AppendToken(lexer.Token(TokenTilde, ""))
			return nil

		case '$':
			err := lexer.dumpBuffer()
			if err != nil {
				return err
			}
			lexer.AppendToken(lexer.Token(TokenDollar, "$"))
			return nil

		case '(', ')', '[', ']':
			err := lexer.dumpBuffer()
			if err != nil {
				return err
			}
			lexer.AppendToken(lexer.DecodeBrace(r))
			return nil

		case ' ', '\t', '\r', ',':
			return lexer.dumpBuffer()

		case '\n':
			err := lexer.dumpBuffer()
			lexer.linenum++
			return err
		}
	}

	lexer.buffer.WriteRune(r)
	return nil
}

func (lexer *Lexer) DecodeBrace(brace rune) Token {
	switch brace {
	case '(':
		return lexer.Token(TokenLParen, "")
	case ')':
		return lexer.Token(TokenRParen, "")
	case '[':
		return lexer.Token(TokenLSquare, "")
	case ']':
		return lexer.Token(TokenRSquare, "")
	}
	return EndTk
}

// Finish flushes any pending atom. An unterminated string literal is
// UnexpectedEnd, so a line-oriented caller can ask for more input.
func (lexer *Lexer) Finish() error {
	switch lexer.state {
	case LexerStrLit, LexerStrEscaped:
		return UnexpectedEnd
	case LexerFirstFwdSlash:
		lexer.state = LexerNormal
		lexer.buffer.WriteRune('/')
	case LexerCommentLine:
		lexer.state = LexerNormal
	}
	return lexer.dumpBuffer()
}

func (lexer *Lexer) Tokens() []Token {
	return lexer.tokens
}

// Tokenize lexes all of src.
func Tokenize(src string) ([]Token, error) {
	lexer := NewLexer()
	for _, r := range src {
		if err := lexer.LexNextRune(r); err != nil {
			return nil, err
		}
	}
	if err := lexer.Finish(); err != nil {
		return nil, err
	}
	return lexer.Tokens(), nil
}
