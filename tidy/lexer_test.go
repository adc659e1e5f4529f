package tidy

import (
	"errors"
	"math"
	"strings"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test040LexerTokenTypes(t *testing.T) {

	cv.Convey(`Given a small form, the lexer should produce one token per atom and brace, with string contents unquoted`, t, func() {
		toks, err := Tokenize(`(f "b c" 12 0x1F 2.5 true null lbl: x)`)
		panicOn(err)
		types := make([]TokenType, len(toks))
		for i, tk := range toks {
			types[i] = tk.typ
		}
		cv.So(types, cv.ShouldResemble, []TokenType{
			TokenLParen, TokenSymbol, TokenString, TokenDecimal, TokenHex,
			TokenFloat, TokenBool, TokenNull, TokenSymbolColon, TokenSymbol, TokenRParen,
		})
		cv.So(toks[2].str, cv.ShouldEqual, "b c")
		cv.So(toks[4].str, cv.ShouldEqual, "1F")
		cv.So(toks[8].str, cv.ShouldEqual, "lbl")
	})
}

func Test041LexingScientificNotationAndSlashes(t *testing.T) {

	cv.Convey(`Given 8.06e-05 it should be a single float atom, not broken up at the minus sign, and a lone slash should be the division symbol`, t, func() {
		xs, err := ParseString(`(<- a 8.06e-05) (/ 4 2)`)
		panicOn(err)
		cv.So(xs[0].SexpString(nil), cv.ShouldEqual, `(<- a 8.06e-05)`)
		cv.So(xs[1].SexpString(nil), cv.ShouldEqual, `(/ 4 2)`)

		xs, err = ParseString(`NaN Inf -Inf -3`)
		panicOn(err)
		cv.So(math.IsNaN(xs[0].(*SexpFloat).Val), cv.ShouldBeTrue)
		cv.So(math.IsInf(xs[1].(*SexpFloat).Val, 1), cv.ShouldBeTrue)
		cv.So(math.IsInf(xs[2].(*SexpFloat).Val, -1), cv.ShouldBeTrue)
		cv.So(xs[3], cv.ShouldResemble, &SexpInt{Val: -3})
	})
}

func Test042LexerCommentsAndEscapes(t *testing.T) {

	cv.Convey(`Given ; and // comments, they should run to the end of the line, and escapes inside strings should be decoded`, t, func() {
		xs, err := ParseString("; leading\n1 // trailing\n \"a\\tb\\\"c\"")
		panicOn(err)
		cv.So(len(xs), cv.ShouldEqual, 2)
		cv.So(xs[0], cv.ShouldResemble, &SexpInt{Val: 1})
		cv.So(xs[1], cv.ShouldResemble, &SexpStr{S: "a\tb\"c"})

		_, err = Tokenize(`"bad \q"`)
		cv.So(err, cv.ShouldNotBeNil)
	})

	cv.Convey(`Given an unterminated string, the lexer should say UnexpectedEnd so the repl can read another line`, t, func() {
		_, err := Tokenize(`(print "abc`)
		cv.So(errors.Is(err, UnexpectedEnd), cv.ShouldBeTrue)
	})

	cv.Convey(`Given a bad atom on the second line, the error should carry the line number`, t, func() {
		_, err := Tokenize("(a\n b\"c\")")
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(strings.Contains(err.Error(), "line 2"), cv.ShouldBeTrue)
	})
}
