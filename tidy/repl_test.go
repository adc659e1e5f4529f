package tidy

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test130SessionEvaluatesAgainstData(t *testing.T) {

	cv.Convey(`Given a session with data loaded, each line should see the columns first, and without data it should be a plain evaluation`, t, func() {
		ev := NewEvaluator()
		data := MakeNamedList([]string{"x"}, []Sexp{&SexpInt{Val: 10}})
		s := NewSession(ev, data)
		var out bytes.Buffer
		s.Out = &out

		ev.AddGlobal("x", &SexpInt{Val: 1})
		xs, err := ParseString(`(+ x .env$x)`)
		panicOn(err)
		res, err := s.EvalLine(xs)
		panicOn(err)
		cv.So(res, cv.ShouldResemble, &SexpInt{Val: 11})

		// an assignment lands in its line's overscope and goes with it
		xs, err = ParseString(`(<- k 3) k`)
		panicOn(err)
		res, err = s.EvalLine(xs)
		cv.So(err, cv.ShouldNotBeNil)
		_, err = ev.Global().Get(MakeSymbol("k"))
		cv.So(errors.Is(err, SymNotFound), cv.ShouldBeTrue)

		xs, err = ParseString(`(<- y 5) y`)
		panicOn(err)
		s.Data = nil
		res, err = s.EvalLine(xs)
		panicOn(err)
		cv.So(res, cv.ShouldResemble, &SexpInt{Val: 5})
		_, err = ev.Global().Get(MakeSymbol("y"))
		cv.So(err, cv.ShouldBeNil)
	})

	cv.Convey(`Given dot commands, the session should handle them and leave everything else to the evaluator`, t, func() {
		ev := NewEvaluator()
		ev.AddGlobal("g", &SexpInt{Val: 1})
		s := NewSession(ev, MakeNamedList([]string{"a", "b"}, []Sexp{SexpNull, SexpNull}))
		var out bytes.Buffer
		s.Out = &out

		handled, quit := s.Command(".data")
		cv.So(handled, cv.ShouldBeTrue)
		cv.So(quit, cv.ShouldBeFalse)
		cv.So(out.String(), cv.ShouldContainSubstring, "data columns: a b")

		out.Reset()
		s.Command(".ls")
		cv.So(out.String(), cv.ShouldContainSubstring, "g -> 1")

		s.Command(".trace")
		cv.So(ev.Trace, cv.ShouldBeTrue)
		s.Command(".trace")
		cv.So(ev.Trace, cv.ShouldBeFalse)

		handled, _ = s.Command(".nodata")
		cv.So(handled, cv.ShouldBeTrue)
		cv.So(s.Data, cv.ShouldBeNil)

		handled, _ = s.Command(".data$a")
		cv.So(handled, cv.ShouldBeFalse)
		handled, _ = s.Command("(+ 1 2)")
		cv.So(handled, cv.ShouldBeFalse)

		handled, quit = s.Command(".quit")
		cv.So(handled, cv.ShouldBeTrue)
		cv.So(quit, cv.ShouldBeTrue)
	})

	cv.Convey(`Given a stop, the repl message should lead with the user's text`, t, func() {
		ev := NewEvaluator()
		_, err := ev.EvalString(`(stop "column " "missing")`, nil)
		cv.So(ErrorMessage(err), cv.ShouldEqual, "Error: column missing")
		cv.So(strings.HasPrefix(ErrorMessage(errors.New("plain")), "Error: plain"), cv.ShouldBeTrue)
	})
}

func Test131CompletionFromBoundFunctions(t *testing.T) {

	cv.Convey(`Given the evaluator's base frame, completion should offer its functions and the pronouns, completing only the last word of the line`, t, func() {
		words := CompletionWords(NewEvaluatorSandbox())
		cv.So(words, cv.ShouldContain, "(eval_tidy ")
		cv.So(words, cv.ShouldContain, ".data$")
		cv.So(words, cv.ShouldNotContain, "(sql_open ")
		cv.So(words, cv.ShouldNotContain, "(null ")

		cv.So(completeFrom(words, "(eval_t"), cv.ShouldResemble, []string{"(eval_tidy "})
		cv.So(completeFrom(words, "(list 1 .da"), cv.ShouldResemble, []string{"(list 1 .data$"})
		cv.So(completeFrom(words, "(+ 1 (quo_e"), cv.ShouldResemble, []string{"(+ 1 (quo_env ", "(+ 1 (quo_expr "})
		cv.So(completeFrom(words, "(zzz"), cv.ShouldBeNil)
	})
}
