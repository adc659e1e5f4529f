package tidy

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test070WireFormIsExact(t *testing.T) {

	cv.Convey(`Given calls, symbols, names and the missing marker, the wire form should bring every one of them back unchanged`, t, func() {
		srcs := []string{
			`(f a: 1 (g "s" 2.5) [x y])`,
			`(fn [a b] (+ a b))`,
			`(h)`,
			`sym`,
			`-42`,
			`null`,
		}
		for _, src := range srcs {
			x := mustParse(src)
			by, err := WireEncode(x)
			panicOn(err)
			back, err := WireDecode(by)
			panicOn(err)
			cv.So(back.SexpString(nil), cv.ShouldEqual, x.SexpString(nil))
		}

		parsed := mustParse(`(f a: 1 2)`)
		decoded, err := WireDecode(mustWire(parsed))
		panicOn(err)
		cv.So(decoded, cv.ShouldResemble, parsed)
		cv.So(decoded, cv.ShouldResemble, MakeNamedCall(MakeSymbol("f"),
			NamedArg("a", &SexpInt{Val: 1}), NamedArg("", &SexpInt{Val: 2})))
		empty := mustParse(`(h)`).(*SexpCall)
		cv.So(empty.Args, cv.ShouldNotBeNil)
		cv.So(empty.Args, cv.ShouldBeEmpty)

		lst := MakeNamedList([]string{"a", "", "m"}, []Sexp{
			&SexpRaw{Val: []byte{1, 2}}, &SexpBool{Val: true}, SexpMissing})
		by, err := WireEncode(lst)
		panicOn(err)
		back, err := WireDecode(by)
		panicOn(err)
		bl := back.(*SexpList)
		cv.So(bl.Names(), cv.ShouldResemble, []string{"a", "", "m"})
		cv.So(bl.At(0).Val, cv.ShouldResemble, &SexpRaw{Val: []byte{1, 2}})
		cv.So(bl.At(2).Val, cv.ShouldEqual, SexpMissing)

		sym, err := WireDecode(mustWire(MakeSymbol("interned")))
		panicOn(err)
		cv.So(sym, cv.ShouldEqual, MakeSymbol("interned"))
	})

	cv.Convey(`Given a quosure, the wire form should carry its expression and drop its environment`, t, func() {
		q := NewQuosure(mustParse(`(+ x 1)`), NewFrame(nil))
		back, err := WireDecode(mustWire(q))
		panicOn(err)
		bq := back.(*SexpQuosure)
		cv.So(bq.Expr().SexpString(nil), cv.ShouldEqual, `(+ x 1)`)
		cv.So(bq.IsScoped(), cv.ShouldBeFalse)
	})

	cv.Convey(`Given trailing bytes or a frame, the wire codec should report an error`, t, func() {
		by := append(mustWire(&SexpInt{Val: 1}), mustWire(&SexpInt{Val: 2})...)
		_, err := WireDecode(by)
		cv.So(err, cv.ShouldNotBeNil)

		x, rest, err := ReadSexpBytes(by)
		panicOn(err)
		cv.So(x, cv.ShouldResemble, &SexpInt{Val: 1})
		cv.So(len(rest), cv.ShouldBeGreaterThan, 0)

		_, err = WireEncode(NewFrame(nil))
		cv.So(err, cv.ShouldNotBeNil)
	})
}

func mustWire(x Sexp) []byte {
	by, err := WireEncode(x)
	panicOn(err)
	return by
}

func Test071HashesFollowTheWireForm(t *testing.T) {

	cv.Convey(`Given equal data, the fingerprint should be equal, and a change of name alone should change it`, t, func() {
		a := MakeNamedList([]string{"x"}, []Sexp{&SexpInt{Val: 1}})
		b := MakeNamedList([]string{"x"}, []Sexp{&SexpInt{Val: 1}})
		c := MakeNamedList([]string{"y"}, []Sexp{&SexpInt{Val: 1}})

		ha, err := Fingerprint(a)
		panicOn(err)
		hb, err := Fingerprint(b)
		panicOn(err)
		hc, err := Fingerprint(c)
		panicOn(err)
		cv.So(ha, cv.ShouldEqual, hb)
		cv.So(ha, cv.ShouldNotEqual, hc)
		cv.So(len(Blake2b256([]byte("abc"))), cv.ShouldEqual, 32)
	})

	cv.Convey(`Given the hash builtin, the default, hex and sha3 forms should each be stable`, t, func() {
		ev := NewEvaluator()
		h1, err := ev.EvalString(`(hash (list 1 2))`, nil)
		panicOn(err)
		h2, err := ev.EvalString(`(hash (list 1 2))`, nil)
		panicOn(err)
		cv.So(h1, cv.ShouldResemble, h2)
		_, isInt := h1.(*SexpInt)
		cv.So(isInt, cv.ShouldBeTrue)

		hex, err := ev.EvalString(`(hash "abc" "hex")`, nil)
		panicOn(err)
		cv.So(len(hex.(*SexpStr).S), cv.ShouldEqual, 64)

		s3, err := ev.EvalString(`(hash "abc" "sha3")`, nil)
		panicOn(err)
		cv.So(len(s3.(*SexpStr).S), cv.ShouldEqual, 64)
		cv.So(s3, cv.ShouldNotResemble, hex)

		_, err = ev.EvalString(`(hash "abc" "md5")`, nil)
		cv.So(err, cv.ShouldNotBeNil)
	})
}
