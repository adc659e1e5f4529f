package tidy

import (
	"math"
	"strings"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test090YamlKeepsDocumentOrder(t *testing.T) {

	cv.Convey(`Given a yaml mapping, it should become a named list in document order with typed scalars`, t, func() {
		src := `
zeta: 1
alpha:
  - 2.5
  - hello
  - true
nothing: null
`
		x, err := YamlToData([]byte(src))
		panicOn(err)
		cv.So(x.SexpString(nil), cv.ShouldEqual, `(list zeta: 1 alpha: (list 2.5 "hello" true) nothing: null)`)

		empty, err := YamlToData([]byte(""))
		panicOn(err)
		cv.So(empty, cv.ShouldEqual, SexpNull)

		_, err = YamlToData([]byte("a: [1, 2"))
		cv.So(err, cv.ShouldNotBeNil)
	})

	cv.Convey(`Given data written with DataToYaml, reading it back should give the same list, positions and special floats included`, t, func() {
		x := MakeNamedList([]string{"b", "", "c"}, []Sexp{
			&SexpInt{Val: 3},
			&SexpStr{S: "free"},
			MakeList(&SexpFloat{Val: math.Inf(1)}, &SexpFloat{Val: -0.25}),
		})
		by, err := DataToYaml(x)
		panicOn(err)
		cv.So(strings.Contains(string(by), "...2"), cv.ShouldBeTrue)

		back, err := YamlToData(by)
		panicOn(err)
		cv.So(back.SexpString(nil), cv.ShouldEqual, x.SexpString(nil))

		nan, err := YamlToData([]byte(".nan"))
		panicOn(err)
		cv.So(math.IsNaN(nan.(*SexpFloat).Val), cv.ShouldBeTrue)
	})

	cv.Convey(`Given the yaml builtins, a value should survive (unyaml (yaml x))`, t, func() {
		ev := NewEvaluator()
		res, err := ev.EvalString(`(unyaml (yaml (list name: "tidy" depth: 2)))`, nil)
		panicOn(err)
		cv.So(res.SexpString(nil), cv.ShouldEqual, `(list name: "tidy" depth: 2)`)
	})
}
