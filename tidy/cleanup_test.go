package tidy

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test030CleanupIsIdempotent(t *testing.T) {

	cv.Convey(`Given an overscope over list data, cleanup should empty every purpose-built frame, keep the frames themselves, and be safe to call twice`, t, func() {
		ev := NewEvaluator()
		q, env := quosureIn(ev, "x", map[string]int64{"x": 1})
		env.SetName("keep", &SexpStr{S: "me"})

		ovs, err := BuildOverscope(ev, q, MakeNamedList([]string{"x", "y"}, []Sexp{&SexpInt{Val: 2}, &SexpInt{Val: 3}}))
		panicOn(err)
		bottom := ovs.Bottom()
		top := ovs.Top()
		cv.So(top, cv.ShouldNotEqual, bottom)
		cv.So(top.Names(), cv.ShouldResemble, []string{"x", "y"})
		cv.So(bottom.Names(), cv.ShouldResemble, []string{".data"})
		cv.So(ovs.Frame().Names(), cv.ShouldResemble, []string{".env", ".top_env", "~"})

		Cleanup(ovs)
		cv.So(ovs.Frame().Len(), cv.ShouldEqual, 0)
		cv.So(bottom.Len(), cv.ShouldEqual, 0)
		cv.So(top.Len(), cv.ShouldEqual, 0)
		cv.So(ovs.Bottom(), cv.ShouldEqual, bottom)
		cv.So(bottom.Parent(), cv.ShouldEqual, top)
		cv.So(env.Len(), cv.ShouldEqual, 2)

		Cleanup(ovs)
		cv.So(env.Len(), cv.ShouldEqual, 2)
		cv.So(ev.Global().Parent(), cv.ShouldEqual, ev.BaseEnv())
		_, err = ev.Global().Get(MakeSymbol("list"))
		cv.So(err, cv.ShouldBeNil)

		Cleanup(nil)
	})

	cv.Convey(`Given an overscope without data, bottom doubles as top and cleanup stops at the enclosure`, t, func() {
		ev := NewEvaluator()
		q, env := quosureIn(ev, "x", map[string]int64{"x": 1})
		ovs, err := BuildOverscope(ev, q, SexpNull)
		panicOn(err)
		cv.So(ovs.Top(), cv.ShouldEqual, ovs.Bottom())
		cv.So(ovs.Top().Parent(), cv.ShouldEqual, env)

		Cleanup(ovs)
		Cleanup(ovs)
		cv.So(env.Len(), cv.ShouldEqual, 1)
		cv.So(ovs.Bottom().Len(), cv.ShouldEqual, 0)
	})

	cv.Convey(`Given bottom already binding .env, installing the core should bind its own .env one frame below and leave bottom's binding alone`, t, func() {
		bottom := NewFrame(nil)
		bottom.SetName(".env", &SexpStr{S: "user"})
		outside := NewFrame(nil)
		bottom.unsafeSetParent(outside)

		ovs := InstallOverscopeCore(bottom, nil, outside)
		v, _ := ovs.Frame().GetLocal(symEnv)
		cv.So(v, cv.ShouldEqual, outside)
		v, _ = bottom.GetLocal(symEnv)
		cv.So(v, cv.ShouldResemble, &SexpStr{S: "user"})

		Cleanup(ovs)
		cv.So(ovs.Frame().Len(), cv.ShouldEqual, 0)
		cv.So(bottom.Len(), cv.ShouldEqual, 0)
		cv.So(outside.Len(), cv.ShouldEqual, 0)
	})

	cv.Convey(`Given user code that rebinds .top_env, cleanup should still empty the overlay it built`, t, func() {
		ev := NewEvaluator()
		q, env := quosureIn(ev, "(begin (<- .top_env 1) secret)", nil)
		ovs, err := BuildOverscope(ev, q, MakeNamedList([]string{"secret"}, []Sexp{&SexpInt{Val: 42}}))
		panicOn(err)
		top := ovs.Top()

		res, err := OverscopeEvalNext(ev, ovs, q, ev.Global())
		panicOn(err)
		cv.So(res, cv.ShouldResemble, &SexpInt{Val: 42})
		cv.So(ovs.Top(), cv.ShouldEqual, top)

		Cleanup(ovs)
		cv.So(top.Names(), cv.ShouldResemble, []string{})
		cv.So(ovs.Bottom().Len(), cv.ShouldEqual, 0)
		cv.So(env.Len(), cv.ShouldEqual, 0)
	})

	cv.Convey(`Given a core installed with a top that is off bottom's chain, cleanup should empty bottom alone and never walk into the base environment`, t, func() {
		ev := NewEvaluator()
		baseLen := ev.BaseEnv().Len()
		bottom := NewFrame(ev.BaseEnv())
		bottom.SetName("b", &SexpInt{Val: 1})
		stray := NewFrame(nil)
		stray.SetName("s", &SexpInt{Val: 2})

		ovs := InstallOverscopeCore(bottom, stray, ev.Global())
		Cleanup(ovs)
		cv.So(bottom.Len(), cv.ShouldEqual, 0)
		cv.So(stray.Len(), cv.ShouldEqual, 1)
		cv.So(ev.BaseEnv().Len(), cv.ShouldEqual, baseLen)
		cv.So(ovs.Top(), cv.ShouldBeNil)
	})
}
