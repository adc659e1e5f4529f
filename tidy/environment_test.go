package tidy

import (
	"errors"
	"strings"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test001FrameLookupWalksParents(t *testing.T) {

	cv.Convey(`Given a chain of frames, lookup should find the nearest binding and report NotFound once the root is passed`, t, func() {
		root := NewNamedFrame("root", nil)
		mid := NewFrame(root)
		leaf := NewFrame(mid)

		root.SetName("a", &SexpInt{Val: 1})
		mid.SetName("a", &SexpInt{Val: 2})
		root.SetName("b", &SexpStr{S: "bee"})

		v, err := leaf.Get(MakeSymbol("a"))
		panicOn(err)
		cv.So(v, cv.ShouldResemble, &SexpInt{Val: 2})

		v, where, ok := leaf.Lookup(MakeSymbol("b"))
		cv.So(ok, cv.ShouldBeTrue)
		cv.So(where, cv.ShouldEqual, root)
		cv.So(v, cv.ShouldResemble, &SexpStr{S: "bee"})

		_, err = leaf.Get(MakeSymbol("nowhere"))
		cv.So(errors.Is(err, SymNotFound), cv.ShouldBeTrue)
		cv.So(leaf.Has(MakeSymbol("nowhere")), cv.ShouldBeFalse)

		_, local := leaf.GetLocal(MakeSymbol("a"))
		cv.So(local, cv.ShouldBeFalse)
	})
}

func Test002UnbindAndClone(t *testing.T) {

	cv.Convey(`Given a frame, Unbind should drop just the named symbols, and Clone should copy bindings onto a new parent without sharing the map`, t, func() {
		parent := NewFrame(nil)
		f := NewFrame(parent)
		f.SetName("x", &SexpInt{Val: 1})
		f.SetName("y", &SexpInt{Val: 2})
		f.SetName("z", &SexpInt{Val: 3})

		f.Unbind(MakeSymbol("x"), MakeSymbol("never-bound"))
		cv.So(f.Names(), cv.ShouldResemble, []string{"y", "z"})

		other := NewFrame(nil)
		c := f.Clone(other)
		cv.So(c.Parent(), cv.ShouldEqual, other)
		cv.So(c.Names(), cv.ShouldResemble, []string{"y", "z"})

		c.SetName("w", &SexpInt{Val: 4})
		cv.So(f.Len(), cv.ShouldEqual, 2)

		f.UnbindAll()
		cv.So(f.Len(), cv.ShouldEqual, 0)
		cv.So(f.Parent(), cv.ShouldEqual, parent)
		cv.So(c.Len(), cv.ShouldEqual, 3)
	})
}

func Test003SetParentRepointsInPlace(t *testing.T) {

	cv.Convey(`Given a frame held by two children, repointing its parent should be seen through both, and IsAncestorOf should follow the new link`, t, func() {
		a := NewFrame(nil)
		a.SetName("who", &SexpStr{S: "a"})
		b := NewFrame(nil)
		b.SetName("who", &SexpStr{S: "b"})

		top := NewFrame(a)
		kid1 := NewFrame(top)
		kid2 := NewFrame(top)

		v, _ := kid1.Get(MakeSymbol("who"))
		cv.So(v, cv.ShouldResemble, &SexpStr{S: "a"})

		top.unsafeSetParent(b)
		v, _ = kid1.Get(MakeSymbol("who"))
		cv.So(v, cv.ShouldResemble, &SexpStr{S: "b"})
		v, _ = kid2.Get(MakeSymbol("who"))
		cv.So(v, cv.ShouldResemble, &SexpStr{S: "b"})

		cv.So(b.IsAncestorOf(kid1), cv.ShouldBeTrue)
		cv.So(a.IsAncestorOf(kid1), cv.ShouldBeFalse)
		cv.So(kid1.IsAncestorOf(kid1), cv.ShouldBeTrue)
	})

	cv.Convey(`Given a parent cycle made with the rechaining primitive, lookups should stop with ChainCycle instead of spinning`, t, func() {
		a := NewFrame(nil)
		b := NewFrame(a)
		a.unsafeSetParent(b)

		_, err := b.Get(MakeSymbol("absent"))
		cv.So(errors.Is(err, ChainCycle), cv.ShouldBeTrue)
		cv.So(NewFrame(nil).IsAncestorOf(b), cv.ShouldBeFalse)

		shown := b.ShowChain()
		cv.So(strings.Contains(shown, "(cycle)"), cv.ShouldBeTrue)
	})
}

func Test004FrameShow(t *testing.T) {

	cv.Convey(`Given a named frame, Show should list its bindings sorted by name`, t, func() {
		f := NewNamedFrame("demo", nil)
		cv.So(strings.Contains(f.SexpString(nil), "demo"), cv.ShouldBeTrue)

		s, err := f.Show(nil, "f")
		panicOn(err)
		cv.So(strings.Contains(s, "empty-frame"), cv.ShouldBeTrue)

		f.SetName("b", &SexpInt{Val: 2})
		f.SetName("a", &SexpStr{S: "one"})
		s, err = f.Show(nil, "f")
		panicOn(err)
		cv.So(strings.Index(s, `a -> "one"`) < strings.Index(s, "b -> 2"), cv.ShouldBeTrue)
	})
}
