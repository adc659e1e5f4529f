package tidy

import (
	"errors"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test010DictionaryOverAList(t *testing.T) {

	cv.Convey(`Given a named list, the dictionary should look entries up by name, succeed on a present null, and fail fast on an absent name`, t, func() {
		lst := MakeNamedList([]string{"a", "", "n"}, []Sexp{&SexpInt{Val: 1}, &SexpInt{Val: 2}, SexpNull})
		d, err := AsDictionary(lst, true)
		panicOn(err)

		v, err := d.Lookup("a")
		panicOn(err)
		cv.So(v, cv.ShouldResemble, &SexpInt{Val: 1})

		v, err = d.Lookup("n")
		cv.So(err, cv.ShouldBeNil)
		cv.So(v, cv.ShouldEqual, SexpNull)

		_, err = d.Lookup("zz")
		cv.So(errors.Is(err, MissingName), cv.ShouldBeTrue)
		_, err = d.Lookup("")
		cv.So(errors.Is(err, MissingName), cv.ShouldBeTrue)

		cv.So(d.Names(), cv.ShouldResemble, []string{"a", "n"})
		cv.So(d.Has("a"), cv.ShouldBeTrue)
		cv.So(d.ReadOnly(), cv.ShouldBeTrue)
	})
}

func Test011DictionaryWrites(t *testing.T) {

	cv.Convey(`Given a read-only dictionary, Assign should fail with ReadOnly; a writable one should take the value`, t, func() {
		d, err := AsDictionary(MakeList(), true)
		panicOn(err)
		err = d.Assign("x", &SexpInt{Val: 1})
		cv.So(errors.Is(err, ReadOnly), cv.ShouldBeTrue)

		w, err := AsDictionary(MakeList(), false)
		panicOn(err)
		panicOn(w.Assign("x", &SexpInt{Val: 1}))
		v, err := w.Lookup("x")
		panicOn(err)
		cv.So(v, cv.ShouldResemble, &SexpInt{Val: 1})

		// rewrapping never loosens read-only
		again, err := AsDictionary(d, false)
		panicOn(err)
		cv.So(again.ReadOnly(), cv.ShouldBeTrue)
	})
}

func Test012DictionaryOverAFrame(t *testing.T) {

	cv.Convey(`Given an environment, the dictionary should make live lookups of the frame's own bindings but not its parents'`, t, func() {
		parent := NewFrame(nil)
		parent.SetName("up", &SexpInt{Val: 9})
		f := NewFrame(parent)
		d, err := AsDictionary(f, false)
		panicOn(err)

		_, err = d.Lookup("x")
		cv.So(errors.Is(err, MissingName), cv.ShouldBeTrue)

		f.SetName("x", &SexpInt{Val: 3})
		v, err := d.Lookup("x")
		panicOn(err)
		cv.So(v, cv.ShouldResemble, &SexpInt{Val: 3})

		_, err = d.Lookup("up")
		cv.So(errors.Is(err, MissingName), cv.ShouldBeTrue)

		panicOn(d.Assign("y", &SexpInt{Val: 4}))
		cv.So(f.Names(), cv.ShouldResemble, []string{"x", "y"})
	})

	cv.Convey(`Given a source that is neither a list, an environment nor null, AsDictionary should fail with InvalidDataSource`, t, func() {
		_, err := AsDictionary(&SexpInt{Val: 3}, true)
		cv.So(errors.Is(err, InvalidDataSource), cv.ShouldBeTrue)

		d, err := AsDictionary(SexpNull, true)
		panicOn(err)
		cv.So(len(d.Names()), cv.ShouldEqual, 0)
		d, err = AsDictionary(nil, true)
		panicOn(err)
		cv.So(len(d.Names()), cv.ShouldEqual, 0)
	})
}
