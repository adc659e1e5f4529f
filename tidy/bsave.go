package tidy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/glycerine/greenpack/msgp"
)

// SaveData streams each value in the wire form to w, one after another.
// A frame is saved as a named list of its own bindings.
func SaveData(w io.Writer, xs ...Sexp) error {
	mw := msgp.NewWriter(w)
	for _, x := range xs {
		if f, isFrame := x.(*Frame); isFrame {
			x = FrameToList(f)
		}
		if err := encodeStream(mw, x); err != nil {
			return err
		}
	}
	return mw.Flush()
}

// LoadData reads values written by SaveData until r is exhausted.
func LoadData(r io.Reader) ([]Sexp, error) {
	mr := msgp.NewReader(r)
	var xs []Sexp
	for {
		x, err := decodeStream(mr)
		if errors.Is(err, io.EOF) {
			return xs, nil
		}
		if err != nil {
			return xs, err
		}
		xs = append(xs, x)
	}
}

// FrameToList copies f's local bindings, sorted by name, into a named list.
func FrameToList(f *Frame) *SexpList {
	syms := f.Symbols()
	names := make([]string, len(syms))
	vals := make([]Sexp, len(syms))
	for i, s := range syms {
		names[i] = s.name
		vals[i], _ = f.GetLocal(s)
	}
	return MakeNamedList(names, vals)
}

func FileExists(name string) bool {
	fi, err := os.Stat(name)
	if err != nil {
		return false
	}
	return !fi.IsDir()
}

// SaveDataFile refuses to overwrite an existing path.
func SaveDataFile(path string, xs ...Sexp) error {
	if FileExists(path) {
		return fmt.Errorf("refusing to write to existing file '%s'", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return SaveData(f, xs...)
}

func LoadDataFile(path string) ([]Sexp, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadData(f)
}

func encodeStream(w *msgp.Writer, x Sexp) error {
	switch e := x.(type) {
	case *SexpInt:
		return w.WriteInt64(e.Val)
	case *SexpFloat:
		return w.WriteFloat64(e.Val)
	case *SexpStr:
		return w.WriteString(e.S)
	case *SexpBool:
		return w.WriteBool(e.Val)
	case *SexpRaw:
		return w.WriteBytes(e.Val)
	case *SexpSentinel:
		if e == SexpMissing {
			if err := writeTag(w, wireMissing); err != nil {
				return err
			}
		}
		return w.WriteNil()
	case *SexpSymbol:
		if err := writeTag(w, wireSymbol); err != nil {
			return err
		}
		return w.WriteString(e.name)
	case *SexpQuosure:
		if err := writeTag(w, wireQuosure); err != nil {
			return err
		}
		return encodeStream(w, e.expr)
	case *SexpList:
		if err := writeTag(w, wireList); err != nil {
			return err
		}
		if err := w.WriteArrayHeader(uint32(e.Len())); err != nil {
			return err
		}
		for _, ent := range e.Entries() {
			if err := writeEntry(w, ent.Name, ent.Val); err != nil {
				return err
			}
		}
		return nil
	case *SexpCall:
		if err := writeTag(w, wireCall); err != nil {
			return err
		}
		if err := w.WriteArrayHeader(uint32(len(e.Args) + 1)); err != nil {
			return err
		}
		if err := encodeStream(w, e.Head); err != nil {
			return err
		}
		for _, a := range e.Args {
			if err := writeEntry(w, a.Name, a.Expr); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("bsave: cannot save %s", TypeName(x))
}

func writeTag(w *msgp.Writer, tag string) error {
	if err := w.WriteMapHeader(1); err != nil {
		return err
	}
	return w.WriteString(tag)
}

func writeEntry(w *msgp.Writer, name string, val Sexp) error {
	if err := w.WriteArrayHeader(2); err != nil {
		return err
	}
	if err := w.WriteString(name); err != nil {
		return err
	}
	return encodeStream(w, val)
}

func decodeStream(r *msgp.Reader) (Sexp, error) {
	typ, err := r.NextType()
	if err != nil {
		return SexpNull, err
	}
	switch typ {
	case msgp.IntType:
		i, err := r.ReadInt64()
		return &SexpInt{Val: i}, err
	case msgp.UintType:
		u, err := r.ReadUint64()
		return &SexpInt{Val: int64(u)}, err
	case msgp.Float64Type:
		f, err := r.ReadFloat64()
		return &SexpFloat{Val: f}, err
	case msgp.Float32Type:
		f, err := r.ReadFloat32()
		return &SexpFloat{Val: float64(f)}, err
	case msgp.StrType:
		s, err := r.ReadString()
		return &SexpStr{S: s}, err
	case msgp.BoolType:
		v, err := r.ReadBool()
		return &SexpBool{Val: v}, err
	case msgp.BinType:
		v, err := r.ReadBytes(nil)
		return &SexpRaw{Val: v}, err
	case msgp.NilType:
		return SexpNull, r.ReadNil()
	case msgp.MapType:
		return decodeTaggedStream(r)
	}
	return SexpNull, fmt.Errorf("bload: unexpected msgpack type %v", typ)
}

func decodeTaggedStream(r *msgp.Reader) (Sexp, error) {
	sz, err := r.ReadMapHeader()
	if err != nil {
		return SexpNull, err
	}
	if sz != 1 {
		return SexpNull, fmt.Errorf("bload: tagged value with %d entries", sz)
	}
	tag, err := r.ReadString()
	if err != nil {
		return SexpNull, err
	}
	switch tag {
	case wireMissing:
		return SexpMissing, r.ReadNil()
	case wireSymbol:
		name, err := r.ReadString()
		return MakeSymbol(name), err
	case wireQuosure:
		x, err := decodeStream(r)
		if err != nil {
			return SexpNull, err
		}
		return NewQuosure(x, nil), nil
	case wireList:
		n, err := r.ReadArrayHeader()
		if err != nil {
			return SexpNull, err
		}
		names, vals, err := decodeEntriesStream(r, n)
		if err != nil {
			return SexpNull, err
		}
		return MakeNamedList(names, vals), nil
	case wireCall:
		n, err := r.ReadArrayHeader()
		if err != nil {
			return SexpNull, err
		}
		if n < 1 {
			return SexpNull, fmt.Errorf("bload: call without a head")
		}
		head, err := decodeStream(r)
		if err != nil {
			return SexpNull, err
		}
		names, vals, err := decodeEntriesStream(r, n-1)
		if err != nil {
			return SexpNull, err
		}
		args := make([]Arg, len(vals))
		for i := range vals {
			args[i] = NamedArg(names[i], vals[i])
		}
		return MakeNamedCall(head, args...), nil
	}
	return SexpNull, fmt.Errorf("bload: unknown tag %q", tag)
}

func decodeEntriesStream(r *msgp.Reader, n uint32) ([]string, []Sexp, error) {
	names := make([]string, n)
	vals := make([]Sexp, n)
	for i := uint32(0); i < n; i++ {
		pair, err := r.ReadArrayHeader()
		if err != nil {
			return nil, nil, err
		}
		if pair != 2 {
			return nil, nil, fmt.Errorf("bload: entry of length %d", pair)
		}
		names[i], err = r.ReadString()
		if err != nil {
			return nil, nil, err
		}
		vals[i], err = decodeStream(r)
		if err != nil {
			return nil, nil, err
		}
	}
	return names, vals, nil
}

// (bsave value path) writes value to a new file.
//
// (greenpack value) returns the same bytes in memory.
//
// (bload path) reads back a single saved value.
func BsaveFunction(h Host, name string, args []Sexp) (Sexp, error) {
	switch name {
	case "greenpack":
		if len(args) != 1 {
			return SexpNull, WrongNargs
		}
		var buf bytes.Buffer
		if err := SaveData(&buf, args[0]); err != nil {
			return SexpNull, err
		}
		return &SexpRaw{Val: buf.Bytes()}, nil
	case "bsave":
		if len(args) != 2 {
			return SexpNull, WrongNargs
		}
		fn, ok := args[1].(*SexpStr)
		if !ok {
			return SexpNull, fmt.Errorf("%s requires a string path to write to as the second argument, got %s", name, TypeName(args[1]))
		}
		return SexpNull, SaveDataFile(fn.S, args[0])
	case "bload":
		if len(args) != 1 {
			return SexpNull, WrongNargs
		}
		var xs []Sexp
		var err error
		switch src := args[0].(type) {
		case *SexpStr:
			xs, err = LoadDataFile(src.S)
		case *SexpRaw:
			xs, err = LoadData(bytes.NewReader(src.Val))
		default:
			return SexpNull, fmt.Errorf("%s requires a string path or raw bytes, got %s", name, TypeName(args[0]))
		}
		if err != nil {
			return SexpNull, err
		}
		if len(xs) != 1 {
			return MakeList(xs...), nil
		}
		return xs[0], nil
	}
	return SexpNull, fmt.Errorf("unrecognized function name: '%s'", name)
}
