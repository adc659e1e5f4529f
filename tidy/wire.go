package tidy

import (
	"fmt"

	"github.com/tinylib/msgp/msgp"
)

// The wire form is exact where json/msgpack through codec is lossy:
// names, symbols, calls and the missing marker all survive. Atoms are
// plain msgpack; everything else is a one-entry map keyed by a tag.
//
//	list     {"l": [[name, value], ...]}
//	symbol   {"s": name}
//	call     {"c": [head, [name, expr], ...]}
//	quosure  {"q": expr}          (the frame is not carried)
//	missing  {"m": nil}
const (
	wireList    = "l"
	wireSymbol  = "s"
	wireCall    = "c"
	wireQuosure = "q"
	wireMissing = "m"
)

// AppendSexp appends the wire encoding of x to b.
func AppendSexp(b []byte, x Sexp) ([]byte, error) {
	var err error
	switch e := x.(type) {
	case *SexpInt:
		return msgp.AppendInt64(b, e.Val), nil
	case *SexpFloat:
		return msgp.AppendFloat64(b, e.Val), nil
	case *SexpStr:
		return msgp.AppendString(b, e.S), nil
	case *SexpBool:
		return msgp.AppendBool(b, e.Val), nil
	case *SexpRaw:
		return msgp.AppendBytes(b, e.Val), nil
	case *SexpSentinel:
		if e == SexpMissing {
			b = msgp.AppendMapHeader(b, 1)
			b = msgp.AppendString(b, wireMissing)
			return msgp.AppendNil(b), nil
		}
		return msgp.AppendNil(b), nil
	case *SexpSymbol:
		b = msgp.AppendMapHeader(b, 1)
		b = msgp.AppendString(b, wireSymbol)
		return msgp.AppendString(b, e.name), nil
	case *SexpQuosure:
		b = msgp.AppendMapHeader(b, 1)
		b = msgp.AppendString(b, wireQuosure)
		return AppendSexp(b, e.expr)
	case *SexpList:
		b = msgp.AppendMapHeader(b, 1)
		b = msgp.AppendString(b, wireList)
		b = msgp.AppendArrayHeader(b, uint32(e.Len()))
		for _, ent := range e.Entries() {
			b = msgp.AppendArrayHeader(b, 2)
			b = msgp.AppendString(b, ent.Name)
			b, err = AppendSexp(b, ent.Val)
			if err != nil {
				return b, err
			}
		}
		return b, nil
	case *SexpCall:
		b = msgp.AppendMapHeader(b, 1)
		b = msgp.AppendString(b, wireCall)
		b = msgp.AppendArrayHeader(b, uint32(len(e.Args)+1))
		b, err = AppendSexp(b, e.Head)
		if err != nil {
			return b, err
		}
		for _, a := range e.Args {
			b = msgp.AppendArrayHeader(b, 2)
			b = msgp.AppendString(b, a.Name)
			b, err = AppendSexp(b, a.Expr)
			if err != nil {
				return b, err
			}
		}
		return b, nil
	}
	return b, fmt.Errorf("wire: cannot encode %s", TypeName(x))
}

// ReadSexpBytes decodes one value from the front of b and returns the
// remaining bytes.
func ReadSexpBytes(b []byte) (Sexp, []byte, error) {
	switch msgp.NextType(b) {
	case msgp.IntType:
		i, o, err := msgp.ReadInt64Bytes(b)
		return &SexpInt{Val: i}, o, err
	case msgp.UintType:
		u, o, err := msgp.ReadUint64Bytes(b)
		return &SexpInt{Val: int64(u)}, o, err
	case msgp.Float64Type:
		f, o, err := msgp.ReadFloat64Bytes(b)
		return &SexpFloat{Val: f}, o, err
	case msgp.Float32Type:
		f, o, err := msgp.ReadFloat32Bytes(b)
		return &SexpFloat{Val: float64(f)}, o, err
	case msgp.StrType:
		s, o, err := msgp.ReadStringBytes(b)
		return &SexpStr{S: s}, o, err
	case msgp.BoolType:
		v, o, err := msgp.ReadBoolBytes(b)
		return &SexpBool{Val: v}, o, err
	case msgp.BinType:
		v, o, err := msgp.ReadBytesBytes(b, nil)
		return &SexpRaw{Val: v}, o, err
	case msgp.NilType:
		o, err := msgp.ReadNilBytes(b)
		return SexpNull, o, err
	case msgp.MapType:
		return readTaggedBytes(b)
	}
	return SexpNull, b, fmt.Errorf("wire: unexpected msgpack type %v", msgp.NextType(b))
}

func readTaggedBytes(b []byte) (Sexp, []byte, error) {
	sz, b, err := msgp.ReadMapHeaderBytes(b)
	if err != nil {
		return SexpNull, b, err
	}
	if sz != 1 {
		return SexpNull, b, fmt.Errorf("wire: tagged value with %d entries", sz)
	}
	tag, b, err := msgp.ReadStringBytes(b)
	if err != nil {
		return SexpNull, b, err
	}
	switch tag {
	case wireMissing:
		b, err = msgp.ReadNilBytes(b)
		return SexpMissing, b, err
	case wireSymbol:
		name, o, err := msgp.ReadStringBytes(b)
		return MakeSymbol(name), o, err
	case wireQuosure:
		x, o, err := ReadSexpBytes(b)
		if err != nil {
			return SexpNull, o, err
		}
		return NewQuosure(x, nil), o, nil
	case wireList:
		n, o, err := msgp.ReadArrayHeaderBytes(b)
		if err != nil {
			return SexpNull, o, err
		}
		names, vals, o, err := readEntriesBytes(o, n)
		if err != nil {
			return SexpNull, o, err
		}
		return MakeNamedList(names, vals), o, nil
	case wireCall:
		n, o, err := msgp.ReadArrayHeaderBytes(b)
		if err != nil {
			return SexpNull, o, err
		}
		if n < 1 {
			return SexpNull, o, fmt.Errorf("wire: call without a head")
		}
		head, o, err := ReadSexpBytes(o)
		if err != nil {
			return SexpNull, o, err
		}
		names, vals, o, err := readEntriesBytes(o, n-1)
		if err != nil {
			return SexpNull, o, err
		}
		args := make([]Arg, len(vals))
		for i := range vals {
			args[i] = NamedArg(names[i], vals[i])
		}
		return MakeNamedCall(head, args...), o, nil
	}
	return SexpNull, b, fmt.Errorf("wire: unknown tag %q", tag)
}

// readEntriesBytes reads n [name, value] pairs.
func readEntriesBytes(b []byte, n uint32) ([]string, []Sexp, []byte, error) {
	var err error
	names := make([]string, n)
	vals := make([]Sexp, n)
	for i := uint32(0); i < n; i++ {
		var pair uint32
		pair, b, err = msgp.ReadArrayHeaderBytes(b)
		if err != nil {
			return nil, nil, b, err
		}
		if pair != 2 {
			return nil, nil, b, fmt.Errorf("wire: entry of length %d", pair)
		}
		names[i], b, err = msgp.ReadStringBytes(b)
		if err != nil {
			return nil, nil, b, err
		}
		vals[i], b, err = ReadSexpBytes(b)
		if err != nil {
			return nil, nil, b, err
		}
	}
	return names, vals, b, nil
}

// WireEncode is AppendSexp onto a fresh buffer.
func WireEncode(x Sexp) ([]byte, error) {
	return AppendSexp(nil, x)
}

// WireDecode decodes exactly one value from b.
func WireDecode(b []byte) (Sexp, error) {
	x, rest, err := ReadSexpBytes(b)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("wire: %d trailing bytes", len(rest))
	}
	return x, nil
}
