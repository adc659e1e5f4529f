package tidy

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/ugorji/go/codec"
)

/*
 Conversion map

 Go map[string]interface{}  <--(1)--> data (lists, atoms)
   ^                                    ^
   |                                   /
  (2)   ------------ (3) -------------/
   |   /
   V  V
 json / msgpack

(1) SexpToGo() and GoToSexp()
(2) ugorji/go/codec: JsonToGo(), MsgpackToGo(), GoToJson(), GoToMsgpack()
(3) DataToJson(), DataToMsgpack(), JsonToData(), MsgpackToData()

Named lists become maps whose key order is kept under zKeyOrder, so
decoding gives back the same list. Unnamed entries of a partly named
list are keyed "...N" by their 1-based position.
*/

const keyOrderField = "zKeyOrder"

type msgpackHelper struct {
	initialized bool
	mh          codec.MsgpackHandle
	jh          codec.JsonHandle
}

func (m *msgpackHelper) init() {
	if m.initialized {
		return
	}

	m.mh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	m.mh.RawToString = true
	m.mh.WriteExt = true
	m.mh.SignedInteger = true
	m.mh.Canonical = true // sort maps before writing them

	m.jh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	m.jh.SignedInteger = true
	m.jh.Canonical = true

	m.initialized = true
}

var msgpHelper msgpackHelper

func init() {
	msgpHelper.init()
}

func JsonToGo(json []byte) (interface{}, error) {
	var iface interface{}
	decoder := codec.NewDecoderBytes(json, &msgpHelper.jh)
	err := decoder.Decode(&iface)
	if err != nil {
		return nil, err
	}
	VPrintf("JsonToGo decoded type : %T", iface)
	return iface, nil
}

func MsgpackToGo(msgp []byte) (interface{}, error) {
	var iface interface{}
	dec := codec.NewDecoderBytes(msgp, &msgpHelper.mh)
	err := dec.Decode(&iface)
	if err != nil {
		return nil, err
	}
	return iface, nil
}

func GoToJson(iface interface{}) ([]byte, error) {
	var w bytes.Buffer
	encoder := codec.NewEncoder(&w, &msgpHelper.jh)
	err := encoder.Encode(&iface)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func GoToMsgpack(iface interface{}) ([]byte, error) {
	var w bytes.Buffer
	enc := codec.NewEncoder(&w, &msgpHelper.mh)
	err := enc.Encode(&iface)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func positionalKey(i int) string {
	return "..." + strconv.Itoa(i+1)
}

func positionalIndex(key string) bool {
	if !strings.HasPrefix(key, "...") {
		return false
	}
	_, err := strconv.Atoi(key[3:])
	return err == nil
}

// SexpToGo converts data into plain Go values. Frames, functions and
// dictionaries have no data form; calls and quosures become their
// printed text.
func SexpToGo(x Sexp) (interface{}, error) {
	switch e := x.(type) {
	case *SexpInt:
		return e.Val, nil
	case *SexpFloat:
		return e.Val, nil
	case *SexpStr:
		return e.S, nil
	case *SexpBool:
		return e.Val, nil
	case *SexpRaw:
		return e.Val, nil
	case *SexpSymbol:
		return e.name, nil
	case *SexpSentinel:
		return nil, nil
	case *SexpCall, *SexpQuosure:
		return x.SexpString(nil), nil
	case *SexpList:
		if !e.HasNames() {
			out := make([]interface{}, 0, e.Len())
			for _, v := range e.Values() {
				g, err := SexpToGo(v)
				if err != nil {
					return nil, err
				}
				out = append(out, g)
			}
			return out, nil
		}
		m := make(map[string]interface{}, e.Len()+1)
		order := make([]interface{}, 0, e.Len())
		for i, ent := range e.Entries() {
			key := ent.Name
			if key == "" {
				key = positionalKey(i)
			}
			if _, dup := m[key]; dup {
				return nil, fmt.Errorf("cannot encode list with duplicate name `%s`", key)
			}
			g, err := SexpToGo(ent.Val)
			if err != nil {
				return nil, err
			}
			m[key] = g
			order = append(order, key)
		}
		m[keyOrderField] = order
		return m, nil
	}
	return nil, fmt.Errorf("cannot encode value of type %s", TypeName(x))
}

func GoToSexp(iface interface{}) (Sexp, error) {
	return decodeGoToSexpHelper(iface, 0)
}

func decodeGoToSexpHelper(r interface{}, depth int) (Sexp, error) {
	VPrintf("decodeHelper() at depth %d, decoded type is %T", depth, r)
	switch val := r.(type) {
	case nil:
		return SexpNull, nil
	case string:
		return &SexpStr{S: val}, nil
	case bool:
		return &SexpBool{Val: val}, nil
	case int:
		return &SexpInt{Val: int64(val)}, nil
	case int32:
		return &SexpInt{Val: int64(val)}, nil
	case int64:
		return &SexpInt{Val: val}, nil
	case uint64:
		return &SexpInt{Val: int64(val)}, nil
	case float32:
		return &SexpFloat{Val: float64(val)}, nil
	case float64:
		return &SexpFloat{Val: val}, nil
	case []byte:
		return &SexpRaw{Val: val}, nil
	case []interface{}:
		vals := make([]Sexp, len(val))
		for i := range val {
			s, err := decodeGoToSexpHelper(val[i], depth+1)
			if err != nil {
				return nil, err
			}
			vals[i] = s
		}
		return MakeList(vals...), nil
	case map[string]interface{}:
		keys := keyOrder(val)
		names := make([]string, 0, len(keys))
		vals := make([]Sexp, 0, len(keys))
		for _, k := range keys {
			s, err := decodeGoToSexpHelper(val[k], depth+1)
			if err != nil {
				return nil, err
			}
			if positionalIndex(k) {
				names = append(names, "")
			} else {
				names = append(names, k)
			}
			vals = append(vals, s)
		}
		return MakeNamedList(names, vals), nil
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[fmt.Sprintf("%v", k)] = v
		}
		return decodeGoToSexpHelper(m, depth)
	}
	return nil, fmt.Errorf("cannot decode Go value of type %T", r)
}

// keyOrder uses the recorded zKeyOrder when it names exactly the
// map's keys, otherwise sorted order.
func keyOrder(m map[string]interface{}) []string {
	if ord, ok := m[keyOrderField].([]interface{}); ok && len(ord) == len(m)-1 {
		keys := make([]string, 0, len(ord))
		for _, k := range ord {
			ks, isStr := k.(string)
			if _, present := m[ks]; !isStr || !present {
				keys = nil
				break
			}
			keys = append(keys, ks)
		}
		if keys != nil {
			return keys
		}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		if k != keyOrderField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func DataToJson(x Sexp) ([]byte, error) {
	iface, err := SexpToGo(x)
	if err != nil {
		return nil, err
	}
	return GoToJson(iface)
}

func DataToMsgpack(x Sexp) ([]byte, error) {
	iface, err := SexpToGo(x)
	if err != nil {
		return nil, err
	}
	return GoToMsgpack(iface)
}

func JsonToData(json []byte) (Sexp, error) {
	iface, err := JsonToGo(json)
	if err != nil {
		return nil, fmt.Errorf("JsonToData failed at JsonToGo step: %w", err)
	}
	return GoToSexp(iface)
}

func MsgpackToData(msgp []byte) (Sexp, error) {
	iface, err := MsgpackToGo(msgp)
	if err != nil {
		return nil, fmt.Errorf("MsgpackToData failed at MsgpackToGo step: %w", err)
	}
	return GoToSexp(iface)
}

func bytesOf(name string, x Sexp) ([]byte, error) {
	switch t := x.(type) {
	case *SexpRaw:
		return t.Val, nil
	case *SexpStr:
		return []byte(t.S), nil
	}
	return nil, fmt.Errorf("%s: raw bytes or string required, but we got %s instead", name, TypeName(x))
}

func JsonFunction(h Host, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}

	switch name {
	case "json":
		by, err := DataToJson(args[0])
		if err != nil {
			return SexpNull, err
		}
		return &SexpStr{S: string(by)}, nil
	case "unjson":
		by, err := bytesOf(name, args[0])
		if err != nil {
			return SexpNull, err
		}
		return JsonToData(by)
	case "msgpack":
		by, err := DataToMsgpack(args[0])
		if err != nil {
			return SexpNull, err
		}
		return &SexpRaw{Val: by}, nil
	case "unmsgpack":
		by, err := bytesOf(name, args[0])
		if err != nil {
			return SexpNull, err
		}
		return MsgpackToData(by)
	}
	return SexpNull, fmt.Errorf("JsonFunction error: unrecognized function name: '%s'", name)
}

// EncodingFunctions returns the data interchange builtins.
func EncodingFunctions() map[string]*SexpFunction {
	return map[string]*SexpFunction{
		"json":      MakeUserFunction("json", JsonFunction),
		"unjson":    MakeUserFunction("unjson", JsonFunction),
		"msgpack":   MakeUserFunction("msgpack", JsonFunction),
		"unmsgpack": MakeUserFunction("unmsgpack", JsonFunction),
		"hash":      MakeUserFunction("hash", HashFunction),
		"yaml":      MakeUserFunction("yaml", YamlFunction),
		"unyaml":    MakeUserFunction("unyaml", YamlFunction),
	}
}
