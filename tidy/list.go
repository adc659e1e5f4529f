package tidy

import (
	"strings"

	"src.elv.sh/pkg/persistent/vector"
)

// ListEntry is one slot of a list. Name may be empty.
type ListEntry struct {
	Name string
	Val  Sexp
}

// SexpList is an ordered, optionally named, immutable sequence.
// Updates return a new list that shares structure with the old one.
type SexpList struct {
	vec vector.Vector
}

func (l *SexpList) v() vector.Vector {
	if l == nil || l.vec == nil {
		return vector.Empty
	}
	return l.vec
}

func MakeList(vals ...Sexp) *SexpList {
	vec := vector.Empty
	for _, v := range vals {
		vec = vec.Conj(ListEntry{Val: v})
	}
	return &SexpList{vec: vec}
}

// MakeNamedList pairs names[i] with vals[i]; missing names are empty.
func MakeNamedList(names []string, vals []Sexp) *SexpList {
	vec := vector.Empty
	for i, v := range vals {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		vec = vec.Conj(ListEntry{Name: name, Val: v})
	}
	return &SexpList{vec: vec}
}

func (l *SexpList) Len() int {
	return l.v().Len()
}

func (l *SexpList) At(i int) ListEntry {
	e, ok := l.v().Index(i)
	if !ok {
		return ListEntry{Val: SexpNull}
	}
	return e.(ListEntry)
}

func (l *SexpList) Entries() []ListEntry {
	out := make([]ListEntry, 0, l.Len())
	for it := l.v().Iterator(); it.HasElem(); it.Next() {
		out = append(out, it.Elem().(ListEntry))
	}
	return out
}

func (l *SexpList) Values() []Sexp {
	out := make([]Sexp, 0, l.Len())
	for it := l.v().Iterator(); it.HasElem(); it.Next() {
		out = append(out, it.Elem().(ListEntry).Val)
	}
	return out
}

func (l *SexpList) Names() []string {
	out := make([]string, 0, l.Len())
	for it := l.v().Iterator(); it.HasElem(); it.Next() {
		out = append(out, it.Elem().(ListEntry).Name)
	}
	return out
}

func (l *SexpList) HasNames() bool {
	for it := l.v().Iterator(); it.HasElem(); it.Next() {
		if it.Elem().(ListEntry).Name != "" {
			return true
		}
	}
	return false
}

// Get returns the first entry called name.
func (l *SexpList) Get(name string) (Sexp, bool) {
	if name == "" {
		return nil, false
	}
	for it := l.v().Iterator(); it.HasElem(); it.Next() {
		e := it.Elem().(ListEntry)
		if e.Name == name {
			return e.Val, true
		}
	}
	return nil, false
}

func (l *SexpList) Append(name string, val Sexp) *SexpList {
	return &SexpList{vec: l.v().Conj(ListEntry{Name: name, Val: val})}
}

// Set replaces the first entry called name, or appends one.
func (l *SexpList) Set(name string, val Sexp) *SexpList {
	vec := l.v()
	i := 0
	for it := vec.Iterator(); it.HasElem(); it.Next() {
		if it.Elem().(ListEntry).Name == name {
			return &SexpList{vec: vec.Assoc(i, ListEntry{Name: name, Val: val})}
		}
		i++
	}
	return &SexpList{vec: vec.Conj(ListEntry{Name: name, Val: val})}
}

// Named drops the unnamed entries.
func (l *SexpList) Named() *SexpList {
	vec := vector.Empty
	for it := l.v().Iterator(); it.HasElem(); it.Next() {
		e := it.Elem().(ListEntry)
		if e.Name != "" {
			vec = vec.Conj(e)
		}
	}
	return &SexpList{vec: vec}
}

func (l *SexpList) SexpString(ps *PrintState) string {
	if ps == nil {
		ps = NewPrintState()
	}
	parts := []string{"list"}
	for it := l.v().Iterator(); it.HasElem(); it.Next() {
		e := it.Elem().(ListEntry)
		if e.Name != "" {
			parts = append(parts, e.Name+": "+e.Val.SexpString(ps))
		} else {
			parts = append(parts, e.Val.SexpString(ps))
		}
	}
	return "(" + strings.Join(parts, " ") + ")"
}
