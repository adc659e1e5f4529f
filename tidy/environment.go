package tidy

import (
	"fmt"
	"sort"
	"strings"
)

// MaxChainDepth bounds how many parents a lookup will walk.
const MaxChainDepth = 10000

// Frame maps symbol numbers to values and points to one parent.
// Frames are shared: a quosure, a closure and any number of child
// frames may all reference the same one, and the garbage collector
// takes care of the cycles that closures stored in their own
// defining frame create.
type Frame struct {
	Map    map[int]Sexp
	Name   string
	parent *Frame
}

func NewFrame(parent *Frame) *Frame {
	return &Frame{
		Map:    make(map[int]Sexp),
		parent: parent,
	}
}

func NewNamedFrame(name string, parent *Frame) *Frame {
	return &Frame{
		Map:    make(map[int]Sexp),
		Name:   name,
		parent: parent,
	}
}

func (f *Frame) Parent() *Frame {
	return f.parent
}

// unsafeSetParent repoints f in place, so every holder of f sees
// the new parent. It checks nothing. Only rechaining calls it.
func (f *Frame) unsafeSetParent(p *Frame) {
	f.parent = p
}

// Lookup walks from f toward the root and reports the value and
// the frame that binds sym.
func (f *Frame) Lookup(sym *SexpSymbol) (Sexp, *Frame, bool) {
	depth := 0
	for cur := f; cur != nil; cur = cur.parent {
		if v, ok := cur.Map[sym.number]; ok {
			return v, cur, true
		}
		depth++
		if depth > MaxChainDepth {
			return nil, nil, false
		}
	}
	return nil, nil, false
}

func (f *Frame) Get(sym *SexpSymbol) (Sexp, error) {
	depth := 0
	for cur := f; cur != nil; cur = cur.parent {
		if v, ok := cur.Map[sym.number]; ok {
			return v, nil
		}
		depth++
		if depth > MaxChainDepth {
			return SexpNull, fmt.Errorf("looking up `%s`: %w", sym.name, ChainCycle)
		}
	}
	return SexpNull, fmt.Errorf("object `%s`: %w", sym.name, SymNotFound)
}

func (f *Frame) GetLocal(sym *SexpSymbol) (Sexp, bool) {
	v, ok := f.Map[sym.number]
	return v, ok
}

// Has reports whether sym is bound in f or any of its parents.
func (f *Frame) Has(sym *SexpSymbol) bool {
	_, _, ok := f.Lookup(sym)
	return ok
}

func (f *Frame) Set(sym *SexpSymbol, val Sexp) {
	f.Map[sym.number] = val
}

func (f *Frame) SetName(name string, val Sexp) {
	f.Set(MakeSymbol(name), val)
}

func (f *Frame) Unbind(syms ...*SexpSymbol) {
	for _, sym := range syms {
		delete(f.Map, sym.number)
	}
}

// UnbindAll empties f but leaves the frame itself, and its parent
// link, intact for anyone still holding it.
func (f *Frame) UnbindAll() {
	for k := range f.Map {
		delete(f.Map, k)
	}
}

// Clone copies the bindings of f, not the values, onto a fresh frame
// chained to newParent.
func (f *Frame) Clone(newParent *Frame) *Frame {
	n := NewNamedFrame(f.Name, newParent)
	for k, v := range f.Map {
		n.Map[k] = v
	}
	return n
}

func (f *Frame) Len() int {
	return len(f.Map)
}

// Symbols returns the locally bound symbols, sorted by name.
func (f *Frame) Symbols() []*SexpSymbol {
	syms := make([]*SexpSymbol, 0, len(f.Map))
	for k := range f.Map {
		if sym := symbolByNumber(k); sym != nil {
			syms = append(syms, sym)
		}
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i].name < syms[j].name })
	return syms
}

func (f *Frame) Names() []string {
	syms := f.Symbols()
	names := make([]string, len(syms))
	for i, s := range syms {
		names[i] = s.name
	}
	return names
}

// IsAncestorOf reports whether f is reachable from g by parent links,
// g itself included.
func (f *Frame) IsAncestorOf(g *Frame) bool {
	depth := 0
	for cur := g; cur != nil; cur = cur.parent {
		if cur == f {
			return true
		}
		depth++
		if depth > MaxChainDepth {
			return false
		}
	}
	return false
}

func (f *Frame) label() string {
	if f.Name != "" {
		return fmt.Sprintf("<environment %s %p>", f.Name, f)
	}
	return fmt.Sprintf("<environment %p>", f)
}

func (f *Frame) SexpString(ps *PrintState) string {
	return f.label()
}

// Show lists the local bindings of f, one per line.
func (f *Frame) Show(ps *PrintState, label string) (s string, err error) {
	if ps == nil {
		ps = NewPrintState()
	}
	if ps.GetSeen(f) {
		return "", nil
	}
	ps.SetSeen(f, "Frame")

	indent := ps.GetIndent()
	rep := strings.Repeat(" ", indent)
	rep4 := strings.Repeat(" ", indent+4)
	s += fmt.Sprintf("%s %s %s\n", rep, label, f.label())
	if len(f.Map) == 0 {
		s += fmt.Sprintf("%s empty-frame: no symbols\n", rep4)
		return
	}
	for _, sym := range f.Symbols() {
		s += fmt.Sprintf("%s %s -> %s\n", rep4, sym.name, f.Map[sym.number].SexpString(ps))
	}
	return
}

// ShowChain shows f and every parent up to the root.
func (f *Frame) ShowChain() string {
	ps := NewPrintState()
	s := ""
	i := 0
	for cur := f; cur != nil && i <= MaxChainDepth; cur = cur.parent {
		part, _ := cur.Show(ps, fmt.Sprintf("frame %d", i))
		if part == "" {
			s += fmt.Sprintf(" frame %d %s (cycle)\n", i, cur.label())
			break
		}
		s += part
		i++
	}
	return s
}
