package tidy

import (
	"fmt"
)

// Dictionary is a fail-fast, name-keyed view on a data source: either
// a list (by entry name) or a frame (live lookups of the frame's own
// bindings, not its parents'). It backs the .data pronoun.
type Dictionary struct {
	list     *SexpList
	frame    *Frame
	readOnly bool
}

// AsDictionary wraps a *SexpList or a *Frame. A nil source or
// SexpNull gives an empty dictionary.
func AsDictionary(source Sexp, readOnly bool) (*Dictionary, error) {
	switch src := source.(type) {
	case nil:
		return &Dictionary{list: MakeList(), readOnly: readOnly}, nil
	case *SexpSentinel:
		if src == SexpNull {
			return &Dictionary{list: MakeList(), readOnly: readOnly}, nil
		}
	case *SexpList:
		return &Dictionary{list: src, readOnly: readOnly}, nil
	case *Frame:
		return &Dictionary{frame: src, readOnly: readOnly}, nil
	case *Dictionary:
		return &Dictionary{list: src.list, frame: src.frame, readOnly: readOnly || src.readOnly}, nil
	}
	return nil, fmt.Errorf("as_dictionary: cannot use %s: %w", TypeName(source), InvalidDataSource)
}

func (d *Dictionary) ReadOnly() bool {
	return d.readOnly
}

// Lookup returns the value bound to name. A present null is a
// successful lookup.
func (d *Dictionary) Lookup(name string) (Sexp, error) {
	if d.frame != nil {
		v, ok := d.frame.GetLocal(MakeSymbol(name))
		if ok {
			return v, nil
		}
		return SexpNull, fmt.Errorf("object `%s`: %w", name, MissingName)
	}
	v, ok := d.list.Get(name)
	if ok {
		return v, nil
	}
	return SexpNull, fmt.Errorf("column `%s`: %w", name, MissingName)
}

func (d *Dictionary) Has(name string) bool {
	_, err := d.Lookup(name)
	return err == nil
}

func (d *Dictionary) Assign(name string, val Sexp) error {
	if d.readOnly {
		return fmt.Errorf("cannot assign `%s`: %w", name, ReadOnly)
	}
	if d.frame != nil {
		d.frame.Set(MakeSymbol(name), val)
		return nil
	}
	d.list = d.list.Set(name, val)
	return nil
}

// Names returns the names visible through the dictionary: the list's
// entry names in order, or a frame's local names sorted.
func (d *Dictionary) Names() []string {
	if d.frame != nil {
		return d.frame.Names()
	}
	names := []string{}
	seen := map[string]bool{}
	for _, n := range d.list.Names() {
		if n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	return names
}

func (d *Dictionary) SexpString(ps *PrintState) string {
	return fmt.Sprintf("<dictionary %v>", d.Names())
}
