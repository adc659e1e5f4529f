package tidy

import (
	"fmt"
)

func checkDataSource(data Sexp) error {
	switch d := data.(type) {
	case nil, *SexpList, *Frame:
		return nil
	case *SexpSentinel:
		if d == SexpNull {
			return nil
		}
	}
	return fmt.Errorf("overscope data %s: %w", TypeName(data), InvalidDataSource)
}

// EvalTidy evaluates x with data overlaid on its lexical scope. A
// non-quosure x is taken as written in env (the base environment when
// env is nil). A *SexpList x is evaluated element by element, each in
// a fresh overscope, and the results come back in a list with the same
// names. The overscope is cleaned however evaluation ends.
func EvalTidy(h Host, x Sexp, data Sexp, env *Frame) (Sexp, error) {
	if err := checkDataSource(data); err != nil {
		return SexpNull, err
	}
	if env == nil {
		env = h.BaseEnv()
	}
	if lst, isList := x.(*SexpList); isList {
		entries := lst.Entries()
		names := make([]string, len(entries))
		vals := make([]Sexp, len(entries))
		for i, e := range entries {
			v, err := EvalTidy(h, e.Val, data, env)
			if err != nil {
				return SexpNull, err
			}
			names[i] = e.Name
			vals[i] = v
		}
		return MakeNamedList(names, vals), nil
	}

	quo := AsQuosure(x, env)
	ovs, err := BuildOverscope(h, quo, data)
	if err != nil {
		return SexpNull, err
	}
	defer Cleanup(ovs)
	return OverscopeEvalNext(h, ovs, quo, env)
}

// EvalTidyIn evaluates x in a dynamic chain the caller built: bottom is
// the innermost frame and top (bottom when nil) the one whose parent is
// rechained. top must be bottom or one of its ancestors, and must not
// be the base environment or above it. Everything from bottom to top
// is emptied afterwards.
func EvalTidyIn(h Host, x Sexp, bottom, top *Frame, env *Frame) (Sexp, error) {
	if bottom == nil {
		return SexpNull, fmt.Errorf("eval_tidy_in: nil bottom frame: %w", InvalidDataSource)
	}
	if top == nil {
		top = bottom
	}
	if !top.IsAncestorOf(bottom) {
		return SexpNull, fmt.Errorf("eval_tidy_in: top is not on bottom's parent chain: %w", InvalidDataSource)
	}
	// cleanup empties bottom through top
	if top.IsAncestorOf(h.BaseEnv()) {
		return SexpNull, fmt.Errorf("eval_tidy_in: top must sit below the base environment: %w", InvalidDataSource)
	}
	if env == nil {
		env = h.BaseEnv()
	}
	quo := AsQuosure(x, env)
	enclosure := quo.Env()
	if enclosure == nil {
		enclosure = h.BaseEnv()
	}
	ovs := InstallOverscopeCore(bottom, top, enclosure)
	defer Cleanup(ovs)
	return OverscopeEvalNext(h, ovs, quo, env)
}
