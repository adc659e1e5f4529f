package tidy

import (
	"fmt"
)

// Overscope is the frame tidy evaluation runs in. Reading upward:
//
//	overscope frame   `~` marker, .top_env, .env
//	bottom            .data pronoun
//	data frame        overlaid bindings (top, when present)
//	enclosure         parent of top, rechained per quosure
//
// Without data, bottom is also top.
//
// The frames are recorded here when the core is installed. The
// bindings in the overscope frame are only pronouns that user code
// can rebind.
type Overscope struct {
	frame     *Frame
	bottom    *Frame
	top       *Frame
	enclosure *Frame
	cleaned   bool
}

// Frame is the frame expressions are evaluated in.
func (ovs *Overscope) Frame() *Frame {
	return ovs.frame
}

func (ovs *Overscope) Bottom() *Frame {
	return ovs.bottom
}

// Top is the frame whose parent gets rechained, or nil once the
// overscope is cleaned.
func (ovs *Overscope) Top() *Frame {
	if ovs.cleaned {
		return nil
	}
	return ovs.top
}

// Enclosure is the frame top hung off when the core was installed.
func (ovs *Overscope) Enclosure() *Frame {
	return ovs.enclosure
}

// Env is the current .env pronoun: the lexical frame of the quosure
// running now.
func (ovs *Overscope) Env() *Frame {
	v, ok := ovs.frame.GetLocal(symEnv)
	if !ok {
		return nil
	}
	env, _ := v.(*Frame)
	return env
}

func (ovs *Overscope) SexpString(ps *PrintState) string {
	return fmt.Sprintf("<overscope %p>", ovs.frame)
}

// BuildOverscope layers data over the lexical frame of quo. data is a
// *SexpList (only named entries are overlaid), a *Frame (its bindings
// are cloned), or nil/SexpNull for no overlay. Anything else fails
// with InvalidDataSource before any frame is created.
func BuildOverscope(h Host, quo *SexpQuosure, data Sexp) (*Overscope, error) {
	if data == nil {
		data = SexpNull
	}
	if err := checkDataSource(data); err != nil {
		return nil, err
	}
	dict, err := AsDictionary(data, true)
	if err != nil {
		return nil, err
	}

	enclosure := quo.Env()
	if enclosure == nil {
		enclosure = h.BaseEnv()
	}

	var overlay *Frame
	switch d := data.(type) {
	case *SexpList:
		overlay = NewNamedFrame("overscope data", enclosure)
		for _, e := range d.Named().Entries() {
			sym := MakeSymbol(e.Name)
			// first entry wins, matching Dictionary.Lookup
			if _, already := overlay.GetLocal(sym); !already {
				overlay.Set(sym, e.Val)
			}
		}
	case *Frame:
		overlay = d.Clone(enclosure)
		overlay.Name = "overscope data"
	}

	var bottom, top *Frame
	if overlay != nil {
		bottom = NewNamedFrame("overscope bottom", overlay)
		top = overlay
	} else {
		bottom = NewNamedFrame("overscope bottom", enclosure)
		top = bottom
	}
	bottom.Set(symData, dict)

	return InstallOverscopeCore(bottom, top, enclosure), nil
}

// InstallOverscopeCore puts the overscope frame below bottom and binds
// the self-eval marker, .top_env and .env in it. The extra frame keeps
// the framework's names apart from whatever lives in bottom.
func InstallOverscopeCore(bottom, top, enclosure *Frame) *Overscope {
	if top == nil {
		top = bottom
	}
	ovs := &Overscope{
		frame:     NewNamedFrame("overscope", bottom),
		bottom:    bottom,
		top:       top,
		enclosure: enclosure,
	}
	ovs.frame.Set(symTilde, selfEvalMarker(ovs, top))
	ovs.frame.Set(symTopEnv, top)
	if enclosure != nil {
		ovs.frame.Set(symEnv, enclosure)
	} else {
		ovs.frame.Set(symEnv, SexpNull)
	}
	return ovs
}
