package tidy

import (
	"fmt"
	"strings"
)

// Host is the evaluator the tidy core runs on top of. It resolves
// symbols by chain lookup in env, dispatches calls (the self-eval
// marker is just another callable bound in scope), and reports
// failures through its error return.
type Host interface {
	Eval(expr Sexp, env *Frame) (Sexp, error)
	BaseEnv() *Frame
}

// UserFunction receives evaluated, positional arguments.
type UserFunction func(h Host, name string, args []Sexp) (Sexp, error)

// NamedFunction receives evaluated arguments along with their names.
type NamedFunction func(h Host, name string, args *SexpList) (Sexp, error)

// SpecialFunction receives the node being evaluated, unevaluated,
// together with the frame it is being evaluated in. The node is a
// *SexpCall, or a *SexpQuosure when a quosure is dispatched to `~`.
type SpecialFunction func(h Host, env *Frame, node Sexp) (Sexp, error)

type SexpFunction struct {
	name    string
	userfun UserFunction
	named   NamedFunction
	special SpecialFunction

	// closures
	params  []*SexpSymbol
	body    []Sexp
	closing *Frame
}

func MakeUserFunction(name string, ufun UserFunction) *SexpFunction {
	return &SexpFunction{name: name, userfun: ufun}
}

func MakeNamedFunction(name string, nfun NamedFunction) *SexpFunction {
	return &SexpFunction{name: name, named: nfun}
}

func MakeSpecialFunction(name string, sfun SpecialFunction) *SexpFunction {
	return &SexpFunction{name: name, special: sfun}
}

// MakeClosure builds a function whose body runs in a child of closing.
func MakeClosure(name string, params []*SexpSymbol, body []Sexp, closing *Frame) *SexpFunction {
	return &SexpFunction{name: name, params: params, body: body, closing: closing}
}

func (sf *SexpFunction) Name() string {
	return sf.name
}

func (sf *SexpFunction) IsSpecial() bool {
	return sf.special != nil
}

func (sf *SexpFunction) IsClosure() bool {
	return sf.userfun == nil && sf.named == nil && sf.special == nil
}

// Closing is the frame a closure was created in.
func (sf *SexpFunction) Closing() *Frame {
	return sf.closing
}

func (sf *SexpFunction) SexpString(ps *PrintState) string {
	if sf.IsClosure() {
		names := make([]string, len(sf.params))
		for i, p := range sf.params {
			names[i] = p.name
		}
		return fmt.Sprintf("(fn [%s] ...)", strings.Join(names, " "))
	}
	return "<builtin " + sf.name + ">"
}

// MergeFuncMap returns a new map containing every entry of funcs;
// later maps win on name clashes.
func MergeFuncMap(funcs ...map[string]*SexpFunction) map[string]*SexpFunction {
	n := make(map[string]*SexpFunction)
	for _, f := range funcs {
		for k, v := range f {
			n[k] = v
		}
	}
	return n
}
