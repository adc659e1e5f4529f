package tidy

import (
	"fmt"
	"runtime"
)

type PreHook func(*Evaluator, string, []Sexp)
type PostHook func(*Evaluator, string, Sexp)

// DefaultMaxDepth bounds nested evaluation so that runaway recursion
// surfaces as an error rather than a fatal Go stack overflow.
const DefaultMaxDepth = 5000

// Evaluator is a small tree-walking evaluator that satisfies Host. It
// owns a base frame holding the builtins and a global frame below it.
type Evaluator struct {
	base   *Frame
	global *Frame

	before []PreHook
	after  []PostHook

	Trace    bool
	MaxDepth int
	depth    int
}

func NewEvaluator() *Evaluator {
	return NewEvaluatorWithFuncs(AllBuiltinFunctions())
}

// NewEvaluatorSandbox returns an evaluator without the functions that
// reach outside the process (printing, dumping).
func NewEvaluatorSandbox() *Evaluator {
	return NewEvaluatorWithFuncs(SandboxSafeFunctions())
}

// NewEvaluatorWithFuncs returns an evaluator whose base frame binds
// exactly funcs, plus null/true/false.
func NewEvaluatorWithFuncs(funcs map[string]*SexpFunction) *Evaluator {
	ev := &Evaluator{
		MaxDepth: DefaultMaxDepth,
	}
	ev.base = NewNamedFrame("base", nil)
	ev.global = NewNamedFrame("global", ev.base)
	for name, f := range funcs {
		ev.base.Set(MakeSymbol(name), f)
	}
	ev.base.SetName("null", SexpNull)
	ev.base.SetName("true", &SexpBool{Val: true})
	ev.base.SetName("false", &SexpBool{Val: false})
	return ev
}

func (ev *Evaluator) BaseEnv() *Frame {
	return ev.base
}

func (ev *Evaluator) Global() *Frame {
	return ev.global
}

func (ev *Evaluator) AddFunction(name string, function UserFunction) {
	ev.base.Set(MakeSymbol(name), MakeUserFunction(name, function))
}

func (ev *Evaluator) AddGlobal(name string, obj Sexp) {
	ev.global.Set(MakeSymbol(name), obj)
}

func (ev *Evaluator) AddPreHook(fun PreHook) {
	ev.before = append(ev.before, fun)
}

func (ev *Evaluator) AddPostHook(fun PostHook) {
	ev.after = append(ev.after, fun)
}

// EvalTidy is EvalTidy with ev as host; a nil env means ev.Global().
func (ev *Evaluator) EvalTidy(x Sexp, data Sexp, env *Frame) (Sexp, error) {
	if env == nil {
		env = ev.global
	}
	return EvalTidy(ev, x, data, env)
}

func (ev *Evaluator) EvalTidyIn(x Sexp, bottom, top *Frame, env *Frame) (Sexp, error) {
	if env == nil {
		env = ev.global
	}
	return EvalTidyIn(ev, x, bottom, top, env)
}

// Eval evaluates expr in env (ev.Global() when nil).
func (ev *Evaluator) Eval(expr Sexp, env *Frame) (res Sexp, err error) {
	if env == nil {
		env = ev.global
	}
	ev.depth++
	defer func() { ev.depth-- }()
	if ev.MaxDepth > 0 && ev.depth > ev.MaxDepth {
		return SexpNull, TooDeep
	}

	switch e := expr.(type) {
	case nil:
		return SexpNull, nil
	case *SexpSymbol:
		return env.Get(e)
	case *SexpQuosure:
		return ev.dispatchQuoteMarker(e, env)
	case *SexpCall:
		return ev.evalCall(e, env)
	}
	// literals and runtime values evaluate to themselves
	return expr, nil
}

// EvalAll evaluates each expression in turn and returns the last value.
func (ev *Evaluator) EvalAll(xs []Sexp, env *Frame) (Sexp, error) {
	var res Sexp = SexpNull
	var err error
	for _, x := range xs {
		res, err = ev.Eval(x, env)
		if err != nil {
			return SexpNull, err
		}
	}
	return res, nil
}

// EvalString reads str and evaluates every expression in it in env.
func (ev *Evaluator) EvalString(str string, env *Frame) (Sexp, error) {
	xs, err := ParseString(str)
	if err != nil {
		return SexpNull, err
	}
	return ev.EvalAll(xs, env)
}

// quosure nodes go to whatever `~` is in scope: the overscope's
// marker inside tidy evaluation, the base one outside.
func (ev *Evaluator) dispatchQuoteMarker(node Sexp, env *Frame) (Sexp, error) {
	f, err := ev.lookupFunction(symTilde, env)
	if err != nil {
		return SexpNull, err
	}
	if !f.IsSpecial() {
		return SexpNull, fmt.Errorf("`~` is bound to a non-special function: %w", NotCallable)
	}
	return ev.callSpecial(f, env, node)
}

// lookupFunction finds the nearest binding of sym that is a function,
// skipping others, so a data column called `list` does not hide list().
func (ev *Evaluator) lookupFunction(sym *SexpSymbol, env *Frame) (*SexpFunction, error) {
	depth := 0
	for cur := env; cur != nil; cur = cur.Parent() {
		if v, ok := cur.GetLocal(sym); ok {
			if f, isFn := v.(*SexpFunction); isFn {
				return f, nil
			}
		}
		depth++
		if depth > MaxChainDepth {
			return nil, fmt.Errorf("looking up function `%s`: %w", sym.name, ChainCycle)
		}
	}
	return nil, fmt.Errorf("could not find function `%s`: %w", sym.name, SymNotFound)
}

func (ev *Evaluator) evalCall(c *SexpCall, env *Frame) (Sexp, error) {
	var f *SexpFunction
	if sym, isSym := c.Head.(*SexpSymbol); isSym {
		var err error
		f, err = ev.lookupFunction(sym, env)
		if err != nil {
			return SexpNull, err
		}
	} else {
		head, err := ev.Eval(c.Head, env)
		if err != nil {
			return SexpNull, err
		}
		var isFn bool
		f, isFn = head.(*SexpFunction)
		if !isFn {
			return SexpNull, fmt.Errorf("%s: %w", c.Head.SexpString(nil), NotCallable)
		}
	}

	if f.IsSpecial() {
		return ev.callSpecial(f, env, c)
	}

	names := make([]string, len(c.Args))
	vals := make([]Sexp, len(c.Args))
	for i, a := range c.Args {
		v, err := ev.Eval(a.Expr, env)
		if err != nil {
			return SexpNull, err
		}
		names[i] = a.Name
		vals[i] = v
	}
	return ev.apply(f, MakeNamedList(names, vals))
}

// Apply calls fun on already evaluated positional args.
func (ev *Evaluator) Apply(fun *SexpFunction, args []Sexp) (Sexp, error) {
	if fun.IsSpecial() {
		return SexpNull, fmt.Errorf("cannot apply special form `%s`: %w", fun.name, NotCallable)
	}
	return ev.apply(fun, MakeList(args...))
}

func (ev *Evaluator) apply(f *SexpFunction, args *SexpList) (Sexp, error) {
	if f.IsClosure() {
		return ev.callClosure(f, args)
	}
	vals := args.Values()
	if ev.Trace {
		TSPrintf("call %s with %d args", f.name, len(vals))
	}
	for _, prehook := range ev.before {
		prehook(ev, f.name, vals)
	}

	res, err := protect(f.name, func() (Sexp, error) {
		if f.named != nil {
			return f.named(ev, f.name, args)
		}
		return f.userfun(ev, f.name, vals)
	})
	if err != nil {
		return SexpNull, fmt.Errorf("Error calling '%s': %w", f.name, err)
	}

	for _, posthook := range ev.after {
		posthook(ev, f.name, res)
	}
	return res, nil
}

func (ev *Evaluator) callSpecial(f *SexpFunction, env *Frame, node Sexp) (Sexp, error) {
	if ev.Trace {
		TSPrintf("special %s on %s", f.name, node.SexpString(nil))
	}
	return protect(f.name, func() (Sexp, error) {
		return f.special(ev, env, node)
	})
}

func (ev *Evaluator) callClosure(f *SexpFunction, args *SexpList) (Sexp, error) {
	frame := NewNamedFrame(f.name, f.closing)
	bound := make([]bool, len(f.params))
	positional := []Sexp{}
	for _, e := range args.Entries() {
		if e.Name == "" {
			positional = append(positional, e.Val)
			continue
		}
		found := false
		for i, p := range f.params {
			if p.name == e.Name {
				if bound[i] {
					return SexpNull, fmt.Errorf("%s: duplicate argument `%s`", f.name, e.Name)
				}
				frame.Set(p, e.Val)
				bound[i] = true
				found = true
				break
			}
		}
		if !found {
			return SexpNull, fmt.Errorf("%s takes no argument `%s`: %w", f.name, e.Name, WrongNargs)
		}
	}
	next := 0
	for i, p := range f.params {
		if bound[i] {
			continue
		}
		if next < len(positional) {
			frame.Set(p, positional[next])
			next++
		} else {
			frame.Set(p, SexpMissing)
		}
	}
	if next < len(positional) {
		return SexpNull, fmt.Errorf("%s expected %d arguments, got %d: %w",
			f.name, len(f.params), args.Len(), WrongNargs)
	}
	return ev.EvalAll(f.body, frame)
}

// protect turns a panic in fn into an error carrying the stack.
func protect(name string, fn func() (Sexp, error)) (res Sexp, err error) {
	defer func() {
		recovered := recover()
		if recovered != nil {
			trace := make([]byte, 16384)
			nbyte := runtime.Stack(trace, false)
			trace = trace[:nbyte]
			res = SexpNull
			err = fmt.Errorf("caught panic during call of "+
				"'%s': '%v'\n stack trace:\n%v\n",
				name, recovered, string(trace))
		}
	}()
	return fn()
}
