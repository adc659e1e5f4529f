package tidy

import (
	"errors"
	"fmt"
	"strings"
)

func CompareFunction(name string) UserFunction {
	return func(h Host, _ string, args []Sexp) (Sexp, error) {
		if len(args) != 2 {
			return SexpNull, WrongNargs
		}

		res, err := Compare(args[0], args[1])
		if err != nil {
			return SexpNull, err
		}

		if res > 1 {
			// one or two NaN: unordered, and NaN != NaN
			return &SexpBool{Val: name == "!="}, nil
		}

		cond := false
		switch name {
		case "<":
			cond = res < 0
		case ">":
			cond = res > 0
		case "<=":
			cond = res <= 0
		case ">=":
			cond = res >= 0
		case "==":
			cond = res == 0
		case "!=":
			cond = res != 0
		}

		return &SexpBool{Val: cond}, nil
	}
}

func NumericFunction(name string) UserFunction {
	return func(h Host, _ string, args []Sexp) (Sexp, error) {
		if len(args) < 1 {
			return SexpNull, WrongNargs
		}

		var op NumericOp
		switch name {
		case "+":
			op = Add
		case "-":
			op = Sub
		case "*":
			op = Mult
		case "/":
			op = Div
		case "^":
			op = Pow
		}

		if len(args) == 1 && op == Sub {
			return NumericDo(Sub, &SexpInt{Val: 0}, args[0])
		}

		accum := args[0]
		var err error
		for _, expr := range args[1:] {
			accum, err = NumericDo(op, accum, expr)
			if err != nil {
				return SexpNull, err
			}
		}
		return accum, nil
	}
}

func NotFunction(h Host, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}
	return &SexpBool{Val: !IsTruthy(args[0])}, nil
}

func IdentityFunction(h Host, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}
	return args[0], nil
}

// ListFunction keeps argument names: (list a: 1 2) has names "a" and "".
func ListFunction(h Host, name string, args *SexpList) (Sexp, error) {
	return args, nil
}

func LenFunction(h Host, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}
	switch t := args[0].(type) {
	case *SexpList:
		return &SexpInt{Val: int64(t.Len())}, nil
	case *SexpStr:
		return &SexpInt{Val: int64(len(t.S))}, nil
	case *Frame:
		return &SexpInt{Val: int64(t.Len())}, nil
	case *Dictionary:
		return &SexpInt{Val: int64(len(t.Names()))}, nil
	case *SexpSentinel:
		return &SexpInt{Val: 0}, nil
	}
	return &SexpInt{Val: 1}, nil
}

func NamesFunction(h Host, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}
	var names []string
	switch t := args[0].(type) {
	case *SexpList:
		if !t.HasNames() {
			return SexpNull, nil
		}
		names = t.Names()
	case *Frame:
		names = t.Names()
	case *Dictionary:
		names = t.Names()
	default:
		return SexpNull, nil
	}
	vals := make([]Sexp, len(names))
	for i, n := range names {
		vals[i] = &SexpStr{S: n}
	}
	return MakeList(vals...), nil
}

func stringOf(x Sexp) string {
	if s, ok := x.(*SexpStr); ok {
		return s.S
	}
	return x.SexpString(nil)
}

func PasteFunction(h Host, name string, args []Sexp) (Sexp, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = stringOf(a)
	}
	sep := " "
	if name == "paste0" {
		sep = ""
	}
	return &SexpStr{S: strings.Join(parts, sep)}, nil
}

func StopFunction(h Host, name string, args []Sexp) (Sexp, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = stringOf(a)
	}
	return SexpNull, &StopError{Msg: strings.Join(parts, "")}
}

func QuoExprFunction(h Host, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}
	quo, ok := args[0].(*SexpQuosure)
	if !ok {
		return SexpNull, fmt.Errorf("%s: expected a quosure, got %s", name, TypeName(args[0]))
	}
	switch name {
	case "quo_expr":
		return quo.Expr(), nil
	case "quo_env":
		if quo.Env() == nil {
			return SexpNull, nil
		}
		return quo.Env(), nil
	}
	return SexpNull, nil
}

func IsQuosureFunction(h Host, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}
	return &SexpBool{Val: IsQuosure(args[0])}, nil
}

// NewEnvFunction makes a fresh frame under its optional argument,
// or under the base frame.
func NewEnvFunction(h Host, name string, args []Sexp) (Sexp, error) {
	parent := h.BaseEnv()
	if len(args) > 1 {
		return SexpNull, WrongNargs
	}
	if len(args) == 1 {
		p, ok := args[0].(*Frame)
		if !ok {
			return SexpNull, fmt.Errorf("%s: parent must be an environment, got %s", name, TypeName(args[0]))
		}
		parent = p
	}
	return NewFrame(parent), nil
}

func callOf(node Sexp, name string) (*SexpCall, error) {
	c, ok := node.(*SexpCall)
	if !ok {
		return nil, fmt.Errorf("%s: expected a call, got %s", name, TypeName(node))
	}
	return c, nil
}

// matchArgs resolves the call's arguments against formals, named ones
// first and then positional in order. Absent formals come back nil.
func matchArgs(c *SexpCall, name string, formals ...string) ([]Sexp, error) {
	out := make([]Sexp, len(formals))
	pos := []Sexp{}
	for _, a := range c.Args {
		if a.Name == "" {
			pos = append(pos, a.Expr)
			continue
		}
		found := false
		for i, f := range formals {
			if f == a.Name {
				out[i] = a.Expr
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%s: unused argument `%s`: %w", name, a.Name, WrongNargs)
		}
	}
	next := 0
	for i := range out {
		if out[i] == nil && next < len(pos) {
			out[i] = pos[next]
			next++
		}
	}
	if next < len(pos) {
		return nil, fmt.Errorf("%s: too many arguments: %w", name, WrongNargs)
	}
	return out, nil
}

func QuoteFunction(h Host, env *Frame, node Sexp) (Sexp, error) {
	c, err := callOf(node, "quote")
	if err != nil {
		return SexpNull, err
	}
	if len(c.Args) != 1 {
		return SexpNull, WrongNargs
	}
	return c.Args[0].Expr, nil
}

func QuoFunction(h Host, env *Frame, node Sexp) (Sexp, error) {
	c, err := callOf(node, "quo")
	if err != nil {
		return SexpNull, err
	}
	if len(c.Args) != 1 {
		return SexpNull, WrongNargs
	}
	return NewQuosure(c.Args[0].Expr, env), nil
}

// BaseQuoteMarker is `~` outside of any overscope. A quosure node
// evaluates to itself; (~ x) captures x along with env.
func BaseQuoteMarker(h Host, env *Frame, node Sexp) (Sexp, error) {
	switch t := node.(type) {
	case *SexpQuosure:
		return t, nil
	case *SexpCall:
		if len(t.Args) != 1 {
			return SexpNull, fmt.Errorf("~ expects exactly one argument: %w", WrongNargs)
		}
		return NewQuosure(t.Args[0].Expr, env), nil
	}
	return SexpNull, fmt.Errorf("~ applied to %s", TypeName(node))
}

func AndOrFunction(h Host, env *Frame, node Sexp) (Sexp, error) {
	c, err := callOf(node, "&&")
	if err != nil {
		return SexpNull, err
	}
	sym, _ := c.HeadSymbol()
	isOr := sym != nil && sym.name == "||"
	var res Sexp = &SexpBool{Val: !isOr}
	for _, a := range c.Args {
		res, err = h.Eval(a.Expr, env)
		if err != nil {
			return SexpNull, err
		}
		truth := IsTruthy(res)
		if isOr && truth {
			return &SexpBool{Val: true}, nil
		}
		if !isOr && !truth {
			return &SexpBool{Val: false}, nil
		}
	}
	return &SexpBool{Val: !isOr}, nil
}

func IfFunction(h Host, env *Frame, node Sexp) (Sexp, error) {
	c, err := callOf(node, "if")
	if err != nil {
		return SexpNull, err
	}
	if len(c.Args) < 2 || len(c.Args) > 3 {
		return SexpNull, WrongNargs
	}
	cond, err := h.Eval(c.Args[0].Expr, env)
	if err != nil {
		return SexpNull, err
	}
	if IsTruthy(cond) {
		return h.Eval(c.Args[1].Expr, env)
	}
	if len(c.Args) == 3 {
		return h.Eval(c.Args[2].Expr, env)
	}
	return SexpNull, nil
}

func BeginFunction(h Host, env *Frame, node Sexp) (Sexp, error) {
	c, err := callOf(node, "begin")
	if err != nil {
		return SexpNull, err
	}
	var res Sexp = SexpNull
	for _, a := range c.Args {
		res, err = h.Eval(a.Expr, env)
		if err != nil {
			return SexpNull, err
		}
	}
	return res, nil
}

// FnFunction builds a closure: (fn [a b] body...).
func FnFunction(h Host, env *Frame, node Sexp) (Sexp, error) {
	c, err := callOf(node, "fn")
	if err != nil {
		return SexpNull, err
	}
	if len(c.Args) < 1 {
		return SexpNull, WrongNargs
	}
	var params []*SexpSymbol
	switch ps := c.Args[0].Expr.(type) {
	case *SexpCall:
		if hs, ok := ps.HeadSymbol(); ok && hs != symSquare {
			params = append(params, hs)
		}
		for _, a := range ps.Args {
			sym, ok := a.Expr.(*SexpSymbol)
			if !ok {
				return SexpNull, fmt.Errorf("fn: parameter %s is not a symbol", a.Expr.SexpString(nil))
			}
			params = append(params, sym)
		}
	case *SexpSymbol:
		params = append(params, ps)
	case *SexpSentinel:
		// (fn null body) takes nothing
	default:
		return SexpNull, fmt.Errorf("fn: bad parameter list %s", ps.SexpString(nil))
	}
	body := make([]Sexp, len(c.Args)-1)
	for i, a := range c.Args[1:] {
		body[i] = a.Expr
	}
	return MakeClosure("fn", params, body, env), nil
}

// AssignFunction binds in the frame the call is evaluated in.
func AssignFunction(h Host, env *Frame, node Sexp) (Sexp, error) {
	c, err := callOf(node, "<-")
	if err != nil {
		return SexpNull, err
	}
	if len(c.Args) != 2 {
		return SexpNull, WrongNargs
	}
	var sym *SexpSymbol
	switch t := c.Args[0].Expr.(type) {
	case *SexpSymbol:
		sym = t
	case *SexpStr:
		sym = MakeSymbol(t.S)
	default:
		return SexpNull, fmt.Errorf("cannot assign to %s", t.SexpString(nil))
	}
	val, err := h.Eval(c.Args[1].Expr, env)
	if err != nil {
		return SexpNull, err
	}
	env.Set(sym, val)
	return val, nil
}

// TryFunction evaluates its first argument; on error it evaluates the
// handler instead, calling it with the message when it is a function.
func TryFunction(h Host, env *Frame, node Sexp) (Sexp, error) {
	c, err := callOf(node, "try")
	if err != nil {
		return SexpNull, err
	}
	if len(c.Args) < 1 || len(c.Args) > 2 {
		return SexpNull, WrongNargs
	}
	res, err := h.Eval(c.Args[0].Expr, env)
	if err == nil {
		return res, nil
	}
	if len(c.Args) == 1 {
		return SexpNull, nil
	}
	handler, herr := h.Eval(c.Args[1].Expr, env)
	if herr != nil {
		return SexpNull, herr
	}
	msg := err.Error()
	var stop *StopError
	if errors.As(err, &stop) {
		msg = stop.Msg
	}
	if f, ok := handler.(*SexpFunction); ok && !f.IsSpecial() {
		return h.Eval(MakeCall(f, &SexpStr{S: msg}), env)
	}
	return handler, nil
}

// DollarFunction is ($ obj name), which the reader also produces from
// obj$name. The name is not evaluated.
func DollarFunction(h Host, env *Frame, node Sexp) (Sexp, error) {
	c, err := callOf(node, "$")
	if err != nil {
		return SexpNull, err
	}
	if len(c.Args) != 2 {
		return SexpNull, WrongNargs
	}
	var name string
	switch t := c.Args[1].Expr.(type) {
	case *SexpSymbol:
		name = t.name
	case *SexpStr:
		name = t.S
	default:
		return SexpNull, fmt.Errorf("$: invalid subscript %s", t.SexpString(nil))
	}
	obj, err := h.Eval(c.Args[0].Expr, env)
	if err != nil {
		return SexpNull, err
	}
	switch t := obj.(type) {
	case *Dictionary:
		return t.Lookup(name)
	case *SexpList:
		v, ok := t.Get(name)
		if !ok {
			return SexpNull, fmt.Errorf("object `%s` not found in list: %w", name, MissingName)
		}
		return v, nil
	case *Frame:
		v, err := t.Get(MakeSymbol(name))
		if err != nil {
			return SexpNull, fmt.Errorf("object `%s` not found in environment: %w", name, MissingName)
		}
		return v, nil
	}
	return SexpNull, fmt.Errorf("$ operator is invalid for %s", TypeName(obj))
}

// EvalTidyFunction is (eval_tidy expr data env).
func EvalTidyFunction(h Host, env *Frame, node Sexp) (Sexp, error) {
	c, err := callOf(node, "eval_tidy")
	if err != nil {
		return SexpNull, err
	}
	exprs, err := matchArgs(c, "eval_tidy", "expr", "data", "env")
	if err != nil {
		return SexpNull, err
	}
	if exprs[0] == nil {
		return SexpNull, fmt.Errorf("eval_tidy: missing expr: %w", WrongNargs)
	}
	vals := make([]Sexp, 3)
	for i, e := range exprs {
		if e == nil {
			continue
		}
		vals[i], err = h.Eval(e, env)
		if err != nil {
			return SexpNull, err
		}
	}
	target := env
	if vals[2] != nil {
		f, ok := vals[2].(*Frame)
		if !ok {
			return SexpNull, fmt.Errorf("eval_tidy: env must be an environment, got %s", TypeName(vals[2]))
		}
		target = f
	}
	return EvalTidy(h, vals[0], vals[1], target)
}

// EvalFunction is plain (eval expr env), no overscope.
func EvalFunction(h Host, env *Frame, node Sexp) (Sexp, error) {
	c, err := callOf(node, "eval")
	if err != nil {
		return SexpNull, err
	}
	exprs, err := matchArgs(c, "eval", "expr", "env")
	if err != nil {
		return SexpNull, err
	}
	if exprs[0] == nil {
		return SexpNull, WrongNargs
	}
	x, err := h.Eval(exprs[0], env)
	if err != nil {
		return SexpNull, err
	}
	target := env
	if exprs[1] != nil {
		e, err := h.Eval(exprs[1], env)
		if err != nil {
			return SexpNull, err
		}
		f, ok := e.(*Frame)
		if !ok {
			return SexpNull, fmt.Errorf("eval: env must be an environment, got %s", TypeName(e))
		}
		target = f
	}
	return h.Eval(x, target)
}

func EnvFunction(h Host, env *Frame, node Sexp) (Sexp, error) {
	c, err := callOf(node, "env")
	if err != nil {
		return SexpNull, err
	}
	if len(c.Args) != 0 {
		return SexpNull, WrongNargs
	}
	return env, nil
}

func BaseEnvFunction(h Host, name string, args []Sexp) (Sexp, error) {
	if len(args) != 0 {
		return SexpNull, WrongNargs
	}
	return h.BaseEnv(), nil
}

// CoreFunctions returns the language core.
func CoreFunctions() map[string]*SexpFunction {
	return map[string]*SexpFunction{
		"<":        MakeUserFunction("<", CompareFunction("<")),
		">":        MakeUserFunction(">", CompareFunction(">")),
		"<=":       MakeUserFunction("<=", CompareFunction("<=")),
		">=":       MakeUserFunction(">=", CompareFunction(">=")),
		"==":       MakeUserFunction("==", CompareFunction("==")),
		"!=":       MakeUserFunction("!=", CompareFunction("!=")),
		"+":        MakeUserFunction("+", NumericFunction("+")),
		"-":        MakeUserFunction("-", NumericFunction("-")),
		"*":        MakeUserFunction("*", NumericFunction("*")),
		"/":        MakeUserFunction("/", NumericFunction("/")),
		"^":        MakeUserFunction("^", NumericFunction("^")),
		"!":        MakeUserFunction("!", NotFunction),
		"not":      MakeUserFunction("not", NotFunction),
		"identity": MakeUserFunction("identity", IdentityFunction),
		"length":   MakeUserFunction("length", LenFunction),
		"names":    MakeUserFunction("names", NamesFunction),
		"paste":    MakeUserFunction("paste", PasteFunction),
		"paste0":   MakeUserFunction("paste0", PasteFunction),
		"stop":     MakeUserFunction("stop", StopFunction),
		"list":     MakeNamedFunction("list", ListFunction),
		"[":        MakeNamedFunction("[", ListFunction),
		"quote":    MakeSpecialFunction("quote", QuoteFunction),
		"||":       MakeSpecialFunction("||", AndOrFunction),
		"&&":       MakeSpecialFunction("&&", AndOrFunction),
		"if":       MakeSpecialFunction("if", IfFunction),
		"begin":    MakeSpecialFunction("begin", BeginFunction),
		"fn":       MakeSpecialFunction("fn", FnFunction),
		"<-":       MakeSpecialFunction("<-", AssignFunction),
		"set":      MakeSpecialFunction("set", AssignFunction),
		"try":      MakeSpecialFunction("try", TryFunction),
		"$":        MakeSpecialFunction("$", DollarFunction),
		"eval":     MakeSpecialFunction("eval", EvalFunction),
		"env":      MakeSpecialFunction("env", EnvFunction),
		"base_env": MakeUserFunction("base_env", BaseEnvFunction),
		"new_env":  MakeUserFunction("new_env", NewEnvFunction),
	}
}

// TidyFunctions returns quosure capture and tidy evaluation.
func TidyFunctions() map[string]*SexpFunction {
	return map[string]*SexpFunction{
		"quo":        MakeSpecialFunction("quo", QuoFunction),
		"~":          MakeSpecialFunction("~", BaseQuoteMarker),
		"eval_tidy":  MakeSpecialFunction("eval_tidy", EvalTidyFunction),
		"quo_expr":   MakeUserFunction("quo_expr", QuoExprFunction),
		"quo_env":    MakeUserFunction("quo_env", QuoExprFunction),
		"is_quosure": MakeUserFunction("is_quosure", IsQuosureFunction),
	}
}

// SandboxSafeFunctions returns everything that stays inside the process.
func SandboxSafeFunctions() map[string]*SexpFunction {
	return MergeFuncMap(
		CoreFunctions(),
		TidyFunctions(),
		EncodingFunctions(),
	)
}

// AllBuiltinFunctions returns all built in functions
func AllBuiltinFunctions() map[string]*SexpFunction {
	return MergeFuncMap(
		CoreFunctions(),
		TidyFunctions(),
		EncodingFunctions(),
		SystemFunctions(),
	)
}
