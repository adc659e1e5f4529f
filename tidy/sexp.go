package tidy

import (
	"fmt"
	"strconv"
	"strings"
)

// Sexp is the one interface shared by expressions and the values
// they evaluate to.
type Sexp interface {
	SexpString(ps *PrintState) string
}

type SexpInt struct {
	Val int64
}

type SexpFloat struct {
	Val float64
}

type SexpStr struct {
	S string
}

type SexpBool struct {
	Val bool
}

type SexpRaw struct {
	Val []byte
}

type SexpSentinel struct {
	Val int
}

const (
	SexpNullVal = iota
	SexpMissingVal
)

// SexpNull is the empty value.
var SexpNull = &SexpSentinel{Val: SexpNullVal}

// SexpMissing stands for an argument that was never supplied.
var SexpMissing = &SexpSentinel{Val: SexpMissingVal}

func (sent *SexpSentinel) SexpString(ps *PrintState) string {
	switch sent.Val {
	case SexpNullVal:
		return "null"
	case SexpMissingVal:
		return "<missing>"
	}
	return fmt.Sprintf("<sentinel %d>", sent.Val)
}

func (i *SexpInt) SexpString(ps *PrintState) string {
	return strconv.FormatInt(i.Val, 10)
}

func (f *SexpFloat) SexpString(ps *PrintState) string {
	s := strconv.FormatFloat(f.Val, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

func (s *SexpStr) SexpString(ps *PrintState) string {
	return strconv.Quote(s.S)
}

func (b *SexpBool) SexpString(ps *PrintState) string {
	if b.Val {
		return "true"
	}
	return "false"
}

func (r *SexpRaw) SexpString(ps *PrintState) string {
	return fmt.Sprintf("%#v", r.Val)
}

// Arg is one argument of a call. An empty Name means positional.
type Arg struct {
	Name string
	Expr Sexp
}

// SexpCall is a call node: Head applied to Args.
type SexpCall struct {
	Head Sexp
	Args []Arg
}

// MakeCall builds a call with positional arguments.
func MakeCall(head Sexp, args ...Sexp) *SexpCall {
	c := &SexpCall{Head: head, Args: make([]Arg, len(args))}
	for i := range args {
		c.Args[i] = Arg{Expr: args[i]}
	}
	return c
}

// MakeNamedCall builds a call from ready-made arguments.
func MakeNamedCall(head Sexp, args ...Arg) *SexpCall {
	cp := make([]Arg, len(args))
	copy(cp, args)
	return &SexpCall{Head: head, Args: cp}
}

func NamedArg(name string, expr Sexp) Arg {
	return Arg{Name: name, Expr: expr}
}

func (c *SexpCall) SexpString(ps *PrintState) string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Head.SexpString(ps))
	for _, a := range c.Args {
		if a.Name != "" {
			parts = append(parts, a.Name+": "+a.Expr.SexpString(ps))
		} else {
			parts = append(parts, a.Expr.SexpString(ps))
		}
	}
	if c.Head == symSquare {
		return "[" + strings.Join(parts[1:], " ") + "]"
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// HeadSymbol returns the call's head if it is a symbol.
func (c *SexpCall) HeadSymbol() (*SexpSymbol, bool) {
	sym, ok := c.Head.(*SexpSymbol)
	return sym, ok
}

// IsQuoteMarkerCall reports whether x is a call to `~`.
func IsQuoteMarkerCall(x Sexp) bool {
	c, ok := x.(*SexpCall)
	if !ok {
		return false
	}
	sym, ok := c.HeadSymbol()
	return ok && sym == symTilde
}

// IsCallTo reports whether x is a call whose head is the symbol name.
func IsCallTo(x Sexp, name string) bool {
	c, ok := x.(*SexpCall)
	if !ok {
		return false
	}
	sym, ok := c.HeadSymbol()
	return ok && sym.name == name
}

func IsTruthy(expr Sexp) bool {
	switch e := expr.(type) {
	case *SexpBool:
		return e.Val
	case *SexpInt:
		return e.Val != 0
	case *SexpFloat:
		return e.Val != 0
	case *SexpStr:
		return e.S != ""
	case *SexpSentinel:
		return false
	}
	return true
}

func TypeName(x Sexp) string {
	switch x.(type) {
	case *SexpInt:
		return "int"
	case *SexpFloat:
		return "float"
	case *SexpStr:
		return "string"
	case *SexpBool:
		return "bool"
	case *SexpRaw:
		return "raw"
	case *SexpSymbol:
		return "symbol"
	case *SexpCall:
		return "call"
	case *SexpQuosure:
		return "quosure"
	case *SexpList:
		return "list"
	case *Frame:
		return "environment"
	case *Dictionary:
		return "dictionary"
	case *SexpFunction:
		return "function"
	case *SqlData:
		return "database"
	case *Overscope:
		return "overscope"
	case *SexpSentinel:
		if x == SexpMissing {
			return "missing"
		}
		return "null"
	}
	return fmt.Sprintf("%T", x)
}
