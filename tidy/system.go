package tidy

import (
	"fmt"
	"os"

	"github.com/shurcooL/go-goon"
)

func PrintFunction(name string) UserFunction {
	return func(h Host, _ string, args []Sexp) (Sexp, error) {
		if len(args) < 1 {
			return SexpNull, WrongNargs
		}

		str := stringOf(args[0])

		switch name {
		case "println":
			fmt.Fprintln(OurStdout, str)
		case "print":
			fmt.Fprint(OurStdout, str)
		case "printf", "sprintf":
			ar := make([]interface{}, len(args)-1)
			for i := 0; i < len(ar); i++ {
				switch x := args[i+1].(type) {
				case *SexpInt:
					ar[i] = x.Val
				case *SexpBool:
					ar[i] = x.Val
				case *SexpFloat:
					ar[i] = x.Val
				case *SexpStr:
					ar[i] = x.S
				default:
					ar[i] = x.SexpString(nil)
				}
			}
			if name == "sprintf" {
				return &SexpStr{S: fmt.Sprintf(str, ar...)}, nil
			}
			fmt.Fprintf(OurStdout, str, ar...)
		}
		return SexpNull, nil
	}
}

// DumpFunction shows the Go structure behind a value.
func DumpFunction(h Host, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}
	x := args[0]
	if f, isFrame := x.(*Frame); isFrame {
		// parent links can loop while rechained
		x = FrameToList(f)
	}
	if name == "sdump" {
		return &SexpStr{S: goon.Sdump(x)}, nil
	}
	fmt.Fprint(OurStdout, goon.Sdump(x))
	return SexpNull, nil
}

// SourceFunction is (source path): read a file and evaluate it in the
// calling frame.
func SourceFunction(h Host, env *Frame, node Sexp) (Sexp, error) {
	c, err := callOf(node, "source")
	if err != nil {
		return SexpNull, err
	}
	if len(c.Args) != 1 {
		return SexpNull, WrongNargs
	}
	p, err := h.Eval(c.Args[0].Expr, env)
	if err != nil {
		return SexpNull, err
	}
	path, ok := p.(*SexpStr)
	if !ok {
		return SexpNull, fmt.Errorf("source: path must be a string, got %s", TypeName(p))
	}
	by, err := os.ReadFile(path.S)
	if err != nil {
		return SexpNull, err
	}
	xs, err := ParseString(string(by))
	if err != nil {
		return SexpNull, fmt.Errorf("source %s: %w", path.S, err)
	}
	var res Sexp = SexpNull
	for _, x := range xs {
		res, err = h.Eval(x, env)
		if err != nil {
			return SexpNull, err
		}
	}
	return res, nil
}

// SystemFunctions returns the builtins that touch files, databases or
// standard output.
func SystemFunctions() map[string]*SexpFunction {
	return map[string]*SexpFunction{
		"print":       MakeUserFunction("print", PrintFunction("print")),
		"println":     MakeUserFunction("println", PrintFunction("println")),
		"printf":      MakeUserFunction("printf", PrintFunction("printf")),
		"sprintf":     MakeUserFunction("sprintf", PrintFunction("sprintf")),
		"dump":        MakeUserFunction("dump", DumpFunction),
		"sdump":       MakeUserFunction("sdump", DumpFunction),
		"source":      MakeSpecialFunction("source", SourceFunction),
		"bsave":       MakeUserFunction("bsave", BsaveFunction),
		"bload":       MakeUserFunction("bload", BsaveFunction),
		"greenpack":   MakeUserFunction("greenpack", BsaveFunction),
		"sql_open":    MakeUserFunction("sql_open", SqlFunction),
		"sql_query":   MakeUserFunction("sql_query", SqlFunction),
		"sql_exec":    MakeUserFunction("sql_exec", SqlFunction),
		"sql_records": MakeUserFunction("sql_records", SqlFunction),
	}
}
