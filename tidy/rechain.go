package tidy

import (
	"fmt"
)

// OverscopeEvalNext evaluates x in the overscope with the top of the
// dynamic chain pointed at x's own lexical frame. A non-quosure x is
// taken as written in fallback. The rechain is not undone here; the
// `~` marker brackets every nested call with its own restore.
func OverscopeEvalNext(h Host, ovs *Overscope, x Sexp, fallback *Frame) (Sexp, error) {
	top := ovs.Top()
	if top == nil {
		return SexpNull, CleanedOverscope
	}
	quo := AsQuosure(x, fallback)
	lex := quo.Env()
	if lex == nil {
		lex = fallback
	}
	if lex == nil {
		lex = h.BaseEnv()
	}
	return rechainEval(h, ovs, top, quo.Expr(), lex)
}

func rechainEval(h Host, ovs *Overscope, top *Frame, expr Sexp, lex *Frame) (Sexp, error) {
	ovs.frame.Set(symEnv, lex)
	// a quosure captured inside this overscope already sees the
	// overlay; pointing top at it would close the chain into a loop.
	if !top.IsAncestorOf(lex) {
		if Verbose {
			VPrintf("rechain: %s parent %s -> %s for %s", top.label(),
				frameLabel(top.Parent()), lex.label(), expr.SexpString(nil))
		}
		top.unsafeSetParent(lex)
	}
	return h.Eval(expr, ovs.frame)
}

// selfEvalMarker is what `~` is bound to inside an overscope. The host
// hands it every quosure node, and every literal (~ x) call, that
// evaluation reaches while running under ovs.
func selfEvalMarker(ovs *Overscope, top *Frame) *SexpFunction {
	return MakeSpecialFunction("~", func(h Host, env *Frame, node Sexp) (Sexp, error) {
		quo, isQuo := node.(*SexpQuosure)
		if !isQuo {
			call, isCall := node.(*SexpCall)
			if !isCall || len(call.Args) != 1 {
				return SexpNull, fmt.Errorf("~ expects exactly one argument: %w", WrongNargs)
			}
			return h.Eval(call.Args[0].Expr, ovs.bottom)
		}
		if quo.IsMissing() {
			return SexpMissing, nil
		}

		prevParent := top.Parent()
		prevEnv, hadEnv := ovs.frame.GetLocal(symEnv)
		defer func() {
			top.unsafeSetParent(prevParent)
			if hadEnv {
				ovs.frame.Set(symEnv, prevEnv)
			}
		}()

		lex := quo.Env()
		if lex == nil {
			lex = ovs.Env()
		}
		if lex == nil {
			lex = h.BaseEnv()
		}
		return rechainEval(h, ovs, top, quo.Expr(), lex)
	})
}

func frameLabel(f *Frame) string {
	if f == nil {
		return "<root>"
	}
	return f.label()
}
