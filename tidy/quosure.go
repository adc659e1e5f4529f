package tidy

// SexpQuosure bundles an expression with the frame it was written in.
// It is never mutated; WithEnv returns a new one.
type SexpQuosure struct {
	expr Sexp
	env  *Frame
}

// NewQuosure captures expr in env. A nil env makes an unscoped
// quosure, which evaluates as if captured in the host's base
// environment. expr and env come back out of Expr and Env as given.
func NewQuosure(expr Sexp, env *Frame) *SexpQuosure {
	if expr == nil {
		expr = SexpMissing
	}
	return &SexpQuosure{expr: expr, env: env}
}

func IsQuosure(x Sexp) bool {
	_, ok := x.(*SexpQuosure)
	return ok
}

// AsQuosure returns x if it is already a quosure, else a quosure of x in env.
func AsQuosure(x Sexp, env *Frame) *SexpQuosure {
	if q, ok := x.(*SexpQuosure); ok {
		return q
	}
	return NewQuosure(x, env)
}

func (q *SexpQuosure) Expr() Sexp {
	return q.expr
}

func (q *SexpQuosure) Env() *Frame {
	return q.env
}

func (q *SexpQuosure) IsScoped() bool {
	return q.env != nil
}

// IsMissing reports whether q stands for an argument never supplied.
func (q *SexpQuosure) IsMissing() bool {
	return q.expr == SexpMissing
}

func (q *SexpQuosure) WithEnv(env *Frame) *SexpQuosure {
	return &SexpQuosure{expr: q.expr, env: env}
}

func (q *SexpQuosure) WithExpr(expr Sexp) *SexpQuosure {
	return &SexpQuosure{expr: expr, env: q.env}
}

func (q *SexpQuosure) SexpString(ps *PrintState) string {
	return "^" + q.expr.SexpString(ps)
}
