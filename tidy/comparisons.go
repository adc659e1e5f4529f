package tidy

import (
	"fmt"
	"math"
	"strings"
)

func signumFloat(f float64) int {
	if f > 0 {
		return 1
	}
	if f < 0 {
		return -1
	}
	return 0
}

func signumInt(i int64) int {
	if i > 0 {
		return 1
	}
	if i < 0 {
		return -1
	}
	return 0
}

// compareFloat returns 2 when a NaN is involved.
func compareFloat(f *SexpFloat, expr Sexp) (int, error) {
	var other float64
	switch e := expr.(type) {
	case *SexpInt:
		other = float64(e.Val)
	case *SexpFloat:
		other = e.Val
	default:
		return 0, fmt.Errorf("cannot compare %s to %s: %w", TypeName(f), TypeName(expr), WrongType)
	}
	if math.IsNaN(f.Val) || math.IsNaN(other) {
		return 2, nil
	}
	return signumFloat(f.Val - other), nil
}

func compareInt(i *SexpInt, expr Sexp) (int, error) {
	switch e := expr.(type) {
	case *SexpInt:
		return signumInt(i.Val - e.Val), nil
	case *SexpFloat:
		if math.IsNaN(e.Val) {
			return 2, nil
		}
		return signumFloat(float64(i.Val) - e.Val), nil
	}
	return 0, fmt.Errorf("cannot compare %s to %s: %w", TypeName(i), TypeName(expr), WrongType)
}

func compareString(s *SexpStr, expr Sexp) (int, error) {
	switch e := expr.(type) {
	case *SexpStr:
		return strings.Compare(s.S, e.S), nil
	}
	return 0, fmt.Errorf("cannot compare %s to %s: %w", TypeName(s), TypeName(expr), WrongType)
}

func compareBool(b *SexpBool, expr Sexp) (int, error) {
	e, ok := expr.(*SexpBool)
	if !ok {
		return 0, fmt.Errorf("cannot compare %s to %s: %w", TypeName(b), TypeName(expr), WrongType)
	}
	// false < true
	var x, y int
	if b.Val {
		x = 1
	}
	if e.Val {
		y = 1
	}
	return signumInt(int64(x - y)), nil
}

func compareList(a *SexpList, expr Sexp) (int, error) {
	b, ok := expr.(*SexpList)
	if !ok {
		return 0, fmt.Errorf("cannot compare %s to %s: %w", TypeName(a), TypeName(expr), WrongType)
	}
	ea, eb := a.Entries(), b.Entries()
	n := len(ea)
	if len(eb) < n {
		n = len(eb)
	}
	for i := 0; i < n; i++ {
		if ea[i].Name != eb[i].Name {
			return strings.Compare(ea[i].Name, eb[i].Name), nil
		}
		c, err := Compare(ea[i].Val, eb[i].Val)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	return signumInt(int64(len(ea) - len(eb))), nil
}

// Compare orders a and b: -1, 0 or 1, or 2 when a NaN makes them
// unordered. Values of unrelated types only compare by identity.
func Compare(a Sexp, b Sexp) (int, error) {
	switch at := a.(type) {
	case *SexpInt:
		return compareInt(at, b)
	case *SexpFloat:
		return compareFloat(at, b)
	case *SexpBool:
		return compareBool(at, b)
	case *SexpStr:
		return compareString(at, b)
	case *SexpList:
		return compareList(at, b)
	case *SexpSymbol:
		if bs, ok := b.(*SexpSymbol); ok {
			return strings.Compare(at.name, bs.name), nil
		}
	case *SexpSentinel:
		if a == b {
			return 0, nil
		}
		return -1, nil
	}
	if a == b {
		return 0, nil
	}
	return 0, fmt.Errorf("cannot compare %s to %s: %w", TypeName(a), TypeName(b), WrongType)
}
