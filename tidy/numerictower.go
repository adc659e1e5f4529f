package tidy

import (
	"errors"
	"math"
)

type NumericOp int

const (
	Add NumericOp = iota
	Sub
	Mult
	Div
	Pow
)

var WrongType error = errors.New("operands have invalid type")

var DivByZero error = errors.New("integer division by zero")

func NumericFloatDo(op NumericOp, a, b float64) Sexp {
	switch op {
	case Add:
		return &SexpFloat{Val: a + b}
	case Sub:
		return &SexpFloat{Val: a - b}
	case Mult:
		return &SexpFloat{Val: a * b}
	case Div:
		return &SexpFloat{Val: a / b}
	case Pow:
		return &SexpFloat{Val: math.Pow(a, b)}
	}
	return SexpNull
}

func NumericIntDo(op NumericOp, a, b int64) (Sexp, error) {
	switch op {
	case Add:
		return &SexpInt{Val: a + b}, nil
	case Sub:
		return &SexpInt{Val: a - b}, nil
	case Mult:
		return &SexpInt{Val: a * b}, nil
	case Div:
		if b == 0 {
			return SexpNull, DivByZero
		}
		if a%b == 0 {
			return &SexpInt{Val: a / b}, nil
		}
		return &SexpFloat{Val: float64(a) / float64(b)}, nil
	case Pow:
		if b < 0 {
			return &SexpFloat{Val: math.Pow(float64(a), float64(b))}, nil
		}
		res := int64(1)
		for i := int64(0); i < b; i++ {
			res *= a
		}
		return &SexpInt{Val: res}, nil
	}
	return SexpNull, errors.New("unknown numeric op")
}

func NumericMatchFloat(op NumericOp, a *SexpFloat, b Sexp) (Sexp, error) {
	switch tb := b.(type) {
	case *SexpFloat:
		return NumericFloatDo(op, a.Val, tb.Val), nil
	case *SexpInt:
		return NumericFloatDo(op, a.Val, float64(tb.Val)), nil
	}
	return SexpNull, WrongType
}

func NumericMatchInt(op NumericOp, a *SexpInt, b Sexp) (Sexp, error) {
	switch tb := b.(type) {
	case *SexpFloat:
		return NumericFloatDo(op, float64(a.Val), tb.Val), nil
	case *SexpInt:
		return NumericIntDo(op, a.Val, tb.Val)
	}
	return SexpNull, WrongType
}

func NumericDo(op NumericOp, a, b Sexp) (Sexp, error) {
	switch ta := a.(type) {
	case *SexpFloat:
		return NumericMatchFloat(op, ta, b)
	case *SexpInt:
		return NumericMatchInt(op, ta, b)
	}
	return SexpNull, WrongType
}
