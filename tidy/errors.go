package tidy

import (
	"errors"
)

// InvalidDataSource is returned when overlay data is neither a named
// list, a frame, nor absent. It fires while the overscope is being
// built, before any evaluation happens.
var InvalidDataSource = errors.New("invalid data source: expected a named list, an environment, or null")

// MissingName is returned by a Dictionary lookup of an absent name.
var MissingName = errors.New("name not found in dictionary")

// ReadOnly is returned by writes through a read-only Dictionary.
var ReadOnly = errors.New("dictionary is read-only")

var SymNotFound = errors.New("symbol not found")

var WrongNargs = errors.New("wrong number of arguments")

var NotCallable = errors.New("attempt to call a non-function")

// ChainCycle is returned by a lookup that walked more than
// MaxChainDepth parents, which only happens when a parent
// cycle has been created through the rechaining primitive.
var ChainCycle = errors.New("environment parent chain too deep or cyclic")

var UnexpectedEnd = errors.New("Unexpected end of input")

// StopError is what (stop "msg") raises.
type StopError struct {
	Msg string
}

func (e *StopError) Error() string {
	return e.Msg
}

// CleanedOverscope is returned when evaluation is attempted in an
// overscope whose framework bindings have already been removed.
var CleanedOverscope = errors.New("overscope has already been cleaned up")

// TooDeep is returned when evaluation nests deeper than MaxDepth.
var TooDeep = errors.New("evaluation nested too deeply")
