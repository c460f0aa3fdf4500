package graph

import "errors"

// Graph construction errors.
var (
	ErrInvalidShape     = errors.New("invalid shape")
	ErrShapeMismatch    = errors.New("shape mismatch")
	ErrNotMatrix        = errors.New("operand is not a matrix")
	ErrForeignNode      = errors.New("node belongs to a different graph")
	ErrReshapeSize      = errors.New("reshape changes element count")
	ErrDuplicateName    = errors.New("duplicate node name")
	ErrMissingName      = errors.New("placeholder requires a name")
	ErrAlreadyFinalized = errors.New("graph is finalized")
)

// Binding and execution errors.
var (
	ErrNotFinalized  = errors.New("graph is not finalized")
	ErrMissingInput  = errors.New("placeholder input missing")
	ErrInputShape    = errors.New("placeholder input has wrong shape")
	ErrNonScalarRoot = errors.New("root node is not a scalar")
	ErrEmptyGraph    = errors.New("graph has no nodes")
)

// Misuse errors.
var (
	ErrNotParameter = errors.New("node is not a parameter")
	ErrUnknownNode  = errors.New("unknown node")
)
