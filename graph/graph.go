// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package graph

import (
	"github.com/born-ml/graphgrad/internal/graph"
)

// Graph owns nodes, their topological order and a name table.
type Graph = graph.Graph

// Node is a handle to one node of a Graph.
type Node = graph.Node

// NodeID is a node's dense index in its graph.
type NodeID = graph.NodeID

// Kind identifies a node's operator.
type Kind = graph.Kind

// Input binds placeholder names to tensors for one forward pass.
type Input = graph.Input

// Node kinds.
const (
	Placeholder = graph.Placeholder
	Parameter   = graph.Parameter
	MatMul      = graph.MatMul
	Add         = graph.Add
	Log         = graph.Log
	Reshape     = graph.Reshape
	ReLU        = graph.ReLU
	Softmax     = graph.Softmax
	ScalarMul   = graph.ScalarMul
)

// Errors.
var (
	ErrInvalidShape     = graph.ErrInvalidShape
	ErrShapeMismatch    = graph.ErrShapeMismatch
	ErrNotMatrix        = graph.ErrNotMatrix
	ErrForeignNode      = graph.ErrForeignNode
	ErrReshapeSize      = graph.ErrReshapeSize
	ErrDuplicateName    = graph.ErrDuplicateName
	ErrMissingName      = graph.ErrMissingName
	ErrAlreadyFinalized = graph.ErrAlreadyFinalized
	ErrNotFinalized     = graph.ErrNotFinalized
	ErrMissingInput     = graph.ErrMissingInput
	ErrInputShape       = graph.ErrInputShape
	ErrNonScalarRoot    = graph.ErrNonScalarRoot
	ErrEmptyGraph       = graph.ErrEmptyGraph
	ErrNotParameter     = graph.ErrNotParameter
	ErrUnknownNode      = graph.ErrUnknownNode
)

// New creates an empty graph whose initializers draw from a generator
// seeded with seed.
func New(seed uint64) *Graph {
	return graph.New(seed)
}

// NormalInit fills a parameter with N(0, 1) draws scaled by coeff.
func NormalInit(n *Node, coeff float64) error {
	return graph.NormalInit(n, coeff)
}

// ZeroInit fills a parameter with zeros.
func ZeroInit(n *Node) error {
	return graph.ZeroInit(n)
}

// SetValue overwrites a parameter's value.
func SetValue(n *Node, values []float64) error {
	return graph.SetValue(n, values)
}
