// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides a static computational graph with reverse-mode
// automatic differentiation.
//
// # Overview
//
// Build a graph leaves first, wire operators onto existing nodes, then
// Finalize it to fix the topological order:
//
//	g := graph.New(1)
//	x, _ := g.AddPlaceholder(tensor.Shape{2, 1}, "x")
//	w, _ := g.AddParameter(tensor.Shape{2, 2}, "w")
//	b, _ := g.AddParameter(tensor.Shape{2, 1}, "b")
//	wx, _ := g.MatMul(w, x, "")
//	s, _ := g.Add(wx, b, "")
//	y, _ := g.ReLU(s, "y")
//	_ = g.Finalize()
//
// Compute evaluates every node in topological order with placeholders
// bound from an Input. Backward seeds the root's adjoint with 1 and sweeps
// in reverse order, adding each node's contribution into its inputs'
// adjoints.
//
// # Operators
//
//   - MatMul: [m,k] x [k,n] matrix product
//   - Add: elementwise sum of equal shapes
//   - Log: elementwise natural logarithm
//   - Reshape: same data, new shape of equal size
//   - ReLU: elementwise max(0, x)
//   - Softmax: over all elements, shifted by the maximum
//   - ScalarMul: multiplication by a constant
//
// # Errors
//
// Construction, binding and misuse failures are reported as errors that
// wrap the sentinel values below, so callers can test them with errors.Is.
package graph
