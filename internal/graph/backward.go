package graph

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// SetRoot designates the scalar node that Backward differentiates.
// Without a call to SetRoot the last node added is the root.
func (g *Graph) SetRoot(n *Node) error {
	if n == nil || n.graph != g {
		return fmt.Errorf("set root %v: %w", n, ErrForeignNode)
	}
	if n.value.Size() != 1 {
		return fmt.Errorf("set root %v of shape %v: %w", n, n.Shape(), ErrNonScalarRoot)
	}
	g.root = n
	return nil
}

// Root returns the designated root, or the last node if none was set.
// It returns nil for an empty graph.
func (g *Graph) Root() *Node {
	if g.root != nil {
		return g.root
	}
	if len(g.nodes) == 0 {
		return nil
	}
	return g.nodes[len(g.nodes)-1]
}

// CheckRoot returns an error unless the root exists and holds exactly one
// element.
func (g *Graph) CheckRoot() error {
	root := g.Root()
	if root == nil {
		return ErrEmptyGraph
	}
	if root.value.Size() != 1 {
		return fmt.Errorf("root %v has shape %v: %w", root, root.Shape(), ErrNonScalarRoot)
	}
	return nil
}

// Backward runs one reverse-mode sweep after a Compute.
//
// The root's adjoint is seeded with 1 and nodes are visited in reverse
// topological order. A node may feed several successors; reverse order
// guarantees all of them have added their contributions before the node
// reads its own adjoint. Adjoints are added to, never overwritten, so the
// sweep relies on Compute having zeroed them.
func (g *Graph) Backward() error {
	if !g.finalized {
		return ErrNotFinalized
	}
	if err := g.CheckRoot(); err != nil {
		return err
	}

	g.Root().adjoint.Data()[0] = 1
	for i := len(g.order) - 1; i >= 0; i-- {
		g.nodes[g.order[i]].backward()
	}
	return nil
}

// ZeroAccumulators clears every node's batch accumulator.
func (g *Graph) ZeroAccumulators() {
	for _, n := range g.nodes {
		n.acc.Zero()
	}
}

// AccumulateAdjoints adds every node's adjoint into its accumulator.
func (g *Graph) AccumulateAdjoints() {
	for _, n := range g.nodes {
		floats.Add(n.acc.Data(), n.adjoint.Data())
	}
}
