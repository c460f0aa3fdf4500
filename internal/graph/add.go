package graph

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Add appends the elementwise sum of two nodes of identical shape.
// No broadcasting is performed.
//
// Backward: the output adjoint passes through unchanged to both operands.
func (g *Graph) Add(a, b *Node, name string) (*Node, error) {
	if err := sameGraph(g, Add, name, a, b); err != nil {
		return nil, err
	}
	if !a.Shape().Equal(b.Shape()) {
		return nil, fmt.Errorf("add %q: %v vs %v: %w", name, a.Shape(), b.Shape(), ErrShapeMismatch)
	}
	return g.addNode(Add, a.Shape(), name, a, b)
}

func (n *Node) forwardAdd() {
	floats.AddTo(n.value.Data(), n.dep(0).value.Data(), n.dep(1).value.Data())
}

func (n *Node) backwardAdd() {
	floats.Add(n.dep(0).adjoint.Data(), n.adjoint.Data())
	floats.Add(n.dep(1).adjoint.Data(), n.adjoint.Data())
}
