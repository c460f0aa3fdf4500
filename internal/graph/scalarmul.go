package graph

import "gonum.org/v1/gonum/floats"

// ScalarMul appends c·a for a constant c fixed at construction.
//
// Backward: dA += c·dC.
func (g *Graph) ScalarMul(c float64, a *Node, name string) (*Node, error) {
	if err := sameGraph(g, ScalarMul, name, a); err != nil {
		return nil, err
	}
	n, err := g.addNode(ScalarMul, a.Shape(), name, a)
	if err != nil {
		return nil, err
	}
	n.scale = c
	return n, nil
}

func (n *Node) forwardScalarMul() {
	floats.ScaleTo(n.value.Data(), n.scale, n.dep(0).value.Data())
}

func (n *Node) backwardScalarMul() {
	floats.AddScaled(n.dep(0).adjoint.Data(), n.scale, n.adjoint.Data())
}
