package graph

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/graphgrad/internal/tensor"
)

// Reshape appends a copy of a reinterpreted with a new shape holding the
// same number of elements. The flat buffer order is unchanged.
//
// Backward: dA += dC, index for index over the flat buffers.
func (g *Graph) Reshape(a *Node, shape tensor.Shape, name string) (*Node, error) {
	if err := sameGraph(g, Reshape, name, a); err != nil {
		return nil, err
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("reshape %q: %w: %w", name, ErrInvalidShape, err)
	}
	if shape.NumElements() != a.Shape().NumElements() {
		return nil, fmt.Errorf("reshape %q: %v to %v: %w", name, a.Shape(), shape, ErrReshapeSize)
	}
	return g.addNode(Reshape, shape, name, a)
}

func (n *Node) forwardReshape() {
	copy(n.value.Data(), n.dep(0).value.Data())
}

func (n *Node) backwardReshape() {
	floats.Add(n.dep(0).adjoint.Data(), n.adjoint.Data())
}
