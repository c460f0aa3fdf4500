package graph

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Softmax appends the softmax of a, treating all of a's elements as one
// flat vector regardless of shape.
//
// Forward subtracts the maximum before exponentiating so large inputs do not
// overflow:
//
//	y_i = exp(x_i - max(x)) / Σ_j exp(x_j - max(x))
//
// Backward contracts the full Jacobian ∂y_j/∂x_i = y_i(δ_ij - y_j):
//
//	dA_i += Σ_j dC_j · y_i(δ_ij - y_j) = y_i (dC_i - Σ_j dC_j y_j)
func (g *Graph) Softmax(a *Node, name string) (*Node, error) {
	if err := sameGraph(g, Softmax, name, a); err != nil {
		return nil, err
	}
	return g.addNode(Softmax, a.Shape(), name, a)
}

func (n *Node) forwardSoftmax() {
	in, out := n.dep(0).value.Data(), n.value.Data()

	peak := floats.Max(in)
	for i, x := range in {
		out[i] = math.Exp(x - peak)
	}
	floats.Scale(1/floats.Sum(out), out)
}

func (n *Node) backwardSoftmax() {
	y, dC := n.value.Data(), n.adjoint.Data()
	dA := n.dep(0).adjoint.Data()

	dot := floats.Dot(dC, y)
	for i, yi := range y {
		dA[i] += yi * (dC[i] - dot)
	}
}
