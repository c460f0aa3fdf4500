package graph

import "math"

// Log appends the elementwise natural logarithm of a.
// Non-positive inputs produce -Inf or NaN, as math.Log does.
//
// Backward: dA += dC / A.
func (g *Graph) Log(a *Node, name string) (*Node, error) {
	if err := sameGraph(g, Log, name, a); err != nil {
		return nil, err
	}
	return g.addNode(Log, a.Shape(), name, a)
}

func (n *Node) forwardLog() {
	in, out := n.dep(0).value.Data(), n.value.Data()
	for i, x := range in {
		out[i] = math.Log(x)
	}
}

func (n *Node) backwardLog() {
	a := n.dep(0)
	in, dA, dC := a.value.Data(), a.adjoint.Data(), n.adjoint.Data()
	for i, g := range dC {
		dA[i] += g / in[i]
	}
}
