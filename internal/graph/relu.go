package graph

// ReLU appends max(0, a) elementwise.
//
// Backward: dA += dC where A > 0. The subgradient at 0 is taken as 0.
func (g *Graph) ReLU(a *Node, name string) (*Node, error) {
	if err := sameGraph(g, ReLU, name, a); err != nil {
		return nil, err
	}
	return g.addNode(ReLU, a.Shape(), name, a)
}

func (n *Node) forwardReLU() {
	in, out := n.dep(0).value.Data(), n.value.Data()
	for i, x := range in {
		out[i] = max(0, x)
	}
}

func (n *Node) backwardReLU() {
	a := n.dep(0)
	in, dA, dC := a.value.Data(), a.adjoint.Data(), n.adjoint.Data()
	for i, x := range in {
		if x > 0 {
			dA[i] += dC[i]
		}
	}
}
