package graph

import (
	"fmt"

	"github.com/born-ml/graphgrad/internal/tensor"
)

// NodeID is a node's dense position in its graph's node sequence.
type NodeID int

// Node is one unit of computation in a Graph.
//
// A node owns three tensors of the same shape:
//   - value: the current forward output
//   - adjoint: d(root)/d(value), accumulated during one backward sweep
//   - acc: adjoints summed over a training batch
//
// Dependencies always have a smaller ID than the node itself, so the
// node graph is acyclic by construction.
type Node struct {
	graph *Graph
	id    NodeID
	kind  Kind
	name  string

	value   *tensor.Tensor
	adjoint *tensor.Tensor
	acc     *tensor.Tensor

	deps  []NodeID // operator inputs, in operand order
	succs []NodeID // append-only, one entry per consuming edge

	scale float64 // ScalarMul constant
}

// ID returns the node's index in its graph.
func (n *Node) ID() NodeID { return n.id }

// Kind returns the node's kind.
func (n *Node) Kind() Kind { return n.kind }

// Name returns the node's name, or "" if it has none.
func (n *Node) Name() string { return n.name }

// Graph returns the graph that owns the node.
func (n *Node) Graph() *Graph { return n.graph }

// Shape returns the shape of the node's value.
func (n *Node) Shape() tensor.Shape { return n.value.Shape() }

// Value returns the node's current forward output.
// Parameter values may be written through it (initialization, loading).
func (n *Node) Value() *tensor.Tensor { return n.value }

// Adjoint returns the gradient of the root with respect to the value.
func (n *Node) Adjoint() *tensor.Tensor { return n.adjoint }

// Accumulator returns the batch-summed adjoint.
func (n *Node) Accumulator() *tensor.Tensor { return n.acc }

// IsParameter reports whether the node is trainable state.
func (n *Node) IsParameter() bool { return n.kind == Parameter }

// Scale returns the constant of a ScalarMul node (0 for other kinds).
func (n *Node) Scale() float64 { return n.scale }

// Dependencies returns a copy of the node's input IDs in operand order.
func (n *Node) Dependencies() []NodeID {
	return append([]NodeID(nil), n.deps...)
}

// Successors returns a copy of the IDs of nodes consuming this node.
func (n *Node) Successors() []NodeID {
	return append([]NodeID(nil), n.succs...)
}

// String identifies the node for error messages.
func (n *Node) String() string {
	if n.name != "" {
		return fmt.Sprintf("%s %q", n.kind, n.name)
	}
	return fmt.Sprintf("%s #%d", n.kind, n.id)
}

// dep returns the i-th input node.
func (n *Node) dep(i int) *Node {
	return n.graph.nodes[n.deps[i]]
}

// forward recomputes the node's value from its inputs.
func (n *Node) forward(input Input) error {
	switch n.kind {
	case Placeholder:
		return n.forwardPlaceholder(input)
	case Parameter:
		// Value persists between passes; only the optimizer writes it.
	case MatMul:
		n.forwardMatMul()
	case Add:
		n.forwardAdd()
	case Log:
		n.forwardLog()
	case Reshape:
		n.forwardReshape()
	case ReLU:
		n.forwardReLU()
	case Softmax:
		n.forwardSoftmax()
	case ScalarMul:
		n.forwardScalarMul()
	default:
		panic(fmt.Sprintf("graph: forward for unknown kind %d", n.kind))
	}
	return nil
}

// backward adds this node's contribution to its inputs' adjoints.
// It reads n.adjoint, so every successor must have run backward first.
func (n *Node) backward() {
	// Leaves keep their gradient in the adjoint for the optimizer.
	if n.kind.IsLeaf() {
		return
	}
	switch n.kind {
	case MatMul:
		n.backwardMatMul()
	case Add:
		n.backwardAdd()
	case Log:
		n.backwardLog()
	case Reshape:
		n.backwardReshape()
	case ReLU:
		n.backwardReLU()
	case Softmax:
		n.backwardSoftmax()
	case ScalarMul:
		n.backwardScalarMul()
	default:
		panic(fmt.Sprintf("graph: backward for unknown kind %d", n.kind))
	}
}

// forwardPlaceholder copies the bound tensor into the node's value.
func (n *Node) forwardPlaceholder(input Input) error {
	in, ok := input[n.name]
	if !ok || in == nil {
		return fmt.Errorf("%v: %w", n, ErrMissingInput)
	}
	if !in.Shape().Equal(n.value.Shape()) {
		return fmt.Errorf("%v: got %v, want %v: %w", n, in.Shape(), n.value.Shape(), ErrInputShape)
	}
	copy(n.value.Data(), in.Data())
	return nil
}
