// Package graph implements a static computational graph with forward
// evaluation and reverse-mode automatic differentiation.
//
// A Graph is an arena of nodes addressed by dense index. Clients build it
// bottom-up: leaves first (AddPlaceholder, AddParameter), then operators
// (MatMul, Add, Log, Reshape, ReLU, Softmax, ScalarMul) wired onto existing
// nodes. Finalize freezes the structure and computes a topological order.
//
// Usage:
//
//	g := graph.New(1)
//	x, _ := g.AddPlaceholder(tensor.Shape{2, 1}, "x")
//	w, _ := g.AddParameter(tensor.Shape{2, 2}, "w")
//	y, _ := g.MatMul(w, x, "y")
//	_ = g.Finalize()
//	_ = g.Compute(graph.Input{"x": xs})
//	fmt.Println(y.Value())
package graph

import (
	"fmt"
	"math/rand/v2"

	"github.com/emirpasic/gods/v2/trees/binaryheap"

	"github.com/born-ml/graphgrad/internal/tensor"
)

// Input binds placeholder names to the tensors they take on for one
// forward pass.
type Input map[string]*tensor.Tensor

// Graph owns its nodes, their topological order and a name table.
//
// A Graph is not safe for concurrent use.
type Graph struct {
	nodes     []*Node
	order     []NodeID
	names     map[string]NodeID
	root      *Node
	rng       *rand.Rand
	finalized bool
}

// New creates an empty graph whose parameter initializers draw from a
// generator seeded with seed.
func New(seed uint64) *Graph {
	return &Graph{
		names: make(map[string]NodeID),
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given ID.
func (g *Graph) Node(id NodeID) (*Node, error) {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil, fmt.Errorf("node #%d: %w", id, ErrUnknownNode)
	}
	return g.nodes[id], nil
}

// Nodes returns the nodes in creation order.
func (g *Graph) Nodes() []*Node {
	return append([]*Node(nil), g.nodes...)
}

// Lookup returns the node registered under name.
func (g *Graph) Lookup(name string) (*Node, error) {
	id, ok := g.names[name]
	if !ok {
		return nil, fmt.Errorf("node %q: %w", name, ErrUnknownNode)
	}
	return g.nodes[id], nil
}

// Parameters returns the trainable nodes in creation order.
func (g *Graph) Parameters() []*Node {
	var params []*Node
	for _, n := range g.nodes {
		if n.IsParameter() {
			params = append(params, n)
		}
	}
	return params
}

// Finalized reports whether Finalize has been called.
func (g *Graph) Finalized() bool {
	return g.finalized
}

// Order returns a copy of the cached topological order.
func (g *Graph) Order() []NodeID {
	return append([]NodeID(nil), g.order...)
}

// AddPlaceholder appends a leaf whose value is bound from the Input of each
// Compute call. The name is required since binding is by name.
func (g *Graph) AddPlaceholder(shape tensor.Shape, name string) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("placeholder %v: %w", shape, ErrMissingName)
	}
	return g.addNode(Placeholder, shape, name)
}

// AddParameter appends a trainable leaf. Its value is zero until
// initialized and persists across forward passes.
func (g *Graph) AddParameter(shape tensor.Shape, name string) (*Node, error) {
	return g.addNode(Parameter, shape, name)
}

// addNode allocates a node of the given kind and shape, wires it to its
// inputs and appends it to the arena.
func (g *Graph) addNode(kind Kind, shape tensor.Shape, name string, inputs ...*Node) (*Node, error) {
	if g.finalized {
		return nil, fmt.Errorf("add %s %q: %w", kind, name, ErrAlreadyFinalized)
	}
	for _, in := range inputs {
		if in == nil || in.graph != g {
			return nil, fmt.Errorf("%s %q: input %v: %w", kind, name, in, ErrForeignNode)
		}
	}
	if name != "" {
		if _, taken := g.names[name]; taken {
			return nil, fmt.Errorf("%s %q: %w", kind, name, ErrDuplicateName)
		}
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("%s %q: %w: %w", kind, name, ErrInvalidShape, err)
	}

	n := &Node{
		graph: g,
		id:    NodeID(len(g.nodes)),
		kind:  kind,
		name:  name,
	}
	n.value = mustAlloc(shape)
	n.adjoint = mustAlloc(shape)
	n.acc = mustAlloc(shape)

	for _, in := range inputs {
		n.deps = append(n.deps, in.id)
		in.succs = append(in.succs, n.id)
	}

	g.nodes = append(g.nodes, n)
	if name != "" {
		g.names[name] = n.id
	}
	return n, nil
}

// mustAlloc allocates a tensor for a shape that has already been validated.
func mustAlloc(shape tensor.Shape) *tensor.Tensor {
	t, err := tensor.New(shape)
	if err != nil {
		panic(fmt.Sprintf("graph: allocating validated shape %v: %v", shape, err))
	}
	return t
}

// Finalize freezes the graph and computes its topological order.
//
// The order comes from a zero-in-degree sweep (Kahn's algorithm). Among
// nodes that become ready together the lowest ID goes first, so the order
// depends only on the construction sequence. Calling Finalize again
// recomputes the same order.
func (g *Graph) Finalize() error {
	if len(g.nodes) == 0 {
		return ErrEmptyGraph
	}

	degree := make([]int, len(g.nodes))
	ready := binaryheap.New[int]()
	for i, n := range g.nodes {
		degree[i] = len(n.deps)
		if degree[i] == 0 {
			ready.Push(i)
		}
	}

	order := make([]NodeID, 0, len(g.nodes))
	for !ready.Empty() {
		i, _ := ready.Pop()
		order = append(order, NodeID(i))
		for _, s := range g.nodes[i].succs {
			degree[s]--
			if degree[s] == 0 {
				ready.Push(int(s))
			}
		}
	}

	if len(order) != len(g.nodes) {
		// Unreachable while dependencies only point backwards.
		panic(fmt.Sprintf("graph: topological sort visited %d of %d nodes", len(order), len(g.nodes)))
	}

	g.order = order
	g.finalized = true
	return nil
}

// Compute runs a forward pass: every adjoint is zeroed, then each node is
// evaluated in topological order with placeholders bound from input.
func (g *Graph) Compute(input Input) error {
	if !g.finalized {
		return ErrNotFinalized
	}

	for _, n := range g.nodes {
		n.adjoint.Zero()
	}
	for _, id := range g.order {
		if err := g.nodes[id].forward(input); err != nil {
			return fmt.Errorf("compute: %w", err)
		}
	}
	return nil
}
