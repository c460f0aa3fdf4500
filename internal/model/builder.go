package model

import (
	"github.com/born-ml/graphgrad/internal/graph"
	"github.com/born-ml/graphgrad/internal/tensor"
)

// builder chains graph constructors and keeps the first error. Calls
// after a failure are no-ops returning nil.
type builder struct {
	g   *graph.Graph
	err error
}

func (b *builder) do(f func() (*graph.Node, error)) *graph.Node {
	if b.err != nil {
		return nil
	}
	n, err := f()
	if err != nil {
		b.err = err
		return nil
	}
	return n
}

func (b *builder) placeholder(shape tensor.Shape, name string) *graph.Node {
	return b.do(func() (*graph.Node, error) { return b.g.AddPlaceholder(shape, name) })
}

func (b *builder) parameter(shape tensor.Shape, name string) *graph.Node {
	return b.do(func() (*graph.Node, error) { return b.g.AddParameter(shape, name) })
}

func (b *builder) matmul(x, y *graph.Node) *graph.Node {
	return b.do(func() (*graph.Node, error) { return b.g.MatMul(x, y, "") })
}

func (b *builder) add(x, y *graph.Node) *graph.Node {
	return b.do(func() (*graph.Node, error) { return b.g.Add(x, y, "") })
}

func (b *builder) relu(x *graph.Node) *graph.Node {
	return b.do(func() (*graph.Node, error) { return b.g.ReLU(x, "") })
}

func (b *builder) softmax(x *graph.Node, name string) *graph.Node {
	return b.do(func() (*graph.Node, error) { return b.g.Softmax(x, name) })
}

func (b *builder) log(x *graph.Node) *graph.Node {
	return b.do(func() (*graph.Node, error) { return b.g.Log(x, "") })
}

func (b *builder) reshape(x *graph.Node, shape tensor.Shape) *graph.Node {
	return b.do(func() (*graph.Node, error) { return b.g.Reshape(x, shape, "") })
}

func (b *builder) scalarMul(c float64, x *graph.Node, name string) *graph.Node {
	return b.do(func() (*graph.Node, error) { return b.g.ScalarMul(c, x, name) })
}
