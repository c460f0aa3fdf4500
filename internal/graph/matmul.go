package graph

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/graphgrad/internal/tensor"
)

// MatMul appends C = A·B for rank-2 A [m,k] and B [k,n]; C has shape [m,n].
//
// Backward:
//   - dA += dC·Bᵗ
//   - dB += Aᵗ·dC
func (g *Graph) MatMul(a, b *Node, name string) (*Node, error) {
	if err := sameGraph(g, MatMul, name, a, b); err != nil {
		return nil, err
	}
	if len(a.Shape()) != 2 {
		return nil, fmt.Errorf("matmul %q: %v has shape %v: %w", name, a, a.Shape(), ErrNotMatrix)
	}
	if len(b.Shape()) != 2 {
		return nil, fmt.Errorf("matmul %q: %v has shape %v: %w", name, b, b.Shape(), ErrNotMatrix)
	}
	if a.Shape()[1] != b.Shape()[0] {
		return nil, fmt.Errorf("matmul %q: inner dimensions of %v and %v differ: %w",
			name, a.Shape(), b.Shape(), ErrShapeMismatch)
	}
	return g.addNode(MatMul, tensor.Shape{a.Shape()[0], b.Shape()[1]}, name, a, b)
}

func (n *Node) forwardMatMul() {
	a, b := n.dep(0).value, n.dep(1).value
	out := denseOf(n.value)
	out.Mul(denseOf(a), denseOf(b))
}

func (n *Node) backwardMatMul() {
	a, b := n.dep(0), n.dep(1)
	dC := generalOf(n.adjoint)

	// dA += dC·Bᵗ
	blas64.Gemm(blas.NoTrans, blas.Trans, 1, dC, generalOf(b.value), 1, generalOf(a.adjoint))
	// dB += Aᵗ·dC
	blas64.Gemm(blas.Trans, blas.NoTrans, 1, generalOf(a.value), dC, 1, generalOf(b.adjoint))
}

// denseOf views a rank-2 tensor as a gonum matrix sharing its buffer.
func denseOf(t *tensor.Tensor) *mat.Dense {
	s := t.Shape()
	return mat.NewDense(s[0], s[1], t.Data())
}

// generalOf views a rank-2 tensor as a row-major BLAS matrix sharing its buffer.
func generalOf(t *tensor.Tensor) blas64.General {
	s := t.Shape()
	return blas64.General{Rows: s[0], Cols: s[1], Stride: s[1], Data: t.Data()}
}

// sameGraph checks that every operand belongs to g.
func sameGraph(g *Graph, kind Kind, name string, operands ...*Node) error {
	for _, op := range operands {
		if op == nil || op.graph != g {
			return fmt.Errorf("%s %q: operand %v: %w", kind, name, op, ErrForeignNode)
		}
	}
	return nil
}
