package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/graphgrad/internal/tensor"
)

// numericalGradient computes df/dx by central finite differences.
func numericalGradient(f func(float64) float64, x, epsilon float64) float64 {
	return (f(x+epsilon) - f(x-epsilon)) / (2 * epsilon)
}

// snapshotAdjoints copies every parameter's adjoint. Compute zeroes
// adjoints, so they must be read before any finite-difference pass.
func snapshotAdjoints(g *Graph) map[*Node][]float64 {
	grads := make(map[*Node][]float64)
	for _, p := range g.Parameters() {
		grads[p] = p.Adjoint().Clone().Data()
	}
	return grads
}

// checkGradients reduces out to a scalar loss with a fixed random
// projection, then compares every parameter's backward gradient against
// finite differences of the loss.
func checkGradients(t *testing.T, g *Graph, out *Node) {
	t.Helper()

	size := out.Shape().NumElements()
	proj, err := g.AddPlaceholder(tensor.Shape{size, 1}, "proj")
	require.NoError(t, err)
	flat, err := g.Reshape(out, tensor.Shape{1, size}, "")
	require.NoError(t, err)
	loss, err := g.MatMul(flat, proj, "loss")
	require.NoError(t, err)
	require.NoError(t, g.Finalize())

	weights := make([]float64, size)
	for i := range weights {
		weights[i] = math.Sin(float64(3*i+1)) + 0.25
	}
	input := Input{"proj": tensor.MustFromSlice(weights, tensor.Shape{size, 1})}

	eval := func() float64 {
		require.NoError(t, g.Compute(input))
		return loss.Value().Data()[0]
	}

	require.NoError(t, g.Compute(input))
	require.NoError(t, g.Backward())
	grads := snapshotAdjoints(g)

	const epsilon = 1e-6
	for _, p := range g.Parameters() {
		analytic := grads[p]
		values := p.Value().Data()
		for i := range values {
			orig := values[i]
			f := func(v float64) float64 {
				values[i] = v
				defer func() { values[i] = orig }()
				return eval()
			}
			numeric := numericalGradient(f, orig, epsilon)
			tol := 1e-5 * math.Max(1, math.Abs(numeric))
			if math.Abs(numeric-analytic[i]) > tol {
				t.Errorf("%v[%d]: backward %g, finite difference %g", p, i, analytic[i], numeric)
			}
		}
	}
}

func TestGradientMatMul(t *testing.T) {
	g := New(11)
	a := mustParam(t, g, tensor.Shape{3, 4}, "a")
	b := mustParam(t, g, tensor.Shape{4, 2}, "b")
	require.NoError(t, NormalInit(a, 1))
	require.NoError(t, NormalInit(b, 1))
	out, err := g.MatMul(a, b, "")
	require.NoError(t, err)
	checkGradients(t, g, out)
}

func TestGradientMatMulSharedOperand(t *testing.T) {
	g := New(12)
	a := mustParam(t, g, tensor.Shape{3, 3}, "a")
	require.NoError(t, NormalInit(a, 1))
	out, err := g.MatMul(a, a, "")
	require.NoError(t, err)
	checkGradients(t, g, out)
}

func TestGradientAdd(t *testing.T) {
	g := New(13)
	a := mustParam(t, g, tensor.Shape{2, 3}, "a")
	b := mustParam(t, g, tensor.Shape{2, 3}, "b")
	require.NoError(t, NormalInit(a, 1))
	require.NoError(t, NormalInit(b, 1))
	out, err := g.Add(a, b, "")
	require.NoError(t, err)
	checkGradients(t, g, out)
}

func TestGradientLog(t *testing.T) {
	g := New(14)
	a := mustParam(t, g, tensor.Shape{5}, "a", 0.5, 1, 1.5, 2, 4)
	out, err := g.Log(a, "")
	require.NoError(t, err)
	checkGradients(t, g, out)
}

func TestGradientReshape(t *testing.T) {
	g := New(15)
	a := mustParam(t, g, tensor.Shape{2, 3}, "a")
	require.NoError(t, NormalInit(a, 1))
	out, err := g.Reshape(a, tensor.Shape{3, 2}, "")
	require.NoError(t, err)
	checkGradients(t, g, out)
}

func TestGradientReLU(t *testing.T) {
	g := New(16)
	// Keep clear of the kink at 0.
	a := mustParam(t, g, tensor.Shape{6}, "a", -2, -0.5, -0.1, 0.1, 0.7, 3)
	out, err := g.ReLU(a, "")
	require.NoError(t, err)
	checkGradients(t, g, out)
}

func TestGradientSoftmax(t *testing.T) {
	g := New(17)
	a := mustParam(t, g, tensor.Shape{2, 3}, "a")
	require.NoError(t, NormalInit(a, 2))
	out, err := g.Softmax(a, "")
	require.NoError(t, err)
	checkGradients(t, g, out)
}

func TestGradientScalarMul(t *testing.T) {
	g := New(18)
	a := mustParam(t, g, tensor.Shape{4}, "a")
	require.NoError(t, NormalInit(a, 1))
	out, err := g.ScalarMul(-2.5, a, "")
	require.NoError(t, err)
	checkGradients(t, g, out)
}

// TestGradientClassifier checks a small version of the training network:
// two affine+ReLU layers, softmax, log and a cross-entropy dot product with
// a one-hot target.
func TestGradientClassifier(t *testing.T) {
	g := New(19)
	ok := must(t)

	x := ok(g.AddPlaceholder(tensor.Shape{4, 1}, "x"))
	y := ok(g.AddPlaceholder(tensor.Shape{3, 1}, "y"))
	w1 := mustParam(t, g, tensor.Shape{5, 4}, "w1")
	b1 := mustParam(t, g, tensor.Shape{5, 1}, "b1")
	w2 := mustParam(t, g, tensor.Shape{3, 5}, "w2")
	b2 := mustParam(t, g, tensor.Shape{3, 1}, "b2")
	for _, p := range []*Node{w1, b1, w2, b2} {
		require.NoError(t, NormalInit(p, 0.8))
	}

	h := ok(g.ReLU(ok(g.Add(ok(g.MatMul(w1, x, "")), b1, "")), ""))
	logits := ok(g.Add(ok(g.MatMul(w2, h, "")), b2, ""))
	prob := ok(g.Softmax(logits, "prob"))
	logp := ok(g.Reshape(ok(g.Log(prob, "")), tensor.Shape{1, 3}, ""))
	loss := ok(g.ScalarMul(-1, ok(g.MatMul(logp, y, "")), "loss"))
	require.NoError(t, g.Finalize())

	input := Input{
		"x": tensor.MustFromSlice([]float64{0.2, -0.7, 1.1, 0.4}, tensor.Shape{4, 1}),
		"y": tensor.MustFromSlice([]float64{0, 1, 0}, tensor.Shape{3, 1}),
	}
	eval := func() float64 {
		require.NoError(t, g.Compute(input))
		return loss.Value().Data()[0]
	}

	require.NoError(t, g.Compute(input))
	require.NoError(t, g.Backward())

	// Cross-entropy through softmax has the closed form p - y on the logits.
	p := prob.Value().Data()
	target := []float64{0, 1, 0}
	for i, d := range logits.Adjoint().Data() {
		require.InDelta(t, p[i]-target[i], d, 1e-9)
	}

	grads := snapshotAdjoints(g)
	for _, param := range g.Parameters() {
		analytic := grads[param]
		values := param.Value().Data()
		for i := range values {
			orig := values[i]
			f := func(v float64) float64 {
				values[i] = v
				defer func() { values[i] = orig }()
				return eval()
			}
			numeric := numericalGradient(f, orig, 1e-6)
			require.InDelta(t, numeric, analytic[i], 1e-5, "%v[%d]", param, i)
		}
	}
}

// TestAdjointsClearedByCompute pins down why gradient checks snapshot
// adjoints: every operand keeps its gradient until the next Compute.
func TestAdjointsClearedByCompute(t *testing.T) {
	g := New(20)
	a := mustParam(t, g, tensor.Shape{2, 2}, "a", 1, 2, 3, 4)
	b := mustParam(t, g, tensor.Shape{2, 1}, "b", 5, 6)
	ab, err := g.MatMul(a, b, "")
	require.NoError(t, err)
	ones, err := g.AddPlaceholder(tensor.Shape{1, 2}, "ones")
	require.NoError(t, err)
	_, err = g.MatMul(ones, ab, "loss")
	require.NoError(t, err)
	require.NoError(t, g.Finalize())

	input := Input{"ones": tensor.MustFromSlice([]float64{1, 1}, tensor.Shape{1, 2})}
	require.NoError(t, g.Compute(input))
	require.NoError(t, g.Backward())
	grads := snapshotAdjoints(g)
	require.Equal(t, []float64{5, 6, 5, 6}, grads[a])
	require.Equal(t, []float64{4, 6}, grads[b])

	require.NoError(t, g.Compute(input))
	require.Equal(t, []float64{0, 0}, b.Adjoint().Data())
	require.Equal(t, []float64{4, 6}, grads[b])
}
