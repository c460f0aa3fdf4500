package optim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/graphgrad/internal/graph"
	"github.com/born-ml/graphgrad/internal/optim"
	"github.com/born-ml/graphgrad/internal/tensor"
)

// regression builds loss = (w*x - y)² out of matmul, scalar_mul and add:
// e = w·x + (-1)·y, loss = e·e.
func regression(t *testing.T, w0 float64) (*graph.Graph, *graph.Node) {
	t.Helper()

	g := graph.New(1)
	x, err := g.AddPlaceholder(tensor.Shape{1, 1}, "x")
	require.NoError(t, err)
	y, err := g.AddPlaceholder(tensor.Shape{1, 1}, "y")
	require.NoError(t, err)
	w, err := g.AddParameter(tensor.Shape{1, 1}, "w")
	require.NoError(t, err)
	require.NoError(t, graph.SetValue(w, []float64{w0}))

	wx, err := g.MatMul(w, x, "")
	require.NoError(t, err)
	negY, err := g.ScalarMul(-1, y, "")
	require.NoError(t, err)
	e, err := g.Add(wx, negY, "e")
	require.NoError(t, err)
	_, err = g.MatMul(e, e, "loss")
	require.NoError(t, err)
	require.NoError(t, g.Finalize())
	return g, w
}

func example(x, y float64) graph.Input {
	return graph.Input{
		"x": tensor.MustFromSlice([]float64{x}, tensor.Shape{1, 1}),
		"y": tensor.MustFromSlice([]float64{y}, tensor.Shape{1, 1}),
	}
}

// TestSGD_LinearRegressionStep checks one step against the hand-derived
// gradient dL/dw = 2(wx - y)x.
func TestSGD_LinearRegressionStep(t *testing.T) {
	g, w := regression(t, 2)
	sgd, err := optim.NewSGD(g, optim.SGDConfig{})
	require.NoError(t, err)

	// w=2, x=3, y=5: residual 1, gradient 6.
	require.NoError(t, sgd.Iter(1, []graph.Input{example(3, 5)}, 0.1))

	assert.InDelta(t, 2-0.1*6, w.Value().Data()[0], 1e-12)
	assert.InDelta(t, 6, w.Accumulator().Data()[0], 1e-12)
}

func TestSGD_AveragesOverBatch(t *testing.T) {
	g, w := regression(t, 1)
	sgd, err := optim.NewSGD(g, optim.SGDConfig{})
	require.NoError(t, err)

	// Gradients 2(1*1-0)*1 = 2 and 2(1*2-1)*2 = 4, mean 3.
	batch := []graph.Input{example(1, 0), example(2, 1)}
	require.NoError(t, sgd.Iter(1, batch, 0.5))

	assert.InDelta(t, 1-0.5*3, w.Value().Data()[0], 1e-12)
}

func TestSGD_ConvergesOnRegression(t *testing.T) {
	g, w := regression(t, 0)
	sgd, err := optim.NewSGD(g, optim.SGDConfig{})
	require.NoError(t, err)

	batch := []graph.Input{example(1, 3), example(2, 6), example(-1, -3)}
	for step := 1; step <= 200; step++ {
		require.NoError(t, sgd.Iter(step, batch, 0.05))
	}
	assert.InDelta(t, 3, w.Value().Data()[0], 1e-6)
}

func TestSGD_Subsampling(t *testing.T) {
	batch := []graph.Input{example(1, 0), example(2, 0), example(3, 0), example(4, 0)}

	run := func(seed uint64) float64 {
		g, w := regression(t, 0.1)
		sgd, err := optim.NewSGD(g, optim.SGDConfig{SampleProb: 0.5, Seed: seed})
		require.NoError(t, err)
		for step := 1; step <= 20; step++ {
			err := sgd.Iter(step, batch, 0.01)
			if err != nil {
				require.ErrorIs(t, err, optim.ErrEmptyBatch)
			}
		}
		return w.Value().Data()[0]
	}

	assert.Equal(t, run(7), run(7), "same seed must give the same trajectory")
}

func TestSGD_EmptyBatch(t *testing.T) {
	g, w := regression(t, 2)

	sgd, err := optim.NewSGD(g, optim.SGDConfig{})
	require.NoError(t, err)
	err = sgd.Iter(1, nil, 0.1)
	require.ErrorIs(t, err, optim.ErrEmptyBatch)

	// A vanishing keep probability rejects every example.
	sparse, err := optim.NewSGD(g, optim.SGDConfig{SampleProb: 1e-300})
	require.NoError(t, err)
	err = sparse.Iter(1, []graph.Input{example(3, 5)}, 0.1)
	require.ErrorIs(t, err, optim.ErrEmptyBatch)

	assert.Equal(t, []float64{2}, w.Value().Data())
}

func TestSGD_InvalidConfig(t *testing.T) {
	g, _ := regression(t, 0)

	for _, p := range []float64{-0.5, 1.5} {
		_, err := optim.NewSGD(g, optim.SGDConfig{SampleProb: p})
		assert.ErrorIs(t, err, optim.ErrInvalidConfig, "p=%v", p)
	}

	sgd, err := optim.NewSGD(g, optim.SGDConfig{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, sgd.SampleProb())
}

func TestNonScalarRoot(t *testing.T) {
	g := graph.New(1)
	a, err := g.AddParameter(tensor.Shape{2}, "a")
	require.NoError(t, err)
	require.NoError(t, graph.SetValue(a, []float64{1, 2}))
	_, err = g.ScalarMul(3, a, "out")
	require.NoError(t, err)
	require.NoError(t, g.Finalize())

	sgd, err := optim.NewSGD(g, optim.SGDConfig{})
	require.NoError(t, err)
	adam, err := optim.NewAdam(g, optim.AdamConfig{})
	require.NoError(t, err)

	for name, opt := range map[string]optim.Optimizer{"sgd": sgd, "adam": adam} {
		t.Run(name, func(t *testing.T) {
			err := opt.Iter(1, []graph.Input{{}}, 0.1)
			require.ErrorIs(t, err, graph.ErrNonScalarRoot)
			assert.Equal(t, []float64{1, 2}, a.Value().Data())
		})
	}
}

func TestIterMissingPlaceholder(t *testing.T) {
	g, _ := regression(t, 2)
	sgd, err := optim.NewSGD(g, optim.SGDConfig{})
	require.NoError(t, err)

	batch := []graph.Input{{"x": tensor.MustFromSlice([]float64{1}, tensor.Shape{1, 1})}}
	err = sgd.Iter(1, batch, 0.1)
	require.ErrorIs(t, err, graph.ErrMissingInput)
}

func TestRequiresFinalizedGraph(t *testing.T) {
	g := graph.New(1)
	_, err := g.AddParameter(tensor.Shape{1}, "w")
	require.NoError(t, err)

	_, err = optim.NewSGD(g, optim.SGDConfig{})
	assert.ErrorIs(t, err, graph.ErrNotFinalized)
	_, err = optim.NewAdam(g, optim.AdamConfig{})
	assert.ErrorIs(t, err, graph.ErrNotFinalized)
}

// TestAdam_FirstStep checks that bias correction makes the first update
// lr * g / (eps + |g|).
func TestAdam_FirstStep(t *testing.T) {
	g, w := regression(t, 2)
	adam, err := optim.NewAdam(g, optim.AdamConfig{})
	require.NoError(t, err)

	require.NoError(t, adam.Iter(1, []graph.Input{example(3, 5)}, 0.01))

	assert.InDelta(t, 2-0.01*6/(1e-8+6), w.Value().Data()[0], 1e-12)

	m, v := adam.Moments(w.ID())
	assert.InDelta(t, 0.1*6, m.Data()[0], 1e-12)
	assert.InDelta(t, 0.001*36, v.Data()[0], 1e-12)
}

func TestAdam_MatchesReference(t *testing.T) {
	const (
		lr    = 0.05
		beta1 = 0.8
		beta2 = 0.99
		eps   = 1e-6
	)
	g, w := regression(t, 0.5)
	adam, err := optim.NewAdam(g, optim.AdamConfig{Betas: [2]float64{beta1, beta2}, Eps: eps})
	require.NoError(t, err)

	batch := []graph.Input{example(1, 2), example(2, 3)}

	// Scalar re-derivation of the same update.
	want, m, v := 0.5, 0.0, 0.0
	for step := 1; step <= 5; step++ {
		grad := (2*(want*1-2)*1 + 2*(want*2-3)*2) / 2
		m = beta1*m + (1-beta1)*grad
		v = beta2*v + (1-beta2)*grad*grad
		mHat := m / (1 - math.Pow(beta1, float64(step)))
		vHat := v / (1 - math.Pow(beta2, float64(step)))
		want -= lr * mHat / (eps + math.Sqrt(vHat))

		require.NoError(t, adam.Iter(step, batch, lr))
		require.InDelta(t, want, w.Value().Data()[0], 1e-12, "step %d", step)
	}
}

func TestAdam_InvalidStepAndConfig(t *testing.T) {
	g, _ := regression(t, 0)

	adam, err := optim.NewAdam(g, optim.AdamConfig{})
	require.NoError(t, err)
	assert.ErrorIs(t, adam.Iter(0, []graph.Input{example(1, 1)}, 0.1), optim.ErrInvalidStep)

	_, err = optim.NewAdam(g, optim.AdamConfig{Betas: [2]float64{1, 0.999}})
	assert.ErrorIs(t, err, optim.ErrInvalidConfig)
	_, err = optim.NewAdam(g, optim.AdamConfig{Eps: -1})
	assert.ErrorIs(t, err, optim.ErrInvalidConfig)
}

func TestAdam_MomentsOnlyForParameters(t *testing.T) {
	g, w := regression(t, 0)
	adam, err := optim.NewAdam(g, optim.AdamConfig{})
	require.NoError(t, err)

	for _, n := range g.Nodes() {
		m, v := adam.Moments(n.ID())
		if n == w {
			assert.Equal(t, w.Shape(), m.Shape())
			continue
		}
		assert.Equal(t, 1, m.Size())
		assert.Equal(t, 1, v.Size())
	}
}
