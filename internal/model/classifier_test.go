package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/graphgrad/internal/graph"
	"github.com/born-ml/graphgrad/internal/mnist"
	"github.com/born-ml/graphgrad/internal/optim"
	"github.com/born-ml/graphgrad/internal/tensor"
)

func sample(x []float64, label, classes int) graph.Input {
	y := make([]float64, classes)
	y[label] = 1
	return graph.Input{
		mnist.ImageKey: tensor.MustFromSlice(x, tensor.Shape{len(x), 1}),
		mnist.LabelKey: tensor.MustFromSlice(y, tensor.Shape{classes, 1}),
	}
}

func TestNewClassifierDefaults(t *testing.T) {
	c, err := NewClassifier(Config{Seed: 1, InitScale: 0.05})
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{784, 1}, c.Input.Shape())
	assert.Equal(t, tensor.Shape{10, 1}, c.Target.Shape())
	assert.Equal(t, tensor.Shape{1, 1}, c.Loss.Shape())
	assert.Same(t, c.Loss, c.Graph.Root())
	assert.True(t, c.Graph.Finalized())

	var names []string
	for _, p := range c.Params {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"w1", "b1", "w2", "b2", "w3", "b3"}, names)
	assert.Equal(t, tensor.Shape{300, 784}, c.Params[0].Shape())
	assert.Equal(t, tensor.Shape{100, 300}, c.Params[2].Shape())
	assert.Equal(t, tensor.Shape{10, 100}, c.Params[4].Shape())

	for _, name := range []string{"x", "y", PredictionName, LossName} {
		_, err := c.Graph.Lookup(name)
		assert.NoError(t, err, name)
	}
}

func TestNewClassifierInvalid(t *testing.T) {
	_, err := NewClassifier(Config{Hidden: []int{4, 0}})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewClassifier(Config{Inputs: -1})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLossIsCrossEntropy(t *testing.T) {
	c, err := NewClassifier(Config{Inputs: 4, Classes: 3, Hidden: []int{5}, Seed: 3})
	require.NoError(t, err)

	in := sample([]float64{0.1, 0.9, 0.4, 0.3}, 2, 3)
	_, err = c.Predict(in)
	require.NoError(t, err)

	p := c.Prediction.Value().Data()
	assert.InDelta(t, 1, p[0]+p[1]+p[2], 1e-12)
	assert.InDelta(t, -math.Log(p[2]), c.Loss.Value().Data()[0], 1e-12)
}

func TestTrainingReducesLoss(t *testing.T) {
	c, err := NewClassifier(Config{Inputs: 4, Classes: 3, Hidden: []int{8}, InitScale: 0.5, Seed: 7})
	require.NoError(t, err)

	data := []graph.Input{
		sample([]float64{1, 0, 0, 0}, 0, 3),
		sample([]float64{0, 1, 0, 0}, 1, 3),
		sample([]float64{0, 0, 1, 1}, 2, 3),
		sample([]float64{0.9, 0.1, 0, 0}, 0, 3),
	}

	before, err := c.Evaluate(data)
	require.NoError(t, err)
	assert.Equal(t, 4, before.Examples)

	adam, err := optim.NewAdam(c.Graph, optim.AdamConfig{})
	require.NoError(t, err)
	for step := 1; step <= 300; step++ {
		require.NoError(t, adam.Iter(step, data, 0.01))
	}

	after, err := c.Evaluate(data)
	require.NoError(t, err)
	assert.Less(t, after.Loss, before.Loss/4)
	assert.Equal(t, 1.0, after.Accuracy)
}

func TestEvaluateEmpty(t *testing.T) {
	c, err := NewClassifier(Config{Inputs: 2, Classes: 2, Hidden: []int{2}})
	require.NoError(t, err)
	m, err := c.Evaluate(nil)
	require.NoError(t, err)
	assert.Equal(t, Metrics{}, m)
}

func TestEvaluateBindingError(t *testing.T) {
	c, err := NewClassifier(Config{Inputs: 2, Classes: 2, Hidden: []int{2}})
	require.NoError(t, err)
	_, err = c.Evaluate([]graph.Input{{mnist.ImageKey: tensor.MustFromSlice([]float64{1, 2}, tensor.Shape{2, 1})}})
	assert.ErrorIs(t, err, graph.ErrMissingInput)
}
