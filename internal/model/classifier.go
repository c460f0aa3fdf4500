// Package model builds the fully connected digit classifier trained by
// graphgrad.
//
// The network is a stack of affine+ReLU layers followed by an affine
// output layer and softmax. The loss is the cross-entropy against a
// one-hot target, built from graph operators only:
//
//	yp   = softmax(w_k·h + b_k)
//	loss = -1 · (reshape(log(yp), [1, classes]) · y)
package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/graphgrad/internal/graph"
	"github.com/born-ml/graphgrad/internal/mnist"
	"github.com/born-ml/graphgrad/internal/tensor"
)

// Node names.
const (
	PredictionName = "yp"
	LossName       = "loss"
)

// ErrInvalidConfig is returned for non-positive layer sizes.
var ErrInvalidConfig = errors.New("invalid model config")

// Config describes the classifier's layers.
type Config struct {
	Inputs    int     // Input features (default: 784)
	Classes   int     // Output classes (default: 10)
	Hidden    []int   // Hidden layer widths (default: [300, 100])
	InitScale float64 // Normal initialization coefficient (default: 1)
	Seed      uint64  // Graph generator seed
}

// Classifier is a finalized graph plus handles to the nodes the trainer
// reads.
type Classifier struct {
	Graph      *graph.Graph
	Input      *graph.Node   // x: [Inputs, 1]
	Target     *graph.Node   // y: [Classes, 1]
	Prediction *graph.Node   // yp: [Classes, 1]
	Loss       *graph.Node   // [1, 1]
	Params     []*graph.Node // w1, b1, w2, b2, ...
}

// NewClassifier builds, initializes and finalizes the classifier graph.
// The loss node is the last node created and is set as the root.
func NewClassifier(cfg Config) (*Classifier, error) {
	// Set defaults
	if cfg.Inputs == 0 {
		cfg.Inputs = 28 * 28
	}
	if cfg.Classes == 0 {
		cfg.Classes = mnist.Classes
	}
	if cfg.Hidden == nil {
		cfg.Hidden = []int{300, 100}
	}
	if cfg.InitScale == 0 {
		cfg.InitScale = 1
	}
	if cfg.Inputs < 0 || cfg.Classes < 1 {
		return nil, fmt.Errorf("inputs %d, classes %d: %w", cfg.Inputs, cfg.Classes, ErrInvalidConfig)
	}
	for i, h := range cfg.Hidden {
		if h <= 0 {
			return nil, fmt.Errorf("hidden[%d] = %d: %w", i, h, ErrInvalidConfig)
		}
	}

	b := builder{g: graph.New(cfg.Seed)}
	c := &Classifier{Graph: b.g}

	c.Input = b.placeholder(tensor.Shape{cfg.Inputs, 1}, mnist.ImageKey)
	h, width := c.Input, cfg.Inputs
	layers := append(append([]int(nil), cfg.Hidden...), cfg.Classes)
	for i, out := range layers {
		w := b.parameter(tensor.Shape{out, width}, fmt.Sprintf("w%d", i+1))
		bias := b.parameter(tensor.Shape{out, 1}, fmt.Sprintf("b%d", i+1))
		c.Params = append(c.Params, w, bias)

		h = b.add(b.matmul(w, h), bias)
		if i < len(layers)-1 {
			h = b.relu(h)
		}
		width = out
	}

	c.Prediction = b.softmax(h, PredictionName)
	c.Target = b.placeholder(tensor.Shape{cfg.Classes, 1}, mnist.LabelKey)
	logRow := b.reshape(b.log(c.Prediction), tensor.Shape{1, cfg.Classes})
	c.Loss = b.scalarMul(-1, b.matmul(logRow, c.Target), LossName)
	if b.err != nil {
		return nil, b.err
	}

	for _, p := range c.Params {
		if err := graph.NormalInit(p, cfg.InitScale); err != nil {
			return nil, err
		}
	}
	if err := c.Graph.SetRoot(c.Loss); err != nil {
		return nil, err
	}
	if err := c.Graph.Finalize(); err != nil {
		return nil, err
	}
	return c, nil
}

// Predict runs a forward pass and returns the most probable class.
func (c *Classifier) Predict(input graph.Input) (int, error) {
	if err := c.Graph.Compute(input); err != nil {
		return 0, err
	}
	return floats.MaxIdx(c.Prediction.Value().Data()), nil
}

// Metrics summarizes a forward pass over a set of examples.
type Metrics struct {
	Examples int
	Loss     float64 // Mean cross-entropy
	Accuracy float64 // Fraction of argmax predictions matching the target
}

// Evaluate computes mean loss and accuracy without touching parameters.
func (c *Classifier) Evaluate(inputs []graph.Input) (Metrics, error) {
	var m Metrics
	correct := 0
	for i, in := range inputs {
		pred, err := c.Predict(in)
		if err != nil {
			return Metrics{}, fmt.Errorf("example %d: %w", i, err)
		}
		m.Loss += c.Loss.Value().Data()[0]
		if pred == floats.MaxIdx(c.Target.Value().Data()) {
			correct++
		}
		m.Examples++
	}
	if m.Examples > 0 {
		m.Loss /= float64(m.Examples)
		m.Accuracy = float64(correct) / float64(m.Examples)
	}
	return m, nil
}
