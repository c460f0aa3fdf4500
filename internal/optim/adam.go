package optim

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/born-ml/graphgrad/internal/graph"
	"github.com/born-ml/graphgrad/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule, with g the batch-mean gradient and t the 1-based step:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * g             // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * g²            // Second moment
//	m_hat = m_t / (1 - beta1^t)                       // Bias correction
//	v_hat = v_t / (1 - beta2^t)                       // Bias correction
//	param = param - lr * m_hat / (eps + sqrt(v_hat))  // Parameter update
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	graph  *graph.Graph
	beta1  float64
	beta2  float64
	eps    float64
	m      []*tensor.Tensor // First moment estimates, indexed by node ID
	v      []*tensor.Tensor // Second moment estimates, indexed by node ID
	logger *slog.Logger
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	Betas  [2]float64   // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps    float64      // Term for numerical stability (default: 1e-8)
	Logger *slog.Logger // Debug output (default: slog.Default())
}

// NewAdam creates a new Adam optimizer for a finalized graph.
//
// Moment tensors are allocated once, parallel to the graph's nodes.
// Non-parameter nodes get single-element placeholders since they are never
// updated.
//
// Default hyperparameters:
//   - Beta1: 0.9
//   - Beta2: 0.999
//   - Eps: 1e-8
func NewAdam(g *graph.Graph, config AdamConfig) (*Adam, error) {
	if !g.Finalized() {
		return nil, graph.ErrNotFinalized
	}
	// Set defaults
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	for _, beta := range config.Betas {
		if beta < 0 || beta >= 1 {
			return nil, fmt.Errorf("beta %v outside [0, 1): %w", beta, ErrInvalidConfig)
		}
	}
	if config.Eps < 0 {
		return nil, fmt.Errorf("epsilon %v is negative: %w", config.Eps, ErrInvalidConfig)
	}

	a := &Adam{
		graph:  g,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      make([]*tensor.Tensor, g.Len()),
		v:      make([]*tensor.Tensor, g.Len()),
		logger: loggerOrDefault(config.Logger),
	}
	for i, n := range g.Nodes() {
		shape := tensor.Shape{1}
		if n.IsParameter() {
			shape = n.Shape()
		}
		var err error
		if a.m[i], err = tensor.New(shape); err != nil {
			return nil, err
		}
		if a.v[i], err = tensor.New(shape); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Iter runs one Adam iteration. step is the 1-based iteration count used
// for bias correction.
func (a *Adam) Iter(step int, batch []graph.Input, lr float64) error {
	if step < 1 {
		return fmt.Errorf("adam step %d: %w", step, ErrInvalidStep)
	}

	processed, err := accumulate(a.graph, batch, nil)
	if err != nil {
		return fmt.Errorf("adam step %d: %w", step, err)
	}

	// Compute bias correction factors
	biasCorrection1 := 1 - math.Pow(a.beta1, float64(step))
	biasCorrection2 := 1 - math.Pow(a.beta2, float64(step))
	inv := 1 / float64(processed)

	for _, param := range a.graph.Parameters() {
		a.updateParameter(param, inv, biasCorrection1, biasCorrection2, lr)
	}

	a.logger.Debug("adam step", "step", step, "batch", len(batch), "processed", processed, "lr", lr)
	return nil
}

// updateParameter performs Adam update for a single parameter.
func (a *Adam) updateParameter(param *graph.Node, inv, biasCorrection1, biasCorrection2, lr float64) {
	accData := param.Accumulator().Data()
	mData := a.m[param.ID()].Data()
	vData := a.v[param.ID()].Data()
	paramData := param.Value().Data()

	for i := range paramData {
		// Batch-mean gradient
		g := accData[i] * inv
		accData[i] = g

		mData[i] = a.beta1*mData[i] + (1-a.beta1)*g
		vData[i] = a.beta2*vData[i] + (1-a.beta2)*g*g

		mHat := mData[i] / biasCorrection1
		vHat := vData[i] / biasCorrection2

		paramData[i] -= lr * mHat / (a.eps + math.Sqrt(vHat))
	}
}

// Moments returns the first and second moment estimates for a node.
func (a *Adam) Moments(id graph.NodeID) (m, v *tensor.Tensor) {
	return a.m[id], a.v[id]
}
