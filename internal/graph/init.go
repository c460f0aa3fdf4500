package graph

import "fmt"

// NormalInit fills a parameter with independent N(0, 1) draws from the
// graph's generator, scaled by coeff.
func NormalInit(n *Node, coeff float64) error {
	if !n.IsParameter() {
		return fmt.Errorf("normal init %v: %w", n, ErrNotParameter)
	}
	data := n.value.Data()
	for i := range data {
		data[i] = coeff * n.graph.rng.NormFloat64()
	}
	return nil
}

// ZeroInit fills a parameter with zeros.
func ZeroInit(n *Node) error {
	if !n.IsParameter() {
		return fmt.Errorf("zero init %v: %w", n, ErrNotParameter)
	}
	n.value.Zero()
	return nil
}

// SetValue overwrites a parameter's value, e.g. when restoring a checkpoint.
func SetValue(n *Node, values []float64) error {
	if !n.IsParameter() {
		return fmt.Errorf("set value %v: %w", n, ErrNotParameter)
	}
	if len(values) != n.value.Size() {
		return fmt.Errorf("set value %v: %d values for shape %v: %w",
			n, len(values), n.Shape(), ErrShapeMismatch)
	}
	copy(n.value.Data(), values)
	return nil
}
