// Package tensor implements the dense, strided, fixed-shape float64 buffers
// that graph nodes own for their values, adjoints and accumulators.
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Tensor is a dense row-major buffer with multi-index addressing.
//
// The shape is fixed at construction. Indexed access is unchecked: callers
// guarantee len(index) == len(Shape()) and every component is in range.
// Shapes are validated once, when the tensor is allocated.
type Tensor struct {
	shape  Shape
	stride []int
	data   []float64
}

// New allocates a tensor of the given shape.
// Go zeroes fresh memory, so the buffer starts out as all zeros.
func New(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &Tensor{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		data:   make([]float64, shape.NumElements()),
	}, nil
}

// FromSlice creates a tensor holding a copy of data laid out in row-major order.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	t, err := New(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != len(t.data) {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, len(t.data))
	}
	copy(t.data, data)
	return t, nil
}

// MustFromSlice is like FromSlice but panics on error.
// Intended for literals in tests and examples.
func MustFromSlice(data []float64, shape Shape) *Tensor {
	t, err := FromSlice(data, shape)
	if err != nil {
		panic(err)
	}
	return t
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Strides returns the tensor's row-major strides.
func (t *Tensor) Strides() []int {
	return t.stride
}

// Size returns the number of elements.
func (t *Tensor) Size() int {
	return len(t.data)
}

// Data returns the flat backing buffer in row-major order.
// Writes through the returned slice mutate the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// Offset maps a multi-index to a flat buffer position.
func (t *Tensor) Offset(index ...int) int {
	offset := 0
	for i, s := range t.stride {
		offset += s * index[i]
	}
	return offset
}

// At reads the element at index.
func (t *Tensor) At(index ...int) float64 {
	return t.data[t.Offset(index...)]
}

// Set writes v at index.
func (t *Tensor) Set(v float64, index ...int) {
	t.data[t.Offset(index...)] = v
}

// Zero fills the tensor with zeros.
func (t *Tensor) Zero() {
	clear(t.data)
}

// Fill sets every element to v.
func (t *Tensor) Fill(v float64) {
	for i := range t.data {
		t.data[i] = v
	}
}

// CopyFrom overwrites t with the contents of src. Shapes must match.
func (t *Tensor) CopyFrom(src *Tensor) error {
	if !t.shape.Equal(src.shape) {
		return fmt.Errorf("copy: shape mismatch %v vs %v", t.shape, src.shape)
	}
	copy(t.data, src.data)
	return nil
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return &Tensor{
		shape:  t.shape.Clone(),
		stride: append([]int(nil), t.stride...),
		data:   data,
	}
}

// Equal reports whether both tensors have the same shape and elements
// within tol of each other.
func (t *Tensor) Equal(other *Tensor, tol float64) bool {
	if !t.shape.Equal(other.shape) {
		return false
	}
	return floats.EqualApprox(t.data, other.data, tol)
}

// String returns a short debug representation.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v, data=%v)", t.shape, t.data)
}
