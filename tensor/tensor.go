// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"io"

	"github.com/born-ml/graphgrad/internal/tensor"
)

// Shape lists dimension sizes, outermost first.
type Shape = tensor.Shape

// Tensor is a dense row-major float64 array.
type Tensor = tensor.Tensor

// New allocates a zero-filled tensor.
//
// Example:
//
//	t, err := tensor.New(tensor.Shape{28 * 28, 1})
func New(shape Shape) (*Tensor, error) {
	return tensor.New(shape)
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// MustFromSlice is like FromSlice but panics on error.
// Intended for literals in tests and examples.
func MustFromSlice(data []float64, shape Shape) *Tensor {
	return tensor.MustFromSlice(data, shape)
}

// WriteText writes t as a shape line followed by a values line.
func WriteText(w io.Writer, t *Tensor) error {
	return tensor.WriteText(w, t)
}

// ReadText reads one tensor written by WriteText.
func ReadText(r io.Reader) (*Tensor, error) {
	return tensor.ReadText(r)
}

// FormatMatrix writes a rank-2 tensor one row per line, or one column per
// line when transposed is set.
func FormatMatrix(w io.Writer, t *Tensor, transposed bool) error {
	return tensor.FormatMatrix(w, t, transposed)
}
