// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 tensors used by graphgrad.
//
// # Overview
//
// A Tensor is a fixed-shape, row-major buffer addressed by multi-index:
//   - Shape and strides fixed at construction
//   - Flat data access for bulk kernels
//   - A two-line text format for persistence
//
// # Basic Usage
//
//	t, err := tensor.New(tensor.Shape{2, 3})
//	t.Set(1.5, 0, 2)
//	v := t.At(0, 2) // 1.5
//
// # Text Format
//
// WriteText and ReadText exchange tensors as a line of dimension sizes
// followed by a line of values in row-major order:
//
//	2 3
//	1 2 3 4 5 6
package tensor
