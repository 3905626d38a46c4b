// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/mogp/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Dense is a row-major float64 tensor.
type Dense = tensor.Dense

// ShapeError describes operands whose shapes do not agree.
type ShapeError = tensor.ShapeError

// ErrShapeMismatch is matched by every *ShapeError.
var ErrShapeMismatch = tensor.ErrShapeMismatch

// New creates a tensor backed by data. Nil data allocates zeros.
func New(shape Shape, data []float64) *Dense {
	return tensor.New(shape, data)
}

// FromSlice creates a tensor from a copy of data.
func FromSlice(data []float64, shape Shape) (*Dense, error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros(dims ...int) *Dense {
	return tensor.Zeros(dims...)
}

// Full creates a tensor filled with value.
func Full(value float64, dims ...int) *Dense {
	return tensor.Full(value, dims...)
}

// Eye returns the n x n identity matrix.
func Eye(n int) *Dense {
	return tensor.Eye(n)
}

// MatMul returns op(a) @ op(b) for matrices.
func MatMul(a, b *Dense, transA, transB bool) *Dense {
	return tensor.MatMul(a, b, transA, transB)
}

// BatchMatMul multiplies the trailing matrices of a and b batch by batch.
func BatchMatMul(a, b *Dense, transA, transB bool) *Dense {
	return tensor.BatchMatMul(a, b, transA, transB)
}

// Stack joins tensors of identical shape along a new leading axis.
func Stack(ts []*Dense) *Dense {
	return tensor.Stack(ts)
}
