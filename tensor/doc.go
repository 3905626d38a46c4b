// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 tensors that carry every input
// and result of the multi-output GP conditionals.
//
// # Overview
//
// A Dense tensor is row-major with an explicit Shape. Reshape and Index
// return views that share memory with their parent; every other operation
// allocates.
//
//	x := tensor.Zeros(3, 1)         // 3 query points in 1-D
//	x.Set(0.5, 1, 0)
//	w, err := tensor.FromSlice([]float64{1, 2}, tensor.Shape{2, 1})
//
// # Covariance layouts
//
// Conditionals return an N x P mean and a covariance in one of four layouts,
// selected by the FullCov and FullOutputCov options:
//
//	N x P           marginal variances
//	P x N x N       full over query points, one block per output
//	N x P x P       full over outputs, one block per query point
//	N x P x N x P   fully joint
//
// # Shape errors
//
// Operations on inconsistent shapes panic with a *ShapeError. The
// conditionals Engine converts such panics into returned errors matching
// ErrShapeMismatch.
package tensor
