// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package kernels provides the covariance functions the conditionals are
// evaluated with.
//
// Single-output kernels (Kernel) compare two sets of D-dimensional inputs.
// Multi-output kernels (MultiOutput) combine them over P outputs:
//
//	se := kernels.NewSquaredExponential(1.0, 0.5)
//	m32 := kernels.NewMatern32(0.8, 1.2)
//
//	shared := kernels.NewSharedIndependent(se, 3)     // 3 outputs, one kernel
//	separate := kernels.NewSeparateIndependent(se, m32) // one kernel per output
//	mixed := kernels.NewSeparateMixed(w, se, m32)      // f = W g, W is P x 2
package kernels

import (
	"github.com/born-ml/mogp/internal/kernels"
	"github.com/born-ml/mogp/tensor"
)

// Kernel is a single-output covariance function.
type Kernel = kernels.Kernel

// MultiOutput is a covariance function over P outputs.
type MultiOutput = kernels.MultiOutput

// Independent is a multi-output kernel built from per-latent kernels.
type Independent = kernels.Independent

// Kind identifies the structure of a multi-output kernel.
type Kind = kernels.Kind

// Multi-output kernel structures.
const (
	KindSharedIndependent   = kernels.KindSharedIndependent
	KindSeparateIndependent = kernels.KindSeparateIndependent
	KindSeparateMixed       = kernels.KindSeparateMixed
)

// Kinds lists every kind.
var Kinds = kernels.Kinds

// Concrete kernels.
type (
	SquaredExponential  = kernels.SquaredExponential
	Matern12            = kernels.Matern12
	Matern32            = kernels.Matern32
	Constant            = kernels.Constant
	Add                 = kernels.Add
	SharedIndependent   = kernels.SharedIndependent
	SeparateIndependent = kernels.SeparateIndependent
	SeparateMixed       = kernels.SeparateMixed
)

// NewSquaredExponential creates an RBF kernel.
func NewSquaredExponential(variance, lengthscale float64) *SquaredExponential {
	return kernels.NewSquaredExponential(variance, lengthscale)
}

// NewMatern12 creates an exponential kernel.
func NewMatern12(variance, lengthscale float64) *Matern12 {
	return kernels.NewMatern12(variance, lengthscale)
}

// NewMatern32 creates a Matérn 3/2 kernel.
func NewMatern32(variance, lengthscale float64) *Matern32 {
	return kernels.NewMatern32(variance, lengthscale)
}

// NewConstant creates a constant kernel.
func NewConstant(variance float64) *Constant {
	return kernels.NewConstant(variance)
}

// NewAdd sums two kernels.
func NewAdd(first, second Kernel) *Add {
	return kernels.NewAdd(first, second)
}

// NewSharedIndependent gives outputs independent copies of k.
func NewSharedIndependent(k Kernel, outputs int) *SharedIndependent {
	return kernels.NewSharedIndependent(k, outputs)
}

// NewSeparateIndependent gives each output its own kernel.
func NewSeparateIndependent(ks ...Kernel) *SeparateIndependent {
	return kernels.NewSeparateIndependent(ks...)
}

// NewSeparateMixed mixes len(ks) latent processes into outputs through the
// P x L matrix w.
func NewSeparateMixed(w *tensor.Dense, ks ...Kernel) *SeparateMixed {
	return kernels.NewSeparateMixed(w, ks...)
}
