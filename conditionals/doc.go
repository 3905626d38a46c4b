// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package conditionals computes the predictive mean and covariance of a
// sparse multi-output Gaussian process at new inputs.
//
// # Overview
//
// An Engine is built from a Config (jitter, batch parallelism, optional zap
// logger). Conditional picks one of five routines from the kinds of the
// inducing feature and the kernel:
//
//	features                kernel                  routine
//	SharedIndependent       SharedIndependent       shared_independent
//	Shared/SeparateIndep.   Shared/SeparateIndep.   separate_independent
//	Shared/SeparateIndep.   SeparateMixed           interdomain
//	InducingPoints          any                     fully_correlated
//	MixedKernelShared       SeparateMixed           mixed_shared
//
// Pairings lists the full table; any other pair returns
// ErrUnsupportedPairing.
//
// # Basic Usage
//
//	eng := conditionals.NewEngine(conditionals.DefaultConfig())
//	mean, cov, err := eng.Conditional(x, feat, kern, f, conditionals.Options{
//	    FullOutputCov: true,
//	    QSqrt:         qSqrt,
//	    White:         true,
//	})
//
// The mean is N x P. The covariance is N x P, P x N x N, N x P x P or
// N x P x N x P for the four (FullCov, FullOutputCov) settings.
//
// # Errors
//
// Inconsistent shapes return an error matching tensor.ErrShapeMismatch. A
// Kuu that is not positive definite after jitter returns
// ErrNotPositiveDefinite. A diagonal QSqrt passed to the interdomain or
// fully-correlated engines returns ErrNotImplemented.
package conditionals
