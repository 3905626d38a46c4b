// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package features provides the inducing-variable representations a
// conditional is computed against, and the Kuu / Kuf covariances they induce.
//
//	z := tensor.Zeros(10, 1)                                  // 10 inducing points
//	shared := features.NewSharedIndependent(features.NewInducingPoints(z))
//	joint := features.NewInducingPoints(z)                    // fully correlated
package features

import (
	"github.com/born-ml/mogp/internal/features"
	"github.com/born-ml/mogp/kernels"
	"github.com/born-ml/mogp/tensor"
)

// Feature is an inducing-variable representation.
type Feature = features.Feature

// Independent is a feature with one inducing set per latent process.
type Independent = features.Independent

// Kind identifies an inducing-feature representation.
type Kind = features.Kind

// Inducing-feature representations.
const (
	KindInducingPoints      = features.KindInducingPoints
	KindSharedIndependent   = features.KindSharedIndependent
	KindSeparateIndependent = features.KindSeparateIndependent
	KindMixedKernelShared   = features.KindMixedKernelShared
)

// Kinds lists every kind.
var Kinds = features.Kinds

// Concrete features.
type (
	InducingPoints      = features.InducingPoints
	SharedIndependent   = features.SharedIndependent
	SeparateIndependent = features.SeparateIndependent
	MixedKernelShared   = features.MixedKernelShared
)

// NewInducingPoints wraps M x D inducing locations.
func NewInducingPoints(z *tensor.Dense) *InducingPoints {
	return features.NewInducingPoints(z)
}

// NewSharedIndependent shares ip across every latent process.
func NewSharedIndependent(ip *InducingPoints) *SharedIndependent {
	return features.NewSharedIndependent(ip)
}

// NewSeparateIndependent uses one inducing set per latent process.
func NewSeparateIndependent(ips ...*InducingPoints) *SeparateIndependent {
	return features.NewSeparateIndependent(ips...)
}

// NewMixedKernelShared places ip in the latent space of a mixed kernel.
func NewMixedKernelShared(ip *InducingPoints) *MixedKernelShared {
	return features.NewMixedKernelShared(ip)
}

// KuuShared returns k(Z, Z) + jitter I.
func KuuShared(ip *InducingPoints, k kernels.Kernel, jitter float64) *tensor.Dense {
	return features.KuuShared(ip, k, jitter)
}

// KufShared returns k(Z, x).
func KufShared(ip *InducingPoints, k kernels.Kernel, x *tensor.Dense) *tensor.Dense {
	return features.KufShared(ip, k, x)
}

// KuuFull returns the joint M x P x M x P inducing covariance.
func KuuFull(ip *InducingPoints, k kernels.MultiOutput, jitter float64) *tensor.Dense {
	return features.KuuFull(ip, k, jitter)
}

// KufFull returns the joint M x P x N x P cross-covariance.
func KufFull(ip *InducingPoints, k kernels.MultiOutput, x *tensor.Dense) *tensor.Dense {
	return features.KufFull(ip, k, x)
}
