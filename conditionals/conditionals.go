// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package conditionals

import (
	"github.com/born-ml/mogp/features"
	"github.com/born-ml/mogp/internal/conditionals"
	"github.com/born-ml/mogp/internal/linalg"
	"github.com/born-ml/mogp/kernels"
	"github.com/born-ml/mogp/tensor"
)

// Engine evaluates conditionals. It is safe for concurrent use.
type Engine = conditionals.Engine

// Config holds the numerical settings of an Engine.
type Config = conditionals.Config

// Options selects the covariance layout and describes the inducing posterior.
type Options = conditionals.Options

// Routine computes the conditional for one (feature, kernel) pairing.
type Routine = conditionals.Routine

// Pairing is one registered (feature kind, kernel kind) combination.
type Pairing = conditionals.Pairing

// Errors returned by the Engine.
var (
	ErrNotImplemented      = conditionals.ErrNotImplemented
	ErrUnsupportedPairing  = conditionals.ErrUnsupportedPairing
	ErrNotPositiveDefinite = linalg.ErrNotPositiveDefinite
)

// NewEngine creates an Engine.
func NewEngine(cfg Config) *Engine {
	return conditionals.NewEngine(cfg)
}

// DefaultConfig returns a jitter of 1e-6 and CPU-sized parallelism.
func DefaultConfig() Config {
	return conditionals.DefaultConfig()
}

// Resolve returns the routine registered for a pairing.
func Resolve(fk features.Kind, kk kernels.Kind) (string, Routine, error) {
	return conditionals.Resolve(fk, kk)
}

// Pairings lists every registered pairing.
func Pairings() []Pairing {
	return conditionals.Pairings()
}

// ExpandIndependentOutputs lays the covariance of independent outputs out
// in the requested layout with zero cross-output terms.
func ExpandIndependentOutputs(fvar *tensor.Dense, fullCov, fullOutputCov bool) *tensor.Dense {
	return conditionals.ExpandIndependentOutputs(fvar, fullCov, fullOutputCov)
}
