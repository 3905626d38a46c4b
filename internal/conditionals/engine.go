// Package conditionals computes the predictive mean and covariance of
// multi-output sparse GPs at new inputs, given the posterior over inducing
// outputs.
package conditionals

import (
	"errors"

	"github.com/born-ml/mogp/internal/parallel"
	"github.com/born-ml/mogp/internal/tensor"
	"go.uber.org/zap"
)

var (
	// ErrNotImplemented marks an argument combination an engine does not support.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedPairing is returned when no routine serves a
	// (feature kind, kernel kind) pair.
	ErrUnsupportedPairing = errors.New("unsupported feature/kernel pairing")
)

// Config holds the numerical settings of an Engine.
type Config struct {
	// Jitter is added to the diagonal of every Kuu before factorization.
	Jitter float64 `yaml:"jitter"`

	// Parallel controls how batched factorizations fan out.
	Parallel parallel.Config `yaml:"parallel"`

	// Logger receives debug traces of routing decisions and shapes.
	// Nil disables logging.
	Logger *zap.Logger `yaml:"-"`
}

// DefaultConfig returns the default jitter and CPU-sized parallelism.
func DefaultConfig() Config {
	return Config{
		Jitter:   1e-6,
		Parallel: parallel.DefaultConfig(),
	}
}

// Options selects the covariance layout and describes the inducing posterior.
//
// Covariance layouts:
//
//	FullCov  FullOutputCov  covariance
//	false    false          N x P
//	true     false          P x N x N
//	false    true           N x P x P
//	true     true           N x P x N x P
type Options struct {
	FullCov       bool
	FullOutputCov bool

	// QSqrt is the lower triangular scale of q(u). Only its lower triangle is
	// read. Nil means a point-mass posterior.
	QSqrt *tensor.Dense

	// White states that F and QSqrt parametrize the whitened variable
	// v = Lm⁻¹ u rather than u.
	White bool
}

// Engine evaluates conditionals. It holds only immutable configuration and is
// safe for concurrent use.
type Engine struct {
	cfg Config
	log *zap.Logger
}

// NewEngine creates an Engine.
func NewEngine(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cfg: cfg, log: log}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}
