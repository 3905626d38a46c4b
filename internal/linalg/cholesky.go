// Package linalg provides the dense factorizations and triangular solves the
// conditionals are built on. Batched variants fan out over the leading axis.
package linalg

import (
	"errors"
	"fmt"

	"github.com/born-ml/mogp/internal/parallel"
	"github.com/born-ml/mogp/internal/tensor"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// ErrNotPositiveDefinite is returned when a Cholesky factorization fails.
var ErrNotPositiveDefinite = errors.New("matrix is not positive definite")

// Cholesky returns the lower triangular L with a = L Lᵀ.
// Only the lower triangle of a is read.
func Cholesky(a *tensor.Dense) (*tensor.Dense, error) {
	if a.Rank() != 2 || a.Dim(0) != a.Dim(1) {
		tensor.Mismatch("cholesky", "expected a square matrix, got %v", a.Shape())
	}
	l := a.Clone()
	if !potrf(l.Data(), a.Dim(0)) {
		return nil, ErrNotPositiveDefinite
	}
	return l, nil
}

// BatchCholesky factorizes every B x M x M block of a.
// The error names the first block that failed.
func BatchCholesky(a *tensor.Dense, cfg parallel.Config) (*tensor.Dense, error) {
	if a.Rank() != 3 || a.Dim(1) != a.Dim(2) {
		tensor.Mismatch("batch_cholesky", "expected B x M x M, got %v", a.Shape())
	}
	l := a.Clone()
	m := a.Dim(1)
	err := parallel.ForErr(a.Dim(0), func(i int) error {
		if !potrf(l.Data()[i*m*m:(i+1)*m*m], m) {
			return fmt.Errorf("block %d: %w", i, ErrNotPositiveDefinite)
		}
		return nil
	}, cfg)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// potrf factorizes the n x n block in place and clears its upper triangle.
func potrf(data []float64, n int) bool {
	_, ok := lapack64.Potrf(blas64.Symmetric{
		Uplo:   blas.Lower,
		N:      n,
		Stride: n,
		Data:   data,
	})
	if !ok {
		return false
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			data[i*n+j] = 0
		}
	}
	return true
}
