package conditionals

import (
	"fmt"

	"github.com/born-ml/mogp/internal/linalg"
	"github.com/born-ml/mogp/internal/tensor"
)

// FullyCorrelatedConditional conditions on a single joint inducing vector of
// length M that couples every output.
//
// kmn is M x N x K, kmm M x M, f M x R and QSqrt R x M x M. Each of the R
// columns of f is a replica sharing the same inducing geometry. knn is in the
// covariance layout of opts over (N, K). Results carry a leading R axis: the
// mean is R x N x K and the covariance one of R x N x K, R x K x N x N,
// R x N x K x K or R x N x K x N x K.
//
// A diagonal (rank-2) QSqrt returns ErrNotImplemented.
func (e *Engine) FullyCorrelatedConditional(kmn, kmm, knn, f *tensor.Dense, opts Options) (mean, cov *tensor.Dense, err error) {
	defer tensor.Recover(&err)

	if opts.QSqrt != nil && opts.QSqrt.Rank() != 3 {
		return nil, nil, fmt.Errorf("fully correlated conditional: q_sqrt %v: %w", opts.QSqrt.Shape(), ErrNotImplemented)
	}
	if kmn.Rank() != 3 {
		tensor.Mismatch("fully_correlated_conditional", "expected Kmn M x N x K, got %v", kmn.Shape())
	}
	m, n, k := kmn.Dim(0), kmn.Dim(1), kmn.Dim(2)
	r := f.Dim(1)

	lm, err := linalg.Cholesky(kmm)
	if err != nil {
		return nil, nil, fmt.Errorf("fully correlated conditional: %w", err)
	}

	// A = Lm⁻¹ Kmn, M x (N K)
	a := linalg.SolveTriangular(lm, kmn.Reshape(m, n*k), false)
	prior := knn.Sub(reduce(a.Reshape(m, n, k), opts.FullCov, opts.FullOutputCov))

	// Unwhitened inputs go through the same transform as the interdomain
	// engine: u = Lm v, so the projection onto u is Lm⁻ᵀ A.
	if !opts.White {
		a = linalg.SolveTriangular(lm, a, true)
	}
	mean = tensor.MatMul(f, a, true, false).Reshape(r, n, k)

	fvar := prior.Tile(r)
	if opts.QSqrt != nil {
		lta := tensor.BatchMatMul(opts.QSqrt.BandLower(), a.Tile(r), true, false) // R x M x (N K)
		for ri := 0; ri < r; ri++ {
			term := reduce(lta.Index(ri).Reshape(m, n, k), opts.FullCov, opts.FullOutputCov)
			fvar.Index(ri).AddInPlace(term)
		}
	}
	return mean, fvar, nil
}
