package conditionals

import (
	"fmt"

	"github.com/born-ml/mogp/internal/linalg"
	"github.com/born-ml/mogp/internal/tensor"
)

// IndependentInterdomainConditional conditions P outputs on inducing
// variables that live in the space of L independent latent processes.
//
// kmn is M x L x N x P, kmm L x M x M, f M x L and QSqrt L x M x M. knn must
// already be in the covariance layout selected by opts. The mean is N x P.
//
// A diagonal (rank-2) QSqrt returns ErrNotImplemented.
func (e *Engine) IndependentInterdomainConditional(kmn, kmm, knn, f *tensor.Dense, opts Options) (mean, cov *tensor.Dense, err error) {
	defer tensor.Recover(&err)

	if opts.QSqrt != nil && opts.QSqrt.Rank() != 3 {
		return nil, nil, fmt.Errorf("interdomain conditional: q_sqrt %v: %w", opts.QSqrt.Shape(), ErrNotImplemented)
	}
	if kmn.Rank() != 4 {
		tensor.Mismatch("interdomain_conditional", "expected Kmn M x L x N x P, got %v", kmn.Shape())
	}
	m, l, n, p := kmn.Dim(0), kmn.Dim(1), kmn.Dim(2), kmn.Dim(3)

	lm, err := linalg.BatchCholesky(kmm, e.cfg.Parallel)
	if err != nil {
		return nil, nil, fmt.Errorf("interdomain conditional: %w", err)
	}

	// A = Lm⁻¹ Kmn, L x M x (N P)
	kmnL := kmn.Transpose(1, 0, 2, 3).Reshape(l, m, n*p)
	a := linalg.BatchSolveTriangular(lm, kmnL, false, e.cfg.Parallel)

	fvar := knn.Sub(reduce(a.Reshape(l*m, n, p), opts.FullCov, opts.FullOutputCov))

	if !opts.White {
		a = linalg.BatchSolveTriangular(lm, a, true, e.cfg.Parallel)
	}

	// mean[n,p] = sum_{l,m} A[l,m,n,p] f[m,l]
	ft := f.Transpose().Reshape(1, l*m)
	mean = tensor.MatMul(ft, a.Reshape(l*m, n*p), false, false).Reshape(n, p)

	if opts.QSqrt != nil {
		lta := tensor.BatchMatMul(opts.QSqrt.BandLower(), a, true, false)
		fvar.AddInPlace(reduce(lta.Reshape(l*m, n, p), opts.FullCov, opts.FullOutputCov))
	}
	return mean, fvar, nil
}
