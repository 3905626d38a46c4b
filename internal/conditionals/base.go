package conditionals

import (
	"fmt"

	"github.com/born-ml/mogp/internal/linalg"
	"github.com/born-ml/mogp/internal/tensor"
)

// BaseConditional conditions a single-output GP on R columns of inducing
// outputs that share one inducing covariance.
//
// kmn is M x N, kmm M x M, f M x R. knn is N x N with FullCov, otherwise N.
// QSqrt is M x R (diagonal scale) or R x M x M. The mean is N x R; the
// covariance is R x N x N with FullCov, otherwise N x R. FullOutputCov is
// ignored.
func (e *Engine) BaseConditional(kmn, kmm, knn, f *tensor.Dense, opts Options) (mean, cov *tensor.Dense, err error) {
	defer tensor.Recover(&err)

	m, n := kmn.Dim(0), kmn.Dim(1)
	r := f.Dim(1)

	lm, err := linalg.Cholesky(kmm)
	if err != nil {
		return nil, nil, fmt.Errorf("base conditional: %w", err)
	}

	// A = Lm⁻¹ Kmn
	a := linalg.SolveTriangular(lm, kmn, false)
	a3 := a.Reshape(m, n, 1)

	var fvar *tensor.Dense
	if opts.FullCov {
		fvar = knn.Reshape(1, n, n).Sub(reduce(a3, true, false)).Index(0).Tile(r) // R x N x N
	} else {
		fvar = knn.Reshape(n, 1).Sub(reduce(a3, false, false)).Reshape(n).Tile(r) // R x N
	}

	if !opts.White {
		a = linalg.SolveTriangular(lm, a, true)
	}
	mean = tensor.MatMul(a, f, true, false)

	if opts.QSqrt != nil {
		var lta *tensor.Dense // R x M x N
		switch opts.QSqrt.Rank() {
		case 2:
			lta = scaleRows(opts.QSqrt, a)
		case 3:
			lta = tensor.BatchMatMul(opts.QSqrt.BandLower(), a.Tile(r), true, false)
		default:
			tensor.Mismatch("base_conditional", "q_sqrt must be M x R or R x M x M, got %v", opts.QSqrt.Shape())
		}
		for ri := 0; ri < r; ri++ {
			term := lta.Index(ri).Reshape(m, n, 1)
			if opts.FullCov {
				fvar.Index(ri).AddInPlace(reduce(term, true, false).Index(0))
			} else {
				fvar.Index(ri).AddInPlace(reduce(term, false, false).Reshape(n))
			}
		}
	}

	if !opts.FullCov {
		fvar = fvar.Transpose()
	}
	return mean, fvar, nil
}

// scaleRows returns the R x M x N tensor q[m,r] * a[m,n] for a diagonal
// scale q of shape M x R.
func scaleRows(q, a *tensor.Dense) *tensor.Dense {
	m, n := a.Dim(0), a.Dim(1)
	if q.Dim(0) != m {
		tensor.Mismatch("base_conditional", "diagonal q_sqrt %v for %d inducing points", q.Shape(), m)
	}
	r := q.Dim(1)
	out := tensor.Zeros(r, m, n)
	qd, ad, od := q.Data(), a.Data(), out.Data()
	for ri := 0; ri < r; ri++ {
		for mi := 0; mi < m; mi++ {
			s := qd[mi*r+ri]
			row := od[(ri*m+mi)*n : (ri*m+mi+1)*n]
			for ni, v := range ad[mi*n : (mi+1)*n] {
				row[ni] = s * v
			}
		}
	}
	return out
}

// ExpandIndependentOutputs lays out the covariance of P independent outputs,
// given as P x N x N (fullCov) or N x P, in the requested layout. Terms
// between different outputs are zero.
func ExpandIndependentOutputs(fvar *tensor.Dense, fullCov, fullOutputCov bool) *tensor.Dense {
	if !fullOutputCov {
		return fvar
	}
	if fullCov {
		// P x N x N -> N x N x P x P -> N x P x N x P
		return fvar.Transpose(1, 2, 0).DiagEmbed().Transpose(0, 2, 1, 3)
	}
	return fvar.DiagEmbed()
}

// reduce contracts a, K x N x P, with itself over its leading axis and
// returns the result in the covariance layout:
//
//	fullCov  fullOutputCov  result
//	false    false          N x P       sum_k a[k,n,p]^2
//	true     false          P x N x N   sum_k a[k,n,p] a[k,n',p]
//	false    true           N x P x P   sum_k a[k,n,p] a[k,n,p']
//	true     true           N x P x N x P
func reduce(a *tensor.Dense, fullCov, fullOutputCov bool) *tensor.Dense {
	k, n, p := a.Dim(0), a.Dim(1), a.Dim(2)
	switch {
	case fullCov && fullOutputCov:
		flat := a.Reshape(k, n*p)
		return tensor.MatMul(flat, flat, true, false).Reshape(n, p, n, p)
	case fullCov:
		at := a.Transpose(2, 0, 1) // P x K x N
		return tensor.BatchMatMul(at, at, true, false)
	case fullOutputCov:
		at := a.Transpose(1, 0, 2) // N x K x P
		return tensor.BatchMatMul(at, at, true, false)
	default:
		sq := a.Square()
		out := tensor.Zeros(n, p)
		for i := 0; i < k; i++ {
			out.AddInPlace(sq.Index(i))
		}
		return out
	}
}
