package linalg

import (
	"github.com/born-ml/mogp/internal/parallel"
	"github.com/born-ml/mogp/internal/tensor"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// SolveTriangular solves L X = B, or Lᵀ X = B when trans is set, for a lower
// triangular M x M factor l and an M x K right-hand side b.
func SolveTriangular(l, b *tensor.Dense, trans bool) *tensor.Dense {
	if l.Rank() != 2 || b.Rank() != 2 || l.Dim(0) != l.Dim(1) || l.Dim(1) != b.Dim(0) {
		tensor.Mismatch("solve_triangular", "factor %v, rhs %v", l.Shape(), b.Shape())
	}
	x := b.Clone()
	trsm(l.Data(), x.Data(), b.Dim(0), b.Dim(1), trans)
	return x
}

// BatchSolveTriangular solves one triangular system per leading index:
// l is B x M x M, b is B x M x K.
func BatchSolveTriangular(l, b *tensor.Dense, trans bool, cfg parallel.Config) *tensor.Dense {
	if l.Rank() != 3 || b.Rank() != 3 || l.Dim(0) != b.Dim(0) ||
		l.Dim(1) != l.Dim(2) || l.Dim(2) != b.Dim(1) {
		tensor.Mismatch("batch_solve_triangular", "factor %v, rhs %v", l.Shape(), b.Shape())
	}
	x := b.Clone()
	m, k := b.Dim(1), b.Dim(2)
	parallel.For(b.Dim(0), func(i int) {
		trsm(l.Data()[i*m*m:(i+1)*m*m], x.Data()[i*m*k:(i+1)*m*k], m, k, trans)
	}, cfg)
	return x
}

func trsm(l, x []float64, m, k int, trans bool) {
	tA := blas.NoTrans
	if trans {
		tA = blas.Trans
	}
	blas64.Trsm(blas.Left, tA, 1,
		blas64.Triangular{Uplo: blas.Lower, Diag: blas.NonUnit, N: m, Stride: m, Data: l},
		blas64.General{Rows: m, Cols: k, Stride: k, Data: x},
	)
}
