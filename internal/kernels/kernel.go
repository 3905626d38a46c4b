// Package kernels implements single-output covariance functions and the
// multi-output kernels built from them.
package kernels

import (
	"github.com/born-ml/mogp/internal/tensor"
)

// Kernel is a single-output covariance function over D-dimensional inputs.
type Kernel interface {
	// K returns the N x N2 covariance between the rows of x (N x D) and x2 (N2 x D).
	K(x, x2 *tensor.Dense) *tensor.Dense

	// Kdiag returns the length-N diagonal of K(x, x).
	Kdiag(x *tensor.Dense) *tensor.Dense
}

// pairwise fills an N x N2 matrix with f applied to every (row of x, row of x2).
func pairwise(x, x2 *tensor.Dense, f func(a, b []float64) float64) *tensor.Dense {
	if x.Rank() != 2 || x2.Rank() != 2 || x.Dim(1) != x2.Dim(1) {
		tensor.Mismatch("kernel", "inputs %v and %v", x.Shape(), x2.Shape())
	}
	n, n2, d := x.Dim(0), x2.Dim(0), x.Dim(1)
	out := tensor.Zeros(n, n2)
	xd, x2d, od := x.Data(), x2.Data(), out.Data()
	for i := 0; i < n; i++ {
		for j := 0; j < n2; j++ {
			od[i*n2+j] = f(xd[i*d:(i+1)*d], x2d[j*d:(j+1)*d])
		}
	}
	return out
}

func rows(x *tensor.Dense) int {
	if x.Rank() != 2 {
		tensor.Mismatch("kernel", "expected N x D inputs, got %v", x.Shape())
	}
	return x.Dim(0)
}
