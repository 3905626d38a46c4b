package kernels

import (
	"math"

	"github.com/born-ml/mogp/internal/tensor"
	"github.com/viterin/vek"
)

var (
	_ Kernel = (*SquaredExponential)(nil)
	_ Kernel = (*Matern12)(nil)
	_ Kernel = (*Matern32)(nil)
)

// stationary holds the hyperparameters shared by isotropic kernels.
type stationary struct {
	variance    float64
	lengthscale float64
}

// scaledDist returns |a - b| / lengthscale.
func (s stationary) scaledDist(a, b []float64) float64 {
	diff := make([]float64, len(a))
	copy(diff, a)
	vek.Sub_Inplace(diff, b)
	return math.Sqrt(vek.Dot(diff, diff)) / s.lengthscale
}

func (s stationary) kdiag(x *tensor.Dense) *tensor.Dense {
	return tensor.Full(s.variance, rows(x))
}

// SquaredExponential is the RBF kernel variance * exp(-r²/2).
type SquaredExponential struct {
	stationary
}

// NewSquaredExponential creates an RBF kernel.
func NewSquaredExponential(variance, lengthscale float64) *SquaredExponential {
	return &SquaredExponential{stationary{variance: variance, lengthscale: lengthscale}}
}

func (k *SquaredExponential) K(x, x2 *tensor.Dense) *tensor.Dense {
	return pairwise(x, x2, func(a, b []float64) float64 {
		r := k.scaledDist(a, b)
		return k.variance * math.Exp(-0.5*r*r)
	})
}

func (k *SquaredExponential) Kdiag(x *tensor.Dense) *tensor.Dense {
	return k.kdiag(x)
}

// Matern12 is the exponential kernel variance * exp(-r).
type Matern12 struct {
	stationary
}

func NewMatern12(variance, lengthscale float64) *Matern12 {
	return &Matern12{stationary{variance: variance, lengthscale: lengthscale}}
}

func (k *Matern12) K(x, x2 *tensor.Dense) *tensor.Dense {
	return pairwise(x, x2, func(a, b []float64) float64 {
		return k.variance * math.Exp(-k.scaledDist(a, b))
	})
}

func (k *Matern12) Kdiag(x *tensor.Dense) *tensor.Dense {
	return k.kdiag(x)
}

// Matern32 is variance * (1 + √3 r) exp(-√3 r).
type Matern32 struct {
	stationary
}

func NewMatern32(variance, lengthscale float64) *Matern32 {
	return &Matern32{stationary{variance: variance, lengthscale: lengthscale}}
}

func (k *Matern32) K(x, x2 *tensor.Dense) *tensor.Dense {
	return pairwise(x, x2, func(a, b []float64) float64 {
		r := math.Sqrt(3) * k.scaledDist(a, b)
		return k.variance * (1 + r) * math.Exp(-r)
	})
}

func (k *Matern32) Kdiag(x *tensor.Dense) *tensor.Dense {
	return k.kdiag(x)
}
