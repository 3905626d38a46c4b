package kernels

import (
	"github.com/born-ml/mogp/internal/tensor"
)

var (
	_ Kernel = (*Constant)(nil)
	_ Kernel = (*Add)(nil)
)

// Constant is the kernel k(x, x') = variance.
type Constant struct {
	variance float64
}

func NewConstant(variance float64) *Constant {
	return &Constant{variance: variance}
}

func (k *Constant) K(x, x2 *tensor.Dense) *tensor.Dense {
	return tensor.Full(k.variance, rows(x), rows(x2))
}

func (k *Constant) Kdiag(x *tensor.Dense) *tensor.Dense {
	return tensor.Full(k.variance, rows(x))
}

// Add is the sum of its parts. Nested sums are flattened.
type Add struct {
	parts []Kernel
}

func NewAdd(first, second Kernel) *Add {
	parts := make([]Kernel, 0, 2)
	for _, k := range []Kernel{first, second} {
		switch k := k.(type) {
		case *Add:
			parts = append(parts, k.parts...)
		default:
			parts = append(parts, k)
		}
	}
	return &Add{parts: parts}
}

// Parts returns the summed kernels.
func (k *Add) Parts() []Kernel {
	return k.parts
}

func (k *Add) K(x, x2 *tensor.Dense) *tensor.Dense {
	out := k.parts[0].K(x, x2)
	for _, part := range k.parts[1:] {
		out.AddInPlace(part.K(x, x2))
	}
	return out
}

func (k *Add) Kdiag(x *tensor.Dense) *tensor.Dense {
	out := k.parts[0].Kdiag(x)
	for _, part := range k.parts[1:] {
		out.AddInPlace(part.Kdiag(x))
	}
	return out
}
