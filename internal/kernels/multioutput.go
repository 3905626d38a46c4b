package kernels

import (
	"github.com/born-ml/mogp/internal/tensor"
)

// Kind identifies the structure of a multi-output kernel.
type Kind int

// Multi-output kernel structures.
const (
	KindSharedIndependent   Kind = iota // One kernel shared by every output
	KindSeparateIndependent             // One kernel per output
	KindSeparateMixed                   // L latent kernels mixed into P outputs by W
)

// Kinds lists every kernel structure.
var Kinds = []Kind{KindSharedIndependent, KindSeparateIndependent, KindSeparateMixed}

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindSharedIndependent:
		return "shared_independent"
	case KindSeparateIndependent:
		return "separate_independent"
	case KindSeparateMixed:
		return "separate_mixed"
	default:
		return "unknown"
	}
}

// MultiOutput is a covariance function over P outputs.
//
// With fullOutputCov K returns N x P x N2 x P, otherwise P x N x N2.
// With fullOutputCov Kdiag returns N x P x P, otherwise N x P.
type MultiOutput interface {
	Kind() Kind
	NumOutputs() int
	K(x, x2 *tensor.Dense, fullOutputCov bool) *tensor.Dense
	Kdiag(x *tensor.Dense, fullOutputCov bool) *tensor.Dense
}

// Independent is a multi-output kernel built from one single-output kernel
// per latent process.
type Independent interface {
	MultiOutput
	Latents() []Kernel
}

var (
	_ Independent = (*SharedIndependent)(nil)
	_ Independent = (*SeparateIndependent)(nil)
	_ Independent = (*SeparateMixed)(nil)
)

// SharedIndependent gives P independent outputs the same kernel.
type SharedIndependent struct {
	Kernel Kernel
	P      int
}

func NewSharedIndependent(k Kernel, outputs int) *SharedIndependent {
	return &SharedIndependent{Kernel: k, P: outputs}
}

func (k *SharedIndependent) Kind() Kind      { return KindSharedIndependent }
func (k *SharedIndependent) NumOutputs() int { return k.P }

// Latents returns the shared kernel once per output.
func (k *SharedIndependent) Latents() []Kernel {
	ks := make([]Kernel, k.P)
	for i := range ks {
		ks[i] = k.Kernel
	}
	return ks
}

func (k *SharedIndependent) K(x, x2 *tensor.Dense, fullOutputCov bool) *tensor.Dense {
	return independentK(k.Latents(), x, x2, fullOutputCov)
}

func (k *SharedIndependent) Kdiag(x *tensor.Dense, fullOutputCov bool) *tensor.Dense {
	return independentKdiag(k.Latents(), x, fullOutputCov)
}

// SeparateIndependent gives each output its own kernel.
type SeparateIndependent struct {
	Kernels []Kernel
}

func NewSeparateIndependent(ks ...Kernel) *SeparateIndependent {
	return &SeparateIndependent{Kernels: ks}
}

func (k *SeparateIndependent) Kind() Kind        { return KindSeparateIndependent }
func (k *SeparateIndependent) NumOutputs() int   { return len(k.Kernels) }
func (k *SeparateIndependent) Latents() []Kernel { return k.Kernels }

func (k *SeparateIndependent) K(x, x2 *tensor.Dense, fullOutputCov bool) *tensor.Dense {
	return independentK(k.Kernels, x, x2, fullOutputCov)
}

func (k *SeparateIndependent) Kdiag(x *tensor.Dense, fullOutputCov bool) *tensor.Dense {
	return independentKdiag(k.Kernels, x, fullOutputCov)
}

// SeparateMixed is the linear model of coregionalization f = W g, where g has
// L independent latent processes and W is P x L.
type SeparateMixed struct {
	Kernels []Kernel
	W       *tensor.Dense
}

func NewSeparateMixed(w *tensor.Dense, ks ...Kernel) *SeparateMixed {
	if w.Rank() != 2 || w.Dim(1) != len(ks) {
		tensor.Mismatch("separate_mixed", "mixing matrix %v for %d latent kernels", w.Shape(), len(ks))
	}
	return &SeparateMixed{Kernels: ks, W: w}
}

func (k *SeparateMixed) Kind() Kind        { return KindSeparateMixed }
func (k *SeparateMixed) NumOutputs() int   { return k.W.Dim(0) }
func (k *SeparateMixed) Latents() []Kernel { return k.Kernels }

// K returns sum_l W[p,l] k_l(x, x2) W[p',l].
func (k *SeparateMixed) K(x, x2 *tensor.Dense, fullOutputCov bool) *tensor.Dense {
	lat := make([]*tensor.Dense, len(k.Kernels))
	for i, kern := range k.Kernels {
		lat[i] = kern.K(x, x2)
	}
	kxx := tensor.Stack(lat) // L x N x N2
	l, n, n2 := kxx.Dim(0), kxx.Dim(1), kxx.Dim(2)
	p := k.W.Dim(0)
	flat := kxx.Reshape(l, n*n2)

	if !fullOutputCov {
		// P x L @ L x (N N2)
		return tensor.MatMul(k.W.Square(), flat, false, false).Reshape(p, n, n2)
	}
	// (N N2) x L @ L x (P P) -> N x N2 x P x P -> N x P x N2 x P
	ww := MixingOuter(k.W).Reshape(l, p*p)
	return tensor.MatMul(flat, ww, true, false).Reshape(n, n2, p, p).Transpose(0, 2, 1, 3)
}

// Kdiag returns the per-point output covariance W diag(k_l(x, x)) Wᵀ.
func (k *SeparateMixed) Kdiag(x *tensor.Dense, fullOutputCov bool) *tensor.Dense {
	lat := make([]*tensor.Dense, len(k.Kernels))
	for i, kern := range k.Kernels {
		lat[i] = kern.Kdiag(x)
	}
	kd := tensor.Stack(lat) // L x N
	n, p := kd.Dim(1), k.W.Dim(0)

	if !fullOutputCov {
		return tensor.MatMul(kd, k.W.Square(), true, true) // N x P
	}
	ww := MixingOuter(k.W).Reshape(len(lat), p*p)
	return tensor.MatMul(kd, ww, true, false).Reshape(n, p, p)
}

// MixingOuter returns the L x P x P tensor WW[l,p,p'] = W[p,l] W[p',l].
func MixingOuter(w *tensor.Dense) *tensor.Dense {
	p, l := w.Dim(0), w.Dim(1)
	out := tensor.Zeros(l, p, p)
	wd, od := w.Data(), out.Data()
	for li := 0; li < l; li++ {
		for i := 0; i < p; i++ {
			for j := 0; j < p; j++ {
				od[(li*p+i)*p+j] = wd[i*l+li] * wd[j*l+li]
			}
		}
	}
	return out
}

// independentK stacks per-output covariances, P x N x N2, or embeds them on
// the output diagonal, N x P x N2 x P.
func independentK(ks []Kernel, x, x2 *tensor.Dense, fullOutputCov bool) *tensor.Dense {
	blocks := make([]*tensor.Dense, len(ks))
	for i, k := range ks {
		blocks[i] = k.K(x, x2)
	}
	stacked := tensor.Stack(blocks)
	if !fullOutputCov {
		return stacked
	}
	return stacked.Transpose(1, 2, 0).DiagEmbed().Transpose(0, 2, 1, 3)
}

// independentKdiag returns N x P, or N x P x P with zero off-diagonal terms.
func independentKdiag(ks []Kernel, x *tensor.Dense, fullOutputCov bool) *tensor.Dense {
	diags := make([]*tensor.Dense, len(ks))
	for i, k := range ks {
		diags[i] = k.Kdiag(x)
	}
	np := tensor.Stack(diags).Transpose() // N x P
	if !fullOutputCov {
		return np
	}
	return np.DiagEmbed()
}
