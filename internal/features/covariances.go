package features

import (
	"github.com/born-ml/mogp/internal/kernels"
	"github.com/born-ml/mogp/internal/tensor"
)

// KuuShared returns k(Z, Z) + jitter I, M x M.
func KuuShared(ip *InducingPoints, k kernels.Kernel, jitter float64) *tensor.Dense {
	return k.K(ip.Z, ip.Z).AddDiag(jitter)
}

// KufShared returns k(Z, x), M x N.
func KufShared(ip *InducingPoints, k kernels.Kernel, x *tensor.Dense) *tensor.Dense {
	return k.K(ip.Z, x)
}

// KuuIndependent stacks k_l(Z_l, Z_l) + jitter I, L x M x M.
func KuuIndependent(ips []*InducingPoints, ks []kernels.Kernel, jitter float64) *tensor.Dense {
	mustPair("kuu", ips, ks)
	blocks := make([]*tensor.Dense, len(ks))
	for i, k := range ks {
		blocks[i] = k.K(ips[i].Z, ips[i].Z)
	}
	return tensor.Stack(blocks).AddDiag(jitter)
}

// KufIndependent stacks k_l(Z_l, x), L x M x N.
func KufIndependent(ips []*InducingPoints, ks []kernels.Kernel, x *tensor.Dense) *tensor.Dense {
	mustPair("kuf", ips, ks)
	blocks := make([]*tensor.Dense, len(ks))
	for i, k := range ks {
		blocks[i] = k.K(ips[i].Z, x)
	}
	return tensor.Stack(blocks)
}

// KufMixed returns the interdomain covariance between latent inducing outputs
// and observed outputs, M x L x N x P: k_l(Z_l, x)[m,n] * W[p,l].
func KufMixed(ips []*InducingPoints, ks []kernels.Kernel, w, x *tensor.Dense) *tensor.Dense {
	kuf := KufIndependent(ips, ks, x) // L x M x N
	l, m, n := kuf.Dim(0), kuf.Dim(1), kuf.Dim(2)
	if w.Rank() != 2 || w.Dim(1) != l {
		tensor.Mismatch("kuf", "mixing matrix %v for %d latent processes", w.Shape(), l)
	}
	p := w.Dim(0)
	out := tensor.Zeros(m, l, n, p)
	kd, wd, od := kuf.Data(), w.Data(), out.Data()
	for li := 0; li < l; li++ {
		for mi := 0; mi < m; mi++ {
			for ni := 0; ni < n; ni++ {
				v := kd[(li*m+mi)*n+ni]
				base := ((mi*l+li)*n + ni) * p
				for pi := 0; pi < p; pi++ {
					od[base+pi] = v * wd[pi*l+li]
				}
			}
		}
	}
	return out
}

// KuuFull returns the joint covariance of all M x P inducing outputs,
// M x P x M x P, with jitter on the diagonal of its (M P) x (M P) flattening.
func KuuFull(ip *InducingPoints, k kernels.MultiOutput, jitter float64) *tensor.Dense {
	kzz := k.K(ip.Z, ip.Z, true)
	mp := ip.NumInducing() * k.NumOutputs()
	kzz.Reshape(mp, mp).AddDiag(jitter)
	return kzz
}

// KufFull returns the joint cross-covariance, M x P x N x P.
func KufFull(ip *InducingPoints, k kernels.MultiOutput, x *tensor.Dense) *tensor.Dense {
	return k.K(ip.Z, x, true)
}

func mustPair(op string, ips []*InducingPoints, ks []kernels.Kernel) {
	if len(ips) != len(ks) {
		tensor.Mismatch(op, "%d inducing sets for %d kernels", len(ips), len(ks))
	}
}
