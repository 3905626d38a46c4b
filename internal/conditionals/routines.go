package conditionals

import (
	"fmt"

	"github.com/born-ml/mogp/internal/features"
	"github.com/born-ml/mogp/internal/kernels"
	"github.com/born-ml/mogp/internal/parallel"
	"github.com/born-ml/mogp/internal/tensor"
)

// SharedIndependent serves shared inducing points with one kernel shared by
// every output. The base conditional runs once with the P columns of f.
func (e *Engine) SharedIndependent(x *tensor.Dense, feat features.Feature, kern kernels.MultiOutput, f *tensor.Dense, opts Options) (mean, cov *tensor.Dense, err error) {
	defer tensor.Recover(&err)

	sf, fok := feat.(*features.SharedIndependent)
	sk, kok := kern.(*kernels.SharedIndependent)
	if !fok || !kok {
		return nil, nil, unsupported("shared independent", feat, kern)
	}

	kmm := features.KuuShared(sf.Inducing, sk.Kernel, e.cfg.Jitter)
	kmn := features.KufShared(sf.Inducing, sk.Kernel, x)
	var knn *tensor.Dense
	if opts.FullCov {
		knn = sk.Kernel.K(x, x)
	} else {
		knn = sk.Kernel.Kdiag(x)
	}

	mean, fvar, err := e.BaseConditional(kmn, kmm, knn, f, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("shared independent: %w", err)
	}
	return mean, ExpandIndependentOutputs(fvar, opts.FullCov, opts.FullOutputCov), nil
}

// SeparateIndependent serves independent outputs where the inducing points,
// the kernels or both differ per output. Each output is conditioned on its
// own block and the results are recombined; requested cross-output terms are
// zero.
func (e *Engine) SeparateIndependent(x *tensor.Dense, feat features.Feature, kern kernels.MultiOutput, f *tensor.Dense, opts Options) (mean, cov *tensor.Dense, err error) {
	defer tensor.Recover(&err)

	fi, fok := feat.(features.Independent)
	ki, kok := kern.(kernels.Independent)
	if !fok || !kok || feat.Kind() == features.KindMixedKernelShared || kern.Kind() == kernels.KindSeparateMixed {
		return nil, nil, unsupported("separate independent", feat, kern)
	}

	ks := ki.Latents()
	mean, fvar, err := e.independentLatents(x, fi.PerLatent(len(ks)), ks, f, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("separate independent: %w", err)
	}
	return mean, ExpandIndependentOutputs(fvar, opts.FullCov, opts.FullOutputCov), nil
}

// Interdomain serves a mixed kernel whose inducing variables are placed on
// the latent processes through shared or separate inducing points.
func (e *Engine) Interdomain(x *tensor.Dense, feat features.Feature, kern kernels.MultiOutput, f *tensor.Dense, opts Options) (mean, cov *tensor.Dense, err error) {
	defer tensor.Recover(&err)

	fi, fok := feat.(features.Independent)
	mk, kok := kern.(*kernels.SeparateMixed)
	if !fok || !kok || feat.Kind() == features.KindMixedKernelShared {
		return nil, nil, unsupported("interdomain", feat, kern)
	}

	ks := mk.Latents()
	ips := fi.PerLatent(len(ks))
	kmm := features.KuuIndependent(ips, ks, e.cfg.Jitter) // L x M x M
	kmn := features.KufMixed(ips, ks, mk.W, x)             // M x L x N x P
	var knn *tensor.Dense
	if opts.FullCov {
		knn = mk.K(x, x, opts.FullOutputCov)
	} else {
		knn = mk.Kdiag(x, opts.FullOutputCov)
	}

	mean, cov, err = e.IndependentInterdomainConditional(kmn, kmm, knn, f, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("interdomain: %w", err)
	}
	return mean, cov, nil
}

// FullyCorrelated serves a single set of inducing points whose M x P inducing
// outputs are modelled jointly. f is (M P) x 1 and QSqrt 1 x (M P) x (M P).
//
// When FullCov and FullOutputCov agree the problem is flattened over
// (N, P) and handed to the base conditional; otherwise the fully-correlated
// engine keeps the two axes apart.
func (e *Engine) FullyCorrelated(x *tensor.Dense, feat features.Feature, kern kernels.MultiOutput, f *tensor.Dense, opts Options) (mean, cov *tensor.Dense, err error) {
	defer tensor.Recover(&err)

	ip, ok := feat.(*features.InducingPoints)
	if !ok {
		return nil, nil, unsupported("fully correlated", feat, kern)
	}
	if f.Rank() != 2 || f.Dim(1) != 1 {
		tensor.Mismatch("fully_correlated", "expected f of shape (M P) x 1, got %v", f.Shape())
	}

	m, p, n := ip.NumInducing(), kern.NumOutputs(), x.Dim(0)
	kmm := features.KuuFull(ip, kern, e.cfg.Jitter).Reshape(m*p, m*p)
	kmn := features.KufFull(ip, kern, x) // M x P x N x P

	if opts.FullCov == opts.FullOutputCov {
		var knn *tensor.Dense
		if opts.FullCov {
			knn = kern.K(x, x, true).Reshape(n*p, n*p)
		} else {
			knn = kern.Kdiag(x, false).Reshape(n * p)
		}
		mean, fvar, err := e.BaseConditional(kmn.Reshape(m*p, n*p), kmm, knn, f, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("fully correlated: %w", err)
		}
		if opts.FullCov {
			return mean.Reshape(n, p), fvar.Reshape(n, p, n, p), nil
		}
		return mean.Reshape(n, p), fvar.Reshape(n, p), nil
	}

	var knn *tensor.Dense
	if opts.FullCov {
		knn = kern.K(x, x, false) // P x N x N
	} else {
		knn = kern.Kdiag(x, true) // N x P x P
	}
	mean, fvar, err := e.FullyCorrelatedConditional(kmn.Reshape(m*p, n, p), kmm, knn, f, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("fully correlated: %w", err)
	}
	return mean.Index(0), fvar.Index(0), nil
}

// MixedShared serves f = W g with shared inducing points on the L latent
// processes g. The latent conditional is computed without output correlation
// and pushed through the P x L mixing matrix W.
func (e *Engine) MixedShared(x *tensor.Dense, feat features.Feature, kern kernels.MultiOutput, f *tensor.Dense, opts Options) (mean, cov *tensor.Dense, err error) {
	defer tensor.Recover(&err)

	mf, fok := feat.(*features.MixedKernelShared)
	mk, kok := kern.(*kernels.SeparateMixed)
	if !fok || !kok {
		return nil, nil, unsupported("mixed shared", feat, kern)
	}

	ks := mk.Latents()
	latent := opts
	latent.FullOutputCov = false
	gmu, gvar, err := e.independentLatents(x, mf.PerLatent(len(ks)), ks, f, latent)
	if err != nil {
		return nil, nil, fmt.Errorf("mixed shared: %w", err)
	}

	w := mk.W
	l, p, n := len(ks), w.Dim(0), gmu.Dim(0)
	mean = tensor.MatMul(gmu, w, false, true) // N x P

	switch {
	case opts.FullCov && opts.FullOutputCov:
		// (N N) x L @ L x (P P) -> N x N x P x P -> N x P x N x P
		ww := kernels.MixingOuter(w).Reshape(l, p*p)
		cov = tensor.MatMul(gvar.Reshape(l, n*n), ww, true, false).Reshape(n, n, p, p).Transpose(0, 2, 1, 3)
	case opts.FullOutputCov:
		ww := kernels.MixingOuter(w).Reshape(l, p*p)
		cov = tensor.MatMul(gvar, ww, false, false).Reshape(n, p, p)
	case opts.FullCov:
		cov = tensor.MatMul(w.Square(), gvar.Reshape(l, n*n), false, false).Reshape(p, n, n)
	default:
		cov = tensor.MatMul(gvar, w.Square(), false, true)
	}
	return mean, cov, nil
}

// independentLatents conditions each latent process on its own inducing
// block. The mean is N x L and the covariance L x N x N with FullCov,
// otherwise N x L. FullOutputCov is ignored.
func (e *Engine) independentLatents(x *tensor.Dense, ips []*features.InducingPoints, ks []kernels.Kernel, f *tensor.Dense, opts Options) (*tensor.Dense, *tensor.Dense, error) {
	l := len(ks)
	if f.Rank() != 2 || f.Dim(1) != l {
		tensor.Mismatch("independent_latents", "expected f with %d columns, got %v", l, f.Shape())
	}
	kmms := features.KuuIndependent(ips, ks, e.cfg.Jitter) // L x M x M
	kmns := features.KufIndependent(ips, ks, x)             // L x M x N

	// Everything that can panic on shapes is sliced out before the fan-out.
	knns := make([]*tensor.Dense, l)
	cols := make([]*tensor.Dense, l)
	scales := make([]*tensor.Dense, l)
	for i, k := range ks {
		if opts.FullCov {
			knns[i] = k.K(x, x)
		} else {
			knns[i] = k.Kdiag(x)
		}
		cols[i] = f.Col(i)
		scales[i] = latentScale(opts.QSqrt, i, l)
	}

	means := make([]*tensor.Dense, l)
	vars := make([]*tensor.Dense, l)
	err := parallel.ForErr(l, func(i int) error {
		o := opts
		o.QSqrt = scales[i]
		mu, v, err := e.BaseConditional(kmns.Index(i), kmms.Index(i), knns[i], cols[i], o)
		if err != nil {
			return fmt.Errorf("latent %d: %w", i, err)
		}
		means[i], vars[i] = mu, v
		return nil
	}, e.cfg.Parallel)
	if err != nil {
		return nil, nil, err
	}

	n := means[0].Dim(0)
	mean := tensor.Stack(means).Reshape(l, n).Transpose()
	if opts.FullCov {
		return mean, tensor.Stack(vars).Reshape(l, n, n), nil
	}
	return mean, tensor.Stack(vars).Reshape(l, n).Transpose(), nil
}

// latentScale slices the scale of latent i out of q, M x L or L x M x M.
func latentScale(q *tensor.Dense, i, l int) *tensor.Dense {
	if q == nil {
		return nil
	}
	switch q.Rank() {
	case 2:
		return q.Col(i)
	case 3:
		if q.Dim(0) != l {
			tensor.Mismatch("independent_latents", "q_sqrt %v for %d latent processes", q.Shape(), l)
		}
		return q.Index(i).Reshape(1, q.Dim(1), q.Dim(2))
	default:
		tensor.Mismatch("independent_latents", "q_sqrt must be M x L or L x M x M, got %v", q.Shape())
		return nil
	}
}

func unsupported(routine string, feat features.Feature, kern kernels.MultiOutput) error {
	return fmt.Errorf("%s: %s features with %s kernel: %w", routine, feat.Kind(), kern.Kind(), ErrUnsupportedPairing)
}
