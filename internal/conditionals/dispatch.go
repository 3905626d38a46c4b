package conditionals

import (
	"fmt"
	"sort"

	"github.com/born-ml/mogp/internal/features"
	"github.com/born-ml/mogp/internal/kernels"
	"github.com/born-ml/mogp/internal/tensor"
	"go.uber.org/zap"
)

// Routine computes the conditional for one (feature, kernel) pairing.
// Method expressions such as (*Engine).SharedIndependent satisfy it.
type Routine func(e *Engine, x *tensor.Dense, feat features.Feature, kern kernels.MultiOutput, f *tensor.Dense, opts Options) (mean, cov *tensor.Dense, err error)

// Pairing is one registered (feature kind, kernel kind) combination.
type Pairing struct {
	Feature features.Kind
	Kernel  kernels.Kind
	Routine string
}

type route struct {
	feature features.Kind
	kernel  kernels.Kind
}

type entry struct {
	name string
	run  Routine
}

var (
	sharedIndependent   = entry{"shared_independent", (*Engine).SharedIndependent}
	separateIndependent = entry{"separate_independent", (*Engine).SeparateIndependent}
	interdomain         = entry{"interdomain", (*Engine).Interdomain}
	fullyCorrelated     = entry{"fully_correlated", (*Engine).FullyCorrelated}
	mixedShared         = entry{"mixed_shared", (*Engine).MixedShared}
)

// routes is the complete compatibility matrix. Pairs missing from it are
// rejected with ErrUnsupportedPairing.
var routes = map[route]entry{
	{features.KindSharedIndependent, kernels.KindSharedIndependent}: sharedIndependent,

	{features.KindSeparateIndependent, kernels.KindSeparateIndependent}: separateIndependent,
	{features.KindSharedIndependent, kernels.KindSeparateIndependent}:   separateIndependent,
	{features.KindSeparateIndependent, kernels.KindSharedIndependent}:   separateIndependent,

	{features.KindSharedIndependent, kernels.KindSeparateMixed}:   interdomain,
	{features.KindSeparateIndependent, kernels.KindSeparateMixed}: interdomain,

	{features.KindInducingPoints, kernels.KindSharedIndependent}:   fullyCorrelated,
	{features.KindInducingPoints, kernels.KindSeparateIndependent}: fullyCorrelated,
	{features.KindInducingPoints, kernels.KindSeparateMixed}:       fullyCorrelated,

	{features.KindMixedKernelShared, kernels.KindSeparateMixed}: mixedShared,
}

// Resolve returns the name and routine registered for a pairing.
func Resolve(fk features.Kind, kk kernels.Kind) (string, Routine, error) {
	e, ok := routes[route{fk, kk}]
	if !ok {
		return "", nil, fmt.Errorf("%s features with %s kernel: %w", fk, kk, ErrUnsupportedPairing)
	}
	return e.name, e.run, nil
}

// Pairings lists every registered pairing, ordered by feature then kernel kind.
func Pairings() []Pairing {
	out := make([]Pairing, 0, len(routes))
	for r, e := range routes {
		out = append(out, Pairing{Feature: r.feature, Kernel: r.kernel, Routine: e.name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Feature != out[j].Feature {
			return out[i].Feature < out[j].Feature
		}
		return out[i].Kernel < out[j].Kernel
	})
	return out
}

// Conditional resolves the routine for the kinds of feat and kern and runs it.
//
// The mean is N x P; the covariance follows the layout table on Options.
// Inconsistent shapes surface as an error matching tensor.ErrShapeMismatch.
func (e *Engine) Conditional(x *tensor.Dense, feat features.Feature, kern kernels.MultiOutput, f *tensor.Dense, opts Options) (mean, cov *tensor.Dense, err error) {
	defer tensor.Recover(&err)

	if feat == nil || kern == nil {
		return nil, nil, fmt.Errorf("conditional: nil feature or kernel: %w", ErrUnsupportedPairing)
	}
	name, run, err := Resolve(feat.Kind(), kern.Kind())
	if err != nil {
		return nil, nil, err
	}

	e.log.Debug("conditional",
		zap.String("routine", name),
		zap.Stringer("feature", feat.Kind()),
		zap.Stringer("kernel", kern.Kind()),
		zap.Ints("x", x.Shape()),
		zap.Ints("f", f.Shape()),
		zap.Bool("full_cov", opts.FullCov),
		zap.Bool("full_output_cov", opts.FullOutputCov),
		zap.Bool("white", opts.White),
		zap.Bool("q_sqrt", opts.QSqrt != nil),
	)

	mean, cov, err = run(e, x, feat, kern, f, opts)
	if err != nil {
		return nil, nil, err
	}
	e.log.Debug("conditional done",
		zap.String("routine", name),
		zap.Ints("mean", mean.Shape()),
		zap.Ints("cov", cov.Shape()),
	)
	return mean, cov, nil
}
