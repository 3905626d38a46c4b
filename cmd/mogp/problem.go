package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/born-ml/mogp/conditionals"
	"github.com/born-ml/mogp/features"
	"github.com/born-ml/mogp/kernels"
	"github.com/born-ml/mogp/tensor"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var errInvalidProblem = errors.New("invalid problem")

// Problem is the YAML description of one conditional evaluation.
type Problem struct {
	X        [][]float64     `yaml:"x"`
	Inducing InducingSpec    `yaml:"inducing"`
	Kernel   MultiKernelSpec `yaml:"kernel"`
	F        [][]float64     `yaml:"f"`

	// At most one of QSqrt (R x M x M) and QDiag (M x R) may be set.
	QSqrt [][][]float64 `yaml:"q_sqrt,omitempty"`
	QDiag [][]float64   `yaml:"q_diag,omitempty"`

	White         bool `yaml:"white"`
	FullCov       bool `yaml:"full_cov"`
	FullOutputCov bool `yaml:"full_output_cov"`

	// Numerics overrides the engine defaults field by field.
	Numerics conditionals.Config `yaml:"numerics"`
}

// InducingSpec describes the inducing features. Z is used by every kind
// except separate_independent, which takes one set per output in Sets.
type InducingSpec struct {
	Kind string        `yaml:"kind"`
	Z    [][]float64   `yaml:"z,omitempty"`
	Sets [][][]float64 `yaml:"sets,omitempty"`
}

// KernelSpec describes a single-output kernel. Type "sum" adds its Parts.
type KernelSpec struct {
	Type        string       `yaml:"type"`
	Variance    float64      `yaml:"variance"`
	Lengthscale float64      `yaml:"lengthscale"`
	Parts       []KernelSpec `yaml:"parts,omitempty"`
}

// MultiKernelSpec describes a multi-output kernel. Outputs is read by
// shared_independent and the P x L mixing matrix W by separate_mixed.
type MultiKernelSpec struct {
	Kind    string       `yaml:"kind"`
	Outputs int          `yaml:"outputs,omitempty"`
	Kernels []KernelSpec `yaml:"kernels"`
	W       [][]float64  `yaml:"w,omitempty"`
}

// Array is a tensor as written to the output.
type Array struct {
	Shape []int     `yaml:"shape,flow"`
	Data  []float64 `yaml:"data,flow"`
}

// Result is the output of predict.
type Result struct {
	Routine string `yaml:"routine"`
	Mean    Array  `yaml:"mean"`
	Cov     Array  `yaml:"cov"`
}

func loadProblem(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem: %w", err)
	}
	return parseProblem(data)
}

func parseProblem(data []byte) (*Problem, error) {
	p := &Problem{Numerics: conditionals.DefaultConfig()}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse problem: %w", err)
	}
	return p, nil
}

// Solve builds the inputs and runs the conditional.
func (p *Problem) Solve(logger *zap.Logger) (*Result, error) {
	x, err := matrixFrom("x", p.X)
	if err != nil {
		return nil, err
	}
	f, err := matrixFrom("f", p.F)
	if err != nil {
		return nil, err
	}
	feat, err := p.Inducing.build()
	if err != nil {
		return nil, err
	}
	kern, err := p.Kernel.build()
	if err != nil {
		return nil, err
	}

	opts := conditionals.Options{FullCov: p.FullCov, FullOutputCov: p.FullOutputCov, White: p.White}
	switch {
	case p.QSqrt != nil && p.QDiag != nil:
		return nil, fmt.Errorf("q_sqrt and q_diag are exclusive: %w", errInvalidProblem)
	case p.QSqrt != nil:
		if opts.QSqrt, err = cubeFrom("q_sqrt", p.QSqrt); err != nil {
			return nil, err
		}
	case p.QDiag != nil:
		if opts.QSqrt, err = matrixFrom("q_diag", p.QDiag); err != nil {
			return nil, err
		}
	}

	routine, _, err := conditionals.Resolve(feat.Kind(), kern.Kind())
	if err != nil {
		return nil, err
	}
	logger.Info("evaluating conditional",
		zap.String("routine", routine),
		zap.Int("points", x.Dim(0)),
		zap.Int("outputs", kern.NumOutputs()),
		zap.Int("inducing", feat.NumInducing()),
	)

	cfg := p.Numerics
	cfg.Logger = logger
	mean, cov, err := conditionals.NewEngine(cfg).Conditional(x, feat, kern, f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", routine, err)
	}
	return &Result{Routine: routine, Mean: arrayOf(mean), Cov: arrayOf(cov)}, nil
}

func (s InducingSpec) build() (features.Feature, error) {
	switch s.Kind {
	case features.KindSeparateIndependent.String():
		if len(s.Sets) == 0 {
			return nil, fmt.Errorf("inducing: %s needs sets: %w", s.Kind, errInvalidProblem)
		}
		ips := make([]*features.InducingPoints, len(s.Sets))
		for i, set := range s.Sets {
			z, err := matrixFrom(fmt.Sprintf("inducing.sets[%d]", i), set)
			if err != nil {
				return nil, err
			}
			ips[i] = features.NewInducingPoints(z)
		}
		for _, ip := range ips[1:] {
			if ip.NumInducing() != ips[0].NumInducing() || ip.Z.Dim(1) != ips[0].Z.Dim(1) {
				return nil, fmt.Errorf("inducing: sets differ in shape: %w", errInvalidProblem)
			}
		}
		return features.NewSeparateIndependent(ips...), nil
	}

	z, err := matrixFrom("inducing.z", s.Z)
	if err != nil {
		return nil, err
	}
	ip := features.NewInducingPoints(z)
	switch s.Kind {
	case features.KindInducingPoints.String():
		return ip, nil
	case features.KindSharedIndependent.String():
		return features.NewSharedIndependent(ip), nil
	case features.KindMixedKernelShared.String():
		return features.NewMixedKernelShared(ip), nil
	default:
		return nil, fmt.Errorf("inducing: unknown kind %q: %w", s.Kind, errInvalidProblem)
	}
}

func (s MultiKernelSpec) build() (kernels.MultiOutput, error) {
	if len(s.Kernels) == 0 {
		return nil, fmt.Errorf("kernel: no kernels: %w", errInvalidProblem)
	}
	ks := make([]kernels.Kernel, len(s.Kernels))
	for i, spec := range s.Kernels {
		k, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("kernel.kernels[%d]: %w", i, err)
		}
		ks[i] = k
	}

	switch s.Kind {
	case kernels.KindSharedIndependent.String():
		if len(ks) != 1 || s.Outputs < 1 {
			return nil, fmt.Errorf("kernel: %s takes one kernel and outputs >= 1: %w", s.Kind, errInvalidProblem)
		}
		return kernels.NewSharedIndependent(ks[0], s.Outputs), nil
	case kernels.KindSeparateIndependent.String():
		return kernels.NewSeparateIndependent(ks...), nil
	case kernels.KindSeparateMixed.String():
		w, err := matrixFrom("kernel.w", s.W)
		if err != nil {
			return nil, err
		}
		if w.Dim(1) != len(ks) {
			return nil, fmt.Errorf("kernel: w has %d columns for %d kernels: %w", w.Dim(1), len(ks), errInvalidProblem)
		}
		return kernels.NewSeparateMixed(w, ks...), nil
	default:
		return nil, fmt.Errorf("kernel: unknown kind %q: %w", s.Kind, errInvalidProblem)
	}
}

func (s KernelSpec) build() (kernels.Kernel, error) {
	switch s.Type {
	case "sum":
		if len(s.Parts) < 2 {
			return nil, fmt.Errorf("sum needs at least two parts: %w", errInvalidProblem)
		}
		acc, err := s.Parts[0].build()
		if err != nil {
			return nil, err
		}
		for _, part := range s.Parts[1:] {
			k, err := part.build()
			if err != nil {
				return nil, err
			}
			acc = kernels.NewAdd(acc, k)
		}
		return acc, nil
	case "constant":
		return kernels.NewConstant(s.Variance), nil
	}

	newKernel, ok := stationaryKernels[s.Type]
	if !ok {
		return nil, fmt.Errorf("unknown kernel type %q: %w", s.Type, errInvalidProblem)
	}
	if s.Variance <= 0 || s.Lengthscale <= 0 {
		return nil, fmt.Errorf("%s: variance and lengthscale must be positive: %w", s.Type, errInvalidProblem)
	}
	return newKernel(s.Variance, s.Lengthscale), nil
}

var stationaryKernels = map[string]func(variance, lengthscale float64) kernels.Kernel{
	"squared_exponential": func(v, l float64) kernels.Kernel { return kernels.NewSquaredExponential(v, l) },
	"rbf":                 func(v, l float64) kernels.Kernel { return kernels.NewSquaredExponential(v, l) },
	"matern12":            func(v, l float64) kernels.Kernel { return kernels.NewMatern12(v, l) },
	"matern32":            func(v, l float64) kernels.Kernel { return kernels.NewMatern32(v, l) },
}

func matrixFrom(name string, rows [][]float64) (*tensor.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%s: empty matrix: %w", name, errInvalidProblem)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%s: row %d has %d values, want %d: %w", name, i, len(row), cols, errInvalidProblem)
		}
		data = append(data, row...)
	}
	return tensor.FromSlice(data, tensor.Shape{len(rows), cols})
}

func cubeFrom(name string, blocks [][][]float64) (*tensor.Dense, error) {
	mats := make([]*tensor.Dense, len(blocks))
	for i, b := range blocks {
		m, err := matrixFrom(fmt.Sprintf("%s[%d]", name, i), b)
		if err != nil {
			return nil, err
		}
		if i > 0 && !m.Shape().Equal(mats[0].Shape()) {
			return nil, fmt.Errorf("%s: block %d is %v, want %v: %w", name, i, m.Shape(), mats[0].Shape(), errInvalidProblem)
		}
		mats[i] = m
	}
	if len(mats) == 0 {
		return nil, fmt.Errorf("%s: empty: %w", name, errInvalidProblem)
	}
	return tensor.Stack(mats), nil
}

func arrayOf(t *tensor.Dense) Array {
	data := make([]float64, t.NumElements())
	copy(data, t.Data())
	return Array{Shape: t.Shape(), Data: data}
}
