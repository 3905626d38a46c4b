// Package features holds inducing-variable representations and the Kuu / Kuf
// covariances each (feature, kernel) pairing produces.
package features

import (
	"github.com/born-ml/mogp/internal/tensor"
)

// Kind identifies an inducing-feature representation.
type Kind int

// Inducing-feature representations.
const (
	KindInducingPoints      Kind = iota // One joint set over all outputs (fully correlated)
	KindSharedIndependent               // One set of points shared by every latent process
	KindSeparateIndependent             // One set of points per latent process
	KindMixedKernelShared               // Shared points, inducing outputs in the latent space of a mixed kernel
)

// Kinds lists every feature representation.
var Kinds = []Kind{KindInducingPoints, KindSharedIndependent, KindSeparateIndependent, KindMixedKernelShared}

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindInducingPoints:
		return "inducing_points"
	case KindSharedIndependent:
		return "shared_independent"
	case KindSeparateIndependent:
		return "separate_independent"
	case KindMixedKernelShared:
		return "mixed_kernel_shared"
	default:
		return "unknown"
	}
}

// Feature is an inducing-variable representation.
type Feature interface {
	Kind() Kind
	NumInducing() int
}

// Independent is a feature with one inducing set per latent process.
type Independent interface {
	Feature
	// PerLatent returns the inducing points of each of n latent processes.
	PerLatent(n int) []*InducingPoints
}

var (
	_ Feature     = (*InducingPoints)(nil)
	_ Independent = (*SharedIndependent)(nil)
	_ Independent = (*SeparateIndependent)(nil)
	_ Independent = (*MixedKernelShared)(nil)
)

// InducingPoints is a set of M inducing locations, M x D.
type InducingPoints struct {
	Z *tensor.Dense
}

func NewInducingPoints(z *tensor.Dense) *InducingPoints {
	if z.Rank() != 2 {
		tensor.Mismatch("inducing_points", "expected M x D, got %v", z.Shape())
	}
	return &InducingPoints{Z: z}
}

func (ip *InducingPoints) Kind() Kind       { return KindInducingPoints }
func (ip *InducingPoints) NumInducing() int { return ip.Z.Dim(0) }

// SharedIndependent uses the same inducing points for every latent process.
type SharedIndependent struct {
	Inducing *InducingPoints
}

func NewSharedIndependent(ip *InducingPoints) *SharedIndependent {
	return &SharedIndependent{Inducing: ip}
}

func (f *SharedIndependent) Kind() Kind       { return KindSharedIndependent }
func (f *SharedIndependent) NumInducing() int { return f.Inducing.NumInducing() }

func (f *SharedIndependent) PerLatent(n int) []*InducingPoints {
	return repeat(f.Inducing, n)
}

// SeparateIndependent has its own inducing points per latent process.
// Every set must have the same size M.
type SeparateIndependent struct {
	Inducing []*InducingPoints
}

func NewSeparateIndependent(ips ...*InducingPoints) *SeparateIndependent {
	return &SeparateIndependent{Inducing: ips}
}

func (f *SeparateIndependent) Kind() Kind       { return KindSeparateIndependent }
func (f *SeparateIndependent) NumInducing() int { return f.Inducing[0].NumInducing() }

func (f *SeparateIndependent) PerLatent(n int) []*InducingPoints {
	if len(f.Inducing) != n {
		tensor.Mismatch("separate_independent", "%d inducing sets for %d latent processes", len(f.Inducing), n)
	}
	return f.Inducing
}

// MixedKernelShared places shared inducing points in the latent space of a
// mixed kernel, so Kuf never touches the mixing matrix.
type MixedKernelShared struct {
	Inducing *InducingPoints
}

func NewMixedKernelShared(ip *InducingPoints) *MixedKernelShared {
	return &MixedKernelShared{Inducing: ip}
}

func (f *MixedKernelShared) Kind() Kind       { return KindMixedKernelShared }
func (f *MixedKernelShared) NumInducing() int { return f.Inducing.NumInducing() }

func (f *MixedKernelShared) PerLatent(n int) []*InducingPoints {
	return repeat(f.Inducing, n)
}

func repeat(ip *InducingPoints, n int) []*InducingPoints {
	out := make([]*InducingPoints, n)
	for i := range out {
		out[i] = ip
	}
	return out
}
