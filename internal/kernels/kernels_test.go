package kernels

import (
	"math"
	"testing"

	"github.com/born-ml/mogp/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func points(vals ...float64) *tensor.Dense {
	x, err := tensor.FromSlice(vals, tensor.Shape{len(vals), 1})
	if err != nil {
		panic(err)
	}
	return x
}

func TestStationaryKernels(t *testing.T) {
	x := points(0, 1)
	x2 := points(0, 2)

	tests := []struct {
		name string
		k    Kernel
		f    func(r float64) float64
	}{
		{"squared_exponential", NewSquaredExponential(2, 0.5), func(r float64) float64 {
			return 2 * math.Exp(-0.5*r*r)
		}},
		{"matern12", NewMatern12(2, 0.5), func(r float64) float64 {
			return 2 * math.Exp(-r)
		}},
		{"matern32", NewMatern32(2, 0.5), func(r float64) float64 {
			s := math.Sqrt(3) * r
			return 2 * (1 + s) * math.Exp(-s)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := tt.k.K(x, x2)
			require.Equal(t, tensor.Shape{2, 2}, k.Shape())
			for i, a := range []float64{0, 1} {
				for j, b := range []float64{0, 2} {
					assert.InDelta(t, tt.f(math.Abs(a-b)/0.5), k.At(i, j), 1e-12)
				}
			}
			assert.Equal(t, []float64{2, 2}, tt.k.Kdiag(x).Data())
		})
	}
}

func TestStationary_IdenticalPointsExact(t *testing.T) {
	x, err := tensor.FromSlice([]float64{0.3, -1.7, 0.3, -1.7}, tensor.Shape{2, 2})
	require.NoError(t, err)
	k := NewSquaredExponential(1.5, 0.8).K(x, x)
	assert.Equal(t, []float64{1.5, 1.5, 1.5, 1.5}, k.Data())
}

func TestAdd_Flattens(t *testing.T) {
	se := NewSquaredExponential(1, 1)
	c := NewConstant(0.5)
	sum := NewAdd(NewAdd(se, c), c)
	require.Len(t, sum.Parts(), 3)

	x := points(0, 1, 3)
	want := se.K(x, x).Add(tensor.Full(1, 3, 3))
	assert.InDeltaSlice(t, want.Data(), sum.K(x, x).Data(), 1e-12)
	assert.InDeltaSlice(t, []float64{2, 2, 2}, sum.Kdiag(x).Data(), 1e-12)
}

func TestIndependentLayouts(t *testing.T) {
	x := points(0, 0.5, 1)
	k1 := NewSquaredExponential(1, 1)
	k2 := NewMatern32(2, 0.7)

	tests := []struct {
		name string
		mok  Independent
		ks   []Kernel
	}{
		{"shared", NewSharedIndependent(k1, 2), []Kernel{k1, k1}},
		{"separate", NewSeparateIndependent(k1, k2), []Kernel{k1, k2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 2, tt.mok.NumOutputs())

			kp := tt.mok.K(x, x, false)
			require.Equal(t, tensor.Shape{2, 3, 3}, kp.Shape())
			kfull := tt.mok.K(x, x, true)
			require.Equal(t, tensor.Shape{3, 2, 3, 2}, kfull.Shape())
			for p := 0; p < 2; p++ {
				want := tt.ks[p].K(x, x)
				assert.InDeltaSlice(t, want.Data(), kp.Index(p).Data(), 1e-12)
				for i := 0; i < 3; i++ {
					for j := 0; j < 3; j++ {
						assert.InDelta(t, want.At(i, j), kfull.At(i, p, j, p), 1e-12)
						assert.Zero(t, kfull.At(i, p, j, 1-p))
					}
				}
			}

			kd := tt.mok.Kdiag(x, false)
			require.Equal(t, tensor.Shape{3, 2}, kd.Shape())
			kdFull := tt.mok.Kdiag(x, true)
			require.Equal(t, tensor.Shape{3, 2, 2}, kdFull.Shape())
			for i := 0; i < 3; i++ {
				for p := 0; p < 2; p++ {
					assert.InDelta(t, kp.At(p, i, i), kd.At(i, p), 1e-12)
					assert.InDelta(t, kd.At(i, p), kdFull.At(i, p, p), 1e-12)
				}
				assert.Zero(t, kdFull.At(i, 0, 1))
			}
		})
	}
}

func TestSeparateMixed(t *testing.T) {
	x := points(0, 0.4)
	g1 := NewSquaredExponential(1, 1)
	g2 := NewMatern12(0.5, 2)
	w, err := tensor.FromSlice([]float64{1, 0.5, -2, 1, 0, 3}, tensor.Shape{3, 2})
	require.NoError(t, err)
	mk := NewSeparateMixed(w, g1, g2)
	assert.Equal(t, 3, mk.NumOutputs())

	k1, k2 := g1.K(x, x), g2.K(x, x)
	full := mk.K(x, x, true)
	require.Equal(t, tensor.Shape{2, 3, 2, 3}, full.Shape())
	diagOut := mk.K(x, x, false)
	require.Equal(t, tensor.Shape{3, 2, 2}, diagOut.Shape())
	kdFull := mk.Kdiag(x, true)
	require.Equal(t, tensor.Shape{2, 3, 3}, kdFull.Shape())
	kd := mk.Kdiag(x, false)
	require.Equal(t, tensor.Shape{2, 3}, kd.Shape())

	for n := 0; n < 2; n++ {
		for n2 := 0; n2 < 2; n2++ {
			for p := 0; p < 3; p++ {
				for q := 0; q < 3; q++ {
					want := w.At(p, 0)*w.At(q, 0)*k1.At(n, n2) + w.At(p, 1)*w.At(q, 1)*k2.At(n, n2)
					assert.InDelta(t, want, full.At(n, p, n2, q), 1e-12)
					if n == n2 {
						assert.InDelta(t, want, kdFull.At(n, p, q), 1e-12)
					}
				}
				assert.InDelta(t, full.At(n, p, n2, p), diagOut.At(p, n, n2), 1e-12)
				if n == n2 {
					assert.InDelta(t, full.At(n, p, n, p), kd.At(n, p), 1e-12)
				}
			}
		}
	}
}

func TestMixingOuter(t *testing.T) {
	w, err := tensor.FromSlice([]float64{1, 2}, tensor.Shape{2, 1})
	require.NoError(t, err)
	ww := MixingOuter(w)
	require.Equal(t, tensor.Shape{1, 2, 2}, ww.Shape())
	assert.Equal(t, []float64{1, 2, 2, 4}, ww.Data())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "separate_mixed", KindSeparateMixed.String())
	assert.Equal(t, "unknown", Kind(42).String())
	assert.Len(t, Kinds, 3)
}
