package tensor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arange(dims ...int) *Dense {
	t := Zeros(dims...)
	for i := range t.Data() {
		t.Data()[i] = float64(i)
	}
	return t
}

// shapePanic runs f and returns the recovered *ShapeError, if any.
func shapePanic(f func()) (err error) {
	defer Recover(&err)
	f()
	return nil
}

func TestFromSlice(t *testing.T) {
	x, err := FromSlice([]float64{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3}, x.Shape())
	assert.Equal(t, 6.0, x.At(1, 2))

	_, err = FromSlice([]float64{1, 2, 3}, Shape{2, 3})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestFromSlice_CopiesInput(t *testing.T) {
	data := []float64{1, 2}
	x, err := FromSlice(data, Shape{2})
	require.NoError(t, err)
	data[0] = 99
	assert.Equal(t, 1.0, x.At(0))
}

func TestReshape_IsView(t *testing.T) {
	x := arange(2, 3, 4)
	y := x.Reshape(6, -1)
	assert.Equal(t, Shape{6, 4}, y.Shape())

	y.Set(-1, 5, 3)
	assert.Equal(t, -1.0, x.At(1, 2, 3))
}

func TestReshape_Mismatch(t *testing.T) {
	err := shapePanic(func() { arange(2, 3).Reshape(4, 2) })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	var se *ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "reshape", se.Op)
}

func TestRecover_RepanicsOtherValues(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		_ = shapePanic(func() { panic("boom") })
	})
}

func TestTranspose(t *testing.T) {
	tests := []struct {
		name  string
		dims  []int
		axes  []int
		check func(t *testing.T, x, y *Dense)
	}{
		{
			name: "2D default",
			dims: []int{2, 3},
			check: func(t *testing.T, x, y *Dense) {
				assert.Equal(t, Shape{3, 2}, y.Shape())
				for i := 0; i < 2; i++ {
					for j := 0; j < 3; j++ {
						assert.Equal(t, x.At(i, j), y.At(j, i))
					}
				}
			},
		},
		{
			name: "4D permutation",
			dims: []int{2, 3, 4, 5},
			axes: []int{1, 0, 3, 2},
			check: func(t *testing.T, x, y *Dense) {
				assert.Equal(t, Shape{3, 2, 5, 4}, y.Shape())
				for a := 0; a < 2; a++ {
					for b := 0; b < 3; b++ {
						for c := 0; c < 4; c++ {
							for d := 0; d < 5; d++ {
								assert.Equal(t, x.At(a, b, c, d), y.At(b, a, d, c))
							}
						}
					}
				}
			},
		},
		{
			name: "3D rotate",
			dims: []int{2, 3, 4},
			axes: []int{2, 0, 1},
			check: func(t *testing.T, x, y *Dense) {
				assert.Equal(t, Shape{4, 2, 3}, y.Shape())
				assert.Equal(t, x.At(1, 2, 3), y.At(3, 1, 2))
				assert.Equal(t, x.At(0, 1, 2), y.At(2, 0, 1))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := arange(tt.dims...)
			tt.check(t, x, x.Transpose(tt.axes...))
		})
	}
}

func TestBatchMatMul(t *testing.T) {
	a := arange(2, 3, 4)
	b := arange(2, 4, 5)
	c := BatchMatMul(a, b, false, false)
	require.Equal(t, Shape{2, 3, 5}, c.Shape())

	for batch := 0; batch < 2; batch++ {
		for i := 0; i < 3; i++ {
			for j := 0; j < 5; j++ {
				want := 0.0
				for k := 0; k < 4; k++ {
					want += a.At(batch, i, k) * b.At(batch, k, j)
				}
				assert.InDelta(t, want, c.At(batch, i, j), 1e-9)
			}
		}
	}
}

func TestBatchMatMul_Transposed(t *testing.T) {
	a := arange(2, 4, 3)
	b := arange(2, 5, 4)
	got := BatchMatMul(a, b, true, true)
	want := BatchMatMul(a.Transpose(0, 2, 1), b.Transpose(0, 2, 1), false, false)
	assert.InDeltaSlice(t, want.Data(), got.Data(), 1e-9)
}

func TestBatchMatMul_InnerMismatch(t *testing.T) {
	err := shapePanic(func() { BatchMatMul(arange(2, 3, 4), arange(2, 3, 5), false, false) })
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestMatMul(t *testing.T) {
	a := arange(3, 2)
	got := MatMul(a, a, true, false)
	require.Equal(t, Shape{2, 2}, got.Shape())
	// a = [[0 1] [2 3] [4 5]]
	assert.Equal(t, []float64{20, 26, 26, 35}, got.Data())
}

func TestBandLower(t *testing.T) {
	x := Full(1, 2, 3, 3)
	y := x.BandLower()
	for b := 0; b < 2; b++ {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				want := 1.0
				if j > i {
					want = 0
				}
				assert.Equal(t, want, y.At(b, i, j))
			}
		}
	}
	assert.Equal(t, 1.0, x.At(0, 0, 2), "input must not be modified")
}

func TestAddDiag(t *testing.T) {
	x := Zeros(2, 2, 2).AddDiag(0.5)
	assert.Equal(t, []float64{0.5, 0, 0, 0.5, 0.5, 0, 0, 0.5}, x.Data())
}

func TestElementwise(t *testing.T) {
	x := arange(2, 2)
	y := Full(1, 2, 2)

	assert.Equal(t, []float64{1, 2, 3, 4}, x.Add(y).Data())
	assert.Equal(t, []float64{-1, 0, 1, 2}, x.Sub(y).Data())
	assert.Equal(t, []float64{0, 2, 4, 6}, x.Scale(2).Data())
	assert.Equal(t, []float64{0, 1, 4, 9}, x.Square().Data())
	assert.Equal(t, []float64{0, 1, 2, 3}, x.Data(), "non in-place ops must not modify the receiver")

	err := shapePanic(func() { x.Add(Zeros(4)) })
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestTileStackIndex(t *testing.T) {
	x := arange(2, 3)
	tiled := x.Tile(3)
	require.Equal(t, Shape{3, 2, 3}, tiled.Shape())
	for r := 0; r < 3; r++ {
		assert.Equal(t, x.Data(), tiled.Index(r).Data())
	}

	stacked := Stack([]*Dense{x, x.Scale(2)})
	require.Equal(t, Shape{2, 2, 3}, stacked.Shape())
	assert.Equal(t, 10.0, stacked.At(1, 1, 2))

	col := x.Col(1)
	assert.Equal(t, Shape{2, 1}, col.Shape())
	assert.Equal(t, []float64{1, 4}, col.Data())
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "2 x 3 x 4", Shape{2, 3, 4}.String())
	assert.Equal(t, "scalar", Shape{}.String())
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
}
