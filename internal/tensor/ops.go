package tensor

import (
	"github.com/viterin/vek"
)

// Transpose returns a copy with its dimensions permuted by axes.
// With no axes all dimensions are reversed.
func (t *Dense) Transpose(axes ...int) *Dense {
	ndim := len(t.shape)

	// Default: reverse all dimensions
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		Mismatch("transpose", "axes length %d != ndim %d", len(axes), ndim)
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			Mismatch("transpose", "invalid permutation %v for %dD tensor", axes, ndim)
		}
		seen[ax] = true
	}

	newShape := make(Shape, ndim)
	for i, ax := range axes {
		newShape[i] = t.shape[ax]
	}
	result := New(newShape, nil)

	// Walk the destination in order; srcStep[d] is the source stride of
	// destination axis d.
	srcStep := make([]int, ndim)
	for d, ax := range axes {
		srcStep[d] = t.stride[ax]
	}
	coords := make([]int, ndim)
	src := 0
	for i := range result.data {
		result.data[i] = t.data[src]
		for d := ndim - 1; d >= 0; d-- {
			coords[d]++
			src += srcStep[d]
			if coords[d] < newShape[d] {
				break
			}
			src -= coords[d] * srcStep[d]
			coords[d] = 0
		}
	}
	return result
}

// Add returns t + other. Shapes must be equal.
func (t *Dense) Add(other *Dense) *Dense {
	return t.Clone().AddInPlace(other)
}

// Sub returns t - other. Shapes must be equal.
func (t *Dense) Sub(other *Dense) *Dense {
	return t.Clone().SubInPlace(other)
}

// AddInPlace adds other into t and returns t.
func (t *Dense) AddInPlace(other *Dense) *Dense {
	t.mustMatch("add", other)
	vek.Add_Inplace(t.data, other.data)
	return t
}

// SubInPlace subtracts other from t and returns t.
func (t *Dense) SubInPlace(other *Dense) *Dense {
	t.mustMatch("sub", other)
	vek.Sub_Inplace(t.data, other.data)
	return t
}

// Scale returns alpha * t.
func (t *Dense) Scale(alpha float64) *Dense {
	out := t.Clone()
	vek.MulNumber_Inplace(out.data, alpha)
	return out
}

// Square returns the element-wise square of t.
func (t *Dense) Square() *Dense {
	out := t.Clone()
	vek.Mul_Inplace(out.data, t.data)
	return out
}

// BandLower returns a copy of t with every element above the diagonal of the
// trailing two axes set to zero.
func (t *Dense) BandLower() *Dense {
	if len(t.shape) < 2 {
		Mismatch("band_lower", "expected rank >= 2, got shape %v", t.shape)
	}
	rows, cols := t.shape[len(t.shape)-2], t.shape[len(t.shape)-1]
	out := t.Clone()
	for b := 0; b < len(out.data); b += rows * cols {
		block := out.data[b : b+rows*cols]
		for i := 0; i < rows; i++ {
			for j := i + 1; j < cols; j++ {
				block[i*cols+j] = 0
			}
		}
	}
	return out
}

// AddDiag adds v to the diagonal of every trailing square matrix of t, in place.
func (t *Dense) AddDiag(v float64) *Dense {
	if len(t.shape) < 2 || t.shape[len(t.shape)-1] != t.shape[len(t.shape)-2] {
		Mismatch("add_diag", "expected trailing square matrices, got shape %v", t.shape)
	}
	n := t.shape[len(t.shape)-1]
	for b := 0; b < len(t.data); b += n * n {
		for i := 0; i < n; i++ {
			t.data[b+i*n+i] += v
		}
	}
	return t
}

// DiagEmbed places the last axis of t on the diagonal of a new trailing
// square: [..., K] -> [..., K, K].
func (t *Dense) DiagEmbed() *Dense {
	if len(t.shape) == 0 {
		Mismatch("diag_embed", "expected rank >= 1, got a scalar")
	}
	k := t.shape[len(t.shape)-1]
	out := New(append(t.shape.Clone(), k), nil)
	for i, v := range t.data {
		row, j := i/k, i%k
		out.data[(row*k+j)*k+j] = v
	}
	return out
}

// Tile returns a tensor with a new leading axis holding r copies of t.
func (t *Dense) Tile(r int) *Dense {
	shape := append(Shape{r}, t.shape...)
	out := New(shape, nil)
	size := len(t.data)
	for i := 0; i < r; i++ {
		copy(out.data[i*size:(i+1)*size], t.data)
	}
	return out
}

// Stack joins tensors of identical shape along a new leading axis.
func Stack(ts []*Dense) *Dense {
	if len(ts) == 0 {
		Mismatch("stack", "no tensors to stack")
	}
	for _, x := range ts[1:] {
		ts[0].mustMatch("stack", x)
	}
	shape := append(Shape{len(ts)}, ts[0].shape...)
	out := New(shape, nil)
	size := len(ts[0].data)
	for i, x := range ts {
		copy(out.data[i*size:(i+1)*size], x.data)
	}
	return out
}

func (t *Dense) mustMatch(op string, other *Dense) {
	if !t.shape.Equal(other.shape) {
		Mismatch(op, "%v vs %v", t.shape, other.shape)
	}
}
