package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
)

// Dense is a row-major float64 tensor.
//
// Views returned by Reshape and Index share the backing slice with their
// parent; every other operation allocates a fresh result.
//
// Example:
//
//	t := tensor.Zeros(2, 3, 4)
//	t.Set(1.5, 0, 2, 3)
//	m := t.Reshape(6, 4) // view, same data
type Dense struct {
	shape  Shape
	stride []int
	data   []float64
}

// New creates a tensor with the given shape backed by data.
// A nil data slice allocates zeros. Panics if len(data) does not match shape.
func New(shape Shape, data []float64) *Dense {
	if err := shape.Validate(); err != nil {
		Mismatch("new", "invalid shape %v: %v", shape, err)
	}
	n := shape.NumElements()
	if data == nil {
		data = make([]float64, n)
	}
	if len(data) != n {
		Mismatch("new", "shape %v requires %d elements, got %d", shape, n, len(data))
	}
	return &Dense{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		data:   data,
	}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d: %w",
			shape, shape.NumElements(), len(data), ErrShapeMismatch)
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return New(shape, buf), nil
}

// Zeros creates a tensor filled with zeros.
func Zeros(dims ...int) *Dense {
	return New(Shape(dims), nil)
}

// Full creates a tensor filled with value.
func Full(value float64, dims ...int) *Dense {
	t := Zeros(dims...)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Eye returns the n x n identity matrix.
func Eye(n int) *Dense {
	t := Zeros(n, n)
	for i := 0; i < n; i++ {
		t.data[i*n+i] = 1
	}
	return t
}

// Shape returns the tensor's shape.
func (t *Dense) Shape() Shape {
	return t.shape
}

// Rank returns the number of dimensions.
func (t *Dense) Rank() int {
	return len(t.shape)
}

// Dim returns the size of dimension i. Negative i counts from the end.
func (t *Dense) Dim(i int) int {
	if i < 0 {
		i += len(t.shape)
	}
	if i < 0 || i >= len(t.shape) {
		Mismatch("dim", "axis %d out of range for shape %v", i, t.shape)
	}
	return t.shape[i]
}

// NumElements returns the total number of elements.
func (t *Dense) NumElements() int {
	return len(t.data)
}

// Data returns the backing slice (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Dense) Data() []float64 {
	return t.data
}

func (t *Dense) offset(op string, indices []int) int {
	if len(indices) != len(t.shape) {
		Mismatch(op, "expected %d indices, got %d", len(t.shape), len(indices))
	}
	off := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			Mismatch(op, "index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i])
		}
		off += idx * t.stride[i]
	}
	return off
}

// At returns the element at the given indices.
func (t *Dense) At(indices ...int) float64 {
	return t.data[t.offset("at", indices)]
}

// Set sets the element at the given indices.
func (t *Dense) Set(value float64, indices ...int) {
	t.data[t.offset("set", indices)] = value
}

// Clone creates a deep copy of the tensor.
func (t *Dense) Clone() *Dense {
	buf := make([]float64, len(t.data))
	copy(buf, t.data)
	return New(t.shape, buf)
}

// Reshape returns a view with the same data and a new shape.
// One dimension may be -1, in which case it is inferred.
func (t *Dense) Reshape(dims ...int) *Dense {
	shape := Shape(dims).Clone()
	infer := -1
	known := 1
	for i, d := range shape {
		if d == -1 {
			if infer >= 0 {
				Mismatch("reshape", "more than one inferred dimension in %v", dims)
			}
			infer = i
			continue
		}
		known *= d
	}
	if infer >= 0 && known > 0 && len(t.data)%known == 0 {
		shape[infer] = len(t.data) / known
	}
	if err := shape.Validate(); err != nil || shape.NumElements() != len(t.data) {
		Mismatch("reshape", "cannot reshape %v into %v", t.shape, dims)
	}
	return New(shape, t.data)
}

// Index returns a view of the sub-tensor at position i of the leading axis.
func (t *Dense) Index(i int) *Dense {
	if len(t.shape) == 0 || i < 0 || i >= t.shape[0] {
		Mismatch("index", "index %d out of range for shape %v", i, t.shape)
	}
	sub := t.shape[1:]
	size := sub.NumElements()
	return New(sub, t.data[i*size:(i+1)*size])
}

// Col returns a copy of column j of a matrix as an R x 1 matrix.
func (t *Dense) Col(j int) *Dense {
	t.mustRank("col", 2)
	rows, cols := t.shape[0], t.shape[1]
	if j < 0 || j >= cols {
		Mismatch("col", "column %d out of range for shape %v", j, t.shape)
	}
	out := Zeros(rows, 1)
	for i := 0; i < rows; i++ {
		out.data[i] = t.data[i*cols+j]
	}
	return out
}

// Matrix returns a blas64 view of a rank-2 tensor.
func (t *Dense) Matrix() blas64.General {
	t.mustRank("matrix", 2)
	return blas64.General{
		Rows:   t.shape[0],
		Cols:   t.shape[1],
		Stride: t.shape[1],
		Data:   t.data,
	}
}

// String returns a human-readable representation of the tensor.
func (t *Dense) String() string {
	return fmt.Sprintf("Tensor[float64](%v)", t.shape)
}

func (t *Dense) mustRank(op string, rank int) {
	if len(t.shape) != rank {
		Mismatch(op, "expected rank %d, got shape %v", rank, t.shape)
	}
}
