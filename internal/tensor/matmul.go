package tensor

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// MatMul returns op(a) @ op(b) for rank-2 tensors, where op transposes its
// operand when the matching flag is set.
func MatMul(a, b *Dense, transA, transB bool) *Dense {
	a.mustRank("matmul", 2)
	b.mustRank("matmul", 2)
	return BatchMatMul(a.Reshape(append(Shape{1}, a.shape...)...),
		b.Reshape(append(Shape{1}, b.shape...)...), transA, transB).Index(0)
}

// BatchMatMul performs batched matrix multiplication.
//
// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N]
// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
//
// The last two dimensions are treated as matrix dimensions and are transposed
// before the product when transA / transB is set. All leading dimensions must
// match (batch dimensions).
func BatchMatMul(a, b *Dense, transA, transB bool) *Dense {
	aShape := a.shape
	bShape := b.shape
	ndim := len(aShape)

	if ndim < 3 {
		Mismatch("batch_matmul", "inputs must be at least 3D, got %v", aShape)
	}
	if len(bShape) != ndim {
		Mismatch("batch_matmul", "rank mismatch: %v vs %v", aShape, bShape)
	}
	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			Mismatch("batch_matmul", "batch dimension %d: %v vs %v", i, aShape, bShape)
		}
	}

	// Stored matrix dimensions
	ar, ac := aShape[ndim-2], aShape[ndim-1]
	br, bc := bShape[ndim-2], bShape[ndim-1]

	m, k1 := ar, ac
	tA := blas.NoTrans
	if transA {
		m, k1 = ac, ar
		tA = blas.Trans
	}
	k2, n := br, bc
	tB := blas.NoTrans
	if transB {
		k2, n = bc, br
		tB = blas.Trans
	}
	if k1 != k2 {
		Mismatch("batch_matmul", "inner dimension mismatch: %v (trans=%t) vs %v (trans=%t)",
			aShape, transA, bShape, transB)
	}

	batchSize := 1
	for i := 0; i < ndim-2; i++ {
		batchSize *= aShape[i]
	}

	outShape := make(Shape, ndim)
	copy(outShape, aShape[:ndim-2])
	outShape[ndim-2] = m
	outShape[ndim-1] = n
	result := New(outShape, nil)

	sizeA, sizeB, sizeC := ar*ac, br*bc, m*n
	for batch := 0; batch < batchSize; batch++ {
		blas64.Gemm(tA, tB, 1,
			blas64.General{Rows: ar, Cols: ac, Stride: ac, Data: a.data[batch*sizeA : (batch+1)*sizeA]},
			blas64.General{Rows: br, Cols: bc, Stride: bc, Data: b.data[batch*sizeB : (batch+1)*sizeB]},
			0,
			blas64.General{Rows: m, Cols: n, Stride: n, Data: result.data[batch*sizeC : (batch+1)*sizeC]},
		)
	}
	return result
}
