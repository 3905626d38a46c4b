// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"errors"
	"testing"

	"github.com/born-ml/mogp/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicAPI(t *testing.T) {
	a, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)

	prod := tensor.MatMul(a, tensor.Eye(2), false, false)
	assert.Equal(t, a.Data(), prod.Data())

	stacked := tensor.Stack([]*tensor.Dense{a, tensor.Full(2, 2, 2)})
	assert.Equal(t, tensor.Shape{2, 2, 2}, stacked.Shape())
	assert.Equal(t, 2.0, stacked.At(1, 0, 1))

	batch := tensor.BatchMatMul(stacked, stacked, false, true)
	assert.Equal(t, 8.0, batch.At(1, 1, 1))

	assert.Equal(t, 0.0, tensor.Zeros(3).At(2))
	assert.Equal(t, tensor.Shape{2, 3}, tensor.New(tensor.Shape{2, 3}, nil).Shape())
}

func TestPublicAPI_ShapeError(t *testing.T) {
	_, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{2, 2})
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

	assert.PanicsWithError(t, "matmul: shape mismatch: expected rank 2, got shape 3", func() {
		tensor.MatMul(tensor.Zeros(3), tensor.Eye(3), false, false)
	})
}
