package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charly3d/diplodatos/internal/backend/cpu"
	"github.com/charly3d/diplodatos/internal/tensor"
)

func TestLinearForwardShape(t *testing.T) {
	b := cpu.New()
	layer := NewLinear(4, 3, b)

	out := layer.Forward(tensor.Zeros(tensor.Shape{2, 4}))
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
}

func TestLinearForwardKnownValues(t *testing.T) {
	b := cpu.New()
	layer := NewLinear(2, 2, b)

	// y = x @ Wᵀ + b with W = [1 2; 3 4], b = [10, 20]
	copy(layer.Weight().Tensor().AsFloat32(), []float32{1, 2, 3, 4})
	copy(layer.Bias().Tensor().AsFloat32(), []float32{10, 20})

	out := layer.Forward(tensor.FromFloat32([]float32{1, 1}, tensor.Shape{1, 2}))
	assert.Equal(t, []float32{13, 27}, out.AsFloat32())
}

func TestLinearRejectsBadInput(t *testing.T) {
	b := cpu.New()
	layer := NewLinear(4, 3, b)

	assert.Panics(t, func() { layer.Forward(tensor.Zeros(tensor.Shape{4})) })
	assert.Panics(t, func() { layer.Forward(tensor.Zeros(tensor.Shape{2, 5})) })
}

func TestLinearParameters(t *testing.T) {
	b := cpu.New()
	layer := NewLinear(4, 3, b)

	params := layer.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, tensor.Shape{3, 4}, params[0].Tensor().Shape())
	assert.Equal(t, tensor.Shape{3}, params[1].Tensor().Shape())
}

func TestConv2DForwardShape(t *testing.T) {
	b := cpu.New()
	layer := NewConv2D(1, 6, 5, 5, 1, 0, b)

	out := layer.Forward(tensor.Zeros(tensor.Shape{2, 1, 28, 28}))
	assert.Equal(t, tensor.Shape{2, 6, 24, 24}, out.Shape())
}

func TestMaxPool2DForward(t *testing.T) {
	b := cpu.New()
	layer := NewMaxPool2D(2, b)

	out := layer.Forward(tensor.Zeros(tensor.Shape{1, 3, 8, 8}))
	assert.Equal(t, tensor.Shape{1, 3, 4, 4}, out.Shape())
	assert.Empty(t, layer.Parameters())
}

func TestMaxPool2DRectForward(t *testing.T) {
	b := cpu.New()
	layer := NewMaxPool2DRect(6, 1, b)

	out := layer.Forward(tensor.Zeros(tensor.Shape{2, 4, 6, 1}))
	assert.Equal(t, tensor.Shape{2, 4, 1, 1}, out.Shape())
}

func TestEmbeddingForward(t *testing.T) {
	b := cpu.New()
	layer := NewEmbedding(10, 4, b)

	out := layer.Forward(tensor.FromInt32([]int32{1, 5, 9}, tensor.Shape{3}))
	assert.Equal(t, tensor.Shape{3, 4}, out.Shape())
}

func TestEmbeddingZeroPadRow(t *testing.T) {
	b := cpu.New()
	layer := NewEmbedding(5, 3, b)
	layer.ZeroPadRow(0)

	out := layer.Forward(tensor.FromInt32([]int32{0}, tensor.Shape{1}))
	assert.Equal(t, []float32{0, 0, 0}, out.AsFloat32())
}

func TestEmbeddingFromMatrix(t *testing.T) {
	b := cpu.New()
	matrix := tensor.FromFloat32([]float32{0, 0, 1, 2, 3, 4}, tensor.Shape{3, 2})
	layer := NewEmbeddingFromMatrix(matrix, b)

	assert.Equal(t, 3, layer.NumEmbeddings())
	assert.Equal(t, 2, layer.EmbedDim())

	out := layer.Forward(tensor.FromInt32([]int32{2}, tensor.Shape{1}))
	assert.Equal(t, []float32{3, 4}, out.AsFloat32())
}

func TestSequential(t *testing.T) {
	b := cpu.New()
	model := NewSequential(
		NewLinear(4, 8, b),
		NewReLU(b),
		NewLinear(8, 2, b),
	)

	out := model.Forward(tensor.Zeros(tensor.Shape{3, 4}))
	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())
	assert.Len(t, model.Parameters(), 4)
}

func TestAccuracy(t *testing.T) {
	logits := tensor.FromFloat32([]float32{
		0.9, 0.1, // pred 0
		0.2, 0.8, // pred 1
		0.7, 0.3, // pred 0
		0.4, 0.6, // pred 1
	}, tensor.Shape{4, 2})
	targets := tensor.FromInt32([]int32{0, 1, 1, 1}, tensor.Shape{4})

	assert.InDelta(t, 0.75, Accuracy(logits, targets), 1e-6)
}

func TestNumParameters(t *testing.T) {
	b := cpu.New()
	layer := NewLinear(4, 3, b)
	// 4*3 weights + 3 biases
	assert.Equal(t, 15, NumParameters(layer))
}

func TestXavierInit(t *testing.T) {
	w := Xavier(100, 100, tensor.Shape{100, 100})
	data := w.AsFloat32()

	var mean float64
	for _, v := range data {
		mean += float64(v)
	}
	mean /= float64(len(data))
	assert.InDelta(t, 0, mean, 0.01)

	limit := float32(1.0) // well above sqrt(6/200)
	for _, v := range data {
		require.Less(t, absf(v), limit)
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
