package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charly3d/diplodatos/internal/autodiff"
	"github.com/charly3d/diplodatos/internal/backend/cpu"
	"github.com/charly3d/diplodatos/internal/tensor"
)

func newBackend() *autodiff.Backend {
	return autodiff.New(cpu.New())
}

func seedOnes() *tensor.Tensor {
	return tensor.Ones(tensor.Shape{1})
}

func TestAddBackward(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := tensor.FromFloat32([]float32{1, 2}, tensor.Shape{2})
	y := tensor.FromFloat32([]float32{3, 4}, tensor.Shape{2})
	out := b.Add(x, y)

	grads := b.Tape().Backward(out, tensor.Ones(tensor.Shape{2}), b)
	require.Contains(t, grads, x)
	require.Contains(t, grads, y)
	assert.Equal(t, []float32{1, 1}, grads[x].AsFloat32())
	assert.Equal(t, []float32{1, 1}, grads[y].AsFloat32())
}

func TestAddBackwardBroadcast(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := tensor.Zeros(tensor.Shape{2, 3})
	bias := tensor.Zeros(tensor.Shape{1, 3})
	out := b.Add(x, bias)

	grads := b.Tape().Backward(out, tensor.Ones(tensor.Shape{2, 3}), b)
	// Bias gradient sums over the broadcast batch dimension.
	require.Contains(t, grads, bias)
	assert.Equal(t, tensor.Shape{1, 3}, grads[bias].Shape())
	assert.Equal(t, []float32{2, 2, 2}, grads[bias].AsFloat32())
}

func TestMulBackward(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := tensor.FromFloat32([]float32{2, 3}, tensor.Shape{2})
	y := tensor.FromFloat32([]float32{5, 7}, tensor.Shape{2})
	out := b.Mul(x, y)

	grads := b.Tape().Backward(out, tensor.Ones(tensor.Shape{2}), b)
	assert.Equal(t, []float32{5, 7}, grads[x].AsFloat32())
	assert.Equal(t, []float32{2, 3}, grads[y].AsFloat32())
}

func TestReLUBackward(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := tensor.FromFloat32([]float32{-1, 2, -3, 4}, tensor.Shape{4})
	out := b.ReLU(x)

	grads := b.Tape().Backward(out, tensor.Ones(tensor.Shape{4}), b)
	assert.Equal(t, []float32{0, 1, 0, 1}, grads[x].AsFloat32())
}

func TestMatMulBackward(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	// out = x @ y, gradOut = ones → gradX = ones @ yᵀ, gradY = xᵀ @ ones
	x := tensor.FromFloat32([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	y := tensor.FromFloat32([]float32{5, 6, 7, 8}, tensor.Shape{2, 2})
	out := b.MatMul(x, y)

	grads := b.Tape().Backward(out, tensor.Ones(tensor.Shape{2, 2}), b)
	assert.Equal(t, []float32{11, 15, 11, 15}, grads[x].AsFloat32())
	assert.Equal(t, []float32{4, 4, 6, 6}, grads[y].AsFloat32())
}

func TestCrossEntropyBackward(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	// Uniform logits over 2 classes, target 0:
	// grad = softmax - onehot = [0.5-1, 0.5] = [-0.5, 0.5]
	logits := tensor.Zeros(tensor.Shape{1, 2})
	targets := tensor.FromInt32([]int32{0}, tensor.Shape{1})
	loss := b.CrossEntropy(logits, targets)

	grads := b.Tape().Backward(loss, seedOnes(), b)
	require.Contains(t, grads, logits)
	g := grads[logits].AsFloat32()
	assert.InDelta(t, -0.5, g[0], 1e-6)
	assert.InDelta(t, 0.5, g[1], 1e-6)
}

func TestEmbeddingBackward(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	weight := tensor.Zeros(tensor.Shape{3, 2})
	indices := tensor.FromInt32([]int32{1, 1, 2}, tensor.Shape{3})
	out := b.Embedding(weight, indices)

	grads := b.Tape().Backward(out, tensor.Ones(tensor.Shape{3, 2}), b)
	require.Contains(t, grads, weight)
	// Row 1 was looked up twice, so its gradients accumulate.
	assert.Equal(t, []float32{0, 0, 2, 2, 1, 1}, grads[weight].AsFloat32())
}

func TestMaxPoolBackward(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	input := tensor.FromFloat32([]float32{1, 5, 3, 2}, tensor.Shape{1, 1, 2, 2})
	out := b.MaxPool2D(input, 2, 2, 2, 2)
	require.Equal(t, float32(5), out.Item())

	grads := b.Tape().Backward(out, tensor.Ones(tensor.Shape{1, 1, 1, 1}), b)
	// Only the argmax position receives gradient.
	assert.Equal(t, []float32{0, 1, 0, 0}, grads[input].AsFloat32())
}

func TestReshapeBackward(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := tensor.FromFloat32([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	out := b.Reshape(x, tensor.Shape{4})

	grads := b.Tape().Backward(out, tensor.FromFloat32([]float32{1, 2, 3, 4}, tensor.Shape{4}), b)
	assert.Equal(t, tensor.Shape{2, 2}, grads[x].Shape())
	assert.Equal(t, []float32{1, 2, 3, 4}, grads[x].AsFloat32())
}

// numericalGradient estimates dLoss/dParam[i] by central differences.
func numericalGradient(param []float32, i int, loss func() float32) float32 {
	const eps = 1e-2
	orig := param[i]

	param[i] = orig + eps
	plus := loss()
	param[i] = orig - eps
	minus := loss()
	param[i] = orig

	return (plus - minus) / (2 * eps)
}

func TestLinearLayerGradientCheck(t *testing.T) {
	b := newBackend()
	inner := cpu.New()

	// loss = CE(x @ Wᵀ + bias)
	x := tensor.FromFloat32([]float32{0.5, -0.3, 0.8, 0.1, 0.9, -0.4}, tensor.Shape{2, 3})
	weight := tensor.FromFloat32([]float32{0.2, -0.1, 0.4, -0.3, 0.5, 0.1}, tensor.Shape{2, 3})
	bias := tensor.FromFloat32([]float32{0.1, -0.2}, tensor.Shape{1, 2})
	targets := tensor.FromInt32([]int32{0, 1}, tensor.Shape{2})

	// Plain-backend forward for numeric evaluation.
	forward := func() float32 {
		wT := inner.Transpose(weight)
		logits := inner.Add(inner.MatMul(x, wT), bias)
		return inner.CrossEntropy(logits, targets).Item()
	}

	b.Tape().StartRecording()
	wT := b.Transpose(weight)
	logits := b.Add(b.MatMul(x, wT), bias)
	loss := b.CrossEntropy(logits, targets)
	grads := b.Tape().Backward(loss, seedOnes(), b)

	require.Contains(t, grads, weight)
	require.Contains(t, grads, bias)

	wGrad := grads[weight].AsFloat32()
	wData := weight.AsFloat32()
	for i := range wData {
		numeric := numericalGradient(wData, i, forward)
		assert.InDelta(t, numeric, wGrad[i], 1e-3, "weight grad %d", i)
	}

	bGrad := grads[bias].AsFloat32()
	bData := bias.AsFloat32()
	for i := range bData {
		numeric := numericalGradient(bData, i, forward)
		assert.InDelta(t, numeric, bGrad[i], 1e-3, "bias grad %d", i)
	}
}

func TestConv2DGradientCheck(t *testing.T) {
	b := newBackend()
	inner := cpu.New()

	input := tensor.FromFloat32([]float32{
		0.5, -0.2, 0.3,
		0.1, 0.8, -0.4,
		-0.6, 0.2, 0.7,
	}, tensor.Shape{1, 1, 3, 3})
	kernel := tensor.FromFloat32([]float32{0.3, -0.5, 0.2, 0.4}, tensor.Shape{1, 1, 2, 2})

	forward := func() float32 {
		out := inner.Conv2D(input, kernel, 1, 0)
		return inner.Sum(out).Item()
	}

	b.Tape().StartRecording()
	out := b.Conv2D(input, kernel, 1, 0)
	grads := b.Tape().Backward(out, tensor.Ones(out.Shape()), b)

	require.Contains(t, grads, kernel)
	kGrad := grads[kernel].AsFloat32()
	kData := kernel.AsFloat32()
	for i := range kData {
		numeric := numericalGradient(kData, i, forward)
		assert.InDelta(t, numeric, kGrad[i], 1e-3, "kernel grad %d", i)
	}

	require.Contains(t, grads, input)
	inGrad := grads[input].AsFloat32()
	inData := input.AsFloat32()
	for i := range inData {
		numeric := numericalGradient(inData, i, forward)
		assert.InDelta(t, numeric, inGrad[i], 1e-3, "input grad %d", i)
	}
}

func TestBackwardNotRecorded(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := tensor.FromFloat32([]float32{1, 2}, tensor.Shape{2})
	y := tensor.FromFloat32([]float32{3, 4}, tensor.Shape{2})
	out := b.Add(x, y)

	before := b.Tape().NumOps()
	b.Tape().Backward(out, tensor.Ones(tensor.Shape{2}), b)
	assert.Equal(t, before, b.Tape().NumOps())
	assert.True(t, b.Tape().IsRecording())
}

func TestRecordingToggle(t *testing.T) {
	b := newBackend()

	x := tensor.FromFloat32([]float32{1}, tensor.Shape{1})
	b.Add(x, x)
	assert.Equal(t, 0, b.Tape().NumOps())

	b.Tape().StartRecording()
	b.Add(x, x)
	assert.Equal(t, 1, b.Tape().NumOps())

	b.Tape().Clear()
	assert.Equal(t, 0, b.Tape().NumOps())
	assert.True(t, b.Tape().IsRecording())
}
