package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charly3d/diplodatos/internal/autodiff"
	"github.com/charly3d/diplodatos/internal/backend/cpu"
	"github.com/charly3d/diplodatos/internal/tensor"
	"github.com/charly3d/diplodatos/internal/text"
)

func TestImageCNNForwardShape(t *testing.T) {
	b := cpu.New()
	model := NewImageCNN(ImageCNNConfig{}, b)

	out := model.Forward(tensor.Zeros(tensor.Shape{2, 784}))
	assert.Equal(t, tensor.Shape{2, 10}, out.Shape())
}

func TestImageCNNDefaults(t *testing.T) {
	b := cpu.New()
	model := NewImageCNN(ImageCNNConfig{}, b)

	cfg := model.Config()
	assert.Equal(t, 1, cfg.Channels)
	assert.Equal(t, 28, cfg.Height)
	assert.Equal(t, 28, cfg.Width)
	assert.Equal(t, 10, cfg.NumClasses)
}

func TestImageCNNParameters(t *testing.T) {
	b := cpu.New()
	model := NewImageCNN(ImageCNNConfig{}, b)

	// conv1 w+b, conv2 w+b, fc1 w+b, fc2 w+b, fc3 w+b
	assert.Len(t, model.Parameters(), 10)
}

func TestImageCNNTooSmall(t *testing.T) {
	b := cpu.New()
	assert.Panics(t, func() {
		NewImageCNN(ImageCNNConfig{Height: 8, Width: 8}, b)
	})
}

func TestImageCNNTrainable(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := NewImageCNN(ImageCNNConfig{Height: 20, Width: 20, NumClasses: 2}, backend)

	backend.Tape().StartRecording()
	logits := model.Forward(tensor.Randn(tensor.Shape{2, 400}))
	targets := tensor.FromInt32([]int32{0, 1}, tensor.Shape{2})
	loss := backend.CrossEntropy(logits, targets)

	grads := backend.Tape().Backward(loss, tensor.Ones(tensor.Shape{1}), backend)

	// Every parameter participates in the forward pass.
	for _, p := range model.Parameters() {
		assert.Contains(t, grads, p.Tensor(), "missing gradient for %s", p.Name())
	}
}

func TestTextCNNForwardShape(t *testing.T) {
	b := cpu.New()
	model := NewTextCNN(TextCNNConfig{
		VocabSize:  50,
		EmbedDim:   8,
		NumFilters: 4,
		KernelSize: 3,
		SeqLen:     10,
		NumClasses: 2,
	}, b)

	input := tensor.FromInt32(make([]int32, 2*10), tensor.Shape{2, 10})
	out := model.Forward(input)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
}

func TestTextCNNPadEmbeddingZeroed(t *testing.T) {
	b := cpu.New()
	model := NewTextCNN(TextCNNConfig{
		VocabSize:  10,
		EmbedDim:   4,
		SeqLen:     5,
		NumClasses: 2,
	}, b)

	weight := model.Embedding().Weight().Tensor().AsFloat32()
	for i := 0; i < 4; i++ {
		assert.Equal(t, float32(0), weight[text.PadID*4+i])
	}
}

func TestTextCNNPretrained(t *testing.T) {
	b := cpu.New()
	matrix := tensor.Randn(tensor.Shape{20, 6})
	model := NewTextCNN(TextCNNConfig{
		SeqLen:     8,
		NumClasses: 3,
		Pretrained: matrix,
	}, b)

	cfg := model.Config()
	assert.Equal(t, 20, cfg.VocabSize)
	assert.Equal(t, 6, cfg.EmbedDim)

	input := tensor.FromInt32(make([]int32, 8), tensor.Shape{1, 8})
	out := model.Forward(input)
	assert.Equal(t, tensor.Shape{1, 3}, out.Shape())
}

func TestTextCNNValidation(t *testing.T) {
	b := cpu.New()
	assert.Panics(t, func() { NewTextCNN(TextCNNConfig{VocabSize: 10}, b) })
	assert.Panics(t, func() { NewTextCNN(TextCNNConfig{NumClasses: 2}, b) })
	assert.Panics(t, func() {
		NewTextCNN(TextCNNConfig{VocabSize: 10, NumClasses: 2, SeqLen: 2, KernelSize: 5}, b)
	})
}

func TestTextCNNTrainable(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := NewTextCNN(TextCNNConfig{
		VocabSize:  15,
		EmbedDim:   4,
		NumFilters: 3,
		KernelSize: 2,
		SeqLen:     6,
		NumClasses: 2,
	}, backend)

	backend.Tape().StartRecording()
	input := tensor.FromInt32([]int32{2, 3, 4, 0, 0, 0, 5, 6, 7, 8, 0, 0}, tensor.Shape{2, 6})
	logits := model.Forward(input)
	targets := tensor.FromInt32([]int32{0, 1}, tensor.Shape{2})
	loss := backend.CrossEntropy(logits, targets)

	grads := backend.Tape().Backward(loss, tensor.Ones(tensor.Shape{1}), backend)
	require.NotEmpty(t, grads)
	for _, p := range model.Parameters() {
		assert.Contains(t, grads, p.Tensor(), "missing gradient for %s", p.Name())
	}
}
