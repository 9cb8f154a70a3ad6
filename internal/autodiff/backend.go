// Package autodiff implements automatic differentiation using the decorator
// pattern.
//
// Backend wraps any tensor.Backend and adds gradient tracking through a
// GradientTape: differentiable operations are executed by the inner backend
// and, while the tape is recording, an ops.Operation holding the forward
// tensors is appended so Backward can replay the chain rule in reverse.
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	loss := backend.CrossEntropy(model.Forward(x), y)
//	grads := backend.Tape().Backward(loss, tensor.Ones(tensor.Shape{1}), backend)
//	optimizer.Step(grads)
//	backend.Tape().Clear()
package autodiff

import (
	"github.com/charly3d/diplodatos/internal/autodiff/ops"
	"github.com/charly3d/diplodatos/internal/tensor"
)

// Backend wraps an inner compute backend and records differentiable
// operations on a gradient tape.
type Backend struct {
	inner tensor.Backend
	tape  *GradientTape
}

// New creates a new autodiff backend wrapping the given compute backend.
func New(inner tensor.Backend) *Backend {
	return &Backend{
		inner: inner,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for recording control and backward passes.
func (b *Backend) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend.
func (b *Backend) Inner() tensor.Backend {
	return b.inner
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "autodiff(" + b.inner.Name() + ")"
}

// Add performs element-wise addition and records the operation.
func (b *Backend) Add(x, y *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Add(x, y)
	b.tape.Record(ops.NewAddOp(x, y, result))
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *Backend) Sub(x, y *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Sub(x, y)
	b.tape.Record(ops.NewSubOp(x, y, result))
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *Backend) Mul(x, y *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Mul(x, y)
	b.tape.Record(ops.NewMulOp(x, y, result))
	return result
}

// Div performs element-wise division and records the operation.
func (b *Backend) Div(x, y *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Div(x, y)
	b.tape.Record(ops.NewDivOp(x, y, result))
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *Backend) MatMul(x, y *tensor.Tensor) *tensor.Tensor {
	result := b.inner.MatMul(x, y)
	b.tape.Record(ops.NewMatMulOp(x, y, result))
	return result
}

// Conv2D performs 2D convolution and records the operation.
func (b *Backend) Conv2D(input, kernel *tensor.Tensor, stride, padding int) *tensor.Tensor {
	result := b.inner.Conv2D(input, kernel, stride, padding)
	b.tape.Record(ops.NewConv2DOp(input, kernel, result, stride, padding))
	return result
}

// MaxPool2D performs max pooling and records the operation.
func (b *Backend) MaxPool2D(input *tensor.Tensor, kernelH, kernelW, strideH, strideW int) *tensor.Tensor {
	result := b.inner.MaxPool2D(input, kernelH, kernelW, strideH, strideW)
	b.tape.Record(ops.NewMaxPool2DOp(input, result, kernelH, kernelW, strideH, strideW))
	return result
}

// ReLU applies the rectified linear unit and records the operation.
func (b *Backend) ReLU(x *tensor.Tensor) *tensor.Tensor {
	result := b.inner.ReLU(x)
	b.tape.Record(ops.NewReLUOp(x, result))
	return result
}

// Sigmoid applies the logistic sigmoid and records the operation.
func (b *Backend) Sigmoid(x *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Sigmoid(x)
	b.tape.Record(ops.NewSigmoidOp(x, result))
	return result
}

// Tanh applies the hyperbolic tangent and records the operation.
func (b *Backend) Tanh(x *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Tanh(x)
	b.tape.Record(ops.NewTanhOp(x, result))
	return result
}

// CrossEntropy computes the fused softmax/NLL loss and records the operation.
func (b *Backend) CrossEntropy(logits, targets *tensor.Tensor) *tensor.Tensor {
	result := b.inner.CrossEntropy(logits, targets)
	b.tape.Record(ops.NewCrossEntropyOp(logits, targets, result))
	return result
}

// Embedding performs an embedding lookup and records the operation, so
// gradients scatter-add back into the weight matrix.
func (b *Backend) Embedding(weight, indices *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Embedding(weight, indices)
	b.tape.Record(ops.NewEmbeddingOp(weight, indices, result))
	return result
}

// Reshape changes the tensor shape and records the operation.
//
// Recording matters: a bias reshaped for broadcasting must route its
// gradient back to the original parameter tensor.
func (b *Backend) Reshape(t *tensor.Tensor, newShape tensor.Shape) *tensor.Tensor {
	result := b.inner.Reshape(t, newShape)
	b.tape.Record(ops.NewReshapeOp(t, result))
	return result
}

// Transpose permutes tensor dimensions and records the operation.
func (b *Backend) Transpose(t *tensor.Tensor, axes ...int) *tensor.Tensor {
	resolved := axes
	if len(resolved) == 0 {
		nd := len(t.Shape())
		resolved = make([]int, nd)
		for i := range resolved {
			resolved[i] = nd - 1 - i
		}
	}
	result := b.inner.Transpose(t, resolved...)
	b.tape.Record(ops.NewTransposeOp(t, result, resolved))
	return result
}

// The remaining operations are not differentiated: they are used for
// inference, metrics and optimizer internals, never on the loss path.

// AddScalar adds a scalar element-wise (not recorded).
func (b *Backend) AddScalar(x *tensor.Tensor, scalar float32) *tensor.Tensor {
	return b.inner.AddScalar(x, scalar)
}

// MulScalar multiplies by a scalar element-wise (not recorded).
func (b *Backend) MulScalar(x *tensor.Tensor, scalar float32) *tensor.Tensor {
	return b.inner.MulScalar(x, scalar)
}

// Softmax normalizes along a dimension (not recorded; training uses the
// fused CrossEntropy instead).
func (b *Backend) Softmax(x *tensor.Tensor, dim int) *tensor.Tensor {
	return b.inner.Softmax(x, dim)
}

// Sum reduces all elements (not recorded).
func (b *Backend) Sum(x *tensor.Tensor) *tensor.Tensor {
	return b.inner.Sum(x)
}

// SumDim sums along a dimension (not recorded).
func (b *Backend) SumDim(x *tensor.Tensor, dim int, keepDim bool) *tensor.Tensor {
	return b.inner.SumDim(x, dim, keepDim)
}

// MeanDim averages along a dimension (not recorded).
func (b *Backend) MeanDim(x *tensor.Tensor, dim int, keepDim bool) *tensor.Tensor {
	return b.inner.MeanDim(x, dim, keepDim)
}

// Argmax returns indices of maxima along a dimension (not recorded).
func (b *Backend) Argmax(x *tensor.Tensor, dim int) *tensor.Tensor {
	return b.inner.Argmax(x, dim)
}
