// Package ops defines the differentiable operations recorded on the
// gradient tape.
//
// Each operation keeps references to the tensors involved in the forward
// pass and knows how to turn the gradient of its output into gradients of
// its inputs:
//   - AddOp/SubOp/MulOp/DivOp: element-wise arithmetic (broadcast aware)
//   - MatMulOp: d(A@B)/dA = grad@B^T, d(A@B)/dB = A^T@grad
//   - Conv2DOp / MaxPool2DOp: convolution and pooling
//   - ReLUOp/SigmoidOp/TanhOp: activations
//   - ReshapeOp/TransposeOp: shape bookkeeping
//   - EmbeddingOp: scatter-add into the embedding matrix
//   - CrossEntropyOp: fused softmax/NLL gradient
package ops

import "github.com/charly3d/diplodatos/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass and
// computes input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for the inputs given the output gradient.
	// The returned slice corresponds position-wise to Inputs().
	Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor

	// Inputs returns the input tensors of this operation.
	Inputs() []*tensor.Tensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.Tensor
}

// broadcastStrides returns, for each dimension of out, the stride into the
// input tensor (0 for broadcast dimensions).
func broadcastStrides(in, out tensor.Shape) []int {
	strides := make([]int, len(out))
	inStrides := in.ComputeStrides()
	offset := len(out) - len(in)
	for i := range out {
		j := i - offset
		if j >= 0 && in[j] != 1 {
			strides[i] = inStrides[j]
		}
	}
	return strides
}

// reduceTo sums grad down to the given shape, undoing broadcasting.
//
// A broadcast forward pass fans one input element out to many output
// elements, so the backward pass must sum the corresponding output
// gradients back into that element.
func reduceTo(grad *tensor.Tensor, shape tensor.Shape) *tensor.Tensor {
	gShape := grad.Shape()
	if gShape.Equal(shape) {
		return grad
	}

	out := tensor.New(shape, tensor.Float32)
	gData, outData := grad.AsFloat32(), out.AsFloat32()
	strides := broadcastStrides(shape, gShape)

	coords := make([]int, len(gShape))
	for _, v := range gData {
		off := 0
		for d := range coords {
			off += coords[d] * strides[d]
		}
		outData[off] += v

		for d := len(coords) - 1; d >= 0; d-- {
			coords[d]++
			if coords[d] < gShape[d] {
				break
			}
			coords[d] = 0
		}
	}
	return out
}
