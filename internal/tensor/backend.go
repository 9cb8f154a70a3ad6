package tensor

// Backend defines the interface that compute backends must implement.
// Backends perform the actual numeric work for tensor operations.
//
// Implementations:
//   - cpu.Backend: pure Go reference kernels
//   - autodiff.Backend: decorator that records operations on a gradient tape
type Backend interface {
	// Element-wise binary operations (with NumPy-style broadcasting)
	Add(a, b *Tensor) *Tensor
	Sub(a, b *Tensor) *Tensor
	Mul(a, b *Tensor) *Tensor
	Div(a, b *Tensor) *Tensor

	// Matrix multiplication for 2D tensors: [M, K] @ [K, N] -> [M, N]
	MatMul(a, b *Tensor) *Tensor

	// Convolutional operations
	// Conv2D: input [N, Cin, H, W], kernel [Cout, Cin, kH, kW]
	Conv2D(input, kernel *Tensor, stride, padding int) *Tensor
	// MaxPool2D supports rectangular windows so the same operation serves
	// spatial pooling (2x2) and max-over-time pooling (Lx1) in text models.
	MaxPool2D(input *Tensor, kernelH, kernelW, strideH, strideW int) *Tensor

	// Activation functions
	ReLU(x *Tensor) *Tensor
	Sigmoid(x *Tensor) *Tensor
	Tanh(x *Tensor) *Tensor
	Softmax(x *Tensor, dim int) *Tensor

	// CrossEntropy computes fused log-softmax + negative log-likelihood,
	// averaged over the batch. logits [B, C] float32, targets [B] int32.
	// Returns a scalar tensor of shape [1].
	CrossEntropy(logits, targets *Tensor) *Tensor

	// Embedding looks up rows of weight [V, E] for each id in indices
	// (int32, any shape), producing indices.Shape() + [E].
	Embedding(weight, indices *Tensor) *Tensor

	// Shape operations
	Reshape(t *Tensor, newShape Shape) *Tensor
	Transpose(t *Tensor, axes ...int) *Tensor

	// Scalar operations
	AddScalar(x *Tensor, scalar float32) *Tensor
	MulScalar(x *Tensor, scalar float32) *Tensor

	// Reductions
	Sum(x *Tensor) *Tensor
	SumDim(x *Tensor, dim int, keepDim bool) *Tensor
	MeanDim(x *Tensor, dim int, keepDim bool) *Tensor
	// Argmax along the last dimension, returning an Int32 tensor with that
	// dimension removed.
	Argmax(x *Tensor, dim int) *Tensor

	// Name identifies the backend ("cpu", "autodiff(cpu)", ...).
	Name() string
}
