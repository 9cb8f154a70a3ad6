// Package cpu implements the tensor.Backend interface with pure Go
// reference kernels.
//
// The kernels favor clarity over speed: they are the computational
// counterpart of the teaching material built on top of them, and every loop
// maps one-to-one to the textbook definition of the operation.
package cpu

import (
	"fmt"

	"github.com/charly3d/diplodatos/internal/tensor"
)

// Backend is the pure Go CPU backend.
type Backend struct{}

// New creates a new CPU backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "cpu"
}

// broadcastStrides returns, for each dimension of out, the stride to apply
// to the input tensor. Broadcast dimensions (size 1 or missing) get stride 0.
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

// binaryOp applies f element-wise with NumPy-style broadcasting.
func binaryOp(a, b *tensor.Tensor, f func(x, y float32) float32) *tensor.Tensor {
	// Fast path: identical shapes.
	if a.Shape().Equal(b.Shape()) {
		out := tensor.New(a.Shape(), tensor.Float32)
		aData, bData, outData := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()
		for i := range outData {
			outData[i] = f(aData[i], bData[i])
		}
		return out
	}

	outShape, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("cpu: %v", err))
	}

	out := tensor.New(outShape, tensor.Float32)
	aData, bData, outData := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)

	coords := make([]int, len(outShape))
	for i := range outData {
		aOff, bOff := 0, 0
		for d := range coords {
			aOff += coords[d] * aStrides[d]
			bOff += coords[d] * bStrides[d]
		}
		outData[i] = f(aData[aOff], bData[bOff])

		// Advance coordinates (row-major order).
		for d := len(coords) - 1; d >= 0; d-- {
			coords[d]++
			if coords[d] < outShape[d] {
				break
			}
			coords[d] = 0
		}
	}
	return out
}

// Add performs element-wise addition with broadcasting.
func (b *Backend) Add(x, y *tensor.Tensor) *tensor.Tensor {
	return binaryOp(x, y, func(a, c float32) float32 { return a + c })
}

// Sub performs element-wise subtraction with broadcasting.
func (b *Backend) Sub(x, y *tensor.Tensor) *tensor.Tensor {
	return binaryOp(x, y, func(a, c float32) float32 { return a - c })
}

// Mul performs element-wise multiplication with broadcasting.
func (b *Backend) Mul(x, y *tensor.Tensor) *tensor.Tensor {
	return binaryOp(x, y, func(a, c float32) float32 { return a * c })
}

// Div performs element-wise division with broadcasting.
func (b *Backend) Div(x, y *tensor.Tensor) *tensor.Tensor {
	return binaryOp(x, y, func(a, c float32) float32 { return a / c })
}

// AddScalar adds a scalar to every element.
func (b *Backend) AddScalar(x *tensor.Tensor, scalar float32) *tensor.Tensor {
	out := tensor.New(x.Shape(), tensor.Float32)
	xData, outData := x.AsFloat32(), out.AsFloat32()
	for i := range outData {
		outData[i] = xData[i] + scalar
	}
	return out
}

// MulScalar multiplies every element by a scalar.
func (b *Backend) MulScalar(x *tensor.Tensor, scalar float32) *tensor.Tensor {
	out := tensor.New(x.Shape(), tensor.Float32)
	xData, outData := x.AsFloat32(), out.AsFloat32()
	for i := range outData {
		outData[i] = xData[i] * scalar
	}
	return out
}
