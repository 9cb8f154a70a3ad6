package cpu

import (
	"fmt"

	"github.com/charly3d/diplodatos/internal/tensor"
)

// Sum reduces all elements to a [1] scalar tensor.
func (b *Backend) Sum(x *tensor.Tensor) *tensor.Tensor {
	var total float64
	for _, v := range x.AsFloat32() {
		total += float64(v)
	}
	out := tensor.New(tensor.Shape{1}, tensor.Float32)
	out.AsFloat32()[0] = float32(total)
	return out
}

// SumDim sums along a dimension. With keepDim the reduced dimension is kept
// with size 1, otherwise it is removed.
func (b *Backend) SumDim(x *tensor.Tensor, dim int, keepDim bool) *tensor.Tensor {
	return b.reduceDim(x, dim, keepDim, false)
}

// MeanDim averages along a dimension. With keepDim the reduced dimension is
// kept with size 1, otherwise it is removed.
func (b *Backend) MeanDim(x *tensor.Tensor, dim int, keepDim bool) *tensor.Tensor {
	return b.reduceDim(x, dim, keepDim, true)
}

func (b *Backend) reduceDim(x *tensor.Tensor, dim int, keepDim, mean bool) *tensor.Tensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("cpu: reduce dim %d out of range for shape %v", dim, shape))
	}

	// View the tensor as [outer, reduced, inner].
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	reduced := shape[dim]
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	var outShape tensor.Shape
	for i, d := range shape {
		switch {
		case i != dim:
			outShape = append(outShape, d)
		case keepDim:
			outShape = append(outShape, 1)
		}
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	out := tensor.New(outShape, tensor.Float32)
	xData, outData := x.AsFloat32(), out.AsFloat32()

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			var sum float64
			for r := 0; r < reduced; r++ {
				sum += float64(xData[(o*reduced+r)*inner+in])
			}
			if mean {
				sum /= float64(reduced)
			}
			outData[o*inner+in] = float32(sum)
		}
	}
	return out
}

// Argmax returns the index of the maximum value along the last dimension.
// The result is an Int32 tensor with the last dimension removed.
func (b *Backend) Argmax(x *tensor.Tensor, dim int) *tensor.Tensor {
	shape := x.Shape()
	last := len(shape) - 1
	if dim == -1 {
		dim = last
	}
	if dim != last {
		panic(fmt.Sprintf("cpu: argmax only supports the last dimension, got dim=%d for shape %v", dim, shape))
	}

	rowLen := shape[last]
	outShape := shape[:last].Clone()
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}
	out := tensor.New(outShape, tensor.Int32)
	xData, outData := x.AsFloat32(), out.AsInt32()

	for row := 0; row < len(outData); row++ {
		start := row * rowLen
		best := 0
		for j := 1; j < rowLen; j++ {
			if xData[start+j] > xData[start+best] {
				best = j
			}
		}
		outData[row] = int32(best)
	}
	return out
}
