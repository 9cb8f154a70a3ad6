package cpu

import (
	"fmt"

	"github.com/charly3d/diplodatos/internal/tensor"
)

// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
func (b *Backend) MatMul(a, c *tensor.Tensor) *tensor.Tensor {
	aShape, cShape := a.Shape(), c.Shape()
	if len(aShape) != 2 || len(cShape) != 2 {
		panic(fmt.Sprintf("cpu: matmul requires 2D tensors, got %v and %v", aShape, cShape))
	}
	if aShape[1] != cShape[0] {
		panic(fmt.Sprintf("cpu: matmul inner dimensions mismatch: %v @ %v", aShape, cShape))
	}

	m, k, n := aShape[0], aShape[1], cShape[1]
	out := tensor.New(tensor.Shape{m, n}, tensor.Float32)
	aData, cData, outData := a.AsFloat32(), c.AsFloat32(), out.AsFloat32()

	// i-k-j loop order keeps the inner loop sequential in memory for both
	// the right operand and the output row.
	for i := 0; i < m; i++ {
		aRow := aData[i*k : (i+1)*k]
		outRow := outData[i*n : (i+1)*n]
		for kk := 0; kk < k; kk++ {
			av := aRow[kk]
			if av == 0 {
				continue
			}
			cRow := cData[kk*n : (kk+1)*n]
			for j := 0; j < n; j++ {
				outRow[j] += av * cRow[j]
			}
		}
	}
	return out
}

// Transpose permutes tensor dimensions, producing a contiguous result.
//
// With no axes, the dimension order is reversed (the common 2D transpose).
func (b *Backend) Transpose(t *tensor.Tensor, axes ...int) *tensor.Tensor {
	shape := t.Shape()
	nd := len(shape)

	if len(axes) == 0 {
		axes = make([]int, nd)
		for i := range axes {
			axes[i] = nd - 1 - i
		}
	}
	if len(axes) != nd {
		panic(fmt.Sprintf("cpu: transpose expected %d axes, got %d", nd, len(axes)))
	}

	outShape := make(tensor.Shape, nd)
	for i, ax := range axes {
		if ax < 0 || ax >= nd {
			panic(fmt.Sprintf("cpu: transpose axis %d out of range for %dD tensor", ax, nd))
		}
		outShape[i] = shape[ax]
	}

	out := tensor.New(outShape, tensor.Float32)
	inData, outData := t.AsFloat32(), out.AsFloat32()
	inStrides := t.Strides()

	coords := make([]int, nd)
	for i := range outData {
		inOff := 0
		for d := range coords {
			inOff += coords[d] * inStrides[axes[d]]
		}
		outData[i] = inData[inOff]

		for d := nd - 1; d >= 0; d-- {
			coords[d]++
			if coords[d] < outShape[d] {
				break
			}
			coords[d] = 0
		}
	}
	return out
}

// Reshape returns a tensor with the same data and a new shape.
// The number of elements must be preserved.
func (b *Backend) Reshape(t *tensor.Tensor, newShape tensor.Shape) *tensor.Tensor {
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("cpu: cannot reshape %v (%d elements) to %v (%d elements)",
			t.Shape(), t.NumElements(), newShape, newShape.NumElements()))
	}
	switch t.DType() {
	case tensor.Float32:
		return tensor.FromFloat32(t.AsFloat32(), newShape)
	case tensor.Int32:
		return tensor.FromInt32(t.AsInt32(), newShape)
	default:
		panic("cpu: reshape: unsupported dtype")
	}
}
