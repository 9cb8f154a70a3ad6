package nn

import (
	"math"
	"math/rand"

	"github.com/charly3d/diplodatos/internal/tensor"
)

// Xavier initializes a weight tensor with the Glorot uniform distribution:
//
//	U(-sqrt(6/(fanIn+fanOut)), +sqrt(6/(fanIn+fanOut)))
//
// This keeps the variance of activations roughly constant across layers.
func Xavier(fanIn, fanOut int, shape tensor.Shape) *tensor.Tensor {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t := tensor.New(shape, tensor.Float32)
	data := t.AsFloat32()
	for i := range data {
		data[i] = float32((rand.Float64()*2.0 - 1.0) * bound)
	}
	return t
}

// Zeros creates a zero-filled tensor, the usual bias initialization.
func Zeros(shape tensor.Shape) *tensor.Tensor {
	return tensor.Zeros(shape)
}

// Randn creates a tensor with values drawn from N(0, 1).
func Randn(shape tensor.Shape) *tensor.Tensor {
	return tensor.Randn(shape)
}
