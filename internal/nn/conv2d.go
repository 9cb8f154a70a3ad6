package nn

import (
	"fmt"

	"github.com/charly3d/diplodatos/internal/tensor"
)

// Conv2D is a 2D convolutional layer.
//
// Shapes:
//
//	input:  [batch, inChannels, H, W]
//	weight: [outChannels, inChannels, kernelH, kernelW]
//	bias:   [outChannels]
//	output: [batch, outChannels, outH, outW]
//
// where outH = (H + 2*padding - kernelH)/stride + 1 and likewise for outW.
// Rectangular kernels are supported; the text model convolves k x embedDim
// windows over token embeddings.
type Conv2D struct {
	inChannels  int
	outChannels int
	kernelH     int
	kernelW     int
	stride      int
	padding     int

	weight  *Parameter
	bias    *Parameter
	backend tensor.Backend
}

// NewConv2D creates a new 2D convolutional layer with Xavier-initialized
// weights and zero bias.
func NewConv2D(inChannels, outChannels, kernelH, kernelW, stride, padding int, backend tensor.Backend) *Conv2D {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv2d: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	if kernelH <= 0 || kernelW <= 0 {
		panic(fmt.Sprintf("conv2d: invalid kernel size %dx%d", kernelH, kernelW))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid padding %d", padding))
	}

	fanIn := inChannels * kernelH * kernelW
	fanOut := outChannels * kernelH * kernelW
	weight := NewParameter("conv2d.weight",
		Xavier(fanIn, fanOut, tensor.Shape{outChannels, inChannels, kernelH, kernelW}))
	bias := NewParameter("conv2d.bias", Zeros(tensor.Shape{outChannels}))

	return &Conv2D{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelH:     kernelH,
		kernelW:     kernelW,
		stride:      stride,
		padding:     padding,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward performs the convolution and adds the bias.
func (c *Conv2D) Forward(input *tensor.Tensor) *tensor.Tensor {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("conv2d: expected 4D input [N,C,H,W], got %dD", len(shape)))
	}
	if shape[1] != c.inChannels {
		panic(fmt.Sprintf("conv2d: input channels %d != expected %d", shape[1], c.inChannels))
	}

	output := c.backend.Conv2D(input, c.weight.Tensor(), c.stride, c.padding)

	// Bias broadcasts from [1, C, 1, 1] across batch and spatial dims.
	bias := c.backend.Reshape(c.bias.Tensor(), tensor.Shape{1, c.outChannels, 1, 1})
	return c.backend.Add(output, bias)
}

// Parameters returns [weight, bias].
func (c *Conv2D) Parameters() []*Parameter {
	return []*Parameter{c.weight, c.bias}
}

// Weight returns the kernel parameter.
func (c *Conv2D) Weight() *Parameter { return c.weight }

// Bias returns the bias parameter.
func (c *Conv2D) Bias() *Parameter { return c.bias }

// String describes the layer.
func (c *Conv2D) String() string {
	return fmt.Sprintf("Conv2D(in=%d, out=%d, kernel=%dx%d, stride=%d, padding=%d)",
		c.inChannels, c.outChannels, c.kernelH, c.kernelW, c.stride, c.padding)
}
