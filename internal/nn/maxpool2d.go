package nn

import (
	"fmt"

	"github.com/charly3d/diplodatos/internal/tensor"
)

// MaxPool2D is a 2D max pooling layer with a rectangular window.
//
// The common spatial case uses a square window (NewMaxPool2D(2, backend));
// the text model pools with an L x 1 window over the sequence axis
// (max-over-time pooling).
type MaxPool2D struct {
	kernelH int
	kernelW int
	strideH int
	strideW int
	backend tensor.Backend
}

// NewMaxPool2D creates a square max pooling layer where the stride equals
// the window size (non-overlapping windows).
func NewMaxPool2D(kernelSize int, backend tensor.Backend) *MaxPool2D {
	return NewMaxPool2DRect(kernelSize, kernelSize, backend)
}

// NewMaxPool2DRect creates a rectangular max pooling layer where the stride
// equals the window size.
func NewMaxPool2DRect(kernelH, kernelW int, backend tensor.Backend) *MaxPool2D {
	if kernelH <= 0 || kernelW <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid window %dx%d", kernelH, kernelW))
	}
	return &MaxPool2D{
		kernelH: kernelH,
		kernelW: kernelW,
		strideH: kernelH,
		strideW: kernelW,
		backend: backend,
	}
}

// Forward applies max pooling.
//
// Input: [batch, channels, H, W].
func (m *MaxPool2D) Forward(input *tensor.Tensor) *tensor.Tensor {
	return m.backend.MaxPool2D(input, m.kernelH, m.kernelW, m.strideH, m.strideW)
}

// Parameters returns nil (pooling has no trainable parameters).
func (m *MaxPool2D) Parameters() []*Parameter {
	return nil
}

// String describes the layer.
func (m *MaxPool2D) String() string {
	return fmt.Sprintf("MaxPool2D(kernel=%dx%d)", m.kernelH, m.kernelW)
}
