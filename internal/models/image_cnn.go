// Package models defines the classifier architectures trained by the
// CLI: a LeNet-style CNN for images and a convolutional text classifier
// for reviews.
package models

import (
	"fmt"

	"github.com/charly3d/diplodatos/internal/nn"
	"github.com/charly3d/diplodatos/internal/tensor"
)

// ImageCNNConfig holds the ImageCNN hyperparameters.
type ImageCNNConfig struct {
	Channels   int // Input channels (default 1)
	Height     int // Input height (default 28)
	Width      int // Input width (default 28)
	NumClasses int // Output classes (default 10)
}

// ImageCNN is a LeNet-style convolutional classifier:
//
//	Conv(C→6, 5x5) → ReLU → MaxPool(2) →
//	Conv(6→16, 5x5) → ReLU → MaxPool(2) →
//	Flatten → Linear(→120) → ReLU → Linear(→84) → ReLU → Linear(→classes)
//
// Forward accepts flattened [batch, C*H*W] rows as produced by the CSV
// loader and reshapes them internally.
type ImageCNN struct {
	config  ImageCNNConfig
	conv1   *nn.Conv2D
	conv2   *nn.Conv2D
	pool    *nn.MaxPool2D
	relu    *nn.ReLU
	fc1     *nn.Linear
	fc2     *nn.Linear
	fc3     *nn.Linear
	flatDim int
	backend tensor.Backend
}

// NewImageCNN creates an ImageCNN with defaults for unset config fields.
// Panics when the input is too small for two 5x5 conv + 2x2 pool stages.
func NewImageCNN(config ImageCNNConfig, backend tensor.Backend) *ImageCNN {
	if config.Channels == 0 {
		config.Channels = 1
	}
	if config.Height == 0 {
		config.Height = 28
	}
	if config.Width == 0 {
		config.Width = 28
	}
	if config.NumClasses == 0 {
		config.NumClasses = 10
	}

	// Two valid 5x5 convolutions, each followed by a 2x2 pool.
	h := ((config.Height-4)/2 - 4) / 2
	w := ((config.Width-4)/2 - 4) / 2
	if h <= 0 || w <= 0 {
		panic(fmt.Sprintf("models: input %dx%d too small for ImageCNN", config.Height, config.Width))
	}
	flatDim := 16 * h * w

	return &ImageCNN{
		config:  config,
		conv1:   nn.NewConv2D(config.Channels, 6, 5, 5, 1, 0, backend),
		conv2:   nn.NewConv2D(6, 16, 5, 5, 1, 0, backend),
		pool:    nn.NewMaxPool2D(2, backend),
		relu:    nn.NewReLU(backend),
		fc1:     nn.NewLinear(flatDim, 120, backend),
		fc2:     nn.NewLinear(120, 84, backend),
		fc3:     nn.NewLinear(84, config.NumClasses, backend),
		flatDim: flatDim,
		backend: backend,
	}
}

// Forward computes class logits for a batch of flattened images.
//
// input: [batch, C*H*W] float32. Returns [batch, NumClasses].
func (m *ImageCNN) Forward(input *tensor.Tensor) *tensor.Tensor {
	batch := input.Shape()[0]
	x := m.backend.Reshape(input, tensor.Shape{batch, m.config.Channels, m.config.Height, m.config.Width})

	x = m.pool.Forward(m.relu.Forward(m.conv1.Forward(x)))
	x = m.pool.Forward(m.relu.Forward(m.conv2.Forward(x)))

	x = m.backend.Reshape(x, tensor.Shape{batch, m.flatDim})
	x = m.relu.Forward(m.fc1.Forward(x))
	x = m.relu.Forward(m.fc2.Forward(x))
	return m.fc3.Forward(x)
}

// Parameters returns all trainable parameters.
func (m *ImageCNN) Parameters() []*nn.Parameter {
	var params []*nn.Parameter
	params = append(params, m.conv1.Parameters()...)
	params = append(params, m.conv2.Parameters()...)
	params = append(params, m.fc1.Parameters()...)
	params = append(params, m.fc2.Parameters()...)
	params = append(params, m.fc3.Parameters()...)
	return params
}

// Config returns the model configuration.
func (m *ImageCNN) Config() ImageCNNConfig { return m.config }
