package nn

import "github.com/charly3d/diplodatos/internal/tensor"

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are the tensors the optimizer updates: layer weights and
// biases. The tensor pointer stays stable for the lifetime of the layer,
// which is what lets the gradient tape attribute gradients to it.
type Parameter struct {
	name   string
	tensor *tensor.Tensor
}

// NewParameter creates a new trainable parameter.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{name: name, tensor: t}
}

// Name returns the parameter name (e.g. "linear.weight").
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}
