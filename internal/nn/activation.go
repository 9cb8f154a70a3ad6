package nn

import "github.com/charly3d/diplodatos/internal/tensor"

// ReLU is a rectified linear unit activation module: f(x) = max(0, x).
type ReLU struct {
	backend tensor.Backend
}

// NewReLU creates a new ReLU activation module.
func NewReLU(backend tensor.Backend) *ReLU {
	return &ReLU{backend: backend}
}

// Forward applies ReLU element-wise.
func (r *ReLU) Forward(input *tensor.Tensor) *tensor.Tensor {
	return r.backend.ReLU(input)
}

// Parameters returns nil.
func (r *ReLU) Parameters() []*Parameter { return nil }

// String describes the module.
func (r *ReLU) String() string { return "ReLU()" }

// Sigmoid is a logistic sigmoid activation module: σ(x) = 1/(1+exp(-x)).
type Sigmoid struct {
	backend tensor.Backend
}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid(backend tensor.Backend) *Sigmoid {
	return &Sigmoid{backend: backend}
}

// Forward applies the sigmoid element-wise.
func (s *Sigmoid) Forward(input *tensor.Tensor) *tensor.Tensor {
	return s.backend.Sigmoid(input)
}

// Parameters returns nil.
func (s *Sigmoid) Parameters() []*Parameter { return nil }

// String describes the module.
func (s *Sigmoid) String() string { return "Sigmoid()" }

// Tanh is a hyperbolic tangent activation module.
type Tanh struct {
	backend tensor.Backend
}

// NewTanh creates a new Tanh activation module.
func NewTanh(backend tensor.Backend) *Tanh {
	return &Tanh{backend: backend}
}

// Forward applies tanh element-wise.
func (t *Tanh) Forward(input *tensor.Tensor) *tensor.Tensor {
	return t.backend.Tanh(input)
}

// Parameters returns nil.
func (t *Tanh) Parameters() []*Parameter { return nil }

// String describes the module.
func (t *Tanh) String() string { return "Tanh()" }
