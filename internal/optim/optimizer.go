// Package optim implements the optimization algorithms used by the
// training loops: SGD with momentum and Adam.
//
// Optimizers consume the gradient map produced by the autodiff tape and
// update parameter tensors in place:
//
//	grads := backend.Tape().Backward(loss, seed, backend)
//	optimizer.Step(grads)
//	backend.Tape().Clear()
package optim

import (
	"github.com/charly3d/diplodatos/internal/nn"
	"github.com/charly3d/diplodatos/internal/tensor"
)

// Optimizer is the base interface for optimization algorithms.
type Optimizer interface {
	// Step applies gradient updates to all parameters, in place.
	// The map comes from GradientTape.Backward; parameters without an
	// entry did not participate in the forward pass and are skipped.
	Step(grads map[*tensor.Tensor]*tensor.Tensor)

	// LR returns the current learning rate, for logging and scheduling.
	LR() float32
}

// gradientFor returns the gradient slice for a parameter, or nil when the
// parameter was not part of the computation graph.
func gradientFor(param *nn.Parameter, grads map[*tensor.Tensor]*tensor.Tensor) []float32 {
	g, ok := grads[param.Tensor()]
	if !ok {
		return nil
	}
	return g.AsFloat32()
}
