// Package nn provides the neural network layers composed by the teaching
// models: linear, convolutional and pooling layers, activations, an
// embedding table and the cross-entropy loss.
package nn

import "github.com/charly3d/diplodatos/internal/tensor"

// Module is the base interface for all neural network components.
//
// Modules can be composed to build architectures:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewReLU(backend),
//	    nn.NewLinear(128, 10, backend),
//	)
type Module interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor) *tensor.Tensor

	// Parameters returns all trainable parameters of this module.
	// Modules without trainable parameters return nil.
	Parameters() []*Parameter
}

// Accuracy returns the fraction of rows whose argmax matches the target.
//
// logits: [batch, classes] float32, targets: [batch] int32.
func Accuracy(logits, targets *tensor.Tensor) float32 {
	shape := logits.Shape()
	batch, classes := shape[0], shape[1]

	logitsData := logits.AsFloat32()
	targetData := targets.AsInt32()

	correct := 0
	for b := 0; b < batch; b++ {
		row := logitsData[b*classes : (b+1)*classes]
		best := 0
		for j := 1; j < classes; j++ {
			if row[j] > row[best] {
				best = j
			}
		}
		if int32(best) == targetData[b] {
			correct++
		}
	}
	return float32(correct) / float32(batch)
}

// NumParameters counts the trainable scalar values of a module.
func NumParameters(m Module) int {
	total := 0
	for _, p := range m.Parameters() {
		total += p.Tensor().NumElements()
	}
	return total
}
