package nn

import "github.com/charly3d/diplodatos/internal/tensor"

// CrossEntropyLoss computes cross-entropy for multi-class classification.
//
// The backend fuses log-softmax and negative log-likelihood for numerical
// stability, so this module expects raw logits, not probabilities.
//
// Usage:
//
//	criterion := nn.NewCrossEntropyLoss(backend)
//	logits := model.Forward(input)            // [batch, classes]
//	loss := criterion.Forward(logits, labels) // labels: [batch] int32
type CrossEntropyLoss struct {
	backend tensor.Backend
}

// NewCrossEntropyLoss creates a new cross-entropy loss function.
func NewCrossEntropyLoss(backend tensor.Backend) *CrossEntropyLoss {
	return &CrossEntropyLoss{backend: backend}
}

// Forward computes the mean cross-entropy over the batch.
//
// logits: [batch, classes] float32; targets: [batch] int32 class indices.
// Returns a scalar tensor of shape [1].
func (c *CrossEntropyLoss) Forward(logits, targets *tensor.Tensor) *tensor.Tensor {
	return c.backend.CrossEntropy(logits, targets)
}

// Parameters returns nil (loss functions have no trainable parameters).
func (c *CrossEntropyLoss) Parameters() []*Parameter {
	return nil
}
