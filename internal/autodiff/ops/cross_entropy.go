package ops

import (
	"fmt"
	"math"

	"github.com/charly3d/diplodatos/internal/tensor"
)

// CrossEntropyOp represents the fused softmax + negative log-likelihood loss.
//
// Forward:
//
//	Loss = mean(-log_softmax(logits)[target])
//
// Backward:
//
//	dL/dlogits[b,c] = (softmax(logits[b])[c] - 1{c == target[b]}) / batch
//
// The simple closed-form gradient is the reason softmax and cross-entropy
// are fused in practice. Targets are class indices and not differentiable.
type CrossEntropyOp struct {
	logits  *tensor.Tensor // [B, C]
	targets *tensor.Tensor // [B] int32
	output  *tensor.Tensor // [1]
}

// NewCrossEntropyOp creates a new CrossEntropyOp.
func NewCrossEntropyOp(logits, targets, output *tensor.Tensor) *CrossEntropyOp {
	return &CrossEntropyOp{logits: logits, targets: targets, output: output}
}

// Backward computes the gradient with respect to the logits.
func (op *CrossEntropyOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	shape := op.logits.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("cross entropy backward requires 2D logits, got %v", shape))
	}
	batch, classes := shape[0], shape[1]

	grad := tensor.New(shape, tensor.Float32)
	logitsData := op.logits.AsFloat32()
	targetData := op.targets.AsInt32()
	gradData := grad.AsFloat32()
	// Respect the upstream gradient of the scalar loss (usually 1).
	scale := outputGrad.AsFloat32()[0] / float32(batch)

	for b := 0; b < batch; b++ {
		row := logitsData[b*classes : (b+1)*classes]
		gradRow := gradData[b*classes : (b+1)*classes]

		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		var sumExp float64
		for _, v := range row {
			sumExp += math.Exp(float64(v - maxVal))
		}
		for c, v := range row {
			softmax := float32(math.Exp(float64(v-maxVal)) / sumExp)
			gradRow[c] = softmax * scale
		}
		gradRow[targetData[b]] -= scale
	}

	return []*tensor.Tensor{grad}
}

// Inputs returns [logits].
func (op *CrossEntropyOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.logits} }

// Output returns the scalar loss tensor.
func (op *CrossEntropyOp) Output() *tensor.Tensor { return op.output }
