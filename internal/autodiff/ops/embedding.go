package ops

import "github.com/charly3d/diplodatos/internal/tensor"

// EmbeddingOp represents an embedding lookup: output[i] = weight[indices[i]].
//
// The backward pass scatter-adds each output-row gradient into the
// corresponding weight row. Repeated indices accumulate, so a token that
// appears several times in a batch collects the sum of its gradients.
// Indices are not differentiable and receive no gradient.
type EmbeddingOp struct {
	weight  *tensor.Tensor // [V, E]
	indices *tensor.Tensor // int32, any shape
	output  *tensor.Tensor // indices shape + [E]
}

// NewEmbeddingOp creates a new EmbeddingOp.
func NewEmbeddingOp(weight, indices, output *tensor.Tensor) *EmbeddingOp {
	return &EmbeddingOp{weight: weight, indices: indices, output: output}
}

// Backward scatter-adds output gradients into the weight gradient rows.
func (op *EmbeddingOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	dim := op.weight.Shape()[1]
	grad := tensor.New(op.weight.Shape(), tensor.Float32)
	gData, wgData := outputGrad.AsFloat32(), grad.AsFloat32()

	for i, id := range op.indices.AsInt32() {
		row := wgData[int(id)*dim : (int(id)+1)*dim]
		src := gData[i*dim : (i+1)*dim]
		for j, v := range src {
			row[j] += v
		}
	}
	return []*tensor.Tensor{grad}
}

// Inputs returns [weight].
func (op *EmbeddingOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.weight} }

// Output returns the looked-up embeddings.
func (op *EmbeddingOp) Output() *tensor.Tensor { return op.output }
