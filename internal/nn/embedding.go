package nn

import (
	"fmt"
	"math/rand"

	"github.com/charly3d/diplodatos/internal/tensor"
)

// Embedding is a lookup table mapping discrete indices to dense vectors.
//
// This is the first layer of the text model: token ids become rows of a
// learnable [vocabSize, embedDim] matrix. Row 0 is conventionally the
// padding id; ZeroPadRow clears it so padded positions contribute nothing
// at initialization.
type Embedding struct {
	weight   *Parameter
	numEmbed int
	embedDim int
	backend  tensor.Backend
}

// NewEmbedding creates an Embedding layer with weights drawn from a scaled
// normal distribution N(0, 0.1).
func NewEmbedding(numEmbeddings, embedDim int, backend tensor.Backend) *Embedding {
	weight := tensor.New(tensor.Shape{numEmbeddings, embedDim}, tensor.Float32)
	data := weight.AsFloat32()
	for i := range data {
		data[i] = float32(rand.NormFloat64()) * 0.1
	}
	return &Embedding{
		weight:   NewParameter("embedding.weight", weight),
		numEmbed: numEmbeddings,
		embedDim: embedDim,
		backend:  backend,
	}
}

// NewEmbeddingFromMatrix creates an Embedding layer from a pre-built weight
// matrix, e.g. pretrained word vectors aligned to a vocabulary.
func NewEmbeddingFromMatrix(weight *tensor.Tensor, backend tensor.Backend) *Embedding {
	shape := weight.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("embedding: weight must be 2D [vocab, dim], got %v", shape))
	}
	return &Embedding{
		weight:   NewParameter("embedding.weight", weight),
		numEmbed: shape[0],
		embedDim: shape[1],
		backend:  backend,
	}
}

// ZeroPadRow clears the embedding row of the padding id, so padded
// positions start as zero vectors.
func (e *Embedding) ZeroPadRow(padID int32) {
	data := e.weight.Tensor().AsFloat32()
	row := data[int(padID)*e.embedDim : (int(padID)+1)*e.embedDim]
	for i := range row {
		row[i] = 0
	}
}

// Forward performs the embedding lookup.
//
// indices: Int32 tensor of any shape. Output: indices shape + [embedDim].
// The lookup is differentiable; gradients scatter-add into the weight rows.
func (e *Embedding) Forward(indices *tensor.Tensor) *tensor.Tensor {
	return e.backend.Embedding(e.weight.Tensor(), indices)
}

// Parameters returns [weight].
func (e *Embedding) Parameters() []*Parameter {
	return []*Parameter{e.weight}
}

// Weight returns the embedding matrix parameter.
func (e *Embedding) Weight() *Parameter { return e.weight }

// NumEmbeddings returns the vocabulary size.
func (e *Embedding) NumEmbeddings() int { return e.numEmbed }

// EmbedDim returns the embedding dimension.
func (e *Embedding) EmbedDim() int { return e.embedDim }

// String describes the layer.
func (e *Embedding) String() string {
	return fmt.Sprintf("Embedding(vocab=%d, dim=%d)", e.numEmbed, e.embedDim)
}
