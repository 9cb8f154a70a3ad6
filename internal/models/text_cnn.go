package models

import (
	"fmt"

	"github.com/charly3d/diplodatos/internal/nn"
	"github.com/charly3d/diplodatos/internal/tensor"
	"github.com/charly3d/diplodatos/internal/text"
)

// TextCNNConfig holds the TextCNN hyperparameters.
type TextCNNConfig struct {
	VocabSize  int // Embedding rows; required unless Pretrained is set
	EmbedDim   int // Embedding dimension (default 100); ignored with Pretrained
	NumFilters int // Convolution filters (default 100)
	KernelSize int // Words per convolution window (default 3)
	SeqLen     int // Fixed input sequence length (default 128)
	NumClasses int // Output classes; required

	// Pretrained, when set, initializes the embedding from a
	// [vocab, dim] matrix such as loaded word vectors.
	Pretrained *tensor.Tensor
}

// TextCNN is a convolutional sentence classifier in the style of Kim
// (2014):
//
//	Embedding → Conv(1→F, k x embedDim) → ReLU →
//	max-over-time pool → Linear(F→classes)
//
// Each filter slides over k-word windows spanning the full embedding
// width; max-over-time pooling keeps each filter's strongest activation,
// making the logits independent of where in the review the signal sits.
type TextCNN struct {
	config    TextCNNConfig
	embedding *nn.Embedding
	conv      *nn.Conv2D
	relu      *nn.ReLU
	pool      *nn.MaxPool2D
	fc        *nn.Linear
	backend   tensor.Backend
}

// NewTextCNN creates a TextCNN with defaults for unset config fields.
// The padding embedding row is zeroed so padded positions contribute
// nothing at initialization.
func NewTextCNN(config TextCNNConfig, backend tensor.Backend) *TextCNN {
	if config.EmbedDim == 0 {
		config.EmbedDim = 100
	}
	if config.NumFilters == 0 {
		config.NumFilters = 100
	}
	if config.KernelSize == 0 {
		config.KernelSize = 3
	}
	if config.SeqLen == 0 {
		config.SeqLen = 128
	}
	if config.NumClasses <= 0 {
		panic("models: TextCNN requires NumClasses")
	}
	if config.SeqLen < config.KernelSize {
		panic(fmt.Sprintf("models: SeqLen %d shorter than KernelSize %d", config.SeqLen, config.KernelSize))
	}

	var embedding *nn.Embedding
	if config.Pretrained != nil {
		embedding = nn.NewEmbeddingFromMatrix(config.Pretrained, backend)
		config.VocabSize = embedding.NumEmbeddings()
		config.EmbedDim = embedding.EmbedDim()
	} else {
		if config.VocabSize <= 0 {
			panic("models: TextCNN requires VocabSize or Pretrained")
		}
		embedding = nn.NewEmbedding(config.VocabSize, config.EmbedDim, backend)
	}
	embedding.ZeroPadRow(text.PadID)

	return &TextCNN{
		config:    config,
		embedding: embedding,
		conv:      nn.NewConv2D(1, config.NumFilters, config.KernelSize, config.EmbedDim, 1, 0, backend),
		relu:      nn.NewReLU(backend),
		pool:      nn.NewMaxPool2DRect(config.SeqLen-config.KernelSize+1, 1, backend),
		fc:        nn.NewLinear(config.NumFilters, config.NumClasses, backend),
		backend:   backend,
	}
}

// Forward computes class logits for a batch of padded token sequences.
//
// input: [batch, SeqLen] int32 token ids. Returns [batch, NumClasses].
func (m *TextCNN) Forward(input *tensor.Tensor) *tensor.Tensor {
	batch := input.Shape()[0]

	// [batch, seqLen, embedDim] → [batch, 1, seqLen, embedDim]
	x := m.embedding.Forward(input)
	x = m.backend.Reshape(x, tensor.Shape{batch, 1, m.config.SeqLen, m.config.EmbedDim})

	// [batch, filters, seqLen-k+1, 1]
	x = m.relu.Forward(m.conv.Forward(x))

	// max over time: [batch, filters, 1, 1]
	x = m.pool.Forward(x)

	x = m.backend.Reshape(x, tensor.Shape{batch, m.config.NumFilters})
	return m.fc.Forward(x)
}

// Parameters returns all trainable parameters.
func (m *TextCNN) Parameters() []*nn.Parameter {
	var params []*nn.Parameter
	params = append(params, m.embedding.Parameters()...)
	params = append(params, m.conv.Parameters()...)
	params = append(params, m.fc.Parameters()...)
	return params
}

// Config returns the resolved model configuration.
func (m *TextCNN) Config() TextCNNConfig { return m.config }

// Embedding returns the embedding layer, for inspection in tests.
func (m *TextCNN) Embedding() *nn.Embedding { return m.embedding }
