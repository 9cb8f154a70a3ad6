// Package dataset provides in-memory datasets, batching and collation
// for the image and text classification tasks.
package dataset

import "github.com/charly3d/diplodatos/internal/tensor"

// Dataset is a finite, random-access collection of examples.
type Dataset[T any] interface {
	// Len returns the number of examples.
	Len() int

	// At returns the example at index i. Panics on out-of-range indices.
	At(i int) T
}

// Record is a single image example: flattened pixel features and an
// integer class label.
type Record struct {
	Features []float32
	Label    int32
}

// TextRecord is a single text example: encoded token ids and an integer
// class label.
type TextRecord struct {
	Tokens []int32
	Label  int32
}

// Batch is a collated mini-batch ready for a model forward pass.
type Batch struct {
	// Inputs holds the batched model inputs. Shape depends on the
	// collate function: [batch, features] float32 for images,
	// [batch, seqLen] int32 for token sequences.
	Inputs *tensor.Tensor

	// Labels holds the class labels, shape [batch] int32.
	Labels *tensor.Tensor

	// Size is the number of examples in the batch.
	Size int
}

// CollateFunc assembles a slice of examples into a Batch.
type CollateFunc[T any] func(examples []T) Batch

// SliceDataset adapts a plain slice to the Dataset interface.
type SliceDataset[T any] []T

// Len returns the number of examples.
func (s SliceDataset[T]) Len() int { return len(s) }

// At returns the example at index i.
func (s SliceDataset[T]) At(i int) T { return s[i] }
