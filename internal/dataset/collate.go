package dataset

import (
	"fmt"

	"github.com/charly3d/diplodatos/internal/tensor"
	"github.com/charly3d/diplodatos/internal/text"
)

// CollateImages returns a collate function that stacks image records
// into a [batch, features] float32 tensor. Every record must have
// exactly features values.
func CollateImages(features int) CollateFunc[Record] {
	return func(examples []Record) Batch {
		batch := len(examples)
		inputs := make([]float32, 0, batch*features)
		labels := make([]int32, batch)
		for i, ex := range examples {
			if len(ex.Features) != features {
				panic(fmt.Sprintf("collate: example %d has %d features, expected %d", i, len(ex.Features), features))
			}
			inputs = append(inputs, ex.Features...)
			labels[i] = ex.Label
		}
		return Batch{
			Inputs: tensor.FromFloat32(inputs, tensor.Shape{batch, features}),
			Labels: tensor.FromInt32(labels, tensor.Shape{batch}),
			Size:   batch,
		}
	}
}

// PadCollate returns a collate function that assembles variable-length
// token sequences into a fixed [batch, maxLen] int32 tensor. Sequences
// longer than maxLen are truncated; shorter ones are right-padded with
// the padding id, so padded positions embed to the zero vector.
func PadCollate(maxLen int) CollateFunc[TextRecord] {
	if maxLen <= 0 {
		panic(fmt.Sprintf("collate: maxLen must be positive, got %d", maxLen))
	}
	return func(examples []TextRecord) Batch {
		batch := len(examples)
		inputs := make([]int32, batch*maxLen)
		labels := make([]int32, batch)
		for i, ex := range examples {
			row := inputs[i*maxLen : (i+1)*maxLen]
			tokens := ex.Tokens
			if len(tokens) > maxLen {
				tokens = tokens[:maxLen]
			}
			copy(row, tokens)
			for j := len(tokens); j < maxLen; j++ {
				row[j] = text.PadID
			}
			labels[i] = ex.Label
		}
		return Batch{
			Inputs: tensor.FromInt32(inputs, tensor.Shape{batch, maxLen}),
			Labels: tensor.FromInt32(labels, tensor.Shape{batch}),
			Size:   batch,
		}
	}
}
