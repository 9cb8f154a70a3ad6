package cpu

import (
	"fmt"
	"math"

	"github.com/charly3d/diplodatos/internal/tensor"
)

func unaryOp(x *tensor.Tensor, f func(float32) float32) *tensor.Tensor {
	out := tensor.New(x.Shape(), tensor.Float32)
	xData, outData := x.AsFloat32(), out.AsFloat32()
	for i := range outData {
		outData[i] = f(xData[i])
	}
	return out
}

// ReLU applies f(x) = max(0, x) element-wise.
func (b *Backend) ReLU(x *tensor.Tensor) *tensor.Tensor {
	return unaryOp(x, func(v float32) float32 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Sigmoid applies f(x) = 1 / (1 + exp(-x)) element-wise.
func (b *Backend) Sigmoid(x *tensor.Tensor) *tensor.Tensor {
	return unaryOp(x, func(v float32) float32 {
		return float32(1.0 / (1.0 + math.Exp(-float64(v))))
	})
}

// Tanh applies the hyperbolic tangent element-wise.
func (b *Backend) Tanh(x *tensor.Tensor) *tensor.Tensor {
	return unaryOp(x, func(v float32) float32 {
		return float32(math.Tanh(float64(v)))
	})
}

// Softmax normalizes values along the last dimension into probabilities.
// Only dim == last dimension (or -1) is supported.
func (b *Backend) Softmax(x *tensor.Tensor, dim int) *tensor.Tensor {
	shape := x.Shape()
	last := len(shape) - 1
	if dim == -1 {
		dim = last
	}
	if dim != last {
		panic(fmt.Sprintf("cpu: softmax only supports the last dimension, got dim=%d for shape %v", dim, shape))
	}

	rowLen := shape[last]
	out := tensor.New(shape, tensor.Float32)
	xData, outData := x.AsFloat32(), out.AsFloat32()

	for start := 0; start < len(xData); start += rowLen {
		row := xData[start : start+rowLen]
		outRow := outData[start : start+rowLen]
		softmaxRow(row, outRow)
	}
	return out
}

// softmaxRow writes softmax(row) into out using the max-subtraction trick.
func softmaxRow(row, out []float32) {
	maxVal := row[0]
	for _, v := range row[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	var sum float64
	for i, v := range row {
		e := math.Exp(float64(v - maxVal))
		out[i] = float32(e)
		sum += e
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
}

// CrossEntropy computes mean(-log_softmax(logits)[target]) over the batch.
//
// logits: [B, C] float32, targets: [B] int32. Returns a [1] scalar tensor.
// Uses the log-sum-exp trick for numerical stability.
func (b *Backend) CrossEntropy(logits, targets *tensor.Tensor) *tensor.Tensor {
	shape := logits.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("cpu: cross entropy requires 2D logits [batch, classes], got %v", shape))
	}
	batch, classes := shape[0], shape[1]

	targetData := targets.AsInt32()
	if len(targetData) != batch {
		panic(fmt.Sprintf("cpu: cross entropy targets length %d != batch size %d", len(targetData), batch))
	}

	logitsData := logits.AsFloat32()
	var total float64
	for i := 0; i < batch; i++ {
		row := logitsData[i*classes : (i+1)*classes]
		target := int(targetData[i])
		if target < 0 || target >= classes {
			panic(fmt.Sprintf("cpu: cross entropy target %d out of range [0, %d)", target, classes))
		}

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
		logSumExp := float64(maxVal) + math.Log(sumExp)
		total += logSumExp - float64(row[target])
	}

	out := tensor.New(tensor.Shape{1}, tensor.Float32)
	out.AsFloat32()[0] = float32(total / float64(batch))
	return out
}

// Embedding looks up rows of weight [V, E] by id.
//
// indices may have any shape; the result has shape indices.Shape() + [E].
// Panics if an index is outside [0, V).
func (b *Backend) Embedding(weight, indices *tensor.Tensor) *tensor.Tensor {
	wShape := weight.Shape()
	if len(wShape) != 2 {
		panic(fmt.Sprintf("cpu: embedding weight must be 2D [vocab, dim], got %v", wShape))
	}
	vocab, dim := wShape[0], wShape[1]

	idxData := indices.AsInt32()
	outShape := append(indices.Shape().Clone(), dim)
	out := tensor.New(outShape, tensor.Float32)
	wData, outData := weight.AsFloat32(), out.AsFloat32()

	for i, id := range idxData {
		if id < 0 || int(id) >= vocab {
			panic(fmt.Sprintf("cpu: embedding index %d out of range [0, %d)", id, vocab))
		}
		copy(outData[i*dim:(i+1)*dim], wData[int(id)*dim:(int(id)+1)*dim])
	}
	return out
}
