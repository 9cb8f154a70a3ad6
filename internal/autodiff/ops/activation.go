package ops

import "github.com/charly3d/diplodatos/internal/tensor"

// ReLUOp represents the rectified linear unit: output = max(0, x).
//
// d(ReLU(x))/dx = 1 where x > 0, else 0.
type ReLUOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.Tensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward masks the output gradient where the input was non-positive.
func (op *ReLUOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	grad := tensor.New(op.input.Shape(), tensor.Float32)
	inData := op.input.AsFloat32()
	gData, outData := outputGrad.AsFloat32(), grad.AsFloat32()
	for i, v := range inData {
		if v > 0 {
			outData[i] = gData[i]
		}
	}
	return []*tensor.Tensor{grad}
}

// Inputs returns [x].
func (op *ReLUOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns max(0, x).
func (op *ReLUOp) Output() *tensor.Tensor { return op.output }

// SigmoidOp represents the logistic sigmoid: output = 1 / (1 + exp(-x)).
//
// The derivative is computed from the output: σ'(x) = σ(x)(1 - σ(x)).
type SigmoidOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewSigmoidOp creates a new SigmoidOp.
func NewSigmoidOp(input, output *tensor.Tensor) *SigmoidOp {
	return &SigmoidOp{input: input, output: output}
}

// Backward computes grad * y * (1 - y).
func (op *SigmoidOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	grad := tensor.New(op.input.Shape(), tensor.Float32)
	yData := op.output.AsFloat32()
	gData, outData := outputGrad.AsFloat32(), grad.AsFloat32()
	for i, y := range yData {
		outData[i] = gData[i] * y * (1 - y)
	}
	return []*tensor.Tensor{grad}
}

// Inputs returns [x].
func (op *SigmoidOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns σ(x).
func (op *SigmoidOp) Output() *tensor.Tensor { return op.output }

// TanhOp represents the hyperbolic tangent activation.
//
// The derivative is computed from the output: tanh'(x) = 1 - tanh²(x).
type TanhOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewTanhOp creates a new TanhOp.
func NewTanhOp(input, output *tensor.Tensor) *TanhOp {
	return &TanhOp{input: input, output: output}
}

// Backward computes grad * (1 - y²).
func (op *TanhOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	grad := tensor.New(op.input.Shape(), tensor.Float32)
	yData := op.output.AsFloat32()
	gData, outData := outputGrad.AsFloat32(), grad.AsFloat32()
	for i, y := range yData {
		outData[i] = gData[i] * (1 - y*y)
	}
	return []*tensor.Tensor{grad}
}

// Inputs returns [x].
func (op *TanhOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns tanh(x).
func (op *TanhOp) Output() *tensor.Tensor { return op.output }
