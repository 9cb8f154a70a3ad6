package ops

import "github.com/charly3d/diplodatos/internal/tensor"

// Conv2DOp represents 2D cross-correlation of input with kernel.
//
// The backward pass walks every output position once and accumulates into
// both the input gradient (weighted by the kernel) and the kernel gradient
// (weighted by the input), which is the loop-level transcription of
//
//	dL/dIn[n,ic,iy,ix] = Σ dL/dOut[n,oc,oy,ox] * K[oc,ic,ky,kx]
//	dL/dK[oc,ic,ky,kx] = Σ dL/dOut[n,oc,oy,ox] * In[n,ic,iy,ix]
//
// with iy = oy*stride + ky - padding, ix analogous.
type Conv2DOp struct {
	input   *tensor.Tensor // [N, Cin, H, W]
	kernel  *tensor.Tensor // [Cout, Cin, kH, kW]
	output  *tensor.Tensor // [N, Cout, outH, outW]
	stride  int
	padding int
}

// NewConv2DOp creates a new Conv2DOp.
func NewConv2DOp(input, kernel, output *tensor.Tensor, stride, padding int) *Conv2DOp {
	return &Conv2DOp{input: input, kernel: kernel, output: output, stride: stride, padding: padding}
}

// Backward computes gradients for the input and the kernel.
func (op *Conv2DOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	inShape, kShape, outShape := op.input.Shape(), op.kernel.Shape(), op.output.Shape()
	n, cin, h, w := inShape[0], inShape[1], inShape[2], inShape[3]
	cout, kh, kw := kShape[0], kShape[2], kShape[3]
	outH, outW := outShape[2], outShape[3]

	gradInput := tensor.New(inShape, tensor.Float32)
	gradKernel := tensor.New(kShape, tensor.Float32)

	inData := op.input.AsFloat32()
	kData := op.kernel.AsFloat32()
	gData := outputGrad.AsFloat32()
	giData := gradInput.AsFloat32()
	gkData := gradKernel.AsFloat32()

	for img := 0; img < n; img++ {
		for oc := 0; oc < cout; oc++ {
			for oy := 0; oy < outH; oy++ {
				for ox := 0; ox < outW; ox++ {
					g := gData[((img*cout+oc)*outH+oy)*outW+ox]
					if g == 0 {
						continue
					}
					for ic := 0; ic < cin; ic++ {
						for ky := 0; ky < kh; ky++ {
							iy := oy*op.stride + ky - op.padding
							if iy < 0 || iy >= h {
								continue
							}
							for kx := 0; kx < kw; kx++ {
								ix := ox*op.stride + kx - op.padding
								if ix < 0 || ix >= w {
									continue
								}
								inIdx := ((img*cin+ic)*h+iy)*w + ix
								kIdx := ((oc*cin+ic)*kh+ky)*kw + kx
								giData[inIdx] += g * kData[kIdx]
								gkData[kIdx] += g * inData[inIdx]
							}
						}
					}
				}
			}
		}
	}

	return []*tensor.Tensor{gradInput, gradKernel}
}

// Inputs returns [input, kernel].
func (op *Conv2DOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input, op.kernel} }

// Output returns the convolution result.
func (op *Conv2DOp) Output() *tensor.Tensor { return op.output }

// MaxPool2DOp represents max pooling with a rectangular window.
//
// The backward pass re-finds the argmax of each window in the stored input
// and routes the output gradient to that position. Overlapping windows
// accumulate.
type MaxPool2DOp struct {
	input            *tensor.Tensor
	output           *tensor.Tensor
	kernelH, kernelW int
	strideH, strideW int
}

// NewMaxPool2DOp creates a new MaxPool2DOp.
func NewMaxPool2DOp(input, output *tensor.Tensor, kernelH, kernelW, strideH, strideW int) *MaxPool2DOp {
	return &MaxPool2DOp{
		input: input, output: output,
		kernelH: kernelH, kernelW: kernelW,
		strideH: strideH, strideW: strideW,
	}
}

// Backward routes each output gradient to the argmax position of its window.
func (op *MaxPool2DOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	inShape, outShape := op.input.Shape(), op.output.Shape()
	n, c, h, w := inShape[0], inShape[1], inShape[2], inShape[3]
	outH, outW := outShape[2], outShape[3]

	grad := tensor.New(inShape, tensor.Float32)
	inData := op.input.AsFloat32()
	gData := outputGrad.AsFloat32()
	giData := grad.AsFloat32()

	for img := 0; img < n; img++ {
		for ch := 0; ch < c; ch++ {
			base := (img*c + ch) * h * w
			for oy := 0; oy < outH; oy++ {
				for ox := 0; ox < outW; ox++ {
					bestIdx := base + (oy*op.strideH)*w + ox*op.strideW
					bestVal := inData[bestIdx]
					for ky := 0; ky < op.kernelH; ky++ {
						for kx := 0; kx < op.kernelW; kx++ {
							idx := base + (oy*op.strideH+ky)*w + (ox*op.strideW + kx)
							if inData[idx] > bestVal {
								bestVal = inData[idx]
								bestIdx = idx
							}
						}
					}
					giData[bestIdx] += gData[((img*c+ch)*outH+oy)*outW+ox]
				}
			}
		}
	}

	return []*tensor.Tensor{grad}
}

// Inputs returns [input].
func (op *MaxPool2DOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns the pooled tensor.
func (op *MaxPool2DOp) Output() *tensor.Tensor { return op.output }
