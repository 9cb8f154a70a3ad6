package cpu

import (
	"fmt"

	"github.com/charly3d/diplodatos/internal/tensor"
)

// Conv2D performs 2D cross-correlation (the convolution used by neural
// network layers).
//
// Shapes:
//
//	input:  [N, Cin, H, W]
//	kernel: [Cout, Cin, kH, kW]
//	output: [N, Cout, outH, outW]
//
// where outH = (H + 2*padding - kH)/stride + 1 and likewise for outW.
func (b *Backend) Conv2D(input, kernel *tensor.Tensor, stride, padding int) *tensor.Tensor {
	inShape, kShape := input.Shape(), kernel.Shape()
	if len(inShape) != 4 || len(kShape) != 4 {
		panic(fmt.Sprintf("cpu: conv2d requires 4D input and kernel, got %v and %v", inShape, kShape))
	}
	if inShape[1] != kShape[1] {
		panic(fmt.Sprintf("cpu: conv2d channel mismatch: input %d, kernel %d", inShape[1], kShape[1]))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("cpu: conv2d invalid stride %d", stride))
	}

	n, cin, h, w := inShape[0], inShape[1], inShape[2], inShape[3]
	cout, kh, kw := kShape[0], kShape[2], kShape[3]
	outH := (h+2*padding-kh)/stride + 1
	outW := (w+2*padding-kw)/stride + 1
	if outH <= 0 || outW <= 0 {
		panic(fmt.Sprintf("cpu: conv2d kernel %dx%d larger than padded input %dx%d", kh, kw, h, w))
	}

	out := tensor.New(tensor.Shape{n, cout, outH, outW}, tensor.Float32)
	inData, kData, outData := input.AsFloat32(), kernel.AsFloat32(), out.AsFloat32()

	for img := 0; img < n; img++ {
		for oc := 0; oc < cout; oc++ {
			for oy := 0; oy < outH; oy++ {
				for ox := 0; ox < outW; ox++ {
					var sum float32
					for ic := 0; ic < cin; ic++ {
						for ky := 0; ky < kh; ky++ {
							iy := oy*stride + ky - padding
							if iy < 0 || iy >= h {
								continue
							}
							for kx := 0; kx < kw; kx++ {
								ix := ox*stride + kx - padding
								if ix < 0 || ix >= w {
									continue
								}
								inIdx := ((img*cin+ic)*h+iy)*w + ix
								kIdx := ((oc*cin+ic)*kh+ky)*kw + kx
								sum += inData[inIdx] * kData[kIdx]
							}
						}
					}
					outData[((img*cout+oc)*outH+oy)*outW+ox] = sum
				}
			}
		}
	}
	return out
}

// MaxPool2D applies max pooling with a rectangular window.
//
// Shapes:
//
//	input:  [N, C, H, W]
//	output: [N, C, (H-kernelH)/strideH + 1, (W-kernelW)/strideW + 1]
//
// A rectangular window lets the text model reuse this operation for
// max-over-time pooling (window L x 1 over the sequence axis).
func (b *Backend) MaxPool2D(input *tensor.Tensor, kernelH, kernelW, strideH, strideW int) *tensor.Tensor {
	inShape := input.Shape()
	if len(inShape) != 4 {
		panic(fmt.Sprintf("cpu: maxpool2d requires 4D input, got %v", inShape))
	}
	if kernelH <= 0 || kernelW <= 0 || strideH <= 0 || strideW <= 0 {
		panic(fmt.Sprintf("cpu: maxpool2d invalid window %dx%d stride %dx%d", kernelH, kernelW, strideH, strideW))
	}

	n, c, h, w := inShape[0], inShape[1], inShape[2], inShape[3]
	outH := (h-kernelH)/strideH + 1
	outW := (w-kernelW)/strideW + 1
	if outH <= 0 || outW <= 0 {
		panic(fmt.Sprintf("cpu: maxpool2d window %dx%d larger than input %dx%d", kernelH, kernelW, h, w))
	}

	out := tensor.New(tensor.Shape{n, c, outH, outW}, tensor.Float32)
	inData, outData := input.AsFloat32(), out.AsFloat32()

	for img := 0; img < n; img++ {
		for ch := 0; ch < c; ch++ {
			base := (img*c + ch) * h * w
			for oy := 0; oy < outH; oy++ {
				for ox := 0; ox < outW; ox++ {
					maxVal := inData[base+(oy*strideH)*w+ox*strideW]
					for ky := 0; ky < kernelH; ky++ {
						for kx := 0; kx < kernelW; kx++ {
							v := inData[base+(oy*strideH+ky)*w+(ox*strideW+kx)]
							if v > maxVal {
								maxVal = v
							}
						}
					}
					outData[((img*c+ch)*outH+oy)*outW+ox] = maxVal
				}
			}
		}
	}
	return out
}
