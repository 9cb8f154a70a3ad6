// Package tensor provides the core tensor types for the diplodatos teaching
// framework.
//
// The framework keeps two runtime data types: Float32 for features, weights
// and activations, and Int32 for class labels and token ids. Tensors are
// dense, row-major and always contiguous.
package tensor

import (
	"fmt"
	"math/rand"
)

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Int32
)

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	default:
		return "unknown"
	}
}

// Tensor is a dense, row-major tensor holding either float32 or int32 data.
//
// Exactly one of the underlying slices is allocated, selected by the dtype.
// Accessors panic on dtype mismatch, mirroring the fail-fast convention used
// throughout the framework for shape errors.
type Tensor struct {
	shape  Shape
	stride []int
	dtype  DataType
	f32    []float32
	i32    []int32
}

// New creates a zero-initialized tensor with the given shape and dtype.
// Panics if the shape has a non-positive dimension.
func New(shape Shape, dtype DataType) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("tensor: invalid shape: %v", err))
	}

	t := &Tensor{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
	}
	n := shape.NumElements()
	switch dtype {
	case Float32:
		t.f32 = make([]float32, n)
	case Int32:
		t.i32 = make([]int32, n)
	default:
		panic(fmt.Sprintf("tensor: unsupported dtype %s", dtype))
	}
	return t
}

// FromFloat32 creates a Float32 tensor by copying data.
// Panics if len(data) does not match the shape.
func FromFloat32(data []float32, shape Shape) *Tensor {
	if len(data) != shape.NumElements() {
		panic(fmt.Sprintf("tensor: data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements()))
	}
	t := New(shape, Float32)
	copy(t.f32, data)
	return t
}

// FromInt32 creates an Int32 tensor by copying data.
// Panics if len(data) does not match the shape.
func FromInt32(data []int32, shape Shape) *Tensor {
	if len(data) != shape.NumElements() {
		panic(fmt.Sprintf("tensor: data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements()))
	}
	t := New(shape, Int32)
	copy(t.i32, data)
	return t
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Strides returns the tensor's row-major memory strides.
func (t *Tensor) Strides() []int {
	return t.stride
}

// DType returns the tensor's data type.
func (t *Tensor) DType() DataType {
	return t.dtype
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.shape.NumElements()
}

// AsFloat32 returns the underlying float32 slice.
// Panics if the tensor's dtype is not Float32.
func (t *Tensor) AsFloat32() []float32 {
	if t.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", t.dtype))
	}
	return t.f32
}

// AsInt32 returns the underlying int32 slice.
// Panics if the tensor's dtype is not Int32.
func (t *Tensor) AsInt32() []int32 {
	if t.dtype != Int32 {
		panic(fmt.Sprintf("tensor dtype is %s, not int32", t.dtype))
	}
	return t.i32
}

// At returns the float32 element at the given multi-dimensional indices.
func (t *Tensor) At(indices ...int) float32 {
	return t.AsFloat32()[t.flatIndex(indices)]
}

// Set stores a float32 value at the given multi-dimensional indices.
func (t *Tensor) Set(value float32, indices ...int) {
	t.AsFloat32()[t.flatIndex(indices)] = value
}

// Item returns the single element of a scalar (one-element) tensor.
func (t *Tensor) Item() float32 {
	if t.NumElements() != 1 {
		panic(fmt.Sprintf("tensor: Item() requires a single-element tensor, shape is %v", t.shape))
	}
	return t.AsFloat32()[0]
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	c := New(t.shape, t.dtype)
	switch t.dtype {
	case Float32:
		copy(c.f32, t.f32)
	case Int32:
		copy(c.i32, t.i32)
	}
	return c
}

// String returns a compact description of the tensor.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v, dtype=%s)", t.shape, t.dtype)
}

func (t *Tensor) flatIndex(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("tensor: expected %d indices, got %d", len(t.shape), len(indices)))
	}
	flat := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range for dimension %d (size %d)",
				idx, i, t.shape[i]))
		}
		flat += idx * t.stride[i]
	}
	return flat
}

// Zeros creates a Float32 tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return New(shape, Float32)
}

// Ones creates a Float32 tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return Full(shape, 1.0)
}

// Full creates a Float32 tensor filled with the given value.
func Full(shape Shape, value float32) *Tensor {
	t := New(shape, Float32)
	for i := range t.f32 {
		t.f32[i] = value
	}
	return t
}

// Randn creates a Float32 tensor with values drawn from N(0, 1).
func Randn(shape Shape) *Tensor {
	t := New(shape, Float32)
	for i := range t.f32 {
		t.f32[i] = float32(rand.NormFloat64())
	}
	return t
}
