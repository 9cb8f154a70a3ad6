package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTensor(t *testing.T) {
	x := New(Shape{2, 3}, Float32)
	assert.Equal(t, Shape{2, 3}, x.Shape())
	assert.Equal(t, Float32, x.DType())
	assert.Equal(t, 6, x.NumElements())
	assert.Equal(t, []float32{0, 0, 0, 0, 0, 0}, x.AsFloat32())
}

func TestNewTensorInvalidShape(t *testing.T) {
	assert.Panics(t, func() { New(Shape{2, -1}, Float32) })
	assert.Panics(t, func() { New(Shape{0, 3}, Float32) })
}

func TestFromFloat32(t *testing.T) {
	x := FromFloat32([]float32{1, 2, 3, 4}, Shape{2, 2})
	assert.Equal(t, float32(3), x.At(1, 0))

	assert.Panics(t, func() {
		FromFloat32([]float32{1, 2, 3}, Shape{2, 2})
	})
}

func TestFromInt32(t *testing.T) {
	x := FromInt32([]int32{5, 6}, Shape{2})
	assert.Equal(t, Int32, x.DType())
	assert.Equal(t, []int32{5, 6}, x.AsInt32())

	assert.Panics(t, func() { x.AsFloat32() })
}

func TestAtSet(t *testing.T) {
	x := Zeros(Shape{2, 3})
	x.Set(7, 1, 2)
	assert.Equal(t, float32(7), x.At(1, 2))
	assert.Equal(t, float32(7), x.AsFloat32()[5])
}

func TestItem(t *testing.T) {
	x := FromFloat32([]float32{42}, Shape{1})
	assert.Equal(t, float32(42), x.Item())

	multi := FromFloat32([]float32{1, 2}, Shape{2})
	assert.Panics(t, func() { multi.Item() })
}

func TestClone(t *testing.T) {
	x := FromFloat32([]float32{1, 2}, Shape{2})
	y := x.Clone()
	y.AsFloat32()[0] = 99
	assert.Equal(t, float32(1), x.AsFloat32()[0])
}

func TestFullAndOnes(t *testing.T) {
	assert.Equal(t, []float32{3, 3}, Full(Shape{2}, 3).AsFloat32())
	assert.Equal(t, []float32{1, 1, 1}, Ones(Shape{3}).AsFloat32())
}

func TestComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{1}, Shape{5}.ComputeStrides())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Shape
		want    Shape
		wantErr bool
	}{
		{"same", Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false},
		{"scalar", Shape{2, 3}, Shape{1}, Shape{2, 3}, false},
		{"row", Shape{4, 3}, Shape{3}, Shape{4, 3}, false},
		{"column", Shape{4, 1}, Shape{1, 3}, Shape{4, 3}, false},
		{"bias4d", Shape{2, 6, 8, 8}, Shape{1, 6, 1, 1}, Shape{2, 6, 8, 8}, false},
		{"mismatch", Shape{2, 3}, Shape{2, 4}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
