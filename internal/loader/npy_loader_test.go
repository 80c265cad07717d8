package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ecopia-map/seg2ply/internal/data"
	"github.com/sbinet/npyio/npy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func encode(t *testing.T, val interface{}) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, npy.Write(buf, val))
	return buf
}

func TestReadArray_Float64Matrix(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})

	arr, err := ReadArray(encode(t, m))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, arr.Shape)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, arr.Data)
	assert.Equal(t, []float64{4, 5, 6}, arr.Row(1))
}

func TestReadArray_WidensDtypes(t *testing.T) {
	tests := []struct {
		name string
		val  interface{}
	}{
		{"float32", []float32{1.5, -2, 7}},
		{"int64", []int64{1, -2, 7}},
		{"int32", []int32{1, -2, 7}},
		{"uint8", []uint8{1, 2, 7}},
		{"uint16", []uint16{1, 2, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arr, err := ReadArray(encode(t, tt.val))
			require.NoError(t, err)
			assert.Equal(t, 1, arr.Rank())
			assert.Equal(t, 3, arr.Len())
			assert.Equal(t, float64(7), arr.Data[2])
		})
	}
}

func TestReadArray_NotNpy(t *testing.T) {
	_, err := ReadArray(bytes.NewBufferString("definitely not a numpy file"))
	assert.ErrorIs(t, err, data.ErrLoadFailure)
}

func TestLoadArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segment.npy")
	require.NoError(t, os.WriteFile(path, encode(t, []int64{2, 12, 0}).Bytes(), 0644))

	arr, err := LoadArray(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 12, 0}, arr.Data)
}

func TestLoadArray_Missing(t *testing.T) {
	_, err := LoadArray(filepath.Join(t.TempDir(), "nope.npy"))
	assert.ErrorIs(t, err, data.ErrLoadFailure)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "LoadFailure", data.ErrorKind(err))
}

func TestColumnToRowMajor(t *testing.T) {
	// 2 x 3 matrix [[1 2 3] [4 5 6]] stored column by column
	got := columnToRowMajor([]float64{1, 4, 2, 5, 3, 6}, []int{2, 3})
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, got)

	// 2 x 2 x 2, value = 100*i + 10*j + k
	fortran := []float64{0, 100, 10, 110, 1, 101, 11, 111}
	got = columnToRowMajor(fortran, []int{2, 2, 2})
	assert.Equal(t, []float64{0, 1, 10, 11, 100, 101, 110, 111}, got)
}
