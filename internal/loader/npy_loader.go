package loader

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ecopia-map/seg2ply/internal/data"
	"github.com/sbinet/npyio/npy"
)

// LoadArray reads a NumPy .npy file into a row major float64 Array.
// Errors wrap data.ErrLoadFailure.
func LoadArray(filePath string) (*data.Array, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", data.ErrLoadFailure, err)
	}
	defer f.Close()

	arr, err := ReadArray(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return arr, nil
}

// ReadArray decodes one .npy stream. Every numeric and bool dtype is accepted
// and widened to float64; Fortran ordered data is rearranged to row major.
func ReadArray(r io.Reader) (*data.Array, error) {
	rd, err := npy.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", data.ErrLoadFailure, err)
	}

	shape := rd.Header.Descr.Shape
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: scalar arrays are not supported", data.ErrLoadFailure)
	}

	values, err := readValues(rd)
	if err != nil {
		return nil, err
	}
	if rd.Header.Descr.Fortran && len(shape) > 1 {
		values = columnToRowMajor(values, shape)
	}

	arr, err := data.NewArray(values, shape...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", data.ErrLoadFailure, err)
	}
	return arr, nil
}

func readValues(rd *npy.Reader) ([]float64, error) {
	dtype := rd.Header.Descr.Type
	var err error
	var values []float64

	switch strings.TrimLeft(dtype, "<>|=") {
	case "f8":
		err = rd.Read(&values)
	case "f4":
		values, err = readAs[float32](rd)
	case "i1":
		values, err = readAs[int8](rd)
	case "u1":
		values, err = readAs[uint8](rd)
	case "i2":
		values, err = readAs[int16](rd)
	case "u2":
		values, err = readAs[uint16](rd)
	case "i4":
		values, err = readAs[int32](rd)
	case "u4":
		values, err = readAs[uint32](rd)
	case "i8":
		values, err = readAs[int64](rd)
	case "u8":
		values, err = readAs[uint64](rd)
	case "b1":
		var raw []bool
		err = rd.Read(&raw)
		values = make([]float64, len(raw))
		for i, b := range raw {
			if b {
				values[i] = 1
			}
		}
	default:
		return nil, fmt.Errorf("%w: unsupported dtype %q", data.ErrLoadFailure, dtype)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: read %s data: %w", data.ErrLoadFailure, dtype, err)
	}
	return values, nil
}

type numeric interface {
	~float32 | ~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64
}

func readAs[T numeric](rd *npy.Reader) ([]float64, error) {
	var raw []T
	if err := rd.Read(&raw); err != nil {
		return nil, err
	}
	values := make([]float64, len(raw))
	for i, v := range raw {
		values[i] = float64(v)
	}
	return values, nil
}

// columnToRowMajor reorders Fortran (column major) data into C order.
func columnToRowMajor(values []float64, shape []int) []float64 {
	out := make([]float64, len(values))
	idx := make([]int, len(shape))
	for k := range out {
		// k is the row major position; walk idx alongside it
		off, stride := 0, 1
		for d := 0; d < len(shape); d++ {
			off += idx[d] * stride
			stride *= shape[d]
		}
		out[k] = values[off]

		for d := len(shape) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return out
}
