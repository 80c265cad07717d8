package ply

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ecopia-map/seg2ply/internal/data"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wantHeader = "ply\n" +
	"format binary_little_endian 1.0\n" +
	"element vertex 1\n" +
	"property float x\n" +
	"property float y\n" +
	"property float z\n" +
	"property uchar red\n" +
	"property uchar green\n" +
	"property uchar blue\n" +
	"property ushort pred_label\n" +
	"property ushort gt_label\n" +
	"end_header\n"

// decodePly reads back what WriteVertices produces
func decodePly(t *testing.T, r io.Reader) (int, []data.Point) {
	t.Helper()
	br := bufio.NewReader(r)

	declared := -1
	for {
		line, err := br.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSuffix(line, "\n")
		if strings.HasPrefix(line, "element vertex ") {
			declared, err = strconv.Atoi(strings.TrimPrefix(line, "element vertex "))
			require.NoError(t, err)
		}
		if line == "end_header" {
			break
		}
	}

	body, err := io.ReadAll(br)
	require.NoError(t, err)
	require.Zero(t, len(body)%VertexSize, "body is not a whole number of records")

	points := make([]data.Point, len(body)/VertexSize)
	for i := range points {
		rec := body[i*VertexSize:]
		points[i] = data.Point{
			X:         math.Float32frombits(binary.LittleEndian.Uint32(rec[0:])),
			Y:         math.Float32frombits(binary.LittleEndian.Uint32(rec[4:])),
			Z:         math.Float32frombits(binary.LittleEndian.Uint32(rec[8:])),
			R:         rec[12],
			G:         rec[13],
			B:         rec[14],
			PredLabel: binary.LittleEndian.Uint16(rec[15:]),
			GtLabel:   binary.LittleEndian.Uint16(rec[17:]),
		}
	}
	return declared, points
}

func TestHeader(t *testing.T) {
	assert.Equal(t, wantHeader, Header(1))
	assert.Contains(t, Header(123456), "element vertex 123456\n")
	assert.Contains(t, Header(0), "element vertex 0\n")
}

func TestVertexPropertiesSize(t *testing.T) {
	size := 0
	for _, p := range VertexProperties {
		size += p.Size
	}
	assert.Equal(t, 19, size)
	assert.Equal(t, 19, VertexSize)
}

func TestEncodeVertex_NoPadding(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteVertices(&buf, []data.Point{
		data.NewPoint(1, 2, 3, data.Color{188, 189, 35}, 7, 2),
		data.NewPoint(4, 5, 6, data.Color{151, 223, 137}, 1, 0),
	})
	require.NoError(t, err)

	body := buf.Bytes()[len(Header(2)):]
	require.Len(t, body, 38)
	// second record starts right after the first gt_label
	assert.Equal(t, float32(4), math.Float32frombits(binary.LittleEndian.Uint32(body[19:])))
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, body[34:38])
}

func TestWriteVertices_ChairExample(t *testing.T) {
	p := data.NewPoint(1, 2, 3, data.DefaultPalette().ColorFor(7), 7, 2)

	var buf bytes.Buffer
	n, err := WriteVertices(&buf, []data.Point{p})
	require.NoError(t, err)

	want := []byte(wantHeader)
	want = append(want,
		0x00, 0x00, 0x80, 0x3f, // 1.0f
		0x00, 0x00, 0x00, 0x40, // 2.0f
		0x00, 0x00, 0x40, 0x40, // 3.0f
		188, 189, 35,
		0x07, 0x00,
		0x02, 0x00,
	)
	assert.Equal(t, want, buf.Bytes())
	assert.Equal(t, int64(len(want)), n)
}

func TestWriteVertices_RoundTrip(t *testing.T) {
	verts := []data.Point{
		{X: 0.1, Y: -2.5, Z: 1e-7, R: 1, G: 2, B: 3, PredLabel: 0, GtLabel: 65535},
		{X: float32(math.MaxFloat32), Y: -float32(math.SmallestNonzeroFloat32), Z: -0, R: 255, G: 0, B: 128, PredLabel: 12, GtLabel: 11},
		{X: 123456.789, Y: 3.14159, Z: -42, R: 188, G: 189, B: 35, PredLabel: 7, GtLabel: 2},
	}

	var buf bytes.Buffer
	n, err := WriteVertices(&buf, verts)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	declared, got := decodePly(t, &buf)
	assert.Equal(t, len(verts), declared)
	if diff := cmp.Diff(verts, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	for i := range verts {
		assert.Equal(t, math.Float32bits(verts[i].X), math.Float32bits(got[i].X))
		assert.Equal(t, math.Float32bits(verts[i].Y), math.Float32bits(got[i].Y))
		assert.Equal(t, math.Float32bits(verts[i].Z), math.Float32bits(got[i].Z))
	}
}

func TestWriteVertices_Empty(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteVertices(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(wantHeader, "element vertex 1", "element vertex 0", 1), buf.String())
}

func TestWriteVertices_LengthInvariant(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17, 1000} {
		verts := make([]data.Point, n)
		for i := range verts {
			verts[i] = data.Point{X: float32(i), PredLabel: uint16(i % 13)}
		}
		var buf bytes.Buffer
		_, err := WriteVertices(&buf, verts)
		require.NoError(t, err)

		assert.Equal(t, len(Header(n))+n*19, buf.Len())
		declared, got := decodePly(t, &buf)
		assert.Equal(t, n, declared)
		assert.Len(t, got, n)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, fmt.Errorf("disk full") }

func TestWriteVertices_WriterError(t *testing.T) {
	_, err := WriteVertices(failingWriter{}, []data.Point{{}})
	assert.Error(t, err)
}

func TestWritePlyFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "pred_1.ply")
	verts := []data.Point{{X: 1, Y: 2, Z: 3, R: 188, G: 189, B: 35, PredLabel: 7, GtLabel: 2}}

	n, err := WritePlyFile(out, verts)
	require.NoError(t, err)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, n, info.Size())

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	declared, got := decodePly(t, f)
	assert.Equal(t, 1, declared)
	assert.Equal(t, verts, got)

	// no temporary file left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWritePlyFile_TruncatesExisting(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.ply")
	require.NoError(t, os.WriteFile(out, bytes.Repeat([]byte("x"), 10000), 0644))

	n, err := WritePlyFile(out, []data.Point{{}})
	require.NoError(t, err)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, int(n), len(content))
	assert.True(t, strings.HasPrefix(string(content), "ply\n"))
}

func TestWritePlyFile_MissingFolder(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "out.ply")
	_, err := WritePlyFile(out, []data.Point{{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, data.ErrIOFailure)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "IOFailure", data.ErrorKind(err))
}
