package ply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/ecopia-map/seg2ply/internal/data"
	"github.com/google/uuid"
)

// EncodeVertex writes the little endian record of p into dst[:VertexSize].
func EncodeVertex(dst []byte, p data.Point) {
	_ = dst[VertexSize-1]
	binary.LittleEndian.PutUint32(dst[0:], math.Float32bits(p.X))
	binary.LittleEndian.PutUint32(dst[4:], math.Float32bits(p.Y))
	binary.LittleEndian.PutUint32(dst[8:], math.Float32bits(p.Z))
	dst[12] = p.R
	dst[13] = p.G
	dst[14] = p.B
	binary.LittleEndian.PutUint16(dst[15:], p.PredLabel)
	binary.LittleEndian.PutUint16(dst[17:], p.GtLabel)
}

// WriteVertices writes the header followed by one record per vertex, in order,
// and returns the number of bytes written.
func WriteVertices(w io.Writer, verts []data.Point) (int64, error) {
	bw := bufio.NewWriterSize(w, 64*1024)

	header := Header(len(verts))
	if _, err := bw.WriteString(header); err != nil {
		return 0, err
	}

	var record [VertexSize]byte
	for i := range verts {
		EncodeVertex(record[:], verts[i])
		if _, err := bw.Write(record[:]); err != nil {
			return 0, err
		}
	}

	if err := bw.Flush(); err != nil {
		return 0, err
	}
	return int64(len(header)) + int64(len(verts))*VertexSize, nil
}

// WritePlyFile writes verts as a binary little endian PLY file at filePath,
// replacing any existing file. Data goes to a temporary file in the same
// folder which is renamed over filePath once complete, so a failed write
// leaves no partial file behind. Errors wrap data.ErrIOFailure.
func WritePlyFile(filePath string, verts []data.Point) (int64, error) {
	dir, base := filepath.Split(filePath)
	if dir == "" {
		dir = "."
	}
	tmpPath := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("%w: create %s: %w", data.ErrIOFailure, tmpPath, err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	n, err := WriteVertices(f, verts)
	if err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("%w: write %s: %w", data.ErrIOFailure, filePath, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("%w: close %s: %w", data.ErrIOFailure, filePath, err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		return 0, fmt.Errorf("%w: rename to %s: %w", data.ErrIOFailure, filePath, err)
	}
	committed = true

	return n, nil
}
