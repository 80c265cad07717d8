package ply

import (
	"strconv"
	"strings"
)

// VertexSize is the size in bytes of one encoded vertex record:
// x,y,z float32 + red,green,blue uint8 + pred_label,gt_label uint16, no padding.
const VertexSize = 19

const (
	FormatBinaryLittleEndian = "binary_little_endian 1.0"
	ElementVertex            = "vertex"
)

// Property describes one scalar vertex property as declared in the header.
type Property struct {
	Type string
	Name string
	Size int
}

// VertexProperties is the fixed vertex layout, in record order.
var VertexProperties = []Property{
	{Type: "float", Name: "x", Size: 4},
	{Type: "float", Name: "y", Size: 4},
	{Type: "float", Name: "z", Size: 4},
	{Type: "uchar", Name: "red", Size: 1},
	{Type: "uchar", Name: "green", Size: 1},
	{Type: "uchar", Name: "blue", Size: 1},
	{Type: "ushort", Name: "pred_label", Size: 2},
	{Type: "ushort", Name: "gt_label", Size: 2},
}

// Header returns the ASCII header declaring numVertices vertex records.
// Every line, including the last, ends with '\n'.
func Header(numVertices int) string {
	var sb strings.Builder
	sb.WriteString("ply\n")
	sb.WriteString("format " + FormatBinaryLittleEndian + "\n")
	sb.WriteString("element " + ElementVertex + " " + strconv.Itoa(numVertices) + "\n")
	for _, p := range VertexProperties {
		sb.WriteString("property " + p.Type + " " + p.Name + "\n")
	}
	sb.WriteString("end_header\n")
	return sb.String()
}
