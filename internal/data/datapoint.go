package data

// Contains data of a labeled Point Cloud Point, namely X,Y,Z coords,
// R,G,B display color, the predicted class and the ground truth class
type Point struct {
	X         float32
	Y         float32
	Z         float32
	R         uint8
	G         uint8
	B         uint8
	PredLabel uint16
	GtLabel   uint16
}

// Builds a new Point from the given coordinates, color and label values
func NewPoint(X, Y, Z float32, color Color, predLabel, gtLabel uint16) Point {
	return Point{
		X:         X,
		Y:         Y,
		Z:         Z,
		R:         color[0],
		G:         color[1],
		B:         color[2],
		PredLabel: predLabel,
		GtLabel:   gtLabel,
	}
}

func (p Point) Color() Color {
	return Color{p.R, p.G, p.B}
}
