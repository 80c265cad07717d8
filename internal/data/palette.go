package data

import (
	"fmt"
	"sort"
)

// Color is an 8 bit R,G,B triple.
type Color [3]uint8

// Palette maps predicted class labels to display colors. A Palette is
// immutable once built and safe for concurrent use.
type Palette struct {
	colors map[int]Color
}

var defaultPalette = mustPalette(map[int]Color{
	0:  {158, 218, 228}, // counter
	1:  {151, 223, 137}, // floor
	2:  {174, 198, 232}, // wall
	3:  {255, 187, 120}, // bed
	4:  {254, 127, 13},  // refrigerator
	5:  {196, 176, 213}, // window
	6:  {213, 39, 40},   // door
	7:  {188, 189, 35},  // chair
	8:  {255, 152, 151}, // table
	9:  {140, 86, 74},   // sofa
	10: {196, 156, 147}, // bookshelf
	11: {148, 103, 188}, // picture
	12: {0, 0, 0},       // clutter
})

// DefaultPalette returns the 13 class indoor scene palette.
func DefaultPalette() *Palette {
	return defaultPalette
}

// NewPalette copies entries into a new Palette. Labels must be non negative.
func NewPalette(entries map[int]Color) (*Palette, error) {
	colors := make(map[int]Color, len(entries))
	for label, c := range entries {
		if label < 0 {
			return nil, fmt.Errorf("palette label %d must be non negative", label)
		}
		colors[label] = c
	}
	return &Palette{colors: colors}, nil
}

func mustPalette(entries map[int]Color) *Palette {
	p, err := NewPalette(entries)
	if err != nil {
		panic(err)
	}
	return p
}

// ColorFor returns the color of label, or black for labels not in the palette.
func (p *Palette) ColorFor(label int) Color {
	if c, ok := p.colors[label]; ok {
		return c
	}
	return Color{}
}

// Labels returns the labels that have an entry, in ascending order.
func (p *Palette) Labels() []int {
	labels := make([]int, 0, len(p.colors))
	for l := range p.colors {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	return labels
}

func (p *Palette) Len() int {
	return len(p.colors)
}
