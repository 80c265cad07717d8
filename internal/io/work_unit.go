package io

import (
	"github.com/ecopia-map/seg2ply/internal/converter"
	"github.com/ecopia-map/seg2ply/internal/data"
)

// Contains the minimal data needed to produce a single ply file
type WorkUnit struct {
	Seq     int // position of the dataset in the batch
	Dataset converter.Dataset
	Palette *data.Palette
}
