package io

import (
	"sync"

	"github.com/ecopia-map/seg2ply/internal/converter"
	"github.com/ecopia-map/seg2ply/internal/data"
)

type StandardProducer struct {
	datasets []converter.Dataset
	palette  *data.Palette
}

func NewStandardProducer(datasets []converter.Dataset, palette *data.Palette) *StandardProducer {
	return &StandardProducer{
		datasets: datasets,
		palette:  palette,
	}
}

// Submits one WorkUnit per dataset to the provided work channel, in order.
// Stops early when stop is closed. Closes the channel when all work is submitted.
func (p *StandardProducer) Produce(work chan *WorkUnit, wg *sync.WaitGroup, stop <-chan struct{}) {
	defer wg.Done()
	defer close(work)

	for i, ds := range p.datasets {
		unit := &WorkUnit{
			Seq:     i,
			Dataset: ds,
			Palette: p.palette,
		}
		select {
		case <-stop:
			return
		default:
		}
		select {
		case work <- unit:
		case <-stop:
			return
		}
	}
}
