package io

import (
	"sync"

	"github.com/ecopia-map/seg2ply/internal/converter"
	"github.com/golang/glog"
)

// Function converting a single dataset, converter.ConvertDataset by default
type ConvertFunc func(unit *WorkUnit) *converter.Result

type StandardConsumer struct {
	convert ConvertFunc
}

func NewStandardConsumer() *StandardConsumer {
	return &StandardConsumer{
		convert: func(unit *WorkUnit) *converter.Result {
			return converter.ConvertDataset(unit.Dataset, unit.Palette)
		},
	}
}

// Builds a consumer running fn instead of the default dataset conversion
func NewConsumerWithFunc(fn ConvertFunc) *StandardConsumer {
	return &StandardConsumer{convert: fn}
}

// Sequenced result of a WorkUnit
type Outcome struct {
	Seq    int
	Result *converter.Result
}

// Continually consumes WorkUnits submitted to a work channel, converting one dataset per unit
// and submitting the outcome to the results channel. A failed dataset does not stop the
// consumer, the error travels inside the Result. Once stop is closed the remaining units are
// drained without an outcome. Quits when the work channel is closed.
func (c *StandardConsumer) Consume(workchan chan *WorkUnit, results chan<- Outcome, stop <-chan struct{}, waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()

	for work := range workchan {
		select {
		case <-stop:
			glog.V(1).Infof("skipping dataset %s", work.Dataset.Name)
			continue
		default:
		}
		glog.V(1).Infof("converting dataset %s", work.Dataset.Name)
		results <- Outcome{Seq: work.Seq, Result: c.convert(work)}
	}
}
