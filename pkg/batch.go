package pkg

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/ecopia-map/seg2ply/internal/converter"
	"github.com/ecopia-map/seg2ply/internal/data"
	"github.com/ecopia-map/seg2ply/internal/io"
	"github.com/ecopia-map/seg2ply/tools"
	"github.com/golang/glog"
)

type Batch struct {
	datasetFinder tools.DatasetFinder
	newProducer   func(datasets []converter.Dataset, palette *data.Palette) io.Producer
	newConsumer   func() *io.StandardConsumer
}

func NewBatch(datasetFinder tools.DatasetFinder) *Batch {
	return &Batch{
		datasetFinder: datasetFinder,
		newProducer: func(datasets []converter.Dataset, palette *data.Palette) io.Producer {
			return io.NewStandardProducer(datasets, palette)
		},
		newConsumer: io.NewStandardConsumer,
	}
}

// Summary collects the per dataset results of a batch run, in dataset order.
// Datasets skipped after a failure in fail fast mode have a nil Result.
type Summary struct {
	Datasets []converter.Dataset
	Results  []*converter.Result
}

func (s *Summary) Counts() (succeeded, failed, skipped int) {
	for _, r := range s.Results {
		switch {
		case r == nil:
			skipped++
		case r.Succeeded():
			succeeded++
		default:
			failed++
		}
	}
	return
}

// Starts the batch conversion. The returned Summary is filled even when an error
// is returned because some datasets failed.
func (batch *Batch) RunBatch(opts *converter.BatchOptions) (*Summary, error) {
	opts = opts.Copy()
	if opts.Palette == nil {
		opts.Palette = data.DefaultPalette()
	}

	glog.Infoln("Preparing list of datasets to process...")

	datasets, err := batch.datasetFinder.GetDatasetsToProcess(opts)
	if err != nil {
		return nil, err
	}
	if len(datasets) == 0 {
		return nil, fmt.Errorf("no datasets found in %s", opts.Layout.DataRoot)
	}
	for i, ds := range datasets {
		glog.Infof("dataset %d/%d [%s] -> %s", i+1, len(datasets), ds.Name, ds.OutputPath)
	}

	if err := tools.CreateDirectoryIfDoesNotExist(opts.Layout.OutputDir); err != nil {
		return nil, fmt.Errorf("%w: %w", data.ErrIOFailure, err)
	}

	summary := batch.convertDatasets(datasets, opts)

	if opts.ReportPath != "" {
		if err := WriteReport(opts.ReportPath, NewReport(summary)); err != nil {
			glog.Errorf("writing report %s failed: %v", opts.ReportPath, err)
		} else {
			tools.LogOutput("Report written:", opts.ReportPath)
		}
	}

	succeeded, failed, skipped := summary.Counts()
	tools.LogOutput(fmt.Sprintf("> done: %d succeeded, %d failed, %d skipped", succeeded, failed, skipped))
	if failed > 0 {
		return summary, fmt.Errorf("%d of %d datasets failed", failed, len(datasets))
	}
	if skipped > 0 {
		return summary, errors.New("batch stopped early")
	}
	return summary, nil
}

// Runs the conversions on a pool of consumers fed by a single producer
func (batch *Batch) convertDatasets(datasets []converter.Dataset, opts *converter.BatchOptions) *Summary {
	numConsumers := opts.Workers
	if numConsumers < 1 {
		numConsumers = 1
	}
	if numConsumers > runtime.NumCPU() {
		glog.Warningf("workers %d is more than the %d available CPUs", numConsumers, runtime.NumCPU())
	}

	// init channel where to submit work with a buffer 5 times greater than the number of consumer
	workChannel := make(chan *io.WorkUnit, numConsumers*5)

	// every dataset yields at most one outcome
	resultChannel := make(chan io.Outcome, len(datasets))

	// closed on the first failure when fail fast is enabled
	stop := make(chan struct{})
	var stopOnce sync.Once

	var waitGroup sync.WaitGroup

	waitGroup.Add(1)
	producer := batch.newProducer(datasets, opts.Palette)
	go producer.Produce(workChannel, &waitGroup, stop)

	for i := 0; i < numConsumers; i++ {
		waitGroup.Add(1)
		consumer := batch.newConsumer()
		go consumer.Consume(workChannel, resultChannel, stop, &waitGroup)
	}

	go func() {
		waitGroup.Wait()
		close(resultChannel)
	}()

	summary := &Summary{
		Datasets: datasets,
		Results:  make([]*converter.Result, len(datasets)),
	}
	for outcome := range resultChannel {
		res := outcome.Result
		summary.Results[outcome.Seq] = res
		logResult(res)

		if !res.Succeeded() && opts.FailFast {
			stopOnce.Do(func() { close(stop) })
		}
	}

	return summary
}

func logResult(res *converter.Result) {
	if !res.Succeeded() {
		glog.Errorf("dataset %s failed [%s]: %v", res.Dataset.Name, data.ErrorKind(res.Err), res.Err)
		return
	}

	tools.LogOutput("Successfully saved:", res.Dataset.OutputPath)
	glog.Infof("%s: %d points, %s", filepath.Base(res.Dataset.OutputPath), res.NumPoints, humanize.Bytes(uint64(res.Bytes)))
	if res.Sample != nil {
		tools.LogOutput("Sample vertex:", converter.FormatSampleVertex(*res.Sample))
	}
}
