package pkg

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ecopia-map/seg2ply/internal/data"
	"gopkg.in/yaml.v3"
)

const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

type Report struct {
	Generated string          `yaml:"generated"`
	Succeeded int             `yaml:"succeeded"`
	Failed    int             `yaml:"failed"`
	Skipped   int             `yaml:"skipped"`
	Datasets  []DatasetReport `yaml:"datasets"`
}

type DatasetReport struct {
	Name      string        `yaml:"name"`
	Output    string        `yaml:"output"`
	Status    string        `yaml:"status"`
	Points    int           `yaml:"points,omitempty"`
	Bytes     int64         `yaml:"bytes,omitempty"`
	Size      string        `yaml:"size,omitempty"`
	Labels    map[int]int   `yaml:"labels,omitempty"`
	Bounds    *BoundsReport `yaml:"bounds,omitempty"`
	ErrorKind string        `yaml:"error_kind,omitempty"`
	Error     string        `yaml:"error,omitempty"`
}

type BoundsReport struct {
	Min [3]float64 `yaml:"min,flow"`
	Max [3]float64 `yaml:"max,flow"`
}

// Builds the run report of a batch summary
func NewReport(summary *Summary) *Report {
	report := &Report{
		Generated: time.Now().UTC().Format(time.RFC3339),
		Datasets:  make([]DatasetReport, len(summary.Datasets)),
	}
	report.Succeeded, report.Failed, report.Skipped = summary.Counts()

	for i, ds := range summary.Datasets {
		entry := DatasetReport{
			Name:   ds.Name,
			Output: ds.OutputPath,
			Status: StatusSkipped,
		}

		if res := summary.Results[i]; res != nil {
			if res.Succeeded() {
				entry.Status = StatusOK
				entry.Points = res.NumPoints
				entry.Bytes = res.Bytes
				entry.Size = humanize.Bytes(uint64(res.Bytes))
				entry.Labels = res.Histogram
				if res.HasBounds {
					entry.Bounds = &BoundsReport{Min: res.Bounds.Min, Max: res.Bounds.Max}
				}
			} else {
				entry.Status = StatusFailed
				entry.ErrorKind = data.ErrorKind(res.Err)
				entry.Error = res.Err.Error()
			}
		}
		report.Datasets[i] = entry
	}
	return report
}

func WriteReport(filePath string, report *Report) error {
	out, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(filePath, out, 0666); err != nil {
		return fmt.Errorf("%w: %w", data.ErrIOFailure, err)
	}
	return nil
}
