package benchmark

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/sectorml/internal/contracts"
	"github.com/wonny/sectorml/pkg/logger"
)

// Aggregator reduces all industry datasets into cross-sectional
// median/mean benchmarks.
type Aggregator struct {
	logger *logger.Logger
}

// NewAggregator creates a new benchmark aggregator
func NewAggregator(log *logger.Logger) *Aggregator {
	return &Aggregator{logger: log}
}

// Aggregate builds one BenchmarkRow per industry. A metric with no
// observed values contributes 0.0 for both statistics rather than an
// undefined value. It errors only when zero industries produced any
// usable metrics.
func (a *Aggregator) Aggregate(ctx context.Context, datasets []*contracts.IndustryDataset) ([]contracts.BenchmarkRow, error) {
	var rows []contracts.BenchmarkRow
	usable := 0

	for _, ds := range datasets {
		if ds == nil {
			continue
		}

		row := contracts.BenchmarkRow{
			Industry:    ds.Industry,
			StockCount:  ds.StockCount(),
			RecordCount: len(ds.Records),
			Median:      make(map[string]float64),
			Mean:        make(map[string]float64),
		}

		observedAny := false
		for _, metric := range contracts.BenchmarkMetrics() {
			values := ds.Column(metric)
			if len(values) == 0 {
				row.Median[metric] = 0.0
				row.Mean[metric] = 0.0
				continue
			}
			observedAny = true

			sorted := append([]float64(nil), values...)
			sort.Float64s(sorted)
			row.Median[metric] = median(sorted)
			row.Mean[metric] = stat.Mean(values, nil)
		}

		if observedAny {
			usable++
		}

		a.logger.WithFields(map[string]interface{}{
			"industry": ds.Industry,
			"stocks":   row.StockCount,
			"records":  row.RecordCount,
		}).Debug("Benchmark row computed")

		rows = append(rows, row)
	}

	if usable == 0 {
		return nil, fmt.Errorf("no industry produced usable benchmark metrics: %w", contracts.ErrDataUnavailable)
	}

	a.logger.WithFields(map[string]interface{}{
		"industries": len(rows),
		"usable":     usable,
	}).Info("Benchmark aggregation completed")

	return rows, nil
}

// median returns the conventional sample median: the middle element for
// odd counts, the average of the two middle elements for even counts.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
