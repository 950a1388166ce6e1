package benchmark

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/wonny/sectorml/internal/contracts"
)

// FileName is the benchmark table artifact name, identical in the active
// output directory and the legacy directory.
const FileName = "industry_benchmarks.csv"

// Header returns the benchmark table columns in persisted order.
func Header() []string {
	cols := []string{"industry", "stock_count", "record_count"}
	for _, metric := range contracts.BenchmarkMetrics() {
		cols = append(cols, metric+"_median", metric+"_mean")
	}
	return cols
}

// Write persists the benchmark table to outputDir and duplicates it
// verbatim into legacyDir for the legacy report consumer. Both writes are
// temp-file-and-rename, so readers never observe a partial table.
func Write(outputDir, legacyDir string, rows []contracts.BenchmarkRow) (string, error) {
	path, err := writeTable(outputDir, rows)
	if err != nil {
		return "", err
	}

	if legacyDir != "" && legacyDir != outputDir {
		if _, err := writeTable(legacyDir, rows); err != nil {
			return "", err
		}
	}
	return path, nil
}

func writeTable(dir string, rows []contracts.BenchmarkRow) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create benchmark dir: %v", contracts.ErrPersistence, err)
	}

	path := filepath.Join(dir, FileName)
	tmp, err := os.CreateTemp(dir, "."+FileName+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %v", contracts.ErrPersistence, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(Header()); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: write header: %v", contracts.ErrPersistence, err)
	}

	for _, row := range rows {
		record := []string{
			row.Industry,
			strconv.Itoa(row.StockCount),
			strconv.Itoa(row.RecordCount),
		}
		for _, metric := range contracts.BenchmarkMetrics() {
			record = append(record,
				strconv.FormatFloat(row.Median[metric], 'g', -1, 64),
				strconv.FormatFloat(row.Mean[metric], 'g', -1, 64),
			)
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return "", fmt.Errorf("%w: write row: %v", contracts.ErrPersistence, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: flush: %v", contracts.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: close temp file: %v", contracts.ErrPersistence, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("%w: rename into place: %v", contracts.ErrPersistence, err)
	}
	return path, nil
}
