package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/wonny/sectorml/internal/contracts"
)

// dateLayout is the persisted date format.
const dateLayout = "2006-01-02"

// DatasetPath returns the dataset file path for an industry under dir.
func DatasetPath(dir, industry string) string {
	return filepath.Join(dir, Slug(industry)+"_training.csv")
}

// header returns the fixed column order of the dataset table.
func header() []string {
	cols := []string{contracts.ColStockID, contracts.ColDate}
	return append(cols, contracts.MetricColumns()...)
}

// Write persists an industry dataset as a flat CSV table. Column and row
// order are fixed, so identical inputs produce byte-identical files. The
// write goes to a temp file first and renames into place, so a reader
// never observes a partial table.
func Write(dir string, ds *contracts.IndustryDataset) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create output dir: %v", contracts.ErrPersistence, err)
	}

	path := DatasetPath(dir, ds.Industry)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %v", contracts.ErrPersistence, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header()); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: write header: %v", contracts.ErrPersistence, err)
	}

	for i := range ds.Records {
		if err := w.Write(recordRow(&ds.Records[i])); err != nil {
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

func recordRow(r *contracts.PeriodRecord) []string {
	row := []string{r.StockID, r.Date.Format(dateLayout)}
	for _, col := range contracts.MetricColumns() {
		if v, ok := r.Value(col); ok {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		} else {
			row = append(row, "")
		}
	}
	return row
}

// Read loads a persisted industry dataset back from its CSV table.
// Unknown columns are ignored so older files stay readable.
func Read(path, industry string) (*contracts.IndustryDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	if len(rows) == 0 {
		return &contracts.IndustryDataset{Industry: industry}, nil
	}

	cols := rows[0]
	ds := &contracts.IndustryDataset{Industry: industry}

	for _, row := range rows[1:] {
		var rec contracts.PeriodRecord
		for i, col := range cols {
			if i >= len(row) || row[i] == "" {
				continue
			}
			switch col {
			case contracts.ColStockID:
				rec.StockID = row[i]
			case contracts.ColDate:
				if d, err := time.Parse(dateLayout, row[i]); err == nil {
					rec.Date = d
				}
			default:
				if v, err := strconv.ParseFloat(row[i], 64); err == nil {
					rec.SetValue(col, v)
				}
			}
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}
