package contracts

// IndustryDataset is the ordered union of PeriodRecords across all stocks
// in one industry. Rows are observations, not entities; there is no key
// column.
type IndustryDataset struct {
	Industry string         `json:"industry"`
	Records  []PeriodRecord `json:"records"`
}

// StockCount returns the number of distinct stock identifiers.
func (d *IndustryDataset) StockCount() int {
	seen := make(map[string]struct{}, len(d.Records))
	for _, r := range d.Records {
		seen[r.StockID] = struct{}{}
	}
	return len(seen)
}

// Column collects the observed values of one metric column, skipping
// records where the metric is absent.
func (d *IndustryDataset) Column(col string) []float64 {
	var values []float64
	for i := range d.Records {
		if v, ok := d.Records[i].Value(col); ok {
			values = append(values, v)
		}
	}
	return values
}

// HasColumn reports whether at least one record carries the metric.
func (d *IndustryDataset) HasColumn(col string) bool {
	for i := range d.Records {
		if _, ok := d.Records[i].Value(col); ok {
			return true
		}
	}
	return false
}
