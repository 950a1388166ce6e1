package contracts

// BenchmarkMetrics lists the metric columns aggregated into cross-sectional
// benchmarks, in output order.
func BenchmarkMetrics() []string {
	return []string{
		ColHistoricalGrowthMean,
		ColOperatingMargin,
		ColNetMargin,
		ColROA,
		ColROE,
		ColDebtToEquity,
	}
}

// BenchmarkRow holds one industry's cross-sectional statistics.
// Medians and means substitute 0.0 for metrics with no observed values.
type BenchmarkRow struct {
	Industry    string `json:"industry"`
	StockCount  int    `json:"stock_count"`
	RecordCount int    `json:"record_count"`

	// Median and Mean are keyed by metric column name and always contain
	// every entry of BenchmarkMetrics.
	Median map[string]float64 `json:"median"`
	Mean   map[string]float64 `json:"mean"`
}
