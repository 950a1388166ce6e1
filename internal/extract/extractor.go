package extract

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/wonny/sectorml/internal/contracts"
	"github.com/wonny/sectorml/pkg/logger"
)

const (
	// forwardMonths is the label horizon: realized return six calendar
	// months past the reporting date.
	forwardMonths = 6

	// growthStdFloor replaces the degenerate zero-variance estimate when
	// fewer than two growth observations exist.
	growthStdFloor = 0.1
)

// Extractor produces per-period feature records from one stock's relations.
type Extractor struct {
	logger *logger.Logger
}

// NewExtractor creates a new metric extractor
func NewExtractor(log *logger.Logger) *Extractor {
	return &Extractor{logger: log}
}

// Extract walks a stock's reporting dates chronologically and builds one
// PeriodRecord per date that satisfies the retention rule. A failure while
// processing one date skips that date only; the stock's remaining dates
// still process.
func (e *Extractor) Extract(ctx context.Context, stockID string, rel *contracts.StockRelations) []contracts.PeriodRecord {
	if rel == nil || len(rel.Income) == 0 || len(rel.BalanceSheet) == 0 {
		e.logger.WithField("stock_id", stockID).Debug("No statement data, skipping stock")
		return nil
	}

	dates := reportingDates(rel.Income)
	prices := sortedPrices(rel.Prices)

	var records []contracts.PeriodRecord
	var prevRevenue float64
	var acceptedRevenues []float64

	for _, date := range dates {
		rec, revenue := e.extractPeriod(stockID, date, rel, prices, prevRevenue, acceptedRevenues)
		if revenue > 0 {
			prevRevenue = revenue
		}
		if rec == nil {
			continue
		}
		records = append(records, *rec)
		acceptedRevenues = append(acceptedRevenues, rec.Revenue)
	}

	e.logger.WithFields(map[string]interface{}{
		"stock_id": stockID,
		"periods":  len(dates),
		"records":  len(records),
	}).Debug("Extraction completed")

	return records
}

// extractPeriod builds the record for a single reporting date. It returns
// the record (nil when the date is skipped or fails retention) plus the
// period's resolved revenue so the caller can advance its growth baseline.
// Any panic inside per-date processing converts to "no record produced".
func (e *Extractor) extractPeriod(
	stockID string,
	date time.Time,
	rel *contracts.StockRelations,
	prices []contracts.PriceRow,
	prevRevenue float64,
	acceptedRevenues []float64,
) (rec *contracts.PeriodRecord, revenue float64) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(map[string]interface{}{
				"stock_id": stockID,
				"date":     date.Format("2006-01-02"),
				"panic":    r,
			}).Warn("Period processing failed, date skipped")
			rec = nil
			revenue = 0
		}
	}()

	income := sliceByDate(rel.Income, date)
	balance := sliceByDate(rel.BalanceSheet, date)
	if len(income) == 0 || len(balance) == 0 {
		return nil, 0
	}

	rev, ok := resolve(conceptRevenue, income)
	if !ok {
		return nil, 0
	}

	r := contracts.PeriodRecord{
		StockID: stockID,
		Date:    date,
		Revenue: rev,
	}

	if v, ok := resolve(conceptOperatingIncome, income); ok {
		r.OperatingIncome = ptr(v)
		r.OperatingMargin = ptr(v / rev)
	}

	netIncome, hasNet := resolve(conceptNetIncome, income)
	if hasNet {
		r.NetIncome = ptr(netIncome)
		r.NetMargin = ptr(netIncome / rev)
	}

	assets, hasAssets := resolve(conceptTotalAssets, balance)
	if hasAssets {
		r.TotalAssets = ptr(assets)
		if hasNet {
			r.ROA = ptr(netIncome / assets)
		}
	}

	equity, hasEquity := resolve(conceptTotalEquity, balance)
	if hasEquity {
		r.TotalEquity = ptr(equity)
		if hasNet {
			r.ROE = ptr(netIncome / equity)
		}
		if hasAssets {
			r.DebtToEquity = ptr((assets - equity) / equity)
			r.EquityToAssets = ptr(equity / assets)
		}
	}

	if prevRevenue > 0 {
		r.HistoricalGrowth = ptr((rev - prevRevenue) / prevRevenue)
	}

	if mean, std, ok := growthStats(rev, acceptedRevenues); ok {
		r.HistoricalGrowthMean = ptr(mean)
		r.HistoricalGrowthStd = ptr(std)
	}

	if label, ok := forwardReturn(prices, date); ok {
		r.Future6MReturn = ptr(label)
	}

	if !r.Retainable() {
		return nil, rev
	}
	return &r, rev
}

// growthStats computes the running mean and sample standard deviation of
// the current revenue's growth against every previously accepted period's
// revenue. With a single observation the std collapses to the fixed floor.
func growthStats(revenue float64, priorRevenues []float64) (mean, std float64, ok bool) {
	var growths []float64
	for _, prior := range priorRevenues {
		if prior > 0 {
			growths = append(growths, (revenue-prior)/prior)
		}
	}
	if len(growths) == 0 {
		return 0, 0, false
	}

	var sum float64
	for _, g := range growths {
		sum += g
	}
	mean = sum / float64(len(growths))

	if len(growths) < 2 {
		return mean, growthStdFloor, true
	}

	var ss float64
	for _, g := range growths {
		d := g - mean
		ss += d * d
	}
	std = math.Sqrt(ss / float64(len(growths)-1))
	return mean, std, true
}

// forwardReturn locates the first price on or after the reporting date and
// the first price on or after the date plus six calendar months, and
// returns the percentage change between them. Missing coverage omits the
// label rather than imputing it.
func forwardReturn(prices []contracts.PriceRow, date time.Time) (float64, bool) {
	start, ok := firstOnOrAfter(prices, date)
	if !ok || start.Close <= 0 {
		return 0, false
	}

	future, ok := firstOnOrAfter(prices, date.AddDate(0, forwardMonths, 0))
	if !ok {
		return 0, false
	}

	return (future.Close - start.Close) / start.Close, true
}

func firstOnOrAfter(prices []contracts.PriceRow, date time.Time) (contracts.PriceRow, bool) {
	idx := sort.Search(len(prices), func(i int) bool {
		return !prices[i].Date.Before(date)
	})
	if idx == len(prices) {
		return contracts.PriceRow{}, false
	}
	return prices[idx], true
}

// reportingDates enumerates the distinct income-statement dates ascending.
func reportingDates(income []contracts.LineItemRow) []time.Time {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for i := range income {
		if _, ok := seen[income[i].Date]; ok {
			continue
		}
		seen[income[i].Date] = struct{}{}
		dates = append(dates, income[i].Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func sliceByDate(items []contracts.LineItemRow, date time.Time) []contracts.LineItemRow {
	var out []contracts.LineItemRow
	for i := range items {
		if items[i].Date.Equal(date) {
			out = append(out, items[i])
		}
	}
	return out
}

// sortedPrices returns a copy sorted by date ascending. Source ordering is
// assumed ascending but not guaranteed.
func sortedPrices(prices []contracts.PriceRow) []contracts.PriceRow {
	out := make([]contracts.PriceRow, len(prices))
	copy(out, prices)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func ptr(v float64) *float64 { return &v }
