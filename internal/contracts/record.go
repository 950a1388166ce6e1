package contracts

import "time"

// PeriodRecord is one extracted feature row per (stock, reporting date).
// Revenue is the only unconditionally required field; every other metric is
// a pointer so that "absent" stays distinguishable from zero.
type PeriodRecord struct {
	StockID string    `json:"stock_id"`
	Date    time.Time `json:"date"`

	Revenue float64 `json:"revenue"`

	OperatingIncome *float64 `json:"operating_income,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	NetIncome       *float64 `json:"net_income,omitempty"`
	NetMargin       *float64 `json:"net_margin,omitempty"`
	TotalAssets     *float64 `json:"total_assets,omitempty"`
	ROA             *float64 `json:"roa,omitempty"`
	TotalEquity     *float64 `json:"total_equity,omitempty"`
	ROE             *float64 `json:"roe,omitempty"`
	DebtToEquity    *float64 `json:"debt_to_equity,omitempty"`
	EquityToAssets  *float64 `json:"equity_to_assets,omitempty"`

	HistoricalGrowth     *float64 `json:"historical_growth,omitempty"`
	HistoricalGrowthMean *float64 `json:"historical_growth_mean,omitempty"`
	HistoricalGrowthStd  *float64 `json:"historical_growth_std,omitempty"`

	// Future6MReturn is the supervised target: realized return from the
	// reporting date to roughly six months later.
	Future6MReturn *float64 `json:"future_6m_return,omitempty"`
}

// Column names for the flat dataset table, in persisted order.
// The order is fixed so repeated runs produce byte-identical files.
const (
	ColStockID              = "stock_id"
	ColDate                 = "date"
	ColRevenue              = "revenue"
	ColOperatingIncome      = "operating_income"
	ColOperatingMargin      = "operating_margin"
	ColNetIncome            = "net_income"
	ColNetMargin            = "net_margin"
	ColTotalAssets          = "total_assets"
	ColROA                  = "roa"
	ColTotalEquity          = "total_equity"
	ColROE                  = "roe"
	ColDebtToEquity         = "debt_to_equity"
	ColEquityToAssets       = "equity_to_assets"
	ColHistoricalGrowth     = "historical_growth"
	ColHistoricalGrowthMean = "historical_growth_mean"
	ColHistoricalGrowthStd  = "historical_growth_std"
	ColFuture6MReturn       = "future_6m_return"
)

// MetricColumns lists the numeric columns of a PeriodRecord in persisted
// order, excluding the identifying stock_id and date columns.
func MetricColumns() []string {
	return []string{
		ColRevenue,
		ColOperatingIncome,
		ColOperatingMargin,
		ColNetIncome,
		ColNetMargin,
		ColTotalAssets,
		ColROA,
		ColTotalEquity,
		ColROE,
		ColDebtToEquity,
		ColEquityToAssets,
		ColHistoricalGrowth,
		ColHistoricalGrowthMean,
		ColHistoricalGrowthStd,
		ColFuture6MReturn,
	}
}

// Value returns the named metric and whether it is present on this record.
func (r *PeriodRecord) Value(col string) (float64, bool) {
	switch col {
	case ColRevenue:
		return r.Revenue, true
	case ColOperatingIncome:
		return deref(r.OperatingIncome)
	case ColOperatingMargin:
		return deref(r.OperatingMargin)
	case ColNetIncome:
		return deref(r.NetIncome)
	case ColNetMargin:
		return deref(r.NetMargin)
	case ColTotalAssets:
		return deref(r.TotalAssets)
	case ColROA:
		return deref(r.ROA)
	case ColTotalEquity:
		return deref(r.TotalEquity)
	case ColROE:
		return deref(r.ROE)
	case ColDebtToEquity:
		return deref(r.DebtToEquity)
	case ColEquityToAssets:
		return deref(r.EquityToAssets)
	case ColHistoricalGrowth:
		return deref(r.HistoricalGrowth)
	case ColHistoricalGrowthMean:
		return deref(r.HistoricalGrowthMean)
	case ColHistoricalGrowthStd:
		return deref(r.HistoricalGrowthStd)
	case ColFuture6MReturn:
		return deref(r.Future6MReturn)
	}
	return 0, false
}

// SetValue assigns the named metric on this record. Unknown columns are
// ignored; the dataset loader uses this to rebuild records from files.
func (r *PeriodRecord) SetValue(col string, v float64) {
	switch col {
	case ColRevenue:
		r.Revenue = v
	case ColOperatingIncome:
		r.OperatingIncome = &v
	case ColOperatingMargin:
		r.OperatingMargin = &v
	case ColNetIncome:
		r.NetIncome = &v
	case ColNetMargin:
		r.NetMargin = &v
	case ColTotalAssets:
		r.TotalAssets = &v
	case ColROA:
		r.ROA = &v
	case ColTotalEquity:
		r.TotalEquity = &v
	case ColROE:
		r.ROE = &v
	case ColDebtToEquity:
		r.DebtToEquity = &v
	case ColEquityToAssets:
		r.EquityToAssets = &v
	case ColHistoricalGrowth:
		r.HistoricalGrowth = &v
	case ColHistoricalGrowthMean:
		r.HistoricalGrowthMean = &v
	case ColHistoricalGrowthStd:
		r.HistoricalGrowthStd = &v
	case ColFuture6MReturn:
		r.Future6MReturn = &v
	}
}

// Retainable reports whether the record satisfies the retention invariant:
// positive revenue plus at least one profitability or return ratio.
func (r *PeriodRecord) Retainable() bool {
	if r.Revenue <= 0 {
		return false
	}
	return r.OperatingMargin != nil || r.NetMargin != nil || r.ROE != nil || r.ROA != nil
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
