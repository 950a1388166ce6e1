package contracts

import "time"

// LineItemRow is one labeled numeric fact from a financial statement.
// The source database tags each row under one of two schema variants: a
// "type" column or a "metric_type" column. The repository fills whichever
// field the physical table carries and leaves the other empty; Tag picks
// the populated one.
type LineItemRow struct {
	StockID    string    `json:"stock_id"`
	Date       time.Time `json:"date"`
	Type       string    `json:"type,omitempty"`
	MetricType string    `json:"metric_type,omitempty"`
	Value      string    `json:"value"`
}

// Tag returns the item-type tag regardless of schema variant.
// The "type" column wins when both are populated.
func (r LineItemRow) Tag() string {
	if r.Type != "" {
		return r.Type
	}
	return r.MetricType
}

// PriceRow is one closing-price observation.
type PriceRow struct {
	StockID string    `json:"stock_id"`
	Date    time.Time `json:"date"`
	Close   float64   `json:"close"`
}

// StockAttributes holds optional static stock metadata.
type StockAttributes struct {
	StockID           string   `json:"stock_id"`
	Industry          string   `json:"industry"`
	SharesOutstanding *float64 `json:"shares_outstanding,omitempty"`
	Beta              *float64 `json:"beta,omitempty"`
}

// StockRelations bundles the four tabular relations for one stock.
// Relations are possibly empty, never nil maps of meaning: an absent stock
// yields all-empty slices rather than an error.
type StockRelations struct {
	Income       []LineItemRow    `json:"income"`
	BalanceSheet []LineItemRow    `json:"balance_sheet"`
	CashFlow     []LineItemRow    `json:"cash_flow"`
	Prices       []PriceRow       `json:"prices"`
	Attributes   *StockAttributes `json:"attributes,omitempty"`
}

// Empty reports whether no statement data is available at all.
func (r *StockRelations) Empty() bool {
	return len(r.Income) == 0 && len(r.BalanceSheet) == 0 && len(r.CashFlow) == 0
}
