package extract

import (
	"strconv"

	"github.com/wonny/sectorml/internal/contracts"
)

// concept is one financial concept resolved from heterogeneous line-item
// tags. Reporting standards name the same concept differently, so each
// concept carries an ordered synonym list; the first row whose parsed
// value passes the validity check wins.
type concept struct {
	name     string
	synonyms []string
	valid    func(float64) bool
}

func positive(v float64) bool { return v > 0 }
func anyValue(float64) bool   { return true }

var (
	conceptRevenue = concept{
		name:     "revenue",
		synonyms: []string{"Revenue", "OperatingRevenue", "NetRevenue", "TotalRevenue"},
		valid:    positive,
	}
	conceptOperatingIncome = concept{
		name:     "operating_income",
		synonyms: []string{"OperatingIncome", "OperatingProfit", "GrossProfit"},
		valid:    anyValue,
	}
	conceptNetIncome = concept{
		name:     "net_income",
		synonyms: []string{"NetIncome", "ProfitAfterTax", "NetProfit", "NetIncomeLoss"},
		valid:    anyValue,
	}
	conceptTotalAssets = concept{
		name:     "total_assets",
		synonyms: []string{"TotalAssets", "Assets", "ConsolidatedTotalAssets"},
		valid:    positive,
	}
	conceptTotalEquity = concept{
		name:     "total_equity",
		synonyms: []string{"TotalEquity", "StockholdersEquity", "Equity", "TotalStockholdersEquity"},
		valid:    positive,
	}
)

// resolve finds the concept's value among one period's line items.
// Synonyms are tried in priority order; a row with an unparseable value is
// treated as absent, not as zero. The second return reports presence.
func resolve(c concept, items []contracts.LineItemRow) (float64, bool) {
	for _, tag := range c.synonyms {
		for i := range items {
			if items[i].Tag() != tag {
				continue
			}
			v, err := strconv.ParseFloat(items[i].Value, 64)
			if err != nil {
				continue
			}
			if c.valid(v) {
				return v, true
			}
		}
	}
	return 0, false
}
