package extract

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sectorml/internal/contracts"
	"github.com/wonny/sectorml/pkg/logger"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func item(date, tag, value string) contracts.LineItemRow {
	return contracts.LineItemRow{StockID: "S1", Date: day(date), Type: tag, Value: value}
}

func price(date string, close float64) contracts.PriceRow {
	return contracts.PriceRow{StockID: "S1", Date: day(date), Close: close}
}

// fullPeriod builds income and balance items for one date with every
// concept resolvable.
func fullPeriod(date string, revenue float64) (income, balance []contracts.LineItemRow) {
	rev := strconv.FormatFloat(revenue, 'f', -1, 64)
	income = []contracts.LineItemRow{
		item(date, "Revenue", rev),
		item(date, "OperatingIncome", "20"),
		item(date, "NetIncome", "15"),
	}
	balance = []contracts.LineItemRow{
		item(date, "TotalAssets", "1000"),
		item(date, "TotalEquity", "400"),
	}
	return income, balance
}

func newExtractor() *Extractor {
	return NewExtractor(logger.NewNop())
}

func TestExtract_EmptyRelationsYieldNothing(t *testing.T) {
	e := newExtractor()
	ctx := context.Background()

	income, balance := fullPeriod("2024-03-31", 100)

	tests := []struct {
		name string
		rel  *contracts.StockRelations
	}{
		{name: "all empty", rel: &contracts.StockRelations{}},
		{name: "no income", rel: &contracts.StockRelations{BalanceSheet: balance}},
		{name: "no balance sheet", rel: &contracts.StockRelations{Income: income}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, e.Extract(ctx, "S1", tt.rel))
		})
	}
}

func TestExtract_FullPeriodRatios(t *testing.T) {
	e := newExtractor()
	income, balance := fullPeriod("2024-03-31", 100)

	records := e.Extract(context.Background(), "S1", &contracts.StockRelations{
		Income:       income,
		BalanceSheet: balance,
	})
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, 100.0, r.Revenue)
	require.NotNil(t, r.OperatingMargin)
	assert.InDelta(t, 0.2, *r.OperatingMargin, 1e-9)
	require.NotNil(t, r.NetMargin)
	assert.InDelta(t, 0.15, *r.NetMargin, 1e-9)
	require.NotNil(t, r.ROA)
	assert.InDelta(t, 0.015, *r.ROA, 1e-9)
	require.NotNil(t, r.ROE)
	assert.InDelta(t, 0.0375, *r.ROE, 1e-9)
	require.NotNil(t, r.DebtToEquity)
	assert.InDelta(t, 1.5, *r.DebtToEquity, 1e-9)
	require.NotNil(t, r.EquityToAssets)
	assert.InDelta(t, 0.4, *r.EquityToAssets, 1e-9)

	// First period has no growth history and no price coverage.
	assert.Nil(t, r.HistoricalGrowth)
	assert.Nil(t, r.HistoricalGrowthMean)
	assert.Nil(t, r.Future6MReturn)
}

func TestExtract_SynonymPriority(t *testing.T) {
	e := newExtractor()

	// Both Revenue and TotalRevenue exist with different positive values:
	// the higher-priority Revenue tag must win.
	income := []contracts.LineItemRow{
		item("2024-03-31", "TotalRevenue", "500"),
		item("2024-03-31", "Revenue", "100"),
		item("2024-03-31", "NetIncome", "10"),
	}
	balance := []contracts.LineItemRow{
		item("2024-03-31", "TotalAssets", "1000"),
	}

	records := e.Extract(context.Background(), "S1", &contracts.StockRelations{
		Income:       income,
		BalanceSheet: balance,
	})
	require.Len(t, records, 1)
	assert.Equal(t, 100.0, records[0].Revenue)
}

func TestExtract_InvalidSynonymFallsThrough(t *testing.T) {
	e := newExtractor()

	// Revenue row fails the positive check, so the next synonym applies.
	income := []contracts.LineItemRow{
		item("2024-03-31", "Revenue", "-5"),
		item("2024-03-31", "OperatingRevenue", "80"),
		item("2024-03-31", "NetIncome", "8"),
	}
	balance := []contracts.LineItemRow{
		item("2024-03-31", "TotalAssets", "1000"),
	}

	records := e.Extract(context.Background(), "S1", &contracts.StockRelations{
		Income:       income,
		BalanceSheet: balance,
	})
	require.Len(t, records, 1)
	assert.Equal(t, 80.0, records[0].Revenue)
}

func TestExtract_MalformedValueTreatedAsAbsent(t *testing.T) {
	e := newExtractor()

	income := []contracts.LineItemRow{
		item("2024-03-31", "Revenue", "100"),
		item("2024-03-31", "NetIncome", "n/a"),
		item("2024-03-31", "OperatingIncome", "25"),
	}
	balance := []contracts.LineItemRow{
		item("2024-03-31", "TotalAssets", "1000"),
	}

	records := e.Extract(context.Background(), "S1", &contracts.StockRelations{
		Income:       income,
		BalanceSheet: balance,
	})
	require.Len(t, records, 1)

	r := records[0]
	assert.Nil(t, r.NetIncome)
	assert.Nil(t, r.NetMargin)
	assert.Nil(t, r.ROA)
	require.NotNil(t, r.OperatingMargin)
	assert.InDelta(t, 0.25, *r.OperatingMargin, 1e-9)
}

func TestExtract_MetricTypeColumnVariant(t *testing.T) {
	e := newExtractor()

	income := []contracts.LineItemRow{
		{StockID: "S1", Date: day("2024-03-31"), MetricType: "Revenue", Value: "100"},
		{StockID: "S1", Date: day("2024-03-31"), MetricType: "NetIncome", Value: "10"},
	}
	balance := []contracts.LineItemRow{
		{StockID: "S1", Date: day("2024-03-31"), MetricType: "TotalEquity", Value: "200"},
	}

	records := e.Extract(context.Background(), "S1", &contracts.StockRelations{
		Income:       income,
		BalanceSheet: balance,
	})
	require.Len(t, records, 1)
	require.NotNil(t, records[0].ROE)
	assert.InDelta(t, 0.05, *records[0].ROE, 1e-9)
}

func TestExtract_RetentionRequiresRatio(t *testing.T) {
	e := newExtractor()

	// Revenue resolves but no margin or return ratio does: discard.
	income := []contracts.LineItemRow{
		item("2024-03-31", "Revenue", "100"),
	}
	balance := []contracts.LineItemRow{
		item("2024-03-31", "TotalAssets", "1000"),
	}

	records := e.Extract(context.Background(), "S1", &contracts.StockRelations{
		Income:       income,
		BalanceSheet: balance,
	})
	assert.Empty(t, records)
}

func TestExtract_GrowthSequence(t *testing.T) {
	e := newExtractor()

	var income, balance []contracts.LineItemRow
	for _, p := range []struct {
		date    string
		revenue float64
	}{
		{"2023-03-31", 100},
		{"2023-06-30", 120},
		{"2023-09-30", 90},
	} {
		inc, bal := fullPeriod(p.date, p.revenue)
		income = append(income, inc...)
		balance = append(balance, bal...)
	}

	records := e.Extract(context.Background(), "S1", &contracts.StockRelations{
		Income:       income,
		BalanceSheet: balance,
	})
	require.Len(t, records, 3)

	assert.Nil(t, records[0].HistoricalGrowth)

	require.NotNil(t, records[1].HistoricalGrowth)
	assert.InDelta(t, 0.2, *records[1].HistoricalGrowth, 1e-9)

	require.NotNil(t, records[2].HistoricalGrowth)
	assert.InDelta(t, -0.25, *records[2].HistoricalGrowth, 1e-9)

	// Second period: exactly one prior growth observation, std floored.
	require.NotNil(t, records[1].HistoricalGrowthMean)
	assert.InDelta(t, 0.2, *records[1].HistoricalGrowthMean, 1e-9)
	require.NotNil(t, records[1].HistoricalGrowthStd)
	assert.Equal(t, 0.1, *records[1].HistoricalGrowthStd)

	// Third period: growths vs both prior accepted revenues.
	require.NotNil(t, records[2].HistoricalGrowthMean)
	assert.InDelta(t, -0.175, *records[2].HistoricalGrowthMean, 1e-9)
	require.NotNil(t, records[2].HistoricalGrowthStd)
	assert.InDelta(t, 0.10606601717798213, *records[2].HistoricalGrowthStd, 1e-9)
}

func TestExtract_ForwardReturnLabel(t *testing.T) {
	e := newExtractor()
	income, balance := fullPeriod("2024-01-01", 100)

	records := e.Extract(context.Background(), "S1", &contracts.StockRelations{
		Income:       income,
		BalanceSheet: balance,
		Prices: []contracts.PriceRow{
			price("2024-01-01", 10),
			price("2024-07-01", 12),
		},
	})
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Future6MReturn)
	assert.InDelta(t, 0.2, *records[0].Future6MReturn, 1e-9)
}

func TestExtract_ForwardReturnNeedsCoverage(t *testing.T) {
	e := newExtractor()
	income, balance := fullPeriod("2024-01-01", 100)

	// Price history stops short of the six-month horizon.
	records := e.Extract(context.Background(), "S1", &contracts.StockRelations{
		Income:       income,
		BalanceSheet: balance,
		Prices: []contracts.PriceRow{
			price("2024-01-01", 10),
			price("2024-05-01", 11),
		},
	})
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Future6MReturn)
}

func TestExtract_UnsortedPricesAreSorted(t *testing.T) {
	e := newExtractor()
	income, balance := fullPeriod("2024-01-01", 100)

	records := e.Extract(context.Background(), "S1", &contracts.StockRelations{
		Income:       income,
		BalanceSheet: balance,
		Prices: []contracts.PriceRow{
			price("2024-07-01", 12),
			price("2024-01-01", 10),
		},
	})
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Future6MReturn)
	assert.InDelta(t, 0.2, *records[0].Future6MReturn, 1e-9)
}

func TestExtract_FailedPeriodSkipsOnlyThatDate(t *testing.T) {
	e := newExtractor()

	// Force a failure inside the first period's processing; the recover
	// guard must skip that date and still produce the second.
	orig := conceptNetIncome.valid
	conceptNetIncome.valid = func(v float64) bool {
		if v == 13 {
			panic("corrupt line item")
		}
		return true
	}
	defer func() { conceptNetIncome.valid = orig }()

	income := []contracts.LineItemRow{
		item("2024-03-31", "Revenue", "100"),
		item("2024-03-31", "NetIncome", "13"),
		item("2024-06-30", "Revenue", "110"),
		item("2024-06-30", "NetIncome", "11"),
	}
	balance := []contracts.LineItemRow{
		item("2024-03-31", "TotalAssets", "1000"),
		item("2024-06-30", "TotalAssets", "1000"),
	}

	records := e.Extract(context.Background(), "S1", &contracts.StockRelations{
		Income:       income,
		BalanceSheet: balance,
	})
	require.Len(t, records, 1)
	assert.Equal(t, day("2024-06-30"), records[0].Date)
}

func TestExtract_NegativeNetIncomeAccepted(t *testing.T) {
	e := newExtractor()

	income := []contracts.LineItemRow{
		item("2024-03-31", "Revenue", "100"),
		item("2024-03-31", "NetIncome", "-30"),
	}
	balance := []contracts.LineItemRow{
		item("2024-03-31", "TotalEquity", "200"),
	}

	records := e.Extract(context.Background(), "S1", &contracts.StockRelations{
		Income:       income,
		BalanceSheet: balance,
	})
	require.Len(t, records, 1)
	require.NotNil(t, records[0].NetMargin)
	assert.InDelta(t, -0.3, *records[0].NetMargin, 1e-9)
	require.NotNil(t, records[0].ROE)
	assert.InDelta(t, -0.15, *records[0].ROE, 1e-9)
}

func TestExtract_AllRecordsHavePositiveRevenue(t *testing.T) {
	e := newExtractor()

	income := []contracts.LineItemRow{
		item("2023-03-31", "Revenue", "bad"),
		item("2023-03-31", "NetIncome", "5"),
		item("2023-06-30", "Revenue", "50"),
		item("2023-06-30", "NetIncome", "5"),
	}
	balance := []contracts.LineItemRow{
		item("2023-03-31", "TotalAssets", "100"),
		item("2023-06-30", "TotalAssets", "100"),
	}

	records := e.Extract(context.Background(), "S1", &contracts.StockRelations{
		Income:       income,
		BalanceSheet: balance,
	})
	require.Len(t, records, 1)
	for _, r := range records {
		assert.Greater(t, r.Revenue, 0.0)
	}
}
