package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sectorml/internal/benchmark"
	"github.com/wonny/sectorml/internal/contracts"
	"github.com/wonny/sectorml/internal/dataset"
	"github.com/wonny/sectorml/internal/extract"
	"github.com/wonny/sectorml/internal/train"
	"github.com/wonny/sectorml/pkg/logger"
)

type fakeDirectory struct {
	industries map[string][]string
}

func (d *fakeDirectory) ListIndustries(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(d.industries))
	// Deterministic order keeps run summaries stable.
	for _, name := range []string{"Banks", "Ghosts"} {
		if _, ok := d.industries[name]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (d *fakeDirectory) ListByIndustry(ctx context.Context, industry string) ([]string, error) {
	return d.industries[industry], nil
}

type fakeGateway struct {
	relations map[string]*contracts.StockRelations
}

func (g *fakeGateway) Fetch(ctx context.Context, stockID string) (*contracts.StockRelations, error) {
	if rel, ok := g.relations[stockID]; ok {
		return rel, nil
	}
	return &contracts.StockRelations{}, nil
}

func quarterly(n int) []time.Time {
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = time.Date(2023, time.March, 31, 0, 0, 0, 0, time.UTC).AddDate(0, 3*i, 0)
	}
	return dates
}

func fundamentals(stockID string, dates []time.Time) ([]contracts.LineItemRow, []contracts.LineItemRow) {
	var income, balance []contracts.LineItemRow
	for i, d := range dates {
		revenue := 1000.0 + 50.0*float64(i)
		income = append(income,
			contracts.LineItemRow{StockID: stockID, Date: d, Type: "Revenue", Value: fmt.Sprintf("%g", revenue)},
			contracts.LineItemRow{StockID: stockID, Date: d, Type: "OperatingIncome", Value: fmt.Sprintf("%g", revenue*0.15)},
			contracts.LineItemRow{StockID: stockID, Date: d, Type: "NetIncome", Value: fmt.Sprintf("%g", revenue*0.10)},
		)
		balance = append(balance,
			contracts.LineItemRow{StockID: stockID, Date: d, Type: "TotalAssets", Value: "5000"},
			contracts.LineItemRow{StockID: stockID, Date: d, Type: "TotalEquity", Value: "2000"},
		)
	}
	return income, balance
}

func dailyPrices(stockID string, from time.Time, days int) []contracts.PriceRow {
	prices := make([]contracts.PriceRow, days)
	for i := range prices {
		prices[i] = contracts.PriceRow{
			StockID: stockID,
			Date:    from.AddDate(0, 0, i*7),
			Close:   100.0 + 0.5*float64(i),
		}
	}
	return prices
}

// TestRun_MixedIndustry runs the full chain over an industry where one
// stock has complete price coverage and the other has none at all. The
// label column is only partially populated, which must not prevent
// training, and the priceless stock's rows must still reach the dataset.
func TestRun_MixedIndustry(t *testing.T) {
	outputDir := t.TempDir()
	modelDir := t.TempDir()
	legacyDir := t.TempDir()
	log := logger.NewNop()

	dates := quarterly(4)
	income1, balance1 := fundamentals("BNK1", dates)
	income2, balance2 := fundamentals("BNK2", dates)

	gateway := &fakeGateway{relations: map[string]*contracts.StockRelations{
		"BNK1": {
			Income:       income1,
			BalanceSheet: balance1,
			Prices:       dailyPrices("BNK1", dates[0].AddDate(0, -1, 0), 80),
		},
		"BNK2": {
			Income:       income2,
			BalanceSheet: balance2,
			// No price rows: every BNK2 record lacks a label.
		},
	}}

	directory := &fakeDirectory{industries: map[string][]string{
		"Banks":  {"BNK1", "BNK2"},
		"Ghosts": nil,
	}}

	cfg := train.DefaultConfig()
	cfg.Epochs = 30

	orch := NewOrchestrator(
		directory,
		dataset.NewBuilder(directory, gateway, extract.NewExtractor(log), outputDir, log),
		train.NewTrainer(modelDir, cfg, log),
		benchmark.NewAggregator(log),
		outputDir,
		legacyDir,
		log,
	)

	result, err := orch.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)

	banks := result.Outcomes[0]
	require.Equal(t, "Banks", banks.Industry)
	assert.Equal(t, IndustrySucceeded, banks.Status)
	assert.Equal(t, 8, banks.Records, "both stocks contribute four quarters each")
	require.NotNil(t, banks.Report)
	assert.Equal(t, contracts.TrainSucceeded, banks.Report.Status)
	assert.False(t, banks.Report.LabelIsSynthetic, "real labels exist for the priced stock")

	ghosts := result.Outcomes[1]
	assert.Equal(t, IndustrySkipped, ghosts.Status)
	assert.Equal(t, "no training data", ghosts.Reason)

	assert.Equal(t, 1, result.Succeeded)

	// Every artifact of a successful run must be on disk.
	for _, path := range []string{
		dataset.DatasetPath(outputDir, "Banks"),
		banks.Report.ModelPath,
		banks.Report.ScalerPath,
		filepath.Join(outputDir, benchmark.FileName),
		filepath.Join(legacyDir, benchmark.FileName),
	} {
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr, path)
	}

	assert.Equal(t, filepath.Join(outputDir, benchmark.FileName), result.BenchmarkPath)
	assert.Equal(t, 1, result.BenchmarkRows)
}

// TestRun_NoDatasets covers a run where every industry comes up empty:
// the benchmark stage is reported, not silently skipped, and no benchmark
// artifact appears.
func TestRun_NoDatasets(t *testing.T) {
	outputDir := t.TempDir()
	legacyDir := t.TempDir()
	log := logger.NewNop()

	gateway := &fakeGateway{}
	directory := &fakeDirectory{industries: map[string][]string{"Ghosts": nil}}

	orch := NewOrchestrator(
		directory,
		dataset.NewBuilder(directory, gateway, extract.NewExtractor(log), outputDir, log),
		train.NewTrainer(t.TempDir(), train.DefaultConfig(), log),
		benchmark.NewAggregator(log),
		outputDir,
		legacyDir,
		log,
	)

	result, err := orch.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, IndustrySkipped, result.Outcomes[0].Status)

	assert.Empty(t, result.BenchmarkPath)
	assert.Zero(t, result.BenchmarkRows)
	_, statErr := os.Stat(filepath.Join(outputDir, benchmark.FileName))
	assert.True(t, os.IsNotExist(statErr), "no benchmark table should be written")
}

// TestRun_Rerun checks idempotence: a second run over identical inputs
// rewrites the dataset byte for byte.
func TestRun_Rerun(t *testing.T) {
	outputDir := t.TempDir()
	modelDir := t.TempDir()
	log := logger.NewNop()

	dates := quarterly(3)
	income, balance := fundamentals("BNK1", dates)
	gateway := &fakeGateway{relations: map[string]*contracts.StockRelations{
		"BNK1": {
			Income:       income,
			BalanceSheet: balance,
			Prices:       dailyPrices("BNK1", dates[0].AddDate(0, -1, 0), 60),
		},
	}}
	directory := &fakeDirectory{industries: map[string][]string{"Banks": {"BNK1"}}}

	cfg := train.DefaultConfig()
	cfg.Epochs = 10

	orch := NewOrchestrator(
		directory,
		dataset.NewBuilder(directory, gateway, extract.NewExtractor(log), outputDir, log),
		train.NewTrainer(modelDir, cfg, log),
		benchmark.NewAggregator(log),
		outputDir,
		outputDir,
		log,
	)

	_, err := orch.Run(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(dataset.DatasetPath(outputDir, "Banks"))
	require.NoError(t, err)

	_, err = orch.Run(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(dataset.DatasetPath(outputDir, "Banks"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
