package train

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sectorml/internal/contracts"
	"github.com/wonny/sectorml/pkg/logger"
)

func testConfig() Config {
	cfg := DefaultConfig()
	// Keep unit tests quick.
	cfg.Epochs = 50
	return cfg
}

func newTestTrainer(t *testing.T) *Trainer {
	t.Helper()
	return NewTrainer(t.TempDir(), testConfig(), logger.NewNop())
}

func ptr(v float64) *float64 { return &v }

// trainableDataset builds a dataset with enough feature columns and a mix
// of present and missing labels.
func trainableDataset(rows int, withLabels bool) *contracts.IndustryDataset {
	ds := &contracts.IndustryDataset{Industry: "Banks"}
	for i := 0; i < rows; i++ {
		rec := contracts.PeriodRecord{
			StockID:         "B1",
			Date:            time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 3*i, 0),
			Revenue:         100 + float64(i),
			OperatingMargin: ptr(0.1 + 0.01*float64(i%5)),
			NetMargin:       ptr(0.05 + 0.01*float64(i%3)),
			ROA:             ptr(0.02),
			ROE:             ptr(0.08),
		}
		// Every other row carries a real label; the rest stay missing.
		if withLabels && i%2 == 0 {
			rec.Future6MReturn = ptr(0.1 * float64(i%4))
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds
}

func TestTrain_EmptyDatasetFails(t *testing.T) {
	tr := newTestTrainer(t)

	report := tr.Train(context.Background(), nil)
	assert.Equal(t, contracts.TrainFailed, report.Status)

	report = tr.Train(context.Background(), &contracts.IndustryDataset{Industry: "Banks"})
	assert.Equal(t, contracts.TrainFailed, report.Status)
	assert.Equal(t, contracts.ErrDataUnavailable.Error(), report.Reason)
}

func TestTrain_InsufficientFeaturesFails(t *testing.T) {
	tr := newTestTrainer(t)

	// Only revenue is observed: one usable feature.
	ds := &contracts.IndustryDataset{
		Industry: "Banks",
		Records: []contracts.PeriodRecord{
			{StockID: "B1", Revenue: 100},
			{StockID: "B1", Revenue: 120},
		},
	}

	report := tr.Train(context.Background(), ds)
	assert.Equal(t, contracts.TrainFailed, report.Status)
	assert.Equal(t, contracts.ErrInsufficientFeatures.Error(), report.Reason)
}

func TestTrain_PartialLabelsSucceed(t *testing.T) {
	tr := newTestTrainer(t)
	ds := trainableDataset(20, true)

	report := tr.Train(context.Background(), ds)
	require.Equal(t, contracts.TrainSucceeded, report.Status, "reason: %s", report.Reason)
	assert.False(t, report.LabelIsSynthetic)
	assert.GreaterOrEqual(t, len(report.Features), 2)

	// Both artifacts persisted.
	_, err := os.Stat(report.ModelPath)
	assert.NoError(t, err)
	_, err = os.Stat(report.ScalerPath)
	assert.NoError(t, err)
}

func TestTrain_SyntheticLabelFallback(t *testing.T) {
	tr := newTestTrainer(t)
	ds := trainableDataset(20, false)

	report := tr.Train(context.Background(), ds)
	require.Equal(t, contracts.TrainSucceeded, report.Status, "reason: %s", report.Reason)
	assert.True(t, report.LabelIsSynthetic, "absent label column must be flagged as synthetic")

	artifact, err := LoadModel(report.ModelPath)
	require.NoError(t, err)
	assert.True(t, artifact.LabelIsSynthetic)
}

func TestTrain_ValidationSplitOnLargeDatasets(t *testing.T) {
	tr := newTestTrainer(t)

	small := tr.Train(context.Background(), trainableDataset(20, true))
	require.Equal(t, contracts.TrainSucceeded, small.Status)
	assert.Zero(t, small.ValLoss, "small datasets train on everything")

	large := tr.Train(context.Background(), trainableDataset(80, true))
	require.Equal(t, contracts.TrainSucceeded, large.Status)
	assert.NotZero(t, large.ValLoss)
}

func TestTrain_Deterministic(t *testing.T) {
	ds := trainableDataset(30, true)

	first := newTestTrainer(t).Train(context.Background(), ds)
	second := newTestTrainer(t).Train(context.Background(), ds)

	require.Equal(t, contracts.TrainSucceeded, first.Status)
	require.Equal(t, contracts.TrainSucceeded, second.Status)
	assert.Equal(t, first.TrainLoss, second.TrainLoss, "same seed and data must reproduce the same fit")
}

func TestTrain_Overwrite(t *testing.T) {
	dir := t.TempDir()
	tr := NewTrainer(dir, testConfig(), logger.NewNop())
	ds := trainableDataset(20, true)

	first := tr.Train(context.Background(), ds)
	require.Equal(t, contracts.TrainSucceeded, first.Status)

	second := tr.Train(context.Background(), ds)
	require.Equal(t, contracts.TrainSucceeded, second.Status)
	assert.Equal(t, first.ModelPath, second.ModelPath, "retraining overwrites the same artifact")
}

func TestStandardScaler(t *testing.T) {
	var s StandardScaler
	x := [][]float64{{1, 10}, {2, 20}, {3, 30}}

	xs, err := s.FitTransform(x)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, s.Mean[0], 1e-9)
	assert.InDelta(t, 20.0, s.Mean[1], 1e-9)

	// Standardized columns have zero mean.
	for j := 0; j < 2; j++ {
		var sum float64
		for i := range xs {
			sum += xs[i][j]
		}
		assert.InDelta(t, 0.0, sum/float64(len(xs)), 1e-9)
	}
}

func TestStandardScaler_ConstantColumn(t *testing.T) {
	var s StandardScaler
	x := [][]float64{{5, 1}, {5, 2}, {5, 3}}

	xs, err := s.FitTransform(x)
	require.NoError(t, err)

	assert.Equal(t, 1.0, s.Std[0], "constant column std clamps to 1")
	for i := range xs {
		assert.InDelta(t, 0.0, xs[i][0], 1e-9)
	}
}

func TestNetwork_LearnsLinearTarget(t *testing.T) {
	// y = 2*x0 - x1, a target the one-hidden-layer net can fit closely.
	var x [][]float64
	var y []float64
	for i := 0; i < 40; i++ {
		a := float64(i%7)/7 - 0.5
		b := float64(i%5)/5 - 0.5
		x = append(x, []float64{a, b})
		y = append(y, 2*a-b)
	}

	net := NewNetwork(2, 16, 0, 0.05, 42)
	before := net.Loss(x, y)
	net.Fit(x, y, 300, 16)
	after := net.Loss(x, y)

	assert.Less(t, after, before, "training must reduce loss")
	assert.Less(t, after, 0.05)
}

func TestScalerArtifact_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	scaler := &StandardScaler{
		Features: []string{"revenue", "roa"},
		Mean:     []float64{100, 0.02},
		Std:      []float64{10, 0.01},
	}

	path, err := SaveScaler(dir, "Banks", scaler)
	require.NoError(t, err)

	loaded, err := LoadScaler(path)
	require.NoError(t, err)
	assert.Equal(t, scaler, loaded)
}
