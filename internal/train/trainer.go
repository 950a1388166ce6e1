package train

import (
	"context"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/sectorml/internal/contracts"
	"github.com/wonny/sectorml/pkg/logger"
)

// Config holds the fixed training hyperparameters.
type Config struct {
	HiddenUnits  int
	Dropout      float64
	LearningRate float64
	Epochs       int
	BatchSize    int
	// MinRowsForValidation gates the holdout split: smaller datasets
	// train on everything.
	MinRowsForValidation int
	ValidationFraction   float64
	Seed                 int64
}

// DefaultConfig returns the standard hyperparameters.
func DefaultConfig() Config {
	return Config{
		HiddenUnits:          16,
		Dropout:              0.2,
		LearningRate:         0.01,
		Epochs:               200,
		BatchSize:            16,
		MinRowsForValidation: 50,
		ValidationFraction:   0.2,
		Seed:                 42,
	}
}

// candidateFeatures is the fixed feature list intersected with columns
// actually observed in a dataset.
func candidateFeatures() []string {
	return []string{
		contracts.ColRevenue,
		contracts.ColOperatingMargin,
		contracts.ColNetMargin,
		contracts.ColROA,
		contracts.ColROE,
		contracts.ColHistoricalGrowthMean,
		contracts.ColHistoricalGrowth,
		contracts.ColDebtToEquity,
	}
}

const (
	// minFeatures is the floor below which training fails.
	minFeatures = 2

	// defaultExpectedReturn imputes rows whose label is missing.
	defaultExpectedReturn = 0.05
)

// Trainer fits one feed-forward regressor per industry dataset and
// persists the model plus its feature scaler.
type Trainer struct {
	modelDir string
	cfg      Config
	logger   *logger.Logger
}

// NewTrainer creates a new model trainer
func NewTrainer(modelDir string, cfg Config, log *logger.Logger) *Trainer {
	return &Trainer{
		modelDir: modelDir,
		cfg:      cfg,
		logger:   log,
	}
}

// Train fits and persists the industry's model. Every failure mode comes
// back in the report; nothing is raised, so the batch run continues to
// the next industry.
func (t *Trainer) Train(ctx context.Context, ds *contracts.IndustryDataset) *contracts.TrainReport {
	if ds == nil || len(ds.Records) == 0 {
		return &contracts.TrainReport{
			Industry: industryOf(ds),
			Status:   contracts.TrainFailed,
			Reason:   contracts.ErrDataUnavailable.Error(),
		}
	}

	report := &contracts.TrainReport{
		Industry: ds.Industry,
		Rows:     len(ds.Records),
	}

	// Feature selection: fixed candidates intersected with observed columns.
	var features []string
	for _, col := range candidateFeatures() {
		if ds.HasColumn(col) {
			features = append(features, col)
		}
	}
	if len(features) < minFeatures {
		report.Status = contracts.TrainFailed
		report.Reason = contracts.ErrInsufficientFeatures.Error()
		t.logger.WithFields(map[string]interface{}{
			"industry": ds.Industry,
			"features": len(features),
		}).Warn("Training failed: insufficient features")
		return report
	}
	report.Features = features

	x := t.featureMatrix(ds, features)
	y, synthetic := t.labels(ds)
	report.LabelIsSynthetic = synthetic

	var scaler StandardScaler
	scaler.Features = features
	xs, err := scaler.FitTransform(x)
	if err != nil {
		report.Status = contracts.TrainFailed
		report.Reason = err.Error()
		return report
	}

	xTrain, yTrain, xVal, yVal := t.split(xs, y)

	net := NewNetwork(len(features), t.cfg.HiddenUnits, t.cfg.Dropout, t.cfg.LearningRate, t.cfg.Seed)
	net.Fit(xTrain, yTrain, t.cfg.Epochs, t.cfg.BatchSize)

	report.TrainLoss = net.Loss(xTrain, yTrain)
	if len(xVal) > 0 {
		report.ValLoss = net.Loss(xVal, yVal)
	}

	w1, b1, w2, b2 := net.Weights()
	artifact := &ModelArtifact{
		Industry:         ds.Industry,
		Features:         features,
		HiddenUnits:      t.cfg.HiddenUnits,
		W1:               w1,
		B1:               b1,
		W2:               w2,
		B2:               b2,
		LabelIsSynthetic: synthetic,
		TrainLoss:        report.TrainLoss,
		ValLoss:          report.ValLoss,
		TrainedAt:        nowUTC(),
	}

	modelPath, err := SaveModel(t.modelDir, artifact)
	if err != nil {
		report.Status = contracts.TrainFailed
		report.Reason = err.Error()
		t.logger.WithError(err).WithField("industry", ds.Industry).Error("Failed to persist model")
		return report
	}
	scalerPath, err := SaveScaler(t.modelDir, ds.Industry, &scaler)
	if err != nil {
		report.Status = contracts.TrainFailed
		report.Reason = err.Error()
		t.logger.WithError(err).WithField("industry", ds.Industry).Error("Failed to persist scaler")
		return report
	}

	report.Status = contracts.TrainSucceeded
	report.ModelPath = modelPath
	report.ScalerPath = scalerPath

	t.logger.WithFields(map[string]interface{}{
		"industry":   ds.Industry,
		"rows":       report.Rows,
		"features":   len(features),
		"train_loss": report.TrainLoss,
		"val_loss":   report.ValLoss,
		"synthetic":  synthetic,
	}).Info("Model trained")

	return report
}

// featureMatrix assembles the selected feature columns, imputing missing
// values with the column mean over observed values.
func (t *Trainer) featureMatrix(ds *contracts.IndustryDataset, features []string) [][]float64 {
	means := make([]float64, len(features))
	for j, col := range features {
		if observed := ds.Column(col); len(observed) > 0 {
			means[j] = stat.Mean(observed, nil)
		}
	}

	x := make([][]float64, len(ds.Records))
	for i := range ds.Records {
		row := make([]float64, len(features))
		for j, col := range features {
			if v, ok := ds.Records[i].Value(col); ok {
				row[j] = v
			} else {
				row[j] = means[j]
			}
		}
		x[i] = row
	}
	return x
}

// labels builds the target vector. When the label column is entirely
// absent the fallback synthesizes one from operating margin plus bounded
// noise, flagged as synthetic so consumers can tell it apart from
// realized returns. Per-row gaps impute the default expected return.
func (t *Trainer) labels(ds *contracts.IndustryDataset) ([]float64, bool) {
	y := make([]float64, len(ds.Records))

	if !ds.HasColumn(contracts.ColFuture6MReturn) {
		rng := rand.New(rand.NewSource(t.cfg.Seed))
		for i := range ds.Records {
			var om float64
			if v, ok := ds.Records[i].Value(contracts.ColOperatingMargin); ok {
				om = v
			}
			y[i] = 0.1*om + (rng.Float64()-0.5)*0.1
		}
		t.logger.WithField("industry", ds.Industry).Warn("No forward-return labels, synthesizing from operating margin")
		return y, true
	}

	for i := range ds.Records {
		if v, ok := ds.Records[i].Value(contracts.ColFuture6MReturn); ok {
			y[i] = v
		} else {
			y[i] = defaultExpectedReturn
		}
	}
	return y, false
}

// split holds out a validation set only when the dataset is large enough.
// The shuffle is seeded, keeping repeated runs deterministic.
func (t *Trainer) split(x [][]float64, y []float64) (xTrain [][]float64, yTrain []float64, xVal [][]float64, yVal []float64) {
	if len(x) < t.cfg.MinRowsForValidation {
		return x, y, nil, nil
	}

	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(t.cfg.Seed))
	rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	valSize := int(float64(len(x)) * t.cfg.ValidationFraction)
	for i, row := range idx {
		if i < valSize {
			xVal = append(xVal, x[row])
			yVal = append(yVal, y[row])
		} else {
			xTrain = append(xTrain, x[row])
			yTrain = append(yTrain, y[row])
		}
	}
	return xTrain, yTrain, xVal, yVal
}

func nowUTC() time.Time { return time.Now().UTC() }

func industryOf(ds *contracts.IndustryDataset) string {
	if ds == nil {
		return ""
	}
	return ds.Industry
}
