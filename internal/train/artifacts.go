package train

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wonny/sectorml/internal/contracts"
	"github.com/wonny/sectorml/internal/dataset"
)

// ModelArtifact is the persisted form of one industry's trained regressor.
type ModelArtifact struct {
	Industry string   `json:"industry"`
	Features []string `json:"features"`

	HiddenUnits int         `json:"hidden_units"`
	W1          [][]float64 `json:"w1"`
	B1          []float64   `json:"b1"`
	W2          []float64   `json:"w2"`
	B2          float64     `json:"b2"`

	LabelIsSynthetic bool    `json:"label_is_synthetic"`
	TrainLoss        float64 `json:"train_loss"`
	ValLoss          float64 `json:"val_loss"`

	TrainedAt time.Time `json:"trained_at"`
}

// Info projects the artifact into its API metadata view.
func (a *ModelArtifact) Info() contracts.ModelInfo {
	return contracts.ModelInfo{
		Industry:         a.Industry,
		Features:         a.Features,
		HiddenUnits:      a.HiddenUnits,
		LabelIsSynthetic: a.LabelIsSynthetic,
		TrainLoss:        a.TrainLoss,
		ValLoss:          a.ValLoss,
		TrainedAt:        a.TrainedAt,
	}
}

// ModelPath returns the model artifact path for an industry under dir.
func ModelPath(dir, industry string) string {
	return filepath.Join(dir, dataset.Slug(industry)+"_model.json")
}

// ScalerPath returns the scaler artifact path for an industry under dir.
func ScalerPath(dir, industry string) string {
	return filepath.Join(dir, dataset.Slug(industry)+"_scaler.json")
}

// SaveModel writes the model artifact, atomically replacing any prior one.
func SaveModel(dir string, artifact *ModelArtifact) (string, error) {
	path := ModelPath(dir, artifact.Industry)
	if err := writeJSON(dir, path, artifact); err != nil {
		return "", err
	}
	return path, nil
}

// SaveScaler writes the scaler artifact, atomically replacing any prior one.
func SaveScaler(dir, industry string, scaler *StandardScaler) (string, error) {
	path := ScalerPath(dir, industry)
	if err := writeJSON(dir, path, scaler); err != nil {
		return "", err
	}
	return path, nil
}

// LoadModel reads a persisted model artifact.
func LoadModel(path string) (*ModelArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var artifact ModelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decode model artifact %s: %w", path, err)
	}
	return &artifact, nil
}

// LoadScaler reads a persisted scaler artifact.
func LoadScaler(path string) (*StandardScaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scaler StandardScaler
	if err := json.Unmarshal(data, &scaler); err != nil {
		return nil, fmt.Errorf("decode scaler artifact %s: %w", path, err)
	}
	return &scaler, nil
}

func writeJSON(dir, path string, v interface{}) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create model dir: %v", contracts.ErrPersistence, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode artifact: %v", contracts.ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", contracts.ErrPersistence, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write artifact: %v", contracts.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %v", contracts.ErrPersistence, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename into place: %v", contracts.ErrPersistence, err)
	}
	return nil
}
