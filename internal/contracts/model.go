package contracts

import "time"

// TrainStatus is the outcome of one industry's training step.
type TrainStatus string

const (
	TrainSucceeded TrainStatus = "succeeded"
	TrainFailed    TrainStatus = "failed"
)

// TrainReport summarizes one training attempt. Failures are reported here,
// never raised: the batch run continues to the next industry.
type TrainReport struct {
	Industry string      `json:"industry"`
	Status   TrainStatus `json:"status"`
	Reason   string      `json:"reason,omitempty"`

	Features []string `json:"features,omitempty"`
	Rows     int      `json:"rows"`

	// LabelIsSynthetic flags datasets where no real forward-return label
	// existed and the fallback formula supplied one.
	LabelIsSynthetic bool `json:"label_is_synthetic"`

	TrainLoss float64 `json:"train_loss"`
	ValLoss   float64 `json:"val_loss,omitempty"`

	ModelPath  string `json:"model_path,omitempty"`
	ScalerPath string `json:"scaler_path,omitempty"`
}

// ModelInfo is the persisted metadata of a trained industry model,
// served by the inspection API.
type ModelInfo struct {
	Industry         string    `json:"industry"`
	Features         []string  `json:"features"`
	HiddenUnits      int       `json:"hidden_units"`
	LabelIsSynthetic bool      `json:"label_is_synthetic"`
	TrainLoss        float64   `json:"train_loss"`
	ValLoss          float64   `json:"val_loss"`
	TrainedAt        time.Time `json:"trained_at"`
}
