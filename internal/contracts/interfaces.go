package contracts

import "context"

// StockDirectory enumerates industries and their member stocks from the
// source database.
type StockDirectory interface {
	ListIndustries(ctx context.Context) ([]string, error)
	ListByIndustry(ctx context.Context, industry string) ([]string, error)
}

// Gateway fetches the four tabular relations for one stock. A missing
// stock or a connectivity failure yields all-empty relations, not an
// error: the batch must keep processing other stocks.
type Gateway interface {
	Fetch(ctx context.Context, stockID string) (*StockRelations, error)
}

// Extractor turns one stock's relations into per-period feature records.
type Extractor interface {
	Extract(ctx context.Context, stockID string, rel *StockRelations) []PeriodRecord
}

// DatasetBuilder assembles and persists one industry's dataset. A nil
// dataset with nil error means "nothing to train" (every stock was empty),
// distinct from a hard failure.
type DatasetBuilder interface {
	Build(ctx context.Context, industry string) (*IndustryDataset, error)
}

// Trainer fits and persists one industry model. Failures come back in the
// report, not as errors.
type Trainer interface {
	Train(ctx context.Context, dataset *IndustryDataset) *TrainReport
}
