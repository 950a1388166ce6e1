package dataset

import (
	"context"

	"github.com/wonny/sectorml/internal/contracts"
	"github.com/wonny/sectorml/pkg/logger"
)

// Builder assembles one industry's dataset: it iterates the industry's
// stocks, extracts per-period records from each, concatenates the
// non-empty results and persists the unioned table.
type Builder struct {
	directory contracts.StockDirectory
	gateway   contracts.Gateway
	extractor contracts.Extractor
	outputDir string
	logger    *logger.Logger
}

// NewBuilder creates a new industry dataset builder
func NewBuilder(
	directory contracts.StockDirectory,
	gateway contracts.Gateway,
	extractor contracts.Extractor,
	outputDir string,
	log *logger.Logger,
) *Builder {
	return &Builder{
		directory: directory,
		gateway:   gateway,
		extractor: extractor,
		outputDir: outputDir,
		logger:    log,
	}
}

// Build returns the industry's dataset, or nil (with a logged warning)
// when the stock list is empty or every stock yielded no records. That nil
// means "nothing to train", distinct from a hard failure.
func (b *Builder) Build(ctx context.Context, industry string) (*contracts.IndustryDataset, error) {
	stocks, err := b.directory.ListByIndustry(ctx, industry)
	if err != nil {
		return nil, err
	}
	if len(stocks) == 0 {
		b.logger.WithField("industry", industry).Warn("No stocks tagged with industry")
		return nil, nil
	}

	ds := &contracts.IndustryDataset{Industry: industry}
	for _, stockID := range stocks {
		rel, err := b.gateway.Fetch(ctx, stockID)
		if err != nil {
			// The gateway converts connectivity problems to empty
			// relations; anything surfacing here is unexpected but
			// still only skips the one stock.
			b.logger.WithError(err).WithField("stock_id", stockID).Warn("Fetch failed, stock skipped")
			continue
		}

		records := b.extractor.Extract(ctx, stockID, rel)
		if len(records) == 0 {
			b.logger.WithField("stock_id", stockID).Debug("Stock yielded no records")
			continue
		}
		ds.Records = append(ds.Records, records...)
	}

	if len(ds.Records) == 0 {
		b.logger.WithField("industry", industry).Warn("Industry yielded no training data")
		return nil, nil
	}

	path, err := Write(b.outputDir, ds)
	if err != nil {
		return nil, err
	}

	b.logger.WithFields(map[string]interface{}{
		"industry": industry,
		"stocks":   ds.StockCount(),
		"records":  len(ds.Records),
		"path":     path,
	}).Info("Industry dataset written")

	return ds, nil
}
