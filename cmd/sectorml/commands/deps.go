package commands

import (
	"fmt"

	"github.com/wonny/sectorml/internal/benchmark"
	"github.com/wonny/sectorml/internal/dataset"
	"github.com/wonny/sectorml/internal/extract"
	"github.com/wonny/sectorml/internal/pipeline"
	"github.com/wonny/sectorml/internal/store"
	"github.com/wonny/sectorml/internal/train"
	"github.com/wonny/sectorml/pkg/config"
	"github.com/wonny/sectorml/pkg/database"
	"github.com/wonny/sectorml/pkg/logger"
	"github.com/wonny/sectorml/pkg/redis"
)

// deps bundles the shared wiring every command starts from.
type deps struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *database.DB
	rdb    *redis.Client
	stocks *store.StockRepository
}

func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, relation cache disabled")
		rdb = nil
	}

	return &deps{
		cfg:    cfg,
		log:    log,
		db:     db,
		rdb:    rdb,
		stocks: store.NewStockRepository(db.Pool),
	}, nil
}

func (d *deps) close() {
	if d.rdb != nil {
		_ = d.rdb.Close()
	}
	d.db.Close()
}

// gateway assembles the data-access gateway with the configured cache and
// fetch pacing.
func (d *deps) gateway() *store.Gateway {
	opts := []store.GatewayOption{
		store.WithRateLimit(d.cfg.Pipeline.FetchRate),
	}
	if d.rdb != nil && d.rdb.Enabled() {
		opts = append(opts, store.WithCache(redis.NewCache(d.rdb, "sectorml"), d.cfg.Redis.TTL))
	}

	return store.NewGateway(
		d.stocks,
		store.NewLineItemRepository(d.db.Pool),
		store.NewPriceRepository(d.db.Pool),
		d.log,
		opts...,
	)
}

func (d *deps) builder() *dataset.Builder {
	return dataset.NewBuilder(
		d.stocks,
		d.gateway(),
		extract.NewExtractor(d.log),
		d.cfg.Pipeline.OutputDir,
		d.log,
	)
}

func (d *deps) trainer() *train.Trainer {
	return train.NewTrainer(d.cfg.Pipeline.ModelDir, train.DefaultConfig(), d.log)
}

func (d *deps) orchestrator() *pipeline.Orchestrator {
	return pipeline.NewOrchestrator(
		d.stocks,
		d.builder(),
		d.trainer(),
		benchmark.NewAggregator(d.log),
		d.cfg.Pipeline.OutputDir,
		d.cfg.Pipeline.LegacyBenchmarkDir,
		d.log,
	)
}
