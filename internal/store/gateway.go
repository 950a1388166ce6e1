package store

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/sectorml/internal/contracts"
	"github.com/wonny/sectorml/pkg/logger"
	"github.com/wonny/sectorml/pkg/redis"
)

// Gateway bundles the per-stock relation reads behind a single fetch.
// A connectivity error for any relation is logged and surfaces as an empty
// relation, never as an error: the industry loop must keep processing
// other stocks.
type Gateway struct {
	stocks    *StockRepository
	lineItems *LineItemRepository
	prices    *PriceRepository

	cache    *redis.Cache
	cacheTTL time.Duration
	limiter  *rate.Limiter
	logger   *logger.Logger
}

// GatewayOption configures optional gateway behavior.
type GatewayOption func(*Gateway)

// WithCache enables caching of fetched relations.
func WithCache(cache *redis.Cache, ttl time.Duration) GatewayOption {
	return func(g *Gateway) {
		g.cache = cache
		g.cacheTTL = ttl
	}
}

// WithRateLimit paces fetches at qps queries per second.
func WithRateLimit(qps float64) GatewayOption {
	return func(g *Gateway) {
		if qps > 0 {
			g.limiter = rate.NewLimiter(rate.Limit(qps), 1)
		}
	}
}

// NewGateway creates a new data-access gateway
func NewGateway(
	stocks *StockRepository,
	lineItems *LineItemRepository,
	prices *PriceRepository,
	log *logger.Logger,
	opts ...GatewayOption,
) *Gateway {
	g := &Gateway{
		stocks:    stocks,
		lineItems: lineItems,
		prices:    prices,
		logger:    log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Fetch returns the four relations plus optional attributes for one stock.
// Each relation is possibly empty, never absent.
func (g *Gateway) Fetch(ctx context.Context, stockID string) (*contracts.StockRelations, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			g.logger.WithError(err).WithField("stock_id", stockID).Warn("Fetch pacing aborted, returning empty relations")
			return &contracts.StockRelations{}, nil
		}
	}

	rel := &contracts.StockRelations{}

	if g.cache != nil {
		found, err := g.cache.Get(ctx, "relations:"+stockID, rel)
		if err == nil && found {
			return rel, nil
		}
	}

	rel.Income = g.fetchItems(ctx, stockID, StatementIncome)
	rel.BalanceSheet = g.fetchItems(ctx, stockID, StatementBalance)
	rel.CashFlow = g.fetchItems(ctx, stockID, StatementCashFlow)

	prices, err := g.prices.GetHistory(ctx, stockID)
	if err != nil {
		g.logger.WithError(err).WithField("stock_id", stockID).Warn("Failed to fetch price history")
	}
	rel.Prices = prices

	attrs, err := g.stocks.GetAttributes(ctx, stockID)
	if err != nil {
		g.logger.WithError(err).WithField("stock_id", stockID).Warn("Failed to fetch stock attributes")
	} else {
		rel.Attributes = attrs
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, "relations:"+stockID, rel, g.cacheTTL); err != nil {
			g.logger.WithError(err).WithField("stock_id", stockID).Debug("Failed to cache relations")
		}
	}

	return rel, nil
}

func (g *Gateway) fetchItems(ctx context.Context, stockID string, statement Statement) []contracts.LineItemRow {
	items, err := g.lineItems.GetItems(ctx, stockID, statement)
	if err != nil {
		g.logger.WithError(err).WithFields(map[string]interface{}{
			"stock_id":  stockID,
			"statement": string(statement),
		}).Warn("Failed to fetch line items")
		return nil
	}
	return items
}
