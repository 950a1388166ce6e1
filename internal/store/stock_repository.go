package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sectorml/internal/contracts"
)

// StockRepository reads static stock metadata from the source database.
type StockRepository struct {
	pool *pgxpool.Pool
}

// NewStockRepository creates a new stock repository
func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

// ListIndustries returns all distinct non-empty industry names.
func (r *StockRepository) ListIndustries(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT industry
		FROM stock_attributes
		WHERE industry IS NOT NULL AND industry <> ''
		ORDER BY industry
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var industries []string
	for rows.Next() {
		var industry string
		if err := rows.Scan(&industry); err != nil {
			return nil, err
		}
		industries = append(industries, industry)
	}
	return industries, rows.Err()
}

// ListByIndustry returns the stock identifiers tagged with an industry.
func (r *StockRepository) ListByIndustry(ctx context.Context, industry string) ([]string, error) {
	query := `
		SELECT stock_id
		FROM stock_attributes
		WHERE industry = $1
		ORDER BY stock_id
	`

	rows, err := r.pool.Query(ctx, query, industry)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		stocks = append(stocks, id)
	}
	return stocks, rows.Err()
}

// GetAttributes returns a stock's static attributes, or nil when the stock
// carries none. Absence is not an error.
func (r *StockRepository) GetAttributes(ctx context.Context, stockID string) (*contracts.StockAttributes, error) {
	query := `
		SELECT stock_id, COALESCE(industry, ''), shares_outstanding, beta
		FROM stock_attributes
		WHERE stock_id = $1
		LIMIT 1
	`

	var attrs contracts.StockAttributes
	err := r.pool.QueryRow(ctx, query, stockID).Scan(
		&attrs.StockID, &attrs.Industry, &attrs.SharesOutstanding, &attrs.Beta,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attrs, nil
}
