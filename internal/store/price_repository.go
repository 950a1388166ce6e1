package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sectorml/internal/contracts"
)

// PriceRepository reads daily closing prices from the source database.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetHistory returns a stock's full price history ordered by date
// ascending. Source ordering is not trusted; the extractor sorts again
// before computing labels.
func (r *PriceRepository) GetHistory(ctx context.Context, stockID string) ([]contracts.PriceRow, error) {
	query := `
		SELECT stock_id, date, close
		FROM prices
		WHERE stock_id = $1
		ORDER BY date
	`

	rows, err := r.pool.Query(ctx, query, stockID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []contracts.PriceRow
	for rows.Next() {
		var p contracts.PriceRow
		if err := rows.Scan(&p.StockID, &p.Date, &p.Close); err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}
