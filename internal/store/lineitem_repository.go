package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sectorml/internal/contracts"
)

// Statement identifies one of the three financial-statement relations.
type Statement string

const (
	StatementIncome   Statement = "income"
	StatementBalance  Statement = "balance"
	StatementCashFlow Statement = "cashflow"
)

var statementTables = map[Statement]string{
	StatementIncome:   "income_items",
	StatementBalance:  "balance_items",
	StatementCashFlow: "cashflow_items",
}

// LineItemRepository reads statement line items from the source database.
// Deployments tag line items under either a "type" or a "metric_type"
// column; the repository discovers which name each table carries once and
// caches the answer.
type LineItemRepository struct {
	pool *pgxpool.Pool

	mu         sync.Mutex
	tagColumns map[Statement]string
}

// NewLineItemRepository creates a new line-item repository
func NewLineItemRepository(pool *pgxpool.Pool) *LineItemRepository {
	return &LineItemRepository{
		pool:       pool,
		tagColumns: make(map[Statement]string),
	}
}

// GetItems returns all line items of one statement for a stock, ordered by
// date ascending.
func (r *LineItemRepository) GetItems(ctx context.Context, stockID string, statement Statement) ([]contracts.LineItemRow, error) {
	table, ok := statementTables[statement]
	if !ok {
		return nil, fmt.Errorf("unknown statement %q", statement)
	}

	tagCol, err := r.tagColumn(ctx, statement, table)
	if err != nil {
		return nil, err
	}

	// table and tagCol both come from fixed internal sets, never from input.
	query := fmt.Sprintf(`
		SELECT stock_id, date, COALESCE(%s, ''), COALESCE(value::text, '')
		FROM %s
		WHERE stock_id = $1
		ORDER BY date, %s
	`, tagCol, table, tagCol)

	rows, err := r.pool.Query(ctx, query, stockID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []contracts.LineItemRow
	for rows.Next() {
		var item contracts.LineItemRow
		var tag string
		if err := rows.Scan(&item.StockID, &item.Date, &tag, &item.Value); err != nil {
			return nil, err
		}
		if tagCol == "metric_type" {
			item.MetricType = tag
		} else {
			item.Type = tag
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// tagColumn resolves the item-type column name for one statement table.
func (r *LineItemRepository) tagColumn(ctx context.Context, statement Statement, table string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if col, ok := r.tagColumns[statement]; ok {
		return col, nil
	}

	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = $1 AND column_name IN ('type', 'metric_type')
		ORDER BY column_name DESC
		LIMIT 1
	`

	var col string
	if err := r.pool.QueryRow(ctx, query, table).Scan(&col); err != nil {
		return "", fmt.Errorf("resolve tag column for %s: %w", table, err)
	}

	r.tagColumns[statement] = col
	return col, nil
}
