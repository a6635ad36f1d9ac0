package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists price points in a price_points table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const pricePointColumns = `
	id, product_name_raw, product_name_normalized, store_name, store_name_normalized,
	price, currency, unit, quantity, price_per_unit, previous_price,
	recorded_at, source_receipt_id, match_type, match_confidence
`

func scanPricePoint(row pgx.Row) (PricePoint, error) {
	var pp PricePoint
	err := row.Scan(
		&pp.ID, &pp.ProductNameRaw, &pp.ProductNameNormalized, &pp.StoreName, &pp.StoreNameNormalized,
		&pp.Price, &pp.Currency, &pp.Unit, &pp.Quantity, &pp.PricePerUnit, &pp.PreviousPrice,
		&pp.RecordedAt, &pp.SourceReceiptID, &pp.MatchType, &pp.MatchConfidence,
	)
	return pp, err
}

func (s *PostgresStore) Insert(ctx context.Context, pp PricePoint) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO price_points (
			id, product_name_raw, product_name_normalized, store_name, store_name_normalized,
			price, currency, unit, quantity, price_per_unit, previous_price,
			recorded_at, source_receipt_id, match_type, match_confidence
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, pp.ID, pp.ProductNameRaw, pp.ProductNameNormalized, pp.StoreName, pp.StoreNameNormalized,
		pp.Price, pp.Currency, pp.Unit, pp.Quantity, pp.PricePerUnit, pp.PreviousPrice,
		pp.RecordedAt, pp.SourceReceiptID, pp.MatchType, pp.MatchConfidence)
	if err != nil {
		return fmt.Errorf("failed to insert price point: %w", err)
	}
	return nil
}

func (s *PostgresStore) LatestByProduct(ctx context.Context, storeKey, normalizedName string) (*PricePoint, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+pricePointColumns+`
		FROM price_points
		WHERE store_name_normalized = $1 AND product_name_normalized = $2
		ORDER BY recorded_at DESC
		LIMIT 1
	`, storeKey, normalizedName)

	pp, err := scanPricePoint(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying latest price point: %w", err)
	}
	return &pp, nil
}

func (s *PostgresStore) RecentDistinctProducts(ctx context.Context, storeKey string, limit int) ([]PricePoint, error) {
	// DISTINCT ON orders by product name first, so the limit has to be
	// applied after re-sorting by recency or it would cap the candidate
	// set alphabetically instead of keeping the newest products.
	rows, err := s.pool.Query(ctx, `
		SELECT * FROM (
			SELECT DISTINCT ON (product_name_normalized) `+pricePointColumns+`
			FROM price_points
			WHERE store_name_normalized = $1
			ORDER BY product_name_normalized, recorded_at DESC
		) latest
		ORDER BY recorded_at DESC
		LIMIT $2
	`, storeKey, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent products: %w", err)
	}
	defer rows.Close()

	return collectPricePoints(rows)
}

func (s *PostgresStore) RecentWindow(ctx context.Context, limit int) ([]PricePoint, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+pricePointColumns+`
		FROM price_points
		ORDER BY recorded_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent window: %w", err)
	}
	defer rows.Close()

	return collectPricePoints(rows)
}

func (s *PostgresStore) History(ctx context.Context, storeKey, normalizedName string, limit int) ([]PricePoint, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+pricePointColumns+`
		FROM price_points
		WHERE store_name_normalized = $1 AND product_name_normalized = $2
		ORDER BY recorded_at DESC
		LIMIT $3
	`, storeKey, normalizedName, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying price history: %w", err)
	}
	defer rows.Close()

	return collectPricePoints(rows)
}

func collectPricePoints(rows pgx.Rows) ([]PricePoint, error) {
	points := make([]PricePoint, 0)
	for rows.Next() {
		pp, err := scanPricePoint(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning price point: %w", err)
		}
		points = append(points, pp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading price points: %w", err)
	}
	return points, nil
}

// EnsureSchema creates the price_points table if it does not exist.
// Used by the integration tests and by fresh deployments.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS price_points (
			id TEXT PRIMARY KEY,
			product_name_raw TEXT NOT NULL,
			product_name_normalized TEXT NOT NULL,
			store_name TEXT NOT NULL,
			store_name_normalized TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			currency TEXT NOT NULL,
			unit TEXT NOT NULL DEFAULT '',
			quantity DOUBLE PRECISION NOT NULL DEFAULT 1,
			price_per_unit DOUBLE PRECISION NOT NULL,
			previous_price DOUBLE PRECISION,
			recorded_at TIMESTAMPTZ NOT NULL,
			source_receipt_id TEXT NOT NULL DEFAULT '',
			match_type TEXT NOT NULL DEFAULT 'none',
			match_confidence DOUBLE PRECISION NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_price_points_store_product
			ON price_points (store_name_normalized, product_name_normalized, recorded_at DESC);
		CREATE INDEX IF NOT EXISTS idx_price_points_recorded_at
			ON price_points (recorded_at DESC)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure price_points schema: %w", err)
	}
	return nil
}
